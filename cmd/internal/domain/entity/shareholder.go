package entity

import "github.com/shopspring/decimal"

// UnknownProvenance is stored when the client address or country cannot be resolved.
const UnknownProvenance = "Unknown"

type Shareholder struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Company       string          `gorm:"not null;size:50;index;index:idx_shareholder_email_company,unique,priority:2;index:idx_shareholder_phone_company,unique,priority:2"`
	Name          string          `gorm:"not null;size:255"`
	Email         string          `gorm:"not null;size:255;index:idx_shareholder_email_company,unique,priority:1"`
	Phone         string          `gorm:"not null;size:50;index:idx_shareholder_phone_company,unique,priority:1"`
	ShareCount    int64           `gorm:"not null;default:0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	SellPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Loss          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	IPAddress     string          `gorm:"not null;size:45"`
	Country       string          `gorm:"not null;size:100"`
	Remarks       string          `gorm:"type:text"`
	CreatedAt     int64           `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt     int64           `gorm:"not null;autoUpdateTime:false"`
}

func (Shareholder) TableName() string {
	return "shareholders"
}

// Participation is the monetary weight of the holding: purchase price times share count.
func (s *Shareholder) Participation() decimal.Decimal {
	return s.PurchasePrice.Mul(decimal.NewFromInt(s.ShareCount))
}
