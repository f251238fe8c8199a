package export

import (
	"encoding/json"
	"io"
	"time"

	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/utils"
)

type jsonRecord struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Stock            int64  `json:"stock"`
	PurchasePrice    string `json:"purchase_price"`
	SellPrice        string `json:"sell_price"`
	Loss             string `json:"loss"`
	IP               string `json:"ip"`
	Country          string `json:"country"`
	Remarks          string `json:"remarks"`
	RegistrationDate string `json:"registration_date"`
}

type jsonDocument struct {
	ExportDate   string        `json:"export_date"`
	Company      string        `json:"company"`
	TotalRecords int           `json:"total_records"`
	Data         []*jsonRecord `json:"data"`
}

func writeJSON(w io.Writer, company string, records []*entity.Shareholder, at time.Time) error {
	doc := jsonDocument{
		ExportDate:   at.UTC().Format(utils.DateTimeLayout),
		Company:      company,
		TotalRecords: len(records),
		Data:         make([]*jsonRecord, len(records)),
	}

	for i, r := range records {
		doc.Data[i] = &jsonRecord{
			ID:               r.ID,
			Name:             r.Name,
			Email:            r.Email,
			Phone:            r.Phone,
			Stock:            r.ShareCount,
			PurchasePrice:    r.PurchasePrice.StringFixed(2),
			SellPrice:        r.SellPrice.StringFixed(2),
			Loss:             r.Loss.StringFixed(2),
			IP:               r.IPAddress,
			Country:          r.Country,
			Remarks:          r.Remarks,
			RegistrationDate: utils.FormatDateTime(r.CreatedAt),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}
