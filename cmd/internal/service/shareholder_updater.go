package service

import (
	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// shareholderUpdater acts as a "Change Set" context.
// It only records the fields whose value actually changes.
type shareholderUpdater struct {
	target  *entity.Shareholder
	changes repository.ShareholderChanges
	fields  []string
}

func newShareholderUpdater(target *entity.Shareholder) *shareholderUpdater {
	return &shareholderUpdater{target: target}
}

func (u *shareholderUpdater) apply(req *contract.UpdateShareholderRequest) {
	u.setString("name", req.Name, u.target.Name, &u.changes.Name)
	u.setString("email", req.Email, u.target.Email, &u.changes.Email)
	u.setString("phone", req.Phone, u.target.Phone, &u.changes.Phone)
	u.setShares(req.ShareCount)
	u.setAmount("purchase_price", req.PurchasePrice, u.target.PurchasePrice, &u.changes.PurchasePrice)
	u.setAmount("sell_price", req.SellPrice, u.target.SellPrice, &u.changes.SellPrice)
	u.setAmount("loss", req.Loss, u.target.Loss, &u.changes.Loss)
	u.setString("remarks", req.Remarks, u.target.Remarks, &u.changes.Remarks)
}

func (u *shareholderUpdater) dirty() bool {
	return len(u.fields) > 0
}

func (u *shareholderUpdater) contactChanged() bool {
	return u.changes.Email != nil || u.changes.Phone != nil
}

// contact returns the email and phone the record will have after the update.
func (u *shareholderUpdater) contact() (string, string) {
	email, phone := u.target.Email, u.target.Phone
	if u.changes.Email != nil {
		email = *u.changes.Email
	}
	if u.changes.Phone != nil {
		phone = *u.changes.Phone
	}
	return email, phone
}

func (u *shareholderUpdater) setString(field string, newVal *string, current string, dst **string) {
	if newVal == nil || *newVal == current {
		return
	}

	v := *newVal
	*dst = &v
	u.fields = append(u.fields, field)
}

// setShares coerces unreadable input to 0, like intake does.
func (u *shareholderUpdater) setShares(newVal *contract.LooseNumber) {
	if newVal == nil {
		return
	}

	v, _ := newVal.Int()
	if v == u.target.ShareCount {
		return
	}

	u.changes.ShareCount = &v
	u.fields = append(u.fields, "share_count")
}

func (u *shareholderUpdater) setAmount(field string, newVal *contract.LooseNumber, current decimal.Decimal, dst **decimal.Decimal) {
	if newVal == nil {
		return
	}

	v, _ := newVal.Amount()
	if v.Equal(current) {
		return
	}

	*dst = &v
	u.fields = append(u.fields, field)
}
