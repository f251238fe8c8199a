package repository

import (
	"context"
	"errors"
	"strings"

	"classaction/cmd/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrDuplicate reports that the email or phone is already registered for the company.
var ErrDuplicate = errors.New("repository: email or phone already registered for company")

// ShareholderChanges holds the editable columns of a record. Nil fields are left untouched.
type ShareholderChanges struct {
	Name          *string
	Email         *string
	Phone         *string
	ShareCount    *int64
	PurchasePrice *decimal.Decimal
	SellPrice     *decimal.Decimal
	Loss          *decimal.Decimal
	Remarks       *string
	UpdatedAt     int64
}

func (c *ShareholderChanges) columns() map[string]any {
	cols := map[string]any{"updated_at": c.UpdatedAt}
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Email != nil {
		cols["email"] = *c.Email
	}
	if c.Phone != nil {
		cols["phone"] = *c.Phone
	}
	if c.ShareCount != nil {
		cols["share_count"] = *c.ShareCount
	}
	if c.PurchasePrice != nil {
		cols["purchase_price"] = *c.PurchasePrice
	}
	if c.SellPrice != nil {
		cols["sell_price"] = *c.SellPrice
	}
	if c.Loss != nil {
		cols["loss"] = *c.Loss
	}
	if c.Remarks != nil {
		cols["remarks"] = *c.Remarks
	}
	return cols
}

// ShareholderStats aggregates the records of one company.
type ShareholderStats struct {
	Company       string
	Shareholders  int64
	Shares        int64
	Participation decimal.Decimal
}

const statsColumns = "COUNT(*) AS shareholders, " +
	"CAST(COALESCE(SUM(share_count), 0) AS BIGINT) AS shares, " +
	"COALESCE(SUM(purchase_price * share_count), 0) AS participation"

type DefaultShareholderRepository struct {
	db *gorm.DB
}

func NewShareholderRepository(db *gorm.DB) *DefaultShareholderRepository {
	return &DefaultShareholderRepository{db: db}
}

func (d *DefaultShareholderRepository) model(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Model(&entity.Shareholder{})
}

// Insert persists a new record and fills in its id.
func (d *DefaultShareholderRepository) Insert(ctx context.Context, record *entity.Shareholder) error {
	err := d.db.WithContext(ctx).Create(record).Error
	return translate(err)
}

func (d *DefaultShareholderRepository) FindMany(ctx context.Context, filter ShareholderFilter) ([]*entity.Shareholder, int64, error) {
	var total int64
	err := d.model(ctx).
		Scopes(scopeCompany(filter.Company), scopeSearch(filter.Search)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	records := make([]*entity.Shareholder, 0)
	if total == 0 {
		return records, 0, nil
	}

	err = d.db.WithContext(ctx).
		Scopes(
			scopeCompany(filter.Company),
			scopeSearch(filter.Search),
			scopeOrder(filter.SortField, filter.SortDir),
			scopePage(filter.Limit, filter.Offset),
		).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindAll returns every record matched by the filter, ignoring paging.
func (d *DefaultShareholderRepository) FindAll(ctx context.Context, filter ShareholderFilter) ([]*entity.Shareholder, error) {
	records := make([]*entity.Shareholder, 0)
	err := d.db.WithContext(ctx).
		Scopes(
			scopeCompany(filter.Company),
			scopeSearch(filter.Search),
			scopeOrder(filter.SortField, filter.SortDir),
		).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (d *DefaultShareholderRepository) FindByID(ctx context.Context, id int64, company string) (*entity.Shareholder, error) {
	var record entity.Shareholder
	err := d.db.WithContext(ctx).
		Scopes(scopeCompany(company)).
		Where("id = ?", id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByIDs returns the records of the company among ids, in id order.
// Ids of other companies are silently skipped.
func (d *DefaultShareholderRepository) FindByIDs(ctx context.Context, ids []int64, company string) ([]*entity.Shareholder, error) {
	records := make([]*entity.Shareholder, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	err := d.db.WithContext(ctx).
		Scopes(scopeCompany(company)).
		Where("id IN ?", ids).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update applies the changes to the record and reports whether it exists.
func (d *DefaultShareholderRepository) Update(ctx context.Context, id int64, company string, changes *ShareholderChanges) (bool, error) {
	res := d.model(ctx).
		Scopes(scopeCompany(company)).
		Where("id = ?", id).
		Updates(changes.columns())
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the record and reports whether anything was deleted.
func (d *DefaultShareholderRepository) Delete(ctx context.Context, id int64, company string) (bool, error) {
	res := d.db.WithContext(ctx).
		Scopes(scopeCompany(company)).
		Where("id = ?", id).
		Delete(&entity.Shareholder{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *DefaultShareholderRepository) DeleteMany(ctx context.Context, ids []int64, company string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res := d.db.WithContext(ctx).
		Scopes(scopeCompany(company)).
		Where("id IN ?", ids).
		Delete(&entity.Shareholder{})
	return res.RowsAffected, res.Error
}

// DeleteOlderThan removes every record, of any company, created before cutoff (epoch millis).
func (d *DefaultShareholderRepository) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.Shareholder{})
	return res.RowsAffected, res.Error
}

func (d *DefaultShareholderRepository) CountTotal(ctx context.Context, company string) (int64, error) {
	var total int64
	err := d.model(ctx).Scopes(scopeCompany(company)).Count(&total).Error
	return total, err
}

func (d *DefaultShareholderRepository) SumShares(ctx context.Context, company string) (int64, error) {
	var shares int64
	err := d.model(ctx).
		Scopes(scopeCompany(company)).
		Select("CAST(COALESCE(SUM(share_count), 0) AS BIGINT)").
		Row().
		Scan(&shares)
	return shares, err
}

func (d *DefaultShareholderRepository) SumParticipation(ctx context.Context, company string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := d.model(ctx).
		Scopes(scopeCompany(company)).
		Select("COALESCE(SUM(purchase_price * share_count), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// Stats computes count, shares and participation of a company in one query.
func (d *DefaultShareholderRepository) Stats(ctx context.Context, company string) (*ShareholderStats, error) {
	var stats ShareholderStats
	err := d.model(ctx).
		Scopes(scopeCompany(company)).
		Select(statsColumns).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	stats.Company = company
	stats.Participation = stats.Participation.Round(2)
	return &stats, nil
}

// StatsByCompany returns the aggregates of every company that has records, sorted by company.
func (d *DefaultShareholderRepository) StatsByCompany(ctx context.Context) ([]*ShareholderStats, error) {
	stats := make([]*ShareholderStats, 0)
	err := d.model(ctx).
		Select("company, " + statsColumns).
		Group("company").
		Order("company").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	for _, s := range stats {
		s.Participation = s.Participation.Round(2)
	}
	return stats, nil
}

// FindDuplicate returns the id of a record of the company using the email
// or the phone, or 0 when there is none. excludeID skips one record so an
// edit does not collide with itself.
func (d *DefaultShareholderRepository) FindDuplicate(ctx context.Context, email, phone, company string, excludeID int64) (int64, error) {
	var ids []int64
	q := d.model(ctx).
		Scopes(scopeCompany(company)).
		Where("(email = ? OR phone = ?)", email, phone)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	err := q.Order("id").Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (d *DefaultShareholderRepository) ListCompanies(ctx context.Context) ([]string, error) {
	companies := make([]string, 0)
	err := d.model(ctx).
		Distinct("company").
		Order("company").
		Pluck("company", &companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	// drivers without an error translator
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return ErrDuplicate
	}
	return err
}
