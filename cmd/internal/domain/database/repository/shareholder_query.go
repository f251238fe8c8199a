package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	defaultSortColumn = "id"
)

// sortColumns maps every accepted sort key to its column. Sort input comes
// straight from the query string, so nothing outside this map ever reaches
// the ORDER BY clause.
var sortColumns = map[string]string{
	"id":               "id",
	"name":             "name",
	"stockholder_name": "name",
	"email":            "email",
	"sharecount":       "share_count",
	"share_count":      "share_count",
	"stock":            "share_count",
	"purchaseprice":    "purchase_price",
	"purchase_price":   "purchase_price",
	"sellprice":        "sell_price",
	"sell_price":       "sell_price",
	"loss":             "loss",
	"createdat":        "created_at",
	"created_at":       "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ShareholderFilter selects records of one company. A zero Limit returns
// every matching record.
type ShareholderFilter struct {
	Company   string
	Search    string
	SortField string
	SortDir   string
	Limit     int
	Offset    int
}

// ResolveSort returns the column and direction a sort request maps to.
// Unknown fields fall back to id, unknown directions to descending.
func ResolveSort(field, dir string) (string, bool) {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		column = defaultSortColumn
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case SortAsc, "ascending":
		return column, false
	default:
		return column, true
	}
}

func scopeCompany(company string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company = ?", company)
	}
}

func scopeSearch(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}

		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
}

func scopeOrder(field, dir string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, desc := ResolveSort(field, dir)
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		if column != defaultSortColumn {
			// ties keep a stable page order
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: defaultSortColumn}, Desc: desc})
		}
		return db
	}
}

func scopePage(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		if offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}
