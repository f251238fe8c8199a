package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/utils"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatTabular Format = "excel"
	FormatJSON    Format = "json"
)

// utf8BOM lets spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Header is the fixed column order of every tabular export.
var Header = []string{
	"ID", "Name", "Email", "Phone", "Stock", "Purchase Price", "Sell Price",
	"Loss", "IP", "Country", "Remarks", "Registration Date",
}

// ParseFormat accepts the format names used by the admin screens. An empty
// value means csv.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, true
	case "excel", "xls", "tabular":
		return FormatTabular, true
	case "json":
		return FormatJSON, true
	default:
		return "", false
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatTabular:
		return "xls"
	case FormatJSON:
		return "json"
	default:
		return "csv"
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatTabular:
		return "application/vnd.ms-excel; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename follows {company}-shareholders-{YYYY-MM-DD}.{ext}.
func Filename(company string, f Format, at time.Time) string {
	return fmt.Sprintf("%s-shareholders-%s.%s", company, at.UTC().Format(time.DateOnly), f.Extension())
}

// Write serializes records in the given order. It never queries anything:
// selecting the records is the caller's job.
func Write(w io.Writer, f Format, company string, records []*entity.Shareholder, at time.Time) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatTabular:
		return writeTabular(w, records)
	case FormatJSON:
		return writeJSON(w, company, records, at)
	default:
		return fmt.Errorf("export: unsupported format %q", f)
	}
}

func Bytes(f Format, company string, records []*entity.Shareholder, at time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, company, records, at); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formulaPrefixes make spreadsheet applications evaluate a cell.
const formulaPrefixes = "=+-@\t\r"

// freeTextColumns are the submitter controlled columns of Header that are
// not numbers or phone numbers.
var freeTextColumns = []int{1, 2, 9, 10}

// spreadsheetRow is row with free text cells that would start a formula
// prefixed by a quote. Used by the csv and tabular formats, not json.
func spreadsheetRow(r *entity.Shareholder) []string {
	fields := row(r)
	for _, i := range freeTextColumns {
		fields[i] = neutralizeFormula(fields[i])
	}
	return fields
}

func neutralizeFormula(v string) string {
	if v != "" && strings.ContainsRune(formulaPrefixes, rune(v[0])) {
		return "'" + v
	}
	return v
}

func row(r *entity.Shareholder) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Name,
		r.Email,
		r.Phone,
		strconv.FormatInt(r.ShareCount, 10),
		r.PurchasePrice.StringFixed(2),
		r.SellPrice.StringFixed(2),
		r.Loss.StringFixed(2),
		r.IPAddress,
		r.Country,
		r.Remarks,
		utils.FormatDateTime(r.CreatedAt),
	}
}
