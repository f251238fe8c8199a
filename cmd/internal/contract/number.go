package contract

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxInputLength = 64
	// rescaling a decimal costs big.Int work proportional to the exponent
	minExponent = -20
	maxExponent = 20
)

var (
	maxShareCount = decimal.NewFromInt(1<<63 - 1)
	// decimal(15,2) columns
	maxAmount = decimal.RequireFromString("9999999999999.99")
)

// LooseNumber keeps an optional numeric input exactly as submitted. It
// accepts JSON numbers, JSON strings, null and form values, and never fails
// to bind: turning it into a number is left to Int and Amount.
type LooseNumber string

func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = LooseNumber(s)
	default:
		*n = LooseNumber(raw)
	}
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form and query values.
func (n *LooseNumber) UnmarshalParam(param string) error {
	*n = LooseNumber(param)
	return nil
}

func (n LooseNumber) Present() bool {
	return strings.TrimSpace(string(n)) != ""
}

// Int returns the value as a whole number of shares, dropping any
// fraction. Empty input is 0. ok is false when a value was given but is
// not a usable non-negative number, in which case 0 is returned.
func (n LooseNumber) Int() (int64, bool) {
	d, ok := n.parse()
	if !ok {
		return 0, false
	}

	d = d.Truncate(0)
	if d.GreaterThan(maxShareCount) {
		return 0, false
	}
	return d.IntPart(), true
}

// Amount returns the value rounded to cents, with the same rules as Int.
func (n LooseNumber) Amount() (decimal.Decimal, bool) {
	d, ok := n.parse()
	if !ok {
		return decimal.Zero, false
	}

	d = d.Round(2)
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, false
	}
	return d, true
}

func (n LooseNumber) parse() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return decimal.Zero, true
	}
	if len(s) > maxInputLength {
		return decimal.Zero, false
	}

	// "1 250,50" and "1,250.50" are both common in submissions
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return decimal.Zero, false
	}
	return d, true
}
