// Package formvalue converts raw form input into typed values. Anything that
// does not parse as a number becomes zero; callers never see NaN or an error
// from this package.
package formvalue

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/shopspring/decimal"
)

var currencySymbols = []string{"$", "₹"}

// Field is a raw form value. It unmarshals from JSON strings, numbers, or
// null, so API clients may send either "1000" or 1000.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		// Booleans, objects and arrays are not numbers; treat them as blank.
		*f = ""
		return nil
	}
	*f = Field(n.String())
	return nil
}

// String returns the raw text.
func (f Field) String() string {
	return string(f)
}

// Blank reports whether the field holds only whitespace.
func (f Field) Blank() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Decimal parses the field with ParseDecimal.
func (f Field) Decimal() decimal.Decimal {
	return ParseDecimal(string(f))
}

// ParseDecimal parses raw as a decimal amount. Surrounding whitespace, a
// leading currency symbol and thousands separators are ignored. Blank,
// unparsable or out-of-range input yields zero.
func ParseDecimal(raw string) decimal.Decimal {
	d, ok := parseBounded(raw)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseDecimalOr is ParseDecimal with a fallback for blank input. Non-blank
// input that fails to parse still yields zero.
func ParseDecimalOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return ParseDecimal(raw)
}

// ParseInt parses raw as a whole number; fractional input is truncated.
// Anything unparsable or outside the int32 range yields zero.
func ParseInt(raw string) int {
	d, ok := parseBounded(raw)
	if !ok {
		return 0
	}
	whole := d.Truncate(0)
	if whole.GreaterThan(maxInt) || whole.LessThan(minInt) {
		return 0
	}
	return int(whole.IntPart())
}

// IsNumeric reports whether raw parses as an in-range number once normalised.
func IsNumeric(raw string) bool {
	_, ok := parseBounded(raw)
	return ok
}

var (
	maxInt = decimal.NewFromInt(math.MaxInt32)
	minInt = decimal.NewFromInt(math.MinInt32)
)

// parseBounded parses normalised input, refusing values whose size or
// exponent would make later arithmetic expensive.
func parseBounded(raw string) (decimal.Decimal, bool) {
	cleaned := normalize(raw)
	if cleaned == "" || len(cleaned) > constants.MaxNumericInputLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	exp := d.Exponent()
	if exp > constants.MaxNumericExponent || exp < -constants.MaxNumericExponent {
		return decimal.Zero, false
	}
	coefficient := d.Coefficient()
	if len(coefficient.Abs(coefficient).String()) > constants.MaxNumericDigits {
		return decimal.Zero, false
	}
	return d, true
}

func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = strings.TrimSpace(s[1:])
	}
	for _, symbol := range currencySymbols {
		s = strings.TrimPrefix(s, symbol)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return ""
	}
	if negative {
		return "-" + s
	}
	return s
}
