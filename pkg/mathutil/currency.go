// Package mathutil provides common decimal helpers for currency arithmetic.
package mathutil

import (
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(constants.PercentageMultiplier)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Only presentation code should call this.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.DecimalPlaces)
}

// IsPositive reports whether val is strictly greater than zero.
func IsPositive(val decimal.Decimal) bool {
	return val.Sign() > 0
}

// Min returns the smaller of two values.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage to a value, e.g. (1000, 2) -> 20.
func ApplyPercentage(value, percentage decimal.Decimal) decimal.Decimal {
	return value.Mul(percentage).Div(hundred)
}

// Sum adds all values together.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
