package amortization

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrInvalidDuration is returned when a duration is not a positive number of
// months.
var ErrInvalidDuration = errors.New("duration must be a positive number of months")

// DurationPresets are the loan durations, in months, offered as shortcuts on
// the application form.
var DurationPresets = []int{6, 10, 12, 18, 24, 36}

// IsDurationPreset reports whether months is one of DurationPresets.
func IsDurationPreset(months int) bool {
	return slices.Contains(DurationPresets, months)
}

// MonthlyPrincipalForDuration returns the flat principal payment that retires
// principal in exactly months periods. Interest and penalty are not part of
// the calculation; they keep being charged on top.
func MonthlyPrincipalForDuration(principal decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, ErrInvalidDuration
	}
	return principal.Div(decimal.NewFromInt(int64(months))), nil
}
