package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/shopspring/decimal"
)

// Rule checks a single raw form value and returns a user-facing error.
type Rule func(value string) error

// Except for Required, rules accept blank values so optional fields can share
// them.

// Required rejects blank values.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("this field is required")
	}
	return nil
}

// Numeric rejects values that are not numbers.
func Numeric(value string) error {
	if blank(value) || formvalue.IsNumeric(value) {
		return nil
	}
	return errors.New("must be a valid number")
}

// Positive rejects zero, negative and non-numeric values.
func Positive(value string) error {
	if blank(value) {
		return nil
	}
	if !formvalue.IsNumeric(value) || formvalue.ParseDecimal(value).Sign() <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

// Min rejects values below limit.
func Min(limit int64) Rule {
	return func(value string) error {
		if blank(value) {
			return nil
		}
		if !formvalue.IsNumeric(value) || formvalue.ParseDecimal(value).LessThan(decimal.NewFromInt(limit)) {
			return fmt.Errorf("must be at least %d", limit)
		}
		return nil
	}
}

// Max rejects values above limit.
func Max(limit int64) Rule {
	return func(value string) error {
		if blank(value) {
			return nil
		}
		if !formvalue.IsNumeric(value) || formvalue.ParseDecimal(value).GreaterThan(decimal.NewFromInt(limit)) {
			return fmt.Errorf("must be no more than %d", limit)
		}
		return nil
	}
}

// MaxLength rejects values longer than limit characters.
func MaxLength(limit int) Rule {
	return func(value string) error {
		if utf8.RuneCountInString(value) > limit {
			return fmt.Errorf("must be no more than %d characters long", limit)
		}
		return nil
	}
}

// YearMonth rejects values that are not formatted as YYYY-MM.
func YearMonth(value string) error {
	if blank(value) {
		return nil
	}
	if _, err := time.Parse(constants.DateTimeLayout, strings.TrimSpace(value)); err != nil {
		return errors.New("must be a month formatted as YYYY-MM")
	}
	return nil
}

// ValidateField runs rules in order and returns the first failure.
func ValidateField(value string, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(value); err != nil {
			return err
		}
	}
	return nil
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
