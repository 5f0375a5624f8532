package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/iwvelando/coop-loan-preview/pkg/mathutil"
)

// FieldError is a validation failure for one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors holds validation failures in form order.
type FieldErrors []FieldError

// Get returns the message for field, or "" when it passed.
func (fe FieldErrors) Get(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Map returns the failures keyed by field name.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}
	return m
}

// Error implements error so FieldErrors can be wrapped and returned directly.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "invalid loan application: " + strings.Join(parts, "; ")
}

type fieldRules struct {
	name  string
	value func(formvalue.LoanForm) formvalue.Field
	rules []Rule
}

var loanFormRules = []fieldRules{
	{"memberId", func(f formvalue.LoanForm) formvalue.Field { return f.MemberID }, []Rule{Required}},
	{"principalAmount", func(f formvalue.LoanForm) formvalue.Field { return f.PrincipalAmount },
		[]Rule{Required, Positive, Min(constants.MinPrincipalAmount), Max(constants.MaxPrincipalAmount)}},
	{"interestRate", func(f formvalue.LoanForm) formvalue.Field { return f.InterestRate },
		[]Rule{Required, Numeric, Min(0), Max(constants.MaxMonthlyInterestRate)}},
	{"monthlyPrincipalPayment", func(f formvalue.LoanForm) formvalue.Field { return f.MonthlyPrincipalPayment },
		[]Rule{Required, Positive, Min(constants.MinMonthlyPrincipalPayment), Max(constants.MaxMonthlyPrincipalPayment)}},
	{"penaltyAmount", func(f formvalue.LoanForm) formvalue.Field { return f.PenaltyAmount },
		[]Rule{Numeric, Min(0), Max(constants.MaxPenaltyAmount)}},
	{"purpose", func(f formvalue.LoanForm) formvalue.Field { return f.Purpose },
		[]Rule{Required, MaxLength(constants.MaxPurposeLength)}},
	{"startDate", func(f formvalue.LoanForm) formvalue.Field { return f.StartDate }, []Rule{YearMonth}},
}

// ValidateLoanForm checks a loan application against the form rules and
// returns every failing field, or nil when the form is valid.
func ValidateLoanForm(form formvalue.LoanForm) FieldErrors {
	var errs FieldErrors
	for _, fr := range loanFormRules {
		if err := ValidateField(fr.value(form).String(), fr.rules...); err != nil {
			errs = append(errs, FieldError{Field: fr.name, Message: err.Error()})
		}
	}
	return errs
}

// ScheduleWarnings describes conditions in a generated schedule that should be
// confirmed before the application is submitted.
func ScheduleWarnings(name string, schedule amortization.Schedule) []string {
	var warnings []string

	if schedule.Empty() {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' has no repayment schedule - principal and monthly principal payment must both be positive",
			name))
		return warnings
	}

	if schedule.Truncated() {
		warnings = append(warnings, fmt.Sprintf("Loan '%s' is not repaid within %d months - %s principal remains outstanding",
			name, amortization.MaxPeriods, mathutil.Round(schedule.ResidualBalance()).StringFixed(constants.DecimalPlaces)))
	}

	return warnings
}
