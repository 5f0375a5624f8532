package formvalue

import (
	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/shopspring/decimal"
)

var defaultInterestRate = decimal.RequireFromString(constants.DefaultMonthlyInterestRate)

// LoanForm is a loan application exactly as typed into the application form.
type LoanForm struct {
	MemberID                Field `json:"memberId" yaml:"memberId" mapstructure:"memberId"`
	PrincipalAmount         Field `json:"principalAmount" yaml:"principalAmount" mapstructure:"principalAmount"`
	InterestRate            Field `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate"`
	MonthlyPrincipalPayment Field `json:"monthlyPrincipalPayment" yaml:"monthlyPrincipalPayment" mapstructure:"monthlyPrincipalPayment"`
	PenaltyAmount           Field `json:"penaltyAmount" yaml:"penaltyAmount" mapstructure:"penaltyAmount"`
	DurationMonths          Field `json:"durationMonths,omitempty" yaml:"durationMonths,omitempty" mapstructure:"durationMonths"`
	Purpose                 Field `json:"purpose" yaml:"purpose" mapstructure:"purpose"`
	Collateral              Field `json:"collateral,omitempty" yaml:"collateral,omitempty" mapstructure:"collateral"`
	Guarantor               Field `json:"guarantor,omitempty" yaml:"guarantor,omitempty" mapstructure:"guarantor"`
	StartDate               Field `json:"startDate,omitempty" yaml:"startDate,omitempty" mapstructure:"startDate"`
}

// Terms coerces the numeric fields into schedule terms. A blank interest rate
// falls back to the default monthly rate; every other blank or unparsable
// field becomes zero.
func (f LoanForm) Terms() amortization.Terms {
	return amortization.Terms{
		Principal:               f.PrincipalAmount.Decimal(),
		MonthlyInterestRate:     ParseDecimalOr(f.InterestRate.String(), defaultInterestRate),
		MonthlyPrincipalPayment: f.MonthlyPrincipalPayment.Decimal(),
		PenaltyPerPeriod:        f.PenaltyAmount.Decimal(),
	}
}

// Duration returns the requested duration in months, or zero when none was
// chosen.
func (f LoanForm) Duration() int {
	return ParseInt(f.DurationMonths.String())
}

// ApplyDuration returns a copy of the form whose monthly principal payment
// retires the principal in months periods, written with two decimals the way
// the form displays it. The rate and penalty are left alone. A form without a
// positive principal is returned unchanged.
func (f LoanForm) ApplyDuration(months int) (LoanForm, error) {
	if months <= 0 {
		return f, amortization.ErrInvalidDuration
	}

	principal := f.PrincipalAmount.Decimal()
	if principal.Sign() <= 0 {
		return f, nil
	}

	payment, err := amortization.MonthlyPrincipalForDuration(principal, months)
	if err != nil {
		return f, err
	}

	updated := f
	updated.MonthlyPrincipalPayment = Field(payment.StringFixed(constants.DecimalPlaces))
	updated.DurationMonths = Field(decimal.NewFromInt(int64(months)).String())
	return updated, nil
}

// WithDefaults fills blank fields from defaults.
func (f LoanForm) WithDefaults(defaults LoanForm) LoanForm {
	merged := f
	fill := func(dst *Field, src Field) {
		if dst.Blank() {
			*dst = src
		}
	}
	fill(&merged.MemberID, defaults.MemberID)
	fill(&merged.PrincipalAmount, defaults.PrincipalAmount)
	fill(&merged.InterestRate, defaults.InterestRate)
	fill(&merged.MonthlyPrincipalPayment, defaults.MonthlyPrincipalPayment)
	fill(&merged.PenaltyAmount, defaults.PenaltyAmount)
	fill(&merged.DurationMonths, defaults.DurationMonths)
	fill(&merged.Purpose, defaults.Purpose)
	fill(&merged.Collateral, defaults.Collateral)
	fill(&merged.Guarantor, defaults.Guarantor)
	fill(&merged.StartDate, defaults.StartDate)
	return merged
}
