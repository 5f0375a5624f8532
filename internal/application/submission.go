// Package application assembles the loan application payload that the
// loan-creation endpoint of the cooperative backend accepts. It only builds
// data; sending it is up to the caller.
package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/datetime"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/iwvelando/coop-loan-preview/pkg/mathutil"
	"github.com/iwvelando/coop-loan-preview/pkg/validation"
	"github.com/shopspring/decimal"
)

// ErrEmptySchedule is returned when the terms produce no repayment schedule.
var ErrEmptySchedule = errors.New("loan terms produce no repayment schedule")

// ValidationError wraps the form fields that failed validation.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// Submission is the loan-creation payload. Amounts are sent as the coerced
// numbers rather than the raw form text.
type Submission struct {
	ClientReference         string          `json:"clientReference"`
	MemberID                string          `json:"memberId"`
	PrincipalAmount         decimal.Decimal `json:"principalAmount"`
	InterestRate            decimal.Decimal `json:"interestRate"`
	MonthlyPrincipalPayment decimal.Decimal `json:"monthlyPrincipalPayment"`
	PenaltyAmount           decimal.Decimal `json:"penaltyAmount"`
	Purpose                 string          `json:"purpose"`
	Collateral              string          `json:"collateral,omitempty"`
	Guarantor               string          `json:"guarantor,omitempty"`
	StartDate               string          `json:"startDate,omitempty"`
	PreparedAt              time.Time       `json:"preparedAt"`
	Schedule                *ScheduleData   `json:"schedule,omitempty"`
}

// ScheduleData is the optional schedule attached to a submission.
type ScheduleData struct {
	TotalMonths           int             `json:"totalMonths"`
	TotalInterest         decimal.Decimal `json:"totalInterest"`
	TotalPenalty          decimal.Decimal `json:"totalPenalty"`
	TotalPayable          decimal.Decimal `json:"totalPayable"`
	AverageMonthlyPayment decimal.Decimal `json:"averageMonthlyPayment"`
	Truncated             bool            `json:"truncated"`
	ResidualBalance       decimal.Decimal `json:"residualBalance"`
	Installments          []Installment   `json:"installments,omitempty"`
}

// Installment is one schedule row in a submission, rounded to cents.
type Installment struct {
	Month          int             `json:"month"`
	DueMonth       string          `json:"dueMonth,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PrincipalPaid  decimal.Decimal `json:"principalPaid"`
	Interest       decimal.Decimal `json:"interest"`
	Penalty        decimal.Decimal `json:"penalty"`
	TotalPayable   decimal.Decimal `json:"totalPayable"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// Options controls what Build attaches to a submission.
type Options struct {
	IncludeSchedule     bool
	IncludeInstallments bool
	AllowTruncated      bool
	Now                 func() time.Time
	NewReference        func() string
}

// Build validates form and turns it into a Submission. The schedule passed in
// must have been generated from form.Terms().
func Build(form formvalue.LoanForm, schedule amortization.Schedule, opts Options) (Submission, error) {
	if errs := validation.ValidateLoanForm(form); len(errs) > 0 {
		return Submission{}, &ValidationError{Fields: errs}
	}
	if schedule.Empty() {
		return Submission{}, ErrEmptySchedule
	}
	if schedule.Truncated() && !opts.AllowTruncated {
		return Submission{}, fmt.Errorf("loan is not repaid within %d months, %s remains outstanding",
			amortization.MaxPeriods, schedule.ResidualBalance().StringFixed(constants.DecimalPlaces))
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	newReference := uuid.NewString
	if opts.NewReference != nil {
		newReference = opts.NewReference
	}

	terms := form.Terms()
	sub := Submission{
		ClientReference:         newReference(),
		MemberID:                strings.TrimSpace(form.MemberID.String()),
		PrincipalAmount:         terms.Principal,
		InterestRate:            terms.MonthlyInterestRate,
		MonthlyPrincipalPayment: terms.MonthlyPrincipalPayment,
		PenaltyAmount:           terms.PenaltyPerPeriod,
		Purpose:                 strings.TrimSpace(form.Purpose.String()),
		Collateral:              strings.TrimSpace(form.Collateral.String()),
		Guarantor:               strings.TrimSpace(form.Guarantor.String()),
		StartDate:               strings.TrimSpace(form.StartDate.String()),
		PreparedAt:              now().UTC(),
	}

	if opts.IncludeSchedule || opts.IncludeInstallments {
		data, err := scheduleData(schedule, sub.StartDate, opts.IncludeInstallments)
		if err != nil {
			return Submission{}, err
		}
		sub.Schedule = data
	}

	return sub, nil
}

func scheduleData(schedule amortization.Schedule, startDate string, withRows bool) (*ScheduleData, error) {
	rounded := schedule.Rounded()
	data := &ScheduleData{
		TotalMonths:           schedule.PeriodCount(),
		TotalInterest:         rounded.TotalInterest,
		TotalPenalty:          rounded.TotalPenalty,
		TotalPayable:          rounded.TotalPayable,
		AverageMonthlyPayment: mathutil.Round(schedule.AverageMonthlyPayment()),
		Truncated:             schedule.Truncated(),
		ResidualBalance:       mathutil.Round(schedule.ResidualBalance()),
	}
	if !withRows {
		return data, nil
	}

	dueMonths, err := datetime.DueMonths(startDate, schedule.PeriodCount())
	if err != nil {
		return nil, err
	}

	data.Installments = make([]Installment, len(rounded.Entries))
	for i, e := range rounded.Entries {
		inst := Installment{
			Month:          e.Period,
			OpeningBalance: e.OpeningBalance,
			PrincipalPaid:  e.PrincipalPaid,
			Interest:       e.InterestCharged,
			Penalty:        e.Penalty,
			TotalPayable:   e.TotalPayable,
			ClosingBalance: e.ClosingBalance,
		}
		if dueMonths != nil {
			inst.DueMonth = dueMonths[i]
		}
		data.Installments[i] = inst
	}
	return data, nil
}
