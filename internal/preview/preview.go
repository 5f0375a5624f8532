// Package preview turns loan application forms into repayment schedules,
// applying duration presets, due-month labels and validation along the way.
package preview

import (
	"fmt"

	"github.com/iwvelando/coop-loan-preview/internal/config"
	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/datetime"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/iwvelando/coop-loan-preview/pkg/validation"
	"go.uber.org/zap"
)

// Preview holds the schedule computed for one loan application.
type Preview struct {
	Name        string
	Form        formvalue.LoanForm
	Terms       amortization.Terms
	Schedule    amortization.Schedule
	DueMonths   []string
	FieldErrors validation.FieldErrors
	Warnings    []string
}

// Valid reports whether the form passed validation.
func (p Preview) Valid() bool {
	return len(p.FieldErrors) == 0
}

// GetPreviews computes a Preview for every active application in conf.
func GetPreviews(logger *zap.Logger, conf config.Configuration) []Preview {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, app := range conf.Applications {
		if app.Disabled {
			logger.Debug(fmt.Sprintf("skipping application %s because it is disabled", app.Name),
				zap.String("op", "preview.GetPreviews"),
			)
		}
	}

	active := conf.ActiveApplications()
	results := make([]Preview, 0, len(active))
	for _, app := range active {
		results = append(results, Compute(logger, app.Name, app.LoanForm))
	}

	return results
}

// Compute builds the Preview for a single form. A duration in the form
// overrides its monthly principal payment. Compute never fails: unusable
// input shows up as field errors, warnings or an empty schedule.
func Compute(logger *zap.Logger, name string, form formvalue.LoanForm) Preview {
	if logger == nil {
		logger = zap.NewNop()
	}

	var warnings []string

	if !form.DurationMonths.Blank() {
		months := form.Duration()
		updated, err := form.ApplyDuration(months)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Loan '%s' duration '%s' ignored: %v", name, form.DurationMonths, err))
		} else {
			if updated.MonthlyPrincipalPayment != form.MonthlyPrincipalPayment {
				logger.Debug(fmt.Sprintf("%s: %d month duration sets monthly principal payment to %s",
					name, months, updated.MonthlyPrincipalPayment),
					zap.String("op", "preview.Compute"),
				)
			}
			form = updated
		}
	}

	terms := form.Terms()
	schedule := amortization.GenerateSchedule(terms)

	// A malformed start date is reported through the field errors below.
	dueMonths, err := datetime.DueMonths(form.StartDate.String(), schedule.PeriodCount())
	if err != nil {
		dueMonths = nil
	}

	result := Preview{
		Name:        name,
		Form:        form,
		Terms:       terms,
		Schedule:    schedule,
		DueMonths:   dueMonths,
		FieldErrors: validation.ValidateLoanForm(form),
		Warnings:    append(warnings, validation.ScheduleWarnings(name, schedule)...),
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning,
			zap.String("op", "preview.Compute"),
			zap.String("application", name),
		)
	}

	logger.Debug("schedule generated",
		zap.String("op", "preview.Compute"),
		zap.String("application", name),
		zap.Int("periods", schedule.PeriodCount()),
		zap.Bool("truncated", schedule.Truncated()),
		zap.String("totalPayable", schedule.TotalPayable.String()),
	)

	return result
}
