package application

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() formvalue.LoanForm {
	return formvalue.LoanForm{
		MemberID:                " M-0042 ",
		PrincipalAmount:         "5000",
		InterestRate:            "1",
		MonthlyPrincipalPayment: "600",
		PenaltyAmount:           "50",
		Purpose:                 "Dairy cow",
		Guarantor:               "A. Member",
		StartDate:               "2026-01",
	}
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.FixedZone("EAT", 3*3600)) }

func TestBuildSummaryOnly(t *testing.T) {
	form := validForm()
	schedule := amortization.GenerateSchedule(form.Terms())

	sub, err := Build(form, schedule, Options{
		IncludeSchedule: true,
		Now:             fixedNow,
		NewReference:    func() string { return "ref-1" },
	})
	require.NoError(t, err)

	assert.Equal(t, "ref-1", sub.ClientReference)
	assert.Equal(t, "M-0042", sub.MemberID)
	assert.True(t, sub.PrincipalAmount.Equal(form.Terms().Principal))
	assert.Equal(t, "Dairy cow", sub.Purpose)
	assert.Equal(t, "A. Member", sub.Guarantor)
	assert.Empty(t, sub.Collateral)
	assert.Equal(t, time.UTC, sub.PreparedAt.Location())
	assert.Equal(t, 6, sub.PreparedAt.Hour())

	require.NotNil(t, sub.Schedule)
	assert.Equal(t, 9, sub.Schedule.TotalMonths)
	assert.Equal(t, "234", sub.Schedule.TotalInterest.String())
	assert.Equal(t, "450", sub.Schedule.TotalPenalty.String())
	assert.Equal(t, "5684", sub.Schedule.TotalPayable.String())
	assert.Equal(t, "631.56", sub.Schedule.AverageMonthlyPayment.String())
	assert.False(t, sub.Schedule.Truncated)
	assert.Empty(t, sub.Schedule.Installments)
}

func TestBuildWithInstallments(t *testing.T) {
	form := validForm()
	schedule := amortization.GenerateSchedule(form.Terms())

	sub, err := Build(form, schedule, Options{IncludeInstallments: true, Now: fixedNow})
	require.NoError(t, err)
	require.NotNil(t, sub.Schedule)
	require.Len(t, sub.Schedule.Installments, 9)

	_, err = uuid.Parse(sub.ClientReference)
	assert.NoError(t, err, "default client reference is a UUID")

	first := sub.Schedule.Installments[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, "2026-02", first.DueMonth)
	assert.Equal(t, "700", first.Interest.Add(first.Penalty).Add(first.PrincipalPaid).String())

	last := sub.Schedule.Installments[8]
	assert.Equal(t, "2026-10", last.DueMonth)
	assert.Equal(t, "252", last.TotalPayable.String())
	assert.True(t, last.ClosingBalance.IsZero())
}

func TestBuildRejectsInvalidForm(t *testing.T) {
	form := validForm()
	form.Purpose = ""
	form.MonthlyPrincipalPayment = "20"

	_, err := Build(form, amortization.GenerateSchedule(form.Terms()), Options{})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "this field is required", verr.Fields.Get("purpose"))
	assert.Equal(t, "must be at least 100", verr.Fields.Get("monthlyPrincipalPayment"))
}

func TestBuildRejectsEmptySchedule(t *testing.T) {
	_, err := Build(validForm(), amortization.Schedule{}, Options{})
	assert.ErrorIs(t, err, ErrEmptySchedule)
}

func TestBuildTruncatedSchedule(t *testing.T) {
	form := validForm()
	form.PrincipalAmount = "1000000"
	form.InterestRate = "5"
	form.MonthlyPrincipalPayment = "100"
	schedule := amortization.GenerateSchedule(form.Terms())
	require.True(t, schedule.Truncated())

	_, err := Build(form, schedule, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "964000.00 remains outstanding")

	sub, err := Build(form, schedule, Options{AllowTruncated: true, IncludeSchedule: true})
	require.NoError(t, err)
	assert.True(t, sub.Schedule.Truncated)
	assert.Equal(t, "964000", sub.Schedule.ResidualBalance.String())
}

func TestSubmissionJSONKeys(t *testing.T) {
	form := validForm()
	sub, err := Build(form, amortization.GenerateSchedule(form.Terms()), Options{Now: fixedNow})
	require.NoError(t, err)

	raw, err := json.Marshal(sub)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"clientReference", "memberId", "principalAmount", "interestRate",
		"monthlyPrincipalPayment", "penaltyAmount", "purpose", "guarantor", "startDate", "preparedAt"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "schedule")
	assert.NotContains(t, decoded, "collateral")
	assert.Equal(t, "5000", decoded["principalAmount"])
}
