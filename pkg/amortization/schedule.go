// Package amortization expands loan terms into a month-by-month repayment
// schedule.
//
// The schedule model is a flat principal installment: every period retires a
// fixed amount of principal, interest is charged on the opening balance of the
// period, and a flat penalty is added on top. The total payable therefore
// shrinks as the balance declines.
package amortization

import (
	"iter"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// MaxPeriods caps the number of generated periods. A loan that has not been
// retired by then yields a truncated schedule.
const MaxPeriods = constants.MaxPeriods

// Terms holds the inputs of a single schedule calculation.
type Terms struct {
	Principal               decimal.Decimal
	MonthlyInterestRate     decimal.Decimal // percent, e.g. 2 means 2% per month
	MonthlyPrincipalPayment decimal.Decimal
	PenaltyPerPeriod        decimal.Decimal
}

// Entry is one row of a schedule.
type Entry struct {
	Period          int
	OpeningBalance  decimal.Decimal
	PrincipalPaid   decimal.Decimal
	InterestCharged decimal.Decimal
	Penalty         decimal.Decimal
	TotalPayable    decimal.Decimal
	ClosingBalance  decimal.Decimal
}

// Schedule is the ordered list of entries plus totals summed over them.
type Schedule struct {
	Entries        []Entry
	TotalPrincipal decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPenalty   decimal.Decimal
	TotalPayable   decimal.Decimal
}

// Amortizes reports whether the terms produce any entries at all.
func (t Terms) Amortizes() bool {
	return mathutil.IsPositive(t.Principal) && mathutil.IsPositive(t.MonthlyPrincipalPayment)
}

// Periods yields the schedule entries for terms one at a time. The sequence is
// finite and can be ranged over repeatedly; every iteration starts from the
// principal again.
func Periods(terms Terms) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if !terms.Amortizes() {
			return
		}

		balance := terms.Principal
		for period := 1; period <= MaxPeriods && balance.Sign() > 0; period++ {
			interest := mathutil.ApplyPercentage(balance, terms.MonthlyInterestRate)
			principalPaid := mathutil.Min(terms.MonthlyPrincipalPayment, balance)
			closing := balance.Sub(principalPaid)

			entry := Entry{
				Period:          period,
				OpeningBalance:  balance,
				PrincipalPaid:   principalPaid,
				InterestCharged: interest,
				Penalty:         terms.PenaltyPerPeriod,
				TotalPayable:    mathutil.Sum(principalPaid, interest, terms.PenaltyPerPeriod),
				ClosingBalance:  closing,
			}
			if !yield(entry) {
				return
			}
			balance = closing
		}
	}
}

// GenerateSchedule computes the full schedule for terms. Terms without a
// positive principal or a positive monthly principal payment produce an empty
// schedule with zero totals.
func GenerateSchedule(terms Terms) Schedule {
	schedule := Schedule{
		TotalPrincipal: decimal.Zero,
		TotalInterest:  decimal.Zero,
		TotalPenalty:   decimal.Zero,
		TotalPayable:   decimal.Zero,
	}

	for entry := range Periods(terms) {
		schedule.Entries = append(schedule.Entries, entry)
		schedule.TotalPrincipal = schedule.TotalPrincipal.Add(entry.PrincipalPaid)
		schedule.TotalInterest = schedule.TotalInterest.Add(entry.InterestCharged)
		schedule.TotalPenalty = schedule.TotalPenalty.Add(entry.Penalty)
		schedule.TotalPayable = schedule.TotalPayable.Add(entry.TotalPayable)
	}

	return schedule
}

// PeriodCount returns the number of entries.
func (s Schedule) PeriodCount() int {
	return len(s.Entries)
}

// Empty reports whether the schedule has no entries.
func (s Schedule) Empty() bool {
	return len(s.Entries) == 0
}

// AverageMonthlyPayment returns TotalPayable spread evenly over all periods,
// or zero for an empty schedule.
func (s Schedule) AverageMonthlyPayment() decimal.Decimal {
	if s.Empty() {
		return decimal.Zero
	}
	return s.TotalPayable.Div(decimal.NewFromInt(int64(len(s.Entries))))
}

// ResidualBalance returns the closing balance of the last entry.
func (s Schedule) ResidualBalance() decimal.Decimal {
	if s.Empty() {
		return decimal.Zero
	}
	return s.Entries[len(s.Entries)-1].ClosingBalance
}

// Truncated reports whether generation stopped at MaxPeriods with principal
// still outstanding.
func (s Schedule) Truncated() bool {
	return len(s.Entries) >= MaxPeriods && s.ResidualBalance().Sign() > 0
}

// Rounded returns a copy with every amount rounded to cents. Totals are
// rounded from the full-precision sums rather than re-added from rounded rows.
func (s Schedule) Rounded() Schedule {
	rounded := Schedule{
		Entries:        make([]Entry, len(s.Entries)),
		TotalPrincipal: mathutil.Round(s.TotalPrincipal),
		TotalInterest:  mathutil.Round(s.TotalInterest),
		TotalPenalty:   mathutil.Round(s.TotalPenalty),
		TotalPayable:   mathutil.Round(s.TotalPayable),
	}
	for i, e := range s.Entries {
		rounded.Entries[i] = Entry{
			Period:          e.Period,
			OpeningBalance:  mathutil.Round(e.OpeningBalance),
			PrincipalPaid:   mathutil.Round(e.PrincipalPaid),
			InterestCharged: mathutil.Round(e.InterestCharged),
			Penalty:         mathutil.Round(e.Penalty),
			TotalPayable:    mathutil.Round(e.TotalPayable),
			ClosingBalance:  mathutil.Round(e.ClosingBalance),
		}
	}
	return rounded
}
