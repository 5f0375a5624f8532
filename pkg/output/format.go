// Package output provides utilities for formatting and displaying schedule previews.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/coop-loan-preview/internal/preview"
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/format"
	"github.com/shopspring/decimal"
)

// Options controls pretty output.
type Options struct {
	CurrencySymbol string
	Locale         string // BCP 47 tag for digit grouping; blank means en-IN
}

func (o Options) locale() string {
	if o.Locale == "" {
		return constants.DefaultLocale
	}
	return o.Locale
}

func (o Options) symbol() string {
	if o.CurrencySymbol == "" {
		return constants.DefaultCurrencySymbol
	}
	return o.CurrencySymbol
}

// PrettyFormat writes a human-readable rather than machine-readable table for
// every preview.
func PrettyFormat(w io.Writer, results []preview.Preview, opts Options) {
	money := format.NewFormatter(opts.locale(), opts.symbol()).Currency

	for i, result := range results {
		fmt.Fprintf(w, "--- Schedule for loan %s ---\n", result.Name)
		fmt.Fprintf(w, "Member: %s | Principal: %s | Rate: %s per month | Monthly principal: %s | Penalty: %s\n",
			result.Form.MemberID, money(result.Terms.Principal), format.Percent(result.Terms.MonthlyInterestRate),
			money(result.Terms.MonthlyPrincipalPayment), money(result.Terms.PenaltyPerPeriod))

		if result.Schedule.Empty() {
			fmt.Fprintf(w, "No repayment schedule\n")
		} else {
			tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "Month\tDue\tOpening\tInterest\tPrincipal\tPenalty\tTotal\tClosing\t\n")
			for j, entry := range result.Schedule.Entries {
				due := "-"
				if j < len(result.DueMonths) {
					due = result.DueMonths[j]
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					entry.Period, due, money(entry.OpeningBalance), money(entry.InterestCharged),
					money(entry.PrincipalPaid), money(entry.Penalty), money(entry.TotalPayable),
					money(entry.ClosingBalance))
			}
			_ = tw.Flush()

			s := result.Schedule
			fmt.Fprintf(w, "Total months: %d | Total interest: %s | Total penalty: %s | Total payable: %s | Average monthly payment: %s\n",
				s.PeriodCount(), money(s.TotalInterest), money(s.TotalPenalty), money(s.TotalPayable),
				money(s.AverageMonthlyPayment()))
		}

		for _, fieldErr := range result.FieldErrors {
			fmt.Fprintf(w, "Invalid %s: %s\n", fieldErr.Field, fieldErr.Message)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "Warning: %s\n", warning)
		}
		if len(results) > 1 && i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

var csvHeader = []string{
	"application", "month", "due", "opening balance", "interest", "principal paid",
	"penalty", "total payable", "closing balance",
}

// CsvFormat writes one comma-separated row per schedule period, preceded by a
// header row. Amounts are rounded to cents.
func CsvFormat(w io.Writer, results []preview.Preview) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range results {
		for j, entry := range result.Schedule.Entries {
			due := ""
			if j < len(result.DueMonths) {
				due = result.DueMonths[j]
			}
			row := []string{
				result.Name,
				strconv.Itoa(entry.Period),
				due,
				fixed(entry.OpeningBalance),
				fixed(entry.InterestCharged),
				fixed(entry.PrincipalPaid),
				fixed(entry.Penalty),
				fixed(entry.TotalPayable),
				fixed(entry.ClosingBalance),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(results []preview.Preview) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(constants.DecimalPlaces)
}
