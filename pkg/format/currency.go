// Package format renders amounts for display.
package format

import (
	"fmt"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	maxGroupable = decimal.NewFromInt(1<<63 - 1)
	hundredth    = decimal.New(1, -constants.DecimalPlaces)
)

// Formatter renders currency with the digit grouping of a locale. The amount
// stays a decimal throughout; only the whole part is handed to the printer.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "en" or
// "en-IN". A blank or unknown locale groups digits the English way.
func NewFormatter(locale, symbol string) Formatter {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Currency rounds amount to cents and groups its whole part, e.g.
// "-₹12,34,567.89" for en-IN.
func (f Formatter) Currency(amount decimal.Decimal) string {
	rounded := amount.Round(constants.DecimalPlaces)
	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Div(hundredth).IntPart()

	grouped := whole.String()
	if whole.LessThanOrEqual(maxGroupable) {
		grouped = f.printer.Sprintf("%d", whole.IntPart())
	}

	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, f.symbol, grouped, cents)
}

// Currency returns a currency string with the given symbol and English
// thousands separators (e.g., "-₹1,234.56").
func Currency(amount decimal.Decimal, symbol string) string {
	return NewFormatter("", symbol).Currency(amount)
}

// Percent renders a rate with up to two decimals, e.g. "2%" or "1.75%".
func Percent(rate decimal.Decimal) string {
	return rate.Round(constants.DecimalPlaces).String() + "%"
}
