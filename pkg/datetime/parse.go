// Package datetime provides month arithmetic for labelling schedule periods.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
)

const (
	// DateTimeLayout is the format of loan start dates and is also the output
	// format of due months.
	DateTimeLayout = constants.DateTimeLayout
)

// DueMonths returns the month in which each of periods installments falls due.
// The first installment is due in the month after start; a blank start yields
// nil.
func DueMonths(start string, periods int) ([]string, error) {
	start = strings.TrimSpace(start)
	if start == "" || periods <= 0 {
		return nil, nil
	}

	startT, err := time.Parse(DateTimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}

	months := make([]string, periods)
	for i := range months {
		months[i] = startT.AddDate(0, i+1, 0).Format(DateTimeLayout)
	}
	return months, nil
}
