// Package validation checks loan application forms and CLI options.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iwvelando/coop-loan-preview/pkg/constants"
)

// OutputFormats lists the formats the CLI can print previews in.
var OutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ValidateOutputFormat checks that format is one of OutputFormats. Matching is
// exact.
func ValidateOutputFormat(format string) error {
	if slices.Contains(OutputFormats, format) {
		return nil
	}
	return fmt.Errorf("expected output format of %s, got %q", strings.Join(OutputFormats, " or "), format)
}
