// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/coop-loan-preview/internal/preview"
	"github.com/shopspring/decimal"
)

// FindPreview finds a preview by application name in the results slice.
// Returns a pointer to the preview if found, nil otherwise.
func FindPreview(results []preview.Preview, name string) *preview.Preview {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// AssertDecimal fails the test when actual does not equal the decimal written
// as expected.
func AssertDecimal(t testing.TB, expected string, actual decimal.Decimal) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	if err != nil {
		t.Fatalf("invalid expected decimal %q: %v", expected, err)
	}
	if !actual.Equal(want) {
		t.Errorf("expected %s, got %s", expected, actual)
	}
}
