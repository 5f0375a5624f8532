package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/coop-loan-preview/internal/preview"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"go.uber.org/zap"
)

func samplePreviews() []preview.Preview {
	return []preview.Preview{
		preview.Compute(zap.NewNop(), "Shop stock", formvalue.LoanForm{
			MemberID:                "M-001",
			PrincipalAmount:         "10000",
			InterestRate:            "2",
			MonthlyPrincipalPayment: "1000",
			Purpose:                 "Stock",
			StartDate:               "2026-01",
		}),
		preview.Compute(zap.NewNop(), "Nothing", formvalue.LoanForm{
			MemberID:        "M-002",
			PrincipalAmount: "0",
			Purpose:         "Nothing",
		}),
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, samplePreviews(), Options{CurrencySymbol: "$"})
	output := buf.String()

	for _, expected := range []string{
		"--- Schedule for loan Shop stock ---",
		"Member: M-001 | Principal: $10,000.00 | Rate: 2% per month | Monthly principal: $1,000.00 | Penalty: $0.00",
		"Month",
		"2026-02",
		"$1,200.00",
		"Total months: 10 | Total interest: $1,100.00 | Total penalty: $0.00 | Total payable: $11,100.00 | Average monthly payment: $1,110.00",
		"--- Schedule for loan Nothing ---",
		"No repayment schedule",
		"Invalid monthlyPrincipalPayment: this field is required",
		"Warning: Loan 'Nothing' has no repayment schedule",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("PrettyFormat output missing %q\n%s", expected, output)
		}
	}
}

func TestPrettyFormatDefaultSymbol(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, samplePreviews()[:1], Options{})
	if !strings.Contains(buf.String(), "₹10,000.00") {
		t.Errorf("expected default currency symbol, got\n%s", buf.String())
	}
	if strings.HasSuffix(buf.String(), "\n\n") {
		t.Error("single preview output should not end with a blank separator line")
	}
}

func TestPrettyFormatLocale(t *testing.T) {
	results := []preview.Preview{
		preview.Compute(zap.NewNop(), "Lakh", formvalue.LoanForm{
			MemberID:                "M-003",
			PrincipalAmount:         "1234567",
			InterestRate:            "2",
			MonthlyPrincipalPayment: "1234567",
			Purpose:                 "Tractor",
			StartDate:               "2026-01",
		}),
	}

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"default groups in lakhs", Options{}, []string{"Principal: ₹12,34,567.00", "Total payable: ₹12,59,258.34"}},
		{"explicit en-IN", Options{Locale: "en-IN"}, []string{"Total interest: ₹24,691.34"}},
		{"english locale", Options{Locale: "en", CurrencySymbol: "$"}, []string{"Principal: $1,234,567.00", "Total payable: $1,259,258.34"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrettyFormat(&buf, results, tt.opts)
			for _, expected := range tt.expected {
				if !strings.Contains(buf.String(), expected) {
					t.Errorf("PrettyFormat output missing %q\n%s", expected, buf.String())
				}
			}
		})
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, samplePreviews()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}

	// header + 10 periods; the empty schedule contributes no rows
	if len(records) != 11 {
		t.Fatalf("expected 11 records, got %d", len(records))
	}
	if records[0][0] != "application" || records[0][8] != "closing balance" {
		t.Errorf("unexpected header %v", records[0])
	}

	first := records[1]
	expected := []string{"Shop stock", "1", "2026-02", "10000.00", "200.00", "1000.00", "0.00", "1200.00", "9000.00"}
	for i := range expected {
		if first[i] != expected[i] {
			t.Errorf("column %d: expected %q, got %q", i, expected[i], first[i])
		}
	}

	last := records[10]
	if last[1] != "10" || last[8] != "0.00" {
		t.Errorf("unexpected final row %v", last)
	}
}

func TestCsvString(t *testing.T) {
	out := CsvString(samplePreviews())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 {
		t.Errorf("expected 11 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "application,month,due") {
		t.Errorf("unexpected header line %q", lines[0])
	}
}
