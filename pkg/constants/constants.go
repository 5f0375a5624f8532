// Package constants provides shared constants for the coop-loan-preview application.
package constants

// DateTimeLayout is the format of loan start dates and labelled due months.
const DateTimeLayout = "2006-01"

// Schedule constants
const (
	// MaxPeriods is the hard cap on generated schedule length (30 years of
	// monthly periods).
	MaxPeriods = 360

	// DefaultMonthlyInterestRate is the monthly interest rate, in percent,
	// that a blank rate field falls back to.
	DefaultMonthlyInterestRate = "2"

	// DecimalPlaces is the number of places currency is rounded to for display.
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100
)

// Numeric input bounds. Form values outside them are treated as unparsable.
const (
	// MaxNumericInputLength caps the length of a numeric form value.
	MaxNumericInputLength = 64

	// MaxNumericDigits caps the significant digits of a numeric form value.
	MaxNumericDigits = 30

	// MaxNumericExponent caps the decimal exponent of a numeric form value in
	// either direction, so "1e300000" is rejected.
	MaxNumericExponent = 20
)

// Loan application field limits.
const (
	MinPrincipalAmount         = 100
	MaxPrincipalAmount         = 1_000_000_000
	MinMonthlyPrincipalPayment = 100
	MaxMonthlyPrincipalPayment = 1_000_000_000
	MaxPenaltyAmount           = 1_000_000
	MaxMonthlyInterestRate     = 100
	MaxPurposeLength           = 200
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// DefaultLocale selects digit grouping for display amounts (lakh/crore
	// grouping, e.g. 12,34,567.00).
	DefaultLocale = "en-IN"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the preview API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCurrencySymbol prefixes formatted amounts in pretty output.
	DefaultCurrencySymbol = "₹"
)
