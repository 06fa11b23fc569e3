// Package constants provides shared constants for the dre-diagnostics application.
package constants

// PeriodLayout is the format of a reporting period (fiscal month) in config
// files and in output.
const PeriodLayout = "2006-01"

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Valuation multiples applied to EBITDA.
const (
	ConservativeMultiple = 3.0
	AverageMultiple      = 5.0
	AggressiveMultiple   = 8.0
)

// Health score bands. Margins are percentages.
const (
	EBITDAMarginHighBand = 20.0
	EBITDAMarginMidBand  = 10.0

	ContributionMarginHighBand = 40.0
	ContributionMarginMidBand  = 25.0

	EBITDAHighPoints = 40
	EBITDAMidPoints  = 25
	EBITDALowPoints  = 10

	ContributionHighPoints = 30
	ContributionMidPoints  = 20
	ContributionLowPoints  = 10

	// ProfitabilityPoints is awarded when EBITDA is positive.
	ProfitabilityPoints = 30

	MaxHealthScore = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Locale constants
const (
	LocaleEnglish    = "en"
	LocalePortuguese = "pt-BR"

	// DefaultLocale is used when neither config nor flags pick one.
	DefaultLocale = LocaleEnglish
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
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultDatabaseDSN is the SQLite file used for accounts and saved analyses.
	DefaultDatabaseDSN = "data/dre.db"

	// DefaultTokenTTL is the lifetime of a session token.
	DefaultTokenTTL = "12h"

	// MinPasswordLength is the shortest accepted account password.
	MinPasswordLength = 8

	// DefaultAnalysisListLimit caps how many saved analyses are listed at once.
	DefaultAnalysisListLimit = 100
)
