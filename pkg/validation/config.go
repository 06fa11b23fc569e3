// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dre-diagnostics/pkg/datetime"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"github.com/iwvelando/dre-diagnostics/pkg/mathutil"
)

type namedValue struct {
	name  string
	value float64
}

func fields(f dre.Figures) []namedValue {
	return []namedValue{
		{"grossRevenue", f.GrossRevenue},
		{"deductions", f.Deductions},
		{"variableCosts", f.VariableCosts},
		{"fixedCosts", f.FixedCosts},
		{"commercialExpenses", f.CommercialExpenses},
		{"depreciationAmortization", f.DepreciationAmortization},
		{"financialResult", f.FinancialResult},
		{"incomeTaxes", f.IncomeTaxes},
	}
}

// CheckFinite returns an error naming the first figure that is NaN or infinite.
func CheckFinite(f dre.Figures) error {
	for _, field := range fields(f) {
		if !mathutil.IsFinite(field.value) {
			return fmt.Errorf("figure %s must be a finite number, got %v", field.name, field.value)
		}
	}
	return nil
}

// CheckMetricsFinite returns an error naming the first computed metric that
// overflowed to NaN or infinity.
func CheckMetricsFinite(m dre.Metrics) error {
	metrics := []namedValue{
		{"netRevenue", m.NetRevenue},
		{"grossProfit", m.GrossProfit},
		{"ebitda", m.EBITDA},
		{"ebit", m.EBIT},
		{"pretaxIncome", m.PretaxIncome},
		{"netIncome", m.NetIncome},
		{"ebitdaMarginPct", m.EBITDAMarginPct},
		{"grossMarginPct", m.GrossMarginPct},
		{"netMarginPct", m.NetMarginPct},
		{"contributionMarginPct", m.ContributionMarginPct},
		{"breakevenPoint", m.BreakevenPoint},
		{"valuationConservative", m.ValuationConservative},
		{"valuationAverage", m.ValuationAverage},
		{"valuationAggressive", m.ValuationAggressive},
	}
	for _, metric := range metrics {
		if !mathutil.IsFinite(metric.value) {
			return fmt.Errorf("figures are too large: metric %s is not a finite number", metric.name)
		}
	}
	return nil
}

// ValidateFigures returns warnings for figures the engine accepts but that
// are unusual for an income statement: negative values in fields other than
// the financial result, and deductions that consume the whole revenue.
func ValidateFigures(companyName string, f dre.Figures) []string {
	var warnings []string

	if err := CheckFinite(f); err != nil {
		warnings = append(warnings, fmt.Sprintf("Company '%s': %v", companyName, err))
	}

	for _, field := range fields(f) {
		if field.name == "financialResult" {
			continue
		}
		if field.value < 0 {
			warnings = append(warnings, fmt.Sprintf("Company '%s' has negative %s (%.2f) - it will propagate through the statement",
				companyName, field.name, field.value))
		}
	}

	if f.GrossRevenue > 0 && f.Deductions >= f.GrossRevenue {
		warnings = append(warnings, fmt.Sprintf("Company '%s' deductions (%.2f) consume the whole gross revenue (%.2f) - margins are undefined",
			companyName, f.Deductions, f.GrossRevenue))
	}

	return warnings
}

// ValidatePeriod checks that a reporting period parses and is not in the future.
func ValidatePeriod(companyName, period string, now time.Time) []string {
	if strings.TrimSpace(period) == "" {
		return nil
	}
	future, err := datetime.IsFuturePeriod(period, now)
	if err != nil {
		return []string{fmt.Sprintf("Company '%s': %v", companyName, err)}
	}
	if future {
		return []string{fmt.Sprintf("Company '%s' period %s is in the future", companyName, period)}
	}
	return nil
}

// CompanyConfig is the subset of a company entry needed for validation.
type CompanyConfig struct {
	Name    string
	Active  bool
	Period  string
	Figures dre.Figures
}

// ConfigValidator validates a list of companies as a whole.
type ConfigValidator struct {
	Companies []CompanyConfig
	Now       time.Time
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	now := cv.Now
	if now.IsZero() {
		now = time.Now()
	}

	active := 0
	seen := make(map[string]struct{}, len(cv.Companies))
	for i, company := range cv.Companies {
		name := strings.TrimSpace(company.Name)
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("Company %s has no name", name))
		} else if _, dup := seen[name]; dup {
			warnings = append(warnings, fmt.Sprintf("Company '%s' is defined more than once", name))
		}
		seen[name] = struct{}{}

		if !company.Active {
			continue
		}
		active++

		warnings = append(warnings, ValidatePeriod(name, company.Period, now)...)
		warnings = append(warnings, ValidateFigures(name, company.Figures)...)
	}

	if active == 0 {
		warnings = append(warnings, "No active companies - nothing will be diagnosed")
	}

	return warnings
}
