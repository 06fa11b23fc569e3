// Package dre computes income-statement (DRE) aggregates, margins, valuation
// estimates and a heuristic health score from raw figures.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// shared state, and no errors. Divisions by a non-positive denominator yield
// 0, which callers should read as "undefined" (see Metrics.MarginsDefined).
package dre

import (
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/mathutil"
)

// Figures holds the raw income-statement inputs for one period.
type Figures struct {
	GrossRevenue             float64 `json:"grossRevenue" mapstructure:"grossRevenue"`
	Deductions               float64 `json:"deductions" mapstructure:"deductions"`
	VariableCosts            float64 `json:"variableCosts" mapstructure:"variableCosts"`
	FixedCosts               float64 `json:"fixedCosts" mapstructure:"fixedCosts"`
	CommercialExpenses       float64 `json:"commercialExpenses" mapstructure:"commercialExpenses"`
	DepreciationAmortization float64 `json:"depreciationAmortization" mapstructure:"depreciationAmortization"`
	FinancialResult          float64 `json:"financialResult" mapstructure:"financialResult"` // signed
	IncomeTaxes              float64 `json:"incomeTaxes" mapstructure:"incomeTaxes"`
}

// Metrics holds everything derived from a Figures value.
type Metrics struct {
	NetRevenue   float64 `json:"netRevenue"`
	GrossProfit  float64 `json:"grossProfit"`
	EBITDA       float64 `json:"ebitda"`
	EBIT         float64 `json:"ebit"`
	PretaxIncome float64 `json:"pretaxIncome"`
	NetIncome    float64 `json:"netIncome"`

	EBITDAMarginPct       float64 `json:"ebitdaMarginPct"`
	GrossMarginPct        float64 `json:"grossMarginPct"`
	NetMarginPct          float64 `json:"netMarginPct"`
	ContributionMarginPct float64 `json:"contributionMarginPct"`
	// MarginsDefined is false when net revenue is not positive, in which
	// case every margin above is 0 by convention.
	MarginsDefined bool `json:"marginsDefined"`

	BreakevenPoint float64 `json:"breakevenPoint"`

	ValuationConservative float64 `json:"valuationConservative"`
	ValuationAverage      float64 `json:"valuationAverage"`
	ValuationAggressive   float64 `json:"valuationAggressive"`

	HealthScore int `json:"healthScore"`
}

// Compute runs the income-statement waterfall over f and returns the derived
// metrics, including the health score.
func Compute(f Figures) Metrics {
	var m Metrics

	// Waterfall order matters: each line builds on the previous one.
	m.NetRevenue = f.GrossRevenue - f.Deductions
	m.GrossProfit = m.NetRevenue - f.VariableCosts
	m.EBITDA = m.GrossProfit - f.FixedCosts - f.CommercialExpenses
	m.EBIT = m.EBITDA - f.DepreciationAmortization
	m.PretaxIncome = m.EBIT + f.FinancialResult
	m.NetIncome = m.PretaxIncome - f.IncomeTaxes

	m.MarginsDefined = m.NetRevenue > 0
	if m.MarginsDefined {
		m.EBITDAMarginPct = mathutil.CalculatePercentage(m.EBITDA, m.NetRevenue)
		m.GrossMarginPct = mathutil.CalculatePercentage(m.GrossProfit, m.NetRevenue)
		m.NetMarginPct = mathutil.CalculatePercentage(m.NetIncome, m.NetRevenue)
		m.ContributionMarginPct = mathutil.CalculatePercentage(m.GrossProfit, f.GrossRevenue)
	}

	if m.ContributionMarginPct > 0 {
		m.BreakevenPoint = f.FixedCosts / (m.ContributionMarginPct / constants.PercentageMultiplier)
	}

	m.ValuationConservative = m.EBITDA * constants.ConservativeMultiple
	m.ValuationAverage = m.EBITDA * constants.AverageMultiple
	m.ValuationAggressive = m.EBITDA * constants.AggressiveMultiple

	m.HealthScore = Score(m)
	return m
}
