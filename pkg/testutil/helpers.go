// Package testutil provides common fixtures for testing.
package testutil

import "github.com/iwvelando/dre-diagnostics/pkg/dre"

// ReferenceFigures returns a profitable income statement whose derived
// values are round numbers: net revenue 90000, EBITDA 40000, net income 30000.
func ReferenceFigures() dre.Figures {
	return dre.Figures{
		GrossRevenue:             100000,
		Deductions:               10000,
		VariableCosts:            30000,
		FixedCosts:               20000,
		DepreciationAmortization: 5000,
		IncomeTaxes:              5000,
	}
}

// LossFigures returns an income statement whose costs exceed revenue
// (EBITDA -12000).
func LossFigures() dre.Figures {
	return dre.Figures{
		GrossRevenue:             50000,
		Deductions:               5000,
		VariableCosts:            30000,
		FixedCosts:               25000,
		CommercialExpenses:       2000,
		DepreciationAmortization: 1000,
		FinancialResult:          -1500,
	}
}

// ZeroFigures returns an all-zero income statement.
func ZeroFigures() dre.Figures {
	return dre.Figures{}
}
