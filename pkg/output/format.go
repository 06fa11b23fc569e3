// Package output provides utilities for formatting and displaying diagnoses.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/dre-diagnostics/internal/diagnosis"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"github.com/iwvelando/dre-diagnostics/pkg/format"
	"github.com/iwvelando/dre-diagnostics/pkg/mathutil"
)

// Row is one labelled, localized metric line.
type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// IsValuation reports whether the row carries an EBITDA-multiple valuation.
func (r Row) IsValuation() bool {
	return strings.HasPrefix(r.Key, "valuation")
}

// Rows returns the localized metric table of m in display order.
func Rows(loc format.Locale, m dre.Metrics) []Row {
	pct := func(v float64) string {
		if !m.MarginsDefined {
			return loc.Translate("undefined")
		}
		return loc.Percent(v)
	}

	return []Row{
		{"netRevenue", loc.Translate("Net revenue"), loc.Currency(m.NetRevenue)},
		{"grossProfit", loc.Translate("Gross profit"), loc.Currency(m.GrossProfit)},
		{"ebitda", loc.Translate("EBITDA"), loc.Currency(m.EBITDA)},
		{"ebit", loc.Translate("EBIT"), loc.Currency(m.EBIT)},
		{"pretaxIncome", loc.Translate("Pre-tax income"), loc.Currency(m.PretaxIncome)},
		{"netIncome", loc.Translate("Net income"), loc.Currency(m.NetIncome)},
		{"ebitdaMarginPct", loc.Translate("EBITDA margin"), pct(m.EBITDAMarginPct)},
		{"grossMarginPct", loc.Translate("Gross margin"), pct(m.GrossMarginPct)},
		{"netMarginPct", loc.Translate("Net margin"), pct(m.NetMarginPct)},
		{"contributionMarginPct", loc.Translate("Contribution margin"), pct(m.ContributionMarginPct)},
		{"breakevenPoint", loc.Translate("Break-even point"), loc.Currency(m.BreakevenPoint)},
		{"valuationConservative", loc.Translate("Conservative valuation") + " (3x)", loc.Currency(m.ValuationConservative)},
		{"valuationAverage", loc.Translate("Average valuation") + " (5x)", loc.Currency(m.ValuationAverage)},
		{"valuationAggressive", loc.Translate("Aggressive valuation") + " (8x)", loc.Currency(m.ValuationAggressive)},
		{"healthScore", loc.Translate("Health score"), fmt.Sprintf("%d / 100", m.HealthScore)},
	}
}

// PrettyFormat writes a human-readable rather than machine-readable table
// for every diagnosis.
func PrettyFormat(w io.Writer, loc format.Locale, results []diagnosis.Diagnosis) {
	for i, result := range results {
		header := result.Name
		if result.Period != "" {
			header = fmt.Sprintf("%s (%s)", result.Name, result.Period)
		}
		fmt.Fprintln(w, loc.Translate("--- Diagnosis for %s ---", header))

		rows := Rows(loc, result.Metrics)
		width := 0
		for _, r := range rows {
			if n := len([]rune(r.Label)); n > width {
				width = n
			}
		}
		for _, r := range rows {
			pad := width - len([]rune(r.Label))
			fmt.Fprintf(w, "%s%s | %s\n", r.Label, strings.Repeat(" ", pad), r.Value)
		}

		fmt.Fprintf(w, "%s:\n", loc.Translate("Findings"))
		for _, f := range result.Findings {
			fmt.Fprintf(w, "  [%s] %s\n", f.Severity, loc.Finding(f))
		}

		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
}

var csvHeader = []string{
	"company", "period",
	"net_revenue", "gross_profit", "ebitda", "ebit", "pretax_income", "net_income",
	"ebitda_margin_pct", "gross_margin_pct", "net_margin_pct", "contribution_margin_pct",
	"breakeven_point",
	"valuation_conservative", "valuation_average", "valuation_aggressive",
	"health_score", "findings",
}

func money(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', 2, 64)
}

// CsvFormat writes one row per diagnosis in comma-separated value format.
// Numbers are written unlocalized so the file stays machine-readable.
func CsvFormat(w io.Writer, results []diagnosis.Diagnosis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range results {
		m := result.Metrics
		codes := make([]string, 0, len(result.Findings))
		for _, f := range result.Findings {
			codes = append(codes, f.Code)
		}

		record := []string{
			result.Name, result.Period,
			money(m.NetRevenue), money(m.GrossProfit), money(m.EBITDA), money(m.EBIT),
			money(m.PretaxIncome), money(m.NetIncome),
			money(m.EBITDAMarginPct), money(m.GrossMarginPct), money(m.NetMarginPct), money(m.ContributionMarginPct),
			money(m.BreakevenPoint),
			money(m.ValuationConservative), money(m.ValuationAverage), money(m.ValuationAggressive),
			strconv.Itoa(m.HealthScore), strings.Join(codes, ";"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(results []diagnosis.Diagnosis) string {
	var sb strings.Builder
	if err := CsvFormat(&sb, results); err != nil {
		return ""
	}
	return sb.String()
}
