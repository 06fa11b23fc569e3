package dre

import (
	"iter"

	"github.com/iwvelando/dre-diagnostics/pkg/constants"
)

// Severity classifies a Finding.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding codes, stable across locales.
const (
	CodeGoodEfficiency         = "good-operating-efficiency"
	CodeLowEfficiency          = "low-operating-efficiency"
	CodeGoodContributionMargin = "good-contribution-margin"
	CodeLowContributionMargin  = "low-contribution-margin"
	CodeNoOperatingResult      = "no-operating-result"
)

// Finding messages. They double as translation keys in pkg/format.
const (
	MessageGoodEfficiency         = "Good operating efficiency."
	MessageLowEfficiency          = "Low operating efficiency."
	MessageGoodContributionMargin = "Good contribution margin."
	MessageLowContributionMargin  = "Low contribution margin. Review pricing."
	MessageNoOperatingResult      = "The company is not generating a positive operating result."
)

// Finding is a single qualitative observation about a set of metrics.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Diagnose returns the findings for m in a fixed order: operating
// efficiency, then contribution margin, then profitability. The sequence is
// lazy and may be ranged over any number of times.
func Diagnose(m Metrics) iter.Seq[Finding] {
	return func(yield func(Finding) bool) {
		if m.EBITDAMarginPct < constants.EBITDAMarginMidBand {
			if !yield(Finding{SeverityWarning, CodeLowEfficiency, MessageLowEfficiency}) {
				return
			}
		} else if !yield(Finding{SeverityOK, CodeGoodEfficiency, MessageGoodEfficiency}) {
			return
		}

		if m.ContributionMarginPct < constants.ContributionMarginMidBand {
			if !yield(Finding{SeverityWarning, CodeLowContributionMargin, MessageLowContributionMargin}) {
				return
			}
		} else if !yield(Finding{SeverityOK, CodeGoodContributionMargin, MessageGoodContributionMargin}) {
			return
		}

		if m.EBITDA <= 0 {
			yield(Finding{SeverityError, CodeNoOperatingResult, MessageNoOperatingResult})
		}
	}
}

// Findings collects Diagnose(m) into a slice.
func Findings(m Metrics) []Finding {
	var findings []Finding
	for f := range Diagnose(m) {
		findings = append(findings, f)
	}
	return findings
}
