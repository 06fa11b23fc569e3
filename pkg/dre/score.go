package dre

import "github.com/iwvelando/dre-diagnostics/pkg/constants"

// Score returns the 0-100 health score for m. It adds three independent
// factors: EBITDA margin band, contribution margin band and a bonus for a
// positive EBITDA. Higher margins never score lower than lower ones.
func Score(m Metrics) int {
	score := ebitdaMarginPoints(m.EBITDAMarginPct) +
		contributionMarginPoints(m.ContributionMarginPct)
	if m.EBITDA > 0 {
		score += constants.ProfitabilityPoints
	}

	switch {
	case score > constants.MaxHealthScore:
		return constants.MaxHealthScore
	case score < 0:
		return 0
	}
	return score
}

func ebitdaMarginPoints(pct float64) int {
	switch {
	case pct >= constants.EBITDAMarginHighBand:
		return constants.EBITDAHighPoints
	case pct >= constants.EBITDAMarginMidBand:
		return constants.EBITDAMidPoints
	default:
		return constants.EBITDALowPoints
	}
}

func contributionMarginPoints(pct float64) int {
	switch {
	case pct >= constants.ContributionMarginHighBand:
		return constants.ContributionHighPoints
	case pct >= constants.ContributionMarginMidBand:
		return constants.ContributionMidPoints
	default:
		return constants.ContributionLowPoints
	}
}
