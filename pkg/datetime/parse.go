// Package datetime provides reporting-period utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dre-diagnostics/pkg/constants"
)

const (
	// PeriodLayout is the format expected in config files and is also the
	// output period format.
	PeriodLayout = constants.PeriodLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParsePeriod parses a reporting period such as "2025-12".
func ParsePeriod(period string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q, expected YYYY-MM: %w", period, err)
	}
	return t, nil
}

// NormalizePeriod returns period in canonical form, or the period of now
// when period is empty.
func NormalizePeriod(period string, now time.Time) (string, error) {
	if strings.TrimSpace(period) == "" {
		return now.Format(PeriodLayout), nil
	}
	t, err := ParsePeriod(period)
	if err != nil {
		return "", err
	}
	return t.Format(PeriodLayout), nil
}

// PeriodBefore returns true if firstPeriod is strictly before secondPeriod.
func PeriodBefore(firstPeriod string, secondPeriod string) (bool, error) {
	firstT, err := ParsePeriod(firstPeriod)
	if err != nil {
		return false, err
	}
	secondT, err := ParsePeriod(secondPeriod)
	if err != nil {
		return false, err
	}
	return firstT.Before(secondT), nil
}

// IsFuturePeriod reports whether period starts after the month containing now.
func IsFuturePeriod(period string, now time.Time) (bool, error) {
	return PeriodBefore(now.Format(PeriodLayout), period)
}
