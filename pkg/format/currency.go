// Package format renders monetary amounts, percentages and diagnostic
// messages for a given locale.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with the locale's symbol and separators
// (e.g., "-$1,234.56" or "-R$ 1.234,56").
func (l Locale) Currency(amount float64) string {
	formatted := l.formatPositive(math.Abs(amount))
	if amount < 0 {
		return "-" + l.symbol + formatted
	}
	return l.symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func (l Locale) NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + l.formatPositive(math.Abs(amount))
}

// Percent renders a percentage with two decimals and the locale's decimal mark.
func (l Locale) Percent(pct float64) string {
	return l.NumericCurrency(pct) + "%"
}

func (l Locale) formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(l.thousands)
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + string(l.decimal) + decPart
}
