package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		amount   float64
		expected string
	}{
		{"English zero", "en", 0, "$0.00"},
		{"English thousands", "en", 1234.56, "$1,234.56"},
		{"English millions negative", "en", -1234567.891, "-$1,234,567.89"},
		{"Portuguese thousands", "pt-BR", 1234.56, "R$ 1.234,56"},
		{"Portuguese negative", "pt-BR", -120000, "-R$ 120.000,00"},
		{"Portuguese small", "pt-BR", 12.5, "R$ 12,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustLocale(tt.locale).Currency(tt.amount)
			if got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrencyAndPercent(t *testing.T) {
	en := MustLocale("en")
	pt := MustLocale("pt-BR")

	if got := en.NumericCurrency(-9876.5); got != "-9,876.50" {
		t.Errorf("NumericCurrency = %q", got)
	}
	if got := en.Percent(44.4444); got != "44.44%" {
		t.Errorf("Percent = %q", got)
	}
	if got := pt.Percent(-12.345); got != "-12,35%" && got != "-12,34%" {
		t.Errorf("Percent = %q", got)
	}
}
