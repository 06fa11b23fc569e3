package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

func init() {
	pt := language.BrazilianPortuguese
	for key, msg := range map[string]string{
		dre.MessageGoodEfficiency:         "Boa eficiência operacional.",
		dre.MessageLowEfficiency:          "Baixa eficiência operacional.",
		dre.MessageGoodContributionMargin: "Boa margem de contribuição.",
		dre.MessageLowContributionMargin:  "Margem de contribuição baixa. Rever precificação.",
		dre.MessageNoOperatingResult:      "Empresa não está gerando resultado operacional positivo.",

		"Net revenue":              "Receita líquida",
		"Gross profit":             "Lucro bruto",
		"EBITDA":                   "EBITDA",
		"EBIT":                     "EBIT",
		"Pre-tax income":           "Lucro antes do IR",
		"Net income":               "Lucro líquido",
		"EBITDA margin":            "Margem EBITDA",
		"Gross margin":             "Margem bruta",
		"Net margin":               "Margem líquida",
		"Contribution margin":      "Margem de contribuição",
		"Break-even point":         "Ponto de equilíbrio",
		"Conservative valuation":   "Valuation conservador",
		"Average valuation":        "Valuation médio",
		"Aggressive valuation":     "Valuation agressivo",
		"Health score":             "Score financeiro",
		"Findings":                 "Diagnóstico",
		"undefined":                "indefinido",
		"--- Diagnosis for %s ---": "--- Diagnóstico de %s ---",
	} {
		if err := message.SetString(pt, key, msg); err != nil {
			panic(fmt.Sprintf("failed to register translation %q: %v", key, err))
		}
	}
}

// Locale bundles number separators, currency symbol and a message printer.
type Locale struct {
	tag       language.Tag
	printer   *message.Printer
	symbol    string
	thousands byte
	decimal   byte
}

// NewLocale resolves name (e.g. "en", "pt-BR", "pt") to the closest
// supported locale. An empty name selects the default locale.
func NewLocale(name string) (Locale, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DefaultLocale
	}

	requested, err := language.Parse(name)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", name, err)
	}

	_, idx, confidence := matcher.Match(requested)
	if confidence == language.No {
		return Locale{}, fmt.Errorf("unsupported locale %q", name)
	}

	return newLocale(supported[idx]), nil
}

// MustLocale is NewLocale for known-good names; it panics on error.
func MustLocale(name string) Locale {
	l, err := NewLocale(name)
	if err != nil {
		panic(err)
	}
	return l
}

func newLocale(tag language.Tag) Locale {
	l := Locale{
		tag:       tag,
		printer:   message.NewPrinter(tag),
		symbol:    "$",
		thousands: ',',
		decimal:   '.',
	}
	if tag == language.BrazilianPortuguese {
		l.symbol = "R$ "
		l.thousands = '.'
		l.decimal = ','
	}
	return l
}

// Tag returns the BCP 47 tag of the locale.
func (l Locale) Tag() string {
	return l.tag.String()
}

// Translate returns msg in the locale's language, formatted with args.
func (l Locale) Translate(msg string, args ...interface{}) string {
	p := l.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf(msg, args...)
}

// Finding returns the localized message of f.
func (l Locale) Finding(f dre.Finding) string {
	return l.Translate(f.Message)
}
