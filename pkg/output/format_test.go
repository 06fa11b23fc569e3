package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/dre-diagnostics/internal/diagnosis"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/format"
	"github.com/iwvelando/dre-diagnostics/pkg/testutil"
)

func sampleResults(t *testing.T) []diagnosis.Diagnosis {
	t.Helper()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	ref, err := diagnosis.Analyze("Reference", "2024-12", testutil.ReferenceFigures(), now)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	loss, err := diagnosis.Analyze("Loss, Inc", "2024-12", testutil.LossFigures(), now)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return []diagnosis.Diagnosis{ref, loss}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, format.MustLocale(constants.LocaleEnglish), sampleResults(t))
	out := buf.String()

	for _, want := range []string{
		"--- Diagnosis for Reference (2024-12) ---",
		"$90,000.00",
		"$40,000.00",
		"44.44%",
		"$120,000.00",
		"100 / 100",
		"[ok] Good operating efficiency.",
		"[error] The company is not generating a positive operating result.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, out)
		}
	}
}

func TestPrettyFormatPortuguese(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, format.MustLocale(constants.LocalePortuguese), sampleResults(t)[:1])
	out := buf.String()

	for _, want := range []string{
		"--- Diagnóstico de Reference (2024-12) ---",
		"Receita líquida",
		"R$ 90.000,00",
		"44,44%",
		"Boa eficiência operacional.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, out)
		}
	}
}

func TestPrettyFormatUndefinedMargins(t *testing.T) {
	d, err := diagnosis.Analyze("Empty", "2024-12", testutil.ZeroFigures(), time.Now())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, format.MustLocale(constants.LocaleEnglish), []diagnosis.Diagnosis{d})
	if !strings.Contains(buf.String(), "undefined") {
		t.Errorf("expected undefined margins in output:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	data := CsvString(sampleResults(t))
	if data == "" {
		t.Fatal("CsvString returned empty output")
	}

	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if len(records[0]) != len(csvHeader) {
		t.Fatalf("header has %d columns, expected %d", len(records[0]), len(csvHeader))
	}

	ref := records[1]
	if ref[0] != "Reference" || ref[2] != "90000.00" || ref[4] != "40000.00" || ref[8] != "44.44" {
		t.Errorf("unexpected reference row: %v", ref)
	}
	if ref[16] != "100" {
		t.Errorf("expected health score 100, got %s", ref[16])
	}

	loss := records[2]
	if loss[0] != "Loss, Inc" {
		t.Errorf("expected quoted company name to round-trip, got %q", loss[0])
	}
	if !strings.Contains(loss[17], "no-operating-result") {
		t.Errorf("expected finding codes in last column, got %q", loss[17])
	}
}

func TestRows(t *testing.T) {
	results := sampleResults(t)
	rows := Rows(format.MustLocale(constants.LocaleEnglish), results[0].Metrics)

	byKey := make(map[string]Row, len(rows))
	valuations := 0
	for _, r := range rows {
		byKey[r.Key] = r
		if r.IsValuation() {
			valuations++
		}
	}

	if valuations != 3 {
		t.Errorf("expected 3 valuation rows, got %d", valuations)
	}
	if got := byKey["valuationConservative"].Value; got != "$120,000.00" {
		t.Errorf("conservative valuation = %q", got)
	}
	if got := byKey["healthScore"].Value; got != "100 / 100" {
		t.Errorf("health score = %q", got)
	}
	if byKey["ebitda"].IsValuation() {
		t.Error("ebitda row must not count as a valuation")
	}
}
