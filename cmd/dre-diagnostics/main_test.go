package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = "../../test/test_config.yaml"

func quietConfig(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(testConfig)
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}
	contents := strings.Replace(string(data), "level: debug", "level: error", 1)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "x.yaml", "-output-format", "csv", "-locale", "pt-BR"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.configLocation != "x.yaml" || opts.outputFormat != "csv" || opts.locale != "pt-BR" {
		t.Errorf("unexpected options %+v", opts)
	}

	if _, err := parseFlags([]string{"-unknown"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestRunPretty(t *testing.T) {
	var out bytes.Buffer
	if err := run(options{configLocation: quietConfig(t), locale: "pt-BR"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"--- Diagnóstico de reference company (2024-12) ---",
		"--- Diagnóstico de struggling retailer (2024-12) ---",
		"R$ 40.000,00",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "archived draft") {
		t.Error("inactive company must not be printed")
	}
}

func TestRunCSV(t *testing.T) {
	var out bytes.Buffer
	if err := run(options{configLocation: quietConfig(t), outputFormat: "csv"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][0] != "reference company" {
		t.Errorf("expected reference company first, got %q", records[1][0])
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"Missing config", options{configLocation: filepath.Join(t.TempDir(), "missing.yaml")}},
		{"Bad output format", options{configLocation: quietConfig(t), outputFormat: "xml"}},
		{"Bad locale", options{configLocation: quietConfig(t), locale: "xx-invalid-locale-tag"}},
		{"Bad log level", options{configLocation: quietConfig(t), logLevel: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.opts, &out); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
