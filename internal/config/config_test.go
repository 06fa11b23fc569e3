package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/dre-diagnostics/pkg/constants"
)

const testConfigPath = "../../test/test_config.yaml"

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test config file",
			configPath: testConfigPath,
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDecodesFigures(t *testing.T) {
	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(conf.Companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(conf.Companies))
	}

	ref := conf.Companies[0]
	if ref.Name != "reference company" || !ref.Active || ref.Period != "2024-12" {
		t.Errorf("unexpected company header: %+v", ref)
	}
	if ref.Figures.GrossRevenue != 100000 || ref.Figures.Deductions != 10000 ||
		ref.Figures.VariableCosts != 30000 || ref.Figures.FixedCosts != 20000 ||
		ref.Figures.DepreciationAmortization != 5000 || ref.Figures.IncomeTaxes != 5000 {
		t.Errorf("unexpected figures: %+v", ref.Figures)
	}
	if conf.Companies[1].Figures.FinancialResult != -1500 {
		t.Errorf("expected signed financial result, got %v", conf.Companies[1].Figures.FinancialResult)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config: %+v", conf.Logging)
	}
	if conf.Output.Format != "pretty" || conf.Output.Locale != "en" {
		t.Errorf("unexpected output config: %+v", conf.Output)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	yamlData := `
output:
  locale: pt-BR
companies:
  - name: Padaria
    active: true
    figures:
      grossRevenue: 20000
      commercialExpenses: 1200
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if len(conf.Companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(conf.Companies))
	}
	if conf.Companies[0].Figures.CommercialExpenses != 1200 {
		t.Errorf("expected commercial expenses 1200, got %v", conf.Companies[0].Figures.CommercialExpenses)
	}
	if conf.Companies[0].Figures.Deductions != 0 {
		t.Errorf("expected omitted figures to default to 0")
	}
	if conf.Output.Locale != "pt-BR" {
		t.Errorf("expected locale pt-BR, got %s", conf.Output.Locale)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("companies: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadConfigurationTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("companies:\n  - name: x\n    figures:\n      grossRevenue: lots\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Fatal("expected decode error for non-numeric figure")
	}
}

func TestActiveCompanies(t *testing.T) {
	conf := &Configuration{
		Companies: []Company{
			{Name: "a", Active: true},
			{Name: "b", Active: false},
			{Name: "c", Active: true},
		},
	}

	active := conf.ActiveCompanies()
	if len(active) != 2 || active[0].Name != "a" || active[1].Name != "c" {
		t.Errorf("ActiveCompanies() = %+v", active)
	}
}

func TestValidateConfigurationAt(t *testing.T) {
	conf, err := LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	if warnings := conf.ValidateConfigurationAt(now); len(warnings) != 0 {
		t.Errorf("expected no warnings for test config, got %v", warnings)
	}

	conf.Companies[0].Figures.VariableCosts = -5
	warnings := conf.ValidateConfigurationAt(now)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "variableCosts") {
		t.Errorf("expected a negative variableCosts warning, got %v", warnings)
	}
}

func TestExampleConfigurationIsValid(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if len(conf.ActiveCompanies()) == 0 {
		t.Fatal("example configuration has no active companies")
	}

	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	if warnings := conf.ValidateConfigurationAt(now); len(warnings) != 0 {
		t.Errorf("expected no warnings for the example configuration, got %v", warnings)
	}
}
