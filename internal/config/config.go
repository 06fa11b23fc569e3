// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"github.com/iwvelando/dre-diagnostics/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for dre-diagnostics.
type Configuration struct {
	Companies []Company     `yaml:"companies"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	Locale string `yaml:"locale,omitempty"` // en, pt-BR
}

// Company holds the income statement of one company for one period.
type Company struct {
	Name    string      `yaml:"name"`
	Active  bool        `yaml:"active"`
	Period  string      `yaml:"period,omitempty"` // YYYY-MM
	Figures dre.Figures `yaml:"figures"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveCompanies returns the companies flagged as active, in file order.
func (c *Configuration) ActiveCompanies() []Company {
	var active []Company
	for _, company := range c.Companies {
		if company.Active {
			active = append(active, company)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	return c.ValidateConfigurationAt(time.Now())
}

// ValidateConfigurationAt validates the configuration against a fixed clock.
func (c *Configuration) ValidateConfigurationAt(now time.Time) []string {
	validator := validation.ConfigValidator{
		Companies: c.toValidationCompanies(),
		Now:       now,
	}
	return validator.ValidateAll()
}
