// Package diagnosis defines the data structures related to a company
// diagnosis and includes functions for computing them from a configuration.
package diagnosis

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/dre-diagnostics/internal/config"
	"github.com/iwvelando/dre-diagnostics/pkg/datetime"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"github.com/iwvelando/dre-diagnostics/pkg/validation"
	"go.uber.org/zap"
)

// Diagnosis holds the engine output for one company and period.
type Diagnosis struct {
	Name     string        `json:"name"`
	Period   string        `json:"period"`
	Figures  dre.Figures   `json:"figures"`
	Metrics  dre.Metrics   `json:"metrics"`
	Findings []dre.Finding `json:"findings"`
}

// Analyze runs the engine over one set of figures. Empty periods default to
// the month of now. Non-finite figures are rejected here so the engine never
// sees them, and so are figures large enough to overflow a metric.
func Analyze(name, period string, figures dre.Figures, now time.Time) (Diagnosis, error) {
	if err := validation.CheckFinite(figures); err != nil {
		return Diagnosis{}, fmt.Errorf("company %s: %w", name, err)
	}

	normalized, err := datetime.NormalizePeriod(period, now)
	if err != nil {
		return Diagnosis{}, fmt.Errorf("company %s: %w", name, err)
	}

	metrics := dre.Compute(figures)
	if err := validation.CheckMetricsFinite(metrics); err != nil {
		return Diagnosis{}, fmt.Errorf("company %s: %w", name, err)
	}

	return Diagnosis{
		Name:     strings.TrimSpace(name),
		Period:   normalized,
		Figures:  figures,
		Metrics:  metrics,
		Findings: dre.Findings(metrics),
	}, nil
}

// GetDiagnoses processes the Diagnoses for all active Companies.
func GetDiagnoses(logger *zap.Logger, conf config.Configuration) ([]Diagnosis, error) {
	return GetDiagnosesAt(logger, conf, time.Now())
}

// GetDiagnosesAt is GetDiagnoses with an injectable clock.
func GetDiagnosesAt(logger *zap.Logger, conf config.Configuration, now time.Time) ([]Diagnosis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Diagnosis
	for _, company := range conf.Companies {
		if !company.Active {
			logger.Debug(fmt.Sprintf("skipping company %s because it is inactive", company.Name),
				zap.String("op", "diagnosis.GetDiagnoses"),
			)
			continue
		}

		result, err := Analyze(company.Name, company.Period, company.Figures, now)
		if err != nil {
			return results, err
		}

		logger.Debug("company diagnosed",
			zap.String("op", "diagnosis.GetDiagnoses"),
			zap.String("company", result.Name),
			zap.String("period", result.Period),
			zap.Float64("ebitda", result.Metrics.EBITDA),
			zap.Int("healthScore", result.Metrics.HealthScore),
		)

		results = append(results, result)
	}

	return results, nil
}

// Find returns the diagnosis with the given name, or nil.
func Find(results []Diagnosis, name string) *Diagnosis {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
