package config

import "github.com/iwvelando/dre-diagnostics/pkg/validation"

// toValidationCompanies converts the configured companies into the shape
// expected by pkg/validation.
func (c *Configuration) toValidationCompanies() []validation.CompanyConfig {
	if len(c.Companies) == 0 {
		return nil
	}

	companies := make([]validation.CompanyConfig, 0, len(c.Companies))
	for _, company := range c.Companies {
		companies = append(companies, validation.CompanyConfig{
			Name:    company.Name,
			Active:  company.Active,
			Period:  company.Period,
			Figures: company.Figures,
		})
	}
	return companies
}
