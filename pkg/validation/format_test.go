package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{"Valid pretty format", "pretty", false},
		{"Valid csv format", "csv", false},
		{"Invalid format", "json", true},
		{"Empty format", "", true},
		{"Case sensitive - uppercase", "PRETTY", true},
		{"Leading/trailing spaces", " csv ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%s) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%s) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateLocale(t *testing.T) {
	tests := []struct {
		name      string
		locale    string
		expectErr bool
	}{
		{"Empty uses default", "", false},
		{"English", "en", false},
		{"Portuguese", "pt-BR", false},
		{"Malformed", "??", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocale(tt.locale)
			if (err != nil) != tt.expectErr {
				t.Errorf("ValidateLocale(%q) error = %v, expectErr %v", tt.locale, err, tt.expectErr)
			}
		})
	}
}
