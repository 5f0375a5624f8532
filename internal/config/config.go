// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/iwvelando/coop-loan-preview/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for coop-loan-preview.
type Configuration struct {
	Defaults     formvalue.LoanForm `yaml:"defaults,omitempty"`
	Applications []Application      `yaml:"applications"`
	Logging      LoggingConfig      `yaml:"logging,omitempty"`
	Output       OutputConfig       `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"`         // pretty, csv
	CurrencySymbol string `yaml:"currencySymbol,omitempty"` // prefix for pretty amounts
	Locale         string `yaml:"locale,omitempty"`         // digit grouping, e.g. en-IN
}

// Application is one loan application to preview. Its form fields sit at the
// same level as name and disabled.
type Application struct {
	Name               string `yaml:"name"`
	Disabled           bool   `yaml:"disabled,omitempty"`
	formvalue.LoanForm `yaml:",inline" mapstructure:",squash"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, e.g. an
// uploaded file.
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

// ActiveApplications returns the enabled applications with the configured
// defaults filled into their blank fields.
func (c *Configuration) ActiveApplications() []Application {
	active := make([]Application, 0, len(c.Applications))
	for _, app := range c.Applications {
		if app.Disabled {
			continue
		}
		app.LoanForm = app.LoanForm.WithDefaults(c.Defaults)
		active = append(active, app)
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	active := c.ActiveApplications()
	if len(active) == 0 {
		warnings = append(warnings, "No active loan applications configured")
	}

	seen := make(map[string]struct{}, len(active))
	for i, app := range active {
		name := strings.TrimSpace(app.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Application #%d has no name", i+1))
		} else if _, dup := seen[name]; dup {
			warnings = append(warnings, fmt.Sprintf("Application name '%s' is used more than once", name))
		}
		seen[name] = struct{}{}

		form := app.LoanForm
		if !app.DurationMonths.Blank() {
			months := app.Duration()
			switch {
			case months <= 0:
				warnings = append(warnings, fmt.Sprintf("Application '%s' has a non-positive duration '%s'", app.Name, app.DurationMonths))
			case !amortization.IsDurationPreset(months):
				warnings = append(warnings, fmt.Sprintf("Application '%s' uses a %d month duration which is not one of the standard presets %v",
					app.Name, months, amortization.DurationPresets))
			}
			// The duration supplies the monthly principal payment.
			if updated, err := form.ApplyDuration(months); err == nil {
				form = updated
			}
		}

		for _, fieldErr := range validation.ValidateLoanForm(form) {
			warnings = append(warnings, fmt.Sprintf("Application '%s' field %s: %s", app.Name, fieldErr.Field, fieldErr.Message))
		}
	}

	return warnings
}
