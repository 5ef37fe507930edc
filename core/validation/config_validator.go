package validation

import (
	"fmt"
	"os"
	"os/exec"

	"coredump/core"
)

// ValidationResult is the outcome of a single configuration check.
type ValidationResult struct {
	Valid   bool
	Message string
	Error   error
}

// ConfigValidator runs the individual startup checks. It holds the
// loaded config from CheckConfig so later checks can inspect it.
type ConfigValidator struct {
	cfg *core.Config

	// lookPath is swapped in tests to fake tool presence.
	lookPath func(file string) (string, error)
}

// NewConfigValidator creates a ConfigValidator with default settings.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{lookPath: exec.LookPath}
}

// Config returns the config loaded by CheckConfig, nil before it ran or
// if loading failed.
func (v *ConfigValidator) Config() *core.Config {
	return v.cfg
}

// CheckConfigFile validates that the config file exists, or that the
// private key is supplied through the environment instead.
func (v *ConfigValidator) CheckConfigFile() ValidationResult {
	path, err := core.ConfigPath()
	if err != nil {
		return ValidationResult{Valid: false, Message: "Could not resolve config path", Error: err}
	}

	if _, statErr := os.Stat(path); statErr != nil {
		if os.Getenv("COREDUMP_PRIVATE_KEY") != "" {
			return ValidationResult{Valid: true, Message: "No config file, using COREDUMP_PRIVATE_KEY"}
		}
		return ValidationResult{
			Valid:   false,
			Message: "Config file not found",
			Error:   core.ErrConfigFileMissing(path),
		}
	}
	return ValidationResult{Valid: true, Message: fmt.Sprintf("Config file found (%s)", path)}
}

// CheckConfig loads the full configuration, which also enforces the
// private-key requirement. The loaded config is retained for later
// checks.
func (v *ConfigValidator) CheckConfig() ValidationResult {
	cfg, err := core.LoadConfig()
	if err != nil {
		msg := "Configuration invalid"
		if configErr, ok := core.IsConfigError(err); ok {
			msg = configErr.Message
		}
		return ValidationResult{Valid: false, Message: msg, Error: err}
	}
	v.cfg = cfg
	return ValidationResult{Valid: true, Message: "Private key configured"}
}

// CheckCollectorURL validates the collector endpoint of the loaded
// config. Requires CheckConfig to have passed.
func (v *ConfigValidator) CheckCollectorURL() ValidationResult {
	if v.cfg == nil {
		return ValidationResult{Valid: false, Message: "Configuration not loaded"}
	}
	if err := ValidateCollectorURL(v.cfg.APIURL); err != nil {
		return ValidationResult{
			Valid:   false,
			Message: "Collector URL invalid",
			Error:   core.ErrInvalidAPIURL(v.cfg.APIURL, err.Error()),
		}
	}
	return ValidationResult{Valid: true, Message: "Collector URL valid"}
}

// CheckSamplerTool verifies that xdotool is on PATH. Without it no focus
// sample can ever be taken, so a missing tool is fatal at startup.
func (v *ConfigValidator) CheckSamplerTool() ValidationResult {
	if _, err := v.lookPath("xdotool"); err != nil {
		return ValidationResult{
			Valid:   false,
			Message: "xdotool not found on PATH",
			Error:   core.ErrSamplerToolMissing(),
		}
	}
	return ValidationResult{Valid: true, Message: "xdotool available"}
}
