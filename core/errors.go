package core

import (
	"errors"
	"fmt"
)

// ConfigError is a startup configuration failure carrying actionable
// remediation text. These are the only errors that terminate the
// process; everything encountered inside the loops is absorbed there.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors.
const (
	ErrCodeConfigFileMissing = "CONFIG_FILE_MISSING"
	ErrCodeMissingPrivateKey = "MISSING_PRIVATE_KEY"
	ErrCodeInvalidAPIURL     = "INVALID_API_URL"
	ErrCodeSamplerMissing    = "SAMPLER_TOOL_MISSING"
)

// ErrConfigFileMissing returns an error for a missing config file.
func ErrConfigFileMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFileMissing,
		Message: fmt.Sprintf("Config file not found: %s", path),
		Action: "Create it with your private key:\n" +
			"  mkdir -p ~/.config/coredump\n" +
			"  echo 'private_key: \"your-key-here\"' > ~/.config/coredump/config.yaml",
	}
}

// ErrMissingPrivateKey returns an error for a config without a key.
func ErrMissingPrivateKey(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingPrivateKey,
		Message: "No private key configured",
		Action:  fmt.Sprintf("Set private_key in %s or export COREDUMP_PRIVATE_KEY", path),
	}
}

// ErrInvalidAPIURL returns an error for a malformed collector URL.
func ErrInvalidAPIURL(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidAPIURL,
		Message: fmt.Sprintf("Invalid collector URL %q: %s", url, reason),
		Action:  "Set COREDUMP_API_URL (or api_url in the config file) to a valid http(s) URL",
	}
}

// ErrSamplerToolMissing returns an error for a missing xdotool binary.
func ErrSamplerToolMissing() *ConfigError {
	return &ConfigError{
		Code:    ErrCodeSamplerMissing,
		Message: "xdotool is required but not installed",
		Action:  "Install it with: sudo apt-get install xdotool",
	}
}

// IsConfigError reports whether err is (or wraps) a ConfigError and
// returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}
