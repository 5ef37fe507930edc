package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default tracking parameters. These shaped the original deployment and
// rarely need changing; every one of them can still be overridden via
// COREDUMP_* environment variables.
const (
	DefaultAPIURL        = "https://coredump.vercel.app/api/activity"
	DefaultEditorProcess = "zed"

	DefaultPollIntervalSeconds  = 5
	DefaultFlushIntervalSeconds = 45
	DefaultIdleThresholdSeconds = 60
	DefaultMinSendSeconds       = 30
	DefaultQuietLogSeconds      = 300
	DefaultSendTimeoutSeconds   = 10

	DefaultLogFile = "coredump.log"
)

// Config holds all runtime configuration. The private key is the only
// required value; it is treated as an opaque credential and forwarded
// verbatim to the collector.
type Config struct {
	PrivateKey    string
	APIURL        string
	EditorProcess string

	PollInterval    time.Duration
	FlushInterval   time.Duration
	IdleThreshold   time.Duration
	MinSendDuration time.Duration
	QuietLogGap     time.Duration
	SendTimeout     time.Duration

	LogFile string
}

// fileConfig is the YAML shape of the config file. Everything except the
// private key is optional.
type fileConfig struct {
	PrivateKey    string `yaml:"private_key"`
	APIURL        string `yaml:"api_url"`
	EditorProcess string `yaml:"editor"`
	LogFile       string `yaml:"log_file"`
}

// ConfigPath returns the config file location: COREDUMP_CONFIG if set,
// otherwise ~/.config/coredump/config.yaml.
func ConfigPath() (string, error) {
	if path := os.Getenv("COREDUMP_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "coredump", "config.yaml"), nil
}

// LoadConfig reads the YAML config file, applies COREDUMP_* environment
// overrides, and validates the result. A missing config file is fatal
// unless the private key is supplied via COREDUMP_PRIVATE_KEY.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if os.Getenv("COREDUMP_PRIVATE_KEY") == "" {
			return nil, ErrConfigFileMissing(path)
		}
	default:
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	cfg := &Config{
		PrivateKey:    GetEnvOrDefault("COREDUMP_PRIVATE_KEY", fc.PrivateKey),
		APIURL:        GetEnvOrDefault("COREDUMP_API_URL", fc.APIURL),
		EditorProcess: GetEnvOrDefault("COREDUMP_EDITOR", fc.EditorProcess),
		LogFile:       GetEnvOrDefault("COREDUMP_LOG_FILE", fc.LogFile),

		PollInterval:    ParseDurationEnv("COREDUMP_POLL_INTERVAL_SECONDS", DefaultPollIntervalSeconds),
		FlushInterval:   ParseDurationEnv("COREDUMP_FLUSH_INTERVAL_SECONDS", DefaultFlushIntervalSeconds),
		IdleThreshold:   ParseDurationEnv("COREDUMP_IDLE_THRESHOLD_SECONDS", DefaultIdleThresholdSeconds),
		MinSendDuration: ParseDurationEnv("COREDUMP_MIN_SEND_SECONDS", DefaultMinSendSeconds),
		QuietLogGap:     ParseDurationEnv("COREDUMP_QUIET_LOG_SECONDS", DefaultQuietLogSeconds),
		SendTimeout:     ParseDurationEnv("COREDUMP_SEND_TIMEOUT_SECONDS", DefaultSendTimeoutSeconds),
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.EditorProcess == "" {
		cfg.EditorProcess = DefaultEditorProcess
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	if strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, ErrMissingPrivateKey(path)
	}

	return cfg, nil
}
