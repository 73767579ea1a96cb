package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SYSMONLINT_SECTION_FIELD (e.g., SYSMONLINT_SCHEMA_PATH) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with all default values applied,
// as if an empty YAML file had been loaded. It is used when no configuration
// file is given on the command line.
func DefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format SYSMONLINT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Schema overrides
	if val := os.Getenv("SYSMONLINT_SCHEMA_PATH"); val != "" {
		cfg.Schema.Path = val
	}

	// Lint overrides
	if val := os.Getenv("SYSMONLINT_LINT_MAX_FILE_SIZE"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Lint.MaxFileSize = n
		}
	}
	if val := os.Getenv("SYSMONLINT_LINT_MAX_DEPTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Lint.MaxDepth = n
		}
	}
	if val := os.Getenv("SYSMONLINT_LINT_MAX_NODES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Lint.MaxNodes = n
		}
	}
	if val := os.Getenv("SYSMONLINT_LINT_REQUIRE_CONDITION"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Lint.RequireCondition = b
		}
	}

	// Watch overrides
	if val := os.Getenv("SYSMONLINT_WATCH_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.DebounceInterval = d
		}
	}
	if val := os.Getenv("SYSMONLINT_WATCH_RESCAN_SCHEDULE"); val != "" {
		cfg.Watch.RescanSchedule = val
	}
	if val := os.Getenv("SYSMONLINT_WATCH_METRICS_ADDRESS"); val != "" {
		cfg.Watch.MetricsAddress = val
	}

	// History overrides
	if val := os.Getenv("SYSMONLINT_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("SYSMONLINT_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLite.Path = val
	}
	if val := os.Getenv("SYSMONLINT_HISTORY_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.History.SQLite.BusyTimeout = d
		}
	}

	// Logging overrides
	if val := os.Getenv("SYSMONLINT_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("SYSMONLINT_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
