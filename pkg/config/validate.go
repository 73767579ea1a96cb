package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "lint.max_depth").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateLint(cfg *LintConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "lint.max_file_size",
			Message: "must not be negative",
		})
	}
	if cfg.MaxDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "lint.max_depth",
			Message: "must be at least 1",
		})
	}
	if cfg.MaxNodes < 1 {
		errs = append(errs, FieldError{
			Field:   "lint.max_nodes",
			Message: "must be at least 1",
		})
	}
	for inType, ops := range cfg.OperatorsByType {
		if len(ops) == 0 {
			errs = append(errs, FieldError{
				Field:   "lint.operators_by_type." + inType,
				Message: "must list at least one operator",
			})
		}
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce_interval",
			Message: "must not be negative",
		})
	}
	if cfg.RescanSchedule != "" {
		if _, err := cron.ParseStandard(cfg.RescanSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.rescan_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.path",
			Message: "must not be empty when history is enabled",
		})
	}
	if cfg.SQLite.MaxOpenConns < 1 {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.max_open_conns",
			Message: "must be at least 1",
		})
	}
	if cfg.SQLite.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.max_idle_conns",
			Message: "must not be negative",
		})
	}
	if cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.max_idle_conns",
			Message: "must not exceed max_open_conns",
		})
	}
	if cfg.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "history.sqlite.busy_timeout",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Level),
		})
	}

	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("must be text or json; got %q", cfg.Format),
		})
	}

	return errs
}
