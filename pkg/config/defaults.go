package config

import "time"

// Default values for configuration fields.
const (
	// Lint defaults
	DefaultLintMaxFileSize = int64(10485760) // 10MB
	DefaultLintMaxDepth    = 32
	DefaultLintMaxNodes    = 200000

	// Watch defaults
	DefaultWatchDebounceInterval = 250 * time.Millisecond

	// History defaults
	DefaultHistoryEnabled            = false
	DefaultHistorySQLitePath         = "data/history.db"
	DefaultHistorySQLiteMaxOpenConns = 5
	DefaultHistorySQLiteMaxIdleConns = 2
	DefaultHistorySQLiteWALMode      = true
	DefaultHistorySQLiteBusyTimeout  = 5 * time.Second

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place. Boolean fields that default to
// true cannot be distinguished from an explicit false after unmarshaling,
// so such defaults (WALMode) are only applied when the enclosing section is
// entirely zero-valued.
func ApplyDefaults(cfg *Config) {
	applyLintDefaults(&cfg.Lint)
	applyWatchDefaults(&cfg.Watch)
	applyHistoryDefaults(&cfg.History)
	applyLoggingDefaults(&cfg.Logging)
}

func applyLintDefaults(cfg *LintConfig) {
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = DefaultLintMaxFileSize
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultLintMaxDepth
	}
	if cfg.MaxNodes == 0 {
		cfg.MaxNodes = DefaultLintMaxNodes
	}
}

func applyWatchDefaults(cfg *WatchConfig) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = DefaultWatchDebounceInterval
	}
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.SQLite == (SQLiteConfig{}) {
		cfg.SQLite.WALMode = DefaultHistorySQLiteWALMode
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.SQLite.MaxOpenConns == 0 {
		cfg.SQLite.MaxOpenConns = DefaultHistorySQLiteMaxOpenConns
	}
	if cfg.SQLite.MaxIdleConns == 0 {
		cfg.SQLite.MaxIdleConns = DefaultHistorySQLiteMaxIdleConns
	}
	if cfg.SQLite.BusyTimeout == 0 {
		cfg.SQLite.BusyTimeout = DefaultHistorySQLiteBusyTimeout
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = DefaultLoggingLevel
	}
	if cfg.Format == "" {
		cfg.Format = DefaultLoggingFormat
	}
}
