package config

import "time"

// Config is the root configuration structure for sysmonlint.
type Config struct {
	// Schema contains settings for locating the schema manifest.
	Schema SchemaConfig `yaml:"schema"`

	// Lint contains parser limits and validation policy knobs.
	Lint LintConfig `yaml:"lint"`

	// Watch contains settings for watch mode: debounce, rescan schedule,
	// and the metrics endpoint.
	Watch WatchConfig `yaml:"watch"`

	// History contains settings for the validation run history store.
	History HistoryConfig `yaml:"history"`

	// Logging contains log output settings.
	Logging LoggingConfig `yaml:"logging"`
}

// SchemaConfig locates the schema manifest.
type SchemaConfig struct {
	// Path is the default schema manifest used when --schema is not given.
	Path string `yaml:"path"`
}

// LintConfig contains parser limits and validation policy.
type LintConfig struct {
	// MaxFileSize is the largest document the parser will read, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxDepth is the maximum element nesting depth.
	// Default: 32
	MaxDepth int `yaml:"max_depth"`

	// MaxNodes is the maximum element count per document.
	// Default: 200000
	MaxNodes int `yaml:"max_nodes"`

	// RequireCondition makes a data field without a condition attribute a
	// finding. Off by default: a bare field is a plain value match.
	RequireCondition bool `yaml:"require_condition"`

	// OperatorsByType restricts filter operators per field inType, e.g.
	// "win:UInt32": ["is", "is not"]. Fields whose inType is not listed
	// fall back to the schema-wide operator set.
	OperatorsByType map[string][]string `yaml:"operators_by_type"`
}

// WatchConfig contains watch-mode settings.
type WatchConfig struct {
	// DebounceInterval is how long to wait after a file event before
	// revalidating, so editor write bursts trigger one run.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// RescanSchedule is an optional cron expression for periodic
	// revalidation even without file events (e.g. network mounts where
	// change notification is unreliable). Empty disables rescans.
	RescanSchedule string `yaml:"rescan_schedule"`

	// MetricsAddress is the listen address for the Prometheus metrics
	// endpoint. Empty disables the endpoint.
	MetricsAddress string `yaml:"metrics_address"`
}

// HistoryConfig contains validation run history settings.
type HistoryConfig struct {
	// Enabled turns run recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLite configures the history database.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains settings for the SQLite history database.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 5
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`
}
