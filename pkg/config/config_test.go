package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sysmonlint.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Lint.MaxFileSize != DefaultLintMaxFileSize {
		t.Errorf("Lint.MaxFileSize = %d, want %d", cfg.Lint.MaxFileSize, DefaultLintMaxFileSize)
	}
	if cfg.Lint.MaxDepth != DefaultLintMaxDepth {
		t.Errorf("Lint.MaxDepth = %d, want %d", cfg.Lint.MaxDepth, DefaultLintMaxDepth)
	}
	if cfg.Lint.MaxNodes != DefaultLintMaxNodes {
		t.Errorf("Lint.MaxNodes = %d, want %d", cfg.Lint.MaxNodes, DefaultLintMaxNodes)
	}
	if cfg.Lint.RequireCondition {
		t.Error("Lint.RequireCondition should default to false")
	}
	if cfg.Watch.DebounceInterval != DefaultWatchDebounceInterval {
		t.Errorf("Watch.DebounceInterval = %v, want %v", cfg.Watch.DebounceInterval, DefaultWatchDebounceInterval)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should default to false")
	}
	if !cfg.History.SQLite.WALMode {
		t.Error("History.SQLite.WALMode should default to true")
	}
	if cfg.History.SQLite.Path != DefaultHistorySQLitePath {
		t.Errorf("History.SQLite.Path = %q, want %q", cfg.History.SQLite.Path, DefaultHistorySQLitePath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want text", cfg.Logging.Format)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := Config{
		Lint: LintConfig{MaxDepth: 8},
		History: HistoryConfig{
			SQLite: SQLiteConfig{Path: "/tmp/custom.db"},
		},
	}
	ApplyDefaults(&cfg)

	if cfg.Lint.MaxDepth != 8 {
		t.Errorf("Lint.MaxDepth = %d, want 8", cfg.Lint.MaxDepth)
	}
	if cfg.History.SQLite.Path != "/tmp/custom.db" {
		t.Errorf("History.SQLite.Path = %q, want /tmp/custom.db", cfg.History.SQLite.Path)
	}
	// An explicitly configured sqlite section does not get WAL forced on.
	if cfg.History.SQLite.WALMode {
		t.Error("WALMode should stay false when the sqlite section is set explicitly")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
schema:
  path: /etc/sysmon/sysmonschema.xml
lint:
  max_depth: 16
  require_condition: true
  operators_by_type:
    "win:UInt32": ["is", "is not"]
watch:
  debounce_interval: 1s
  rescan_schedule: "*/5 * * * *"
logging:
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Schema.Path != "/etc/sysmon/sysmonschema.xml" {
		t.Errorf("Schema.Path = %q", cfg.Schema.Path)
	}
	if cfg.Lint.MaxDepth != 16 {
		t.Errorf("Lint.MaxDepth = %d, want 16", cfg.Lint.MaxDepth)
	}
	if !cfg.Lint.RequireCondition {
		t.Error("Lint.RequireCondition should be true")
	}
	if ops := cfg.Lint.OperatorsByType["win:UInt32"]; len(ops) != 2 || ops[0] != "is" {
		t.Errorf("OperatorsByType[win:UInt32] = %v", ops)
	}
	if cfg.Watch.DebounceInterval != time.Second {
		t.Errorf("Watch.DebounceInterval = %v, want 1s", cfg.Watch.DebounceInterval)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	// Defaults fill the rest.
	if cfg.Lint.MaxFileSize != DefaultLintMaxFileSize {
		t.Errorf("Lint.MaxFileSize = %d, want default", cfg.Lint.MaxFileSize)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "lint: [broken",
			wantErr: "failed to parse",
		},
		{
			name:    "invalid log level",
			content: "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad cron expression",
			content: "watch:\n  rescan_schedule: not-cron\n",
			wantErr: "watch.rescan_schedule",
		},
		{
			name:    "empty operator list",
			content: "lint:\n  operators_by_type:\n    \"win:UInt32\": []\n",
			wantErr: "operators_by_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("SYSMONLINT_SCHEMA_PATH", "/opt/schema.xml")
	t.Setenv("SYSMONLINT_LINT_MAX_DEPTH", "64")
	t.Setenv("SYSMONLINT_LINT_REQUIRE_CONDITION", "true")
	t.Setenv("SYSMONLINT_WATCH_DEBOUNCE_INTERVAL", "2s")
	t.Setenv("SYSMONLINT_LOGGING_FORMAT", "json")

	path := writeConfigFile(t, "schema:\n  path: /etc/schema.xml\n")
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Schema.Path != "/opt/schema.xml" {
		t.Errorf("Schema.Path = %q, want env override", cfg.Schema.Path)
	}
	if cfg.Lint.MaxDepth != 64 {
		t.Errorf("Lint.MaxDepth = %d, want 64", cfg.Lint.MaxDepth)
	}
	if !cfg.Lint.RequireCondition {
		t.Error("Lint.RequireCondition should be true from env")
	}
	if cfg.Watch.DebounceInterval != 2*time.Second {
		t.Errorf("Watch.DebounceInterval = %v, want 2s", cfg.Watch.DebounceInterval)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValueIgnored(t *testing.T) {
	t.Setenv("SYSMONLINT_LINT_MAX_DEPTH", "not-a-number")

	path := writeConfigFile(t, "lint:\n  max_depth: 12\n")
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if cfg.Lint.MaxDepth != 12 {
		t.Errorf("Lint.MaxDepth = %d, want 12 (bad env value ignored)", cfg.Lint.MaxDepth)
	}
}

func TestValidate_HistoryEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Enabled = true
	cfg.History.SQLite.Path = ""
	cfg.History.SQLite.MaxIdleConns = 10 // exceeds MaxOpenConns

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(verr.Errors), verr)
	}
	if verr.Errors[0].Field != "history.sqlite.path" {
		t.Errorf("first error field = %q", verr.Errors[0].Field)
	}
}

func TestValidate_HistoryDisabledSkipsSQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Enabled = false
	cfg.History.SQLite.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("disabled history should not be validated: %v", err)
	}
}

func TestSetAndGetConfig(t *testing.T) {
	old := GetConfig()
	defer SetConfig(old)

	cfg := DefaultConfig()
	SetConfig(cfg)
	if got := GetConfig(); got != cfg {
		t.Error("GetConfig did not return the instance passed to SetConfig")
	}
}
