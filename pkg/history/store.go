package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

// Config contains settings for the SQLite history store.
type Config struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 5
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/history.db",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Store persists validation runs in SQLite.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// NewStore opens (creating if needed) the history database at the configured
// path and initializes its schema.
func NewStore(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := slog.Default().With("component", "history.store")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, NewStorageError("open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Record persists a validation run.
func (s *Store) Record(ctx context.Context, run *Run) error {
	var findings interface{}
	if len(run.Findings) > 0 {
		data, err := json.Marshal(run.Findings)
		if err != nil {
			return NewStorageError("marshal_findings", err)
		}
		findings = string(data)
	}

	var configVersion interface{}
	if run.ConfigVersion != "" {
		configVersion = run.ConfigVersion
	}

	query := `
		INSERT INTO runs (
			id, recorded_at,
			schema_path, config_path, schema_version, config_version,
			valid, finding_count, findings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.RecordedAt,
		run.SchemaPath, run.ConfigPath, run.SchemaVersion, configVersion,
		run.Valid, run.FindingCount, findings,
	)
	if err != nil {
		return NewStorageError("record", err)
	}

	return nil
}

// Get retrieves a single run by ID. It returns sql.ErrNoRows wrapped in a
// StorageError when no run with that ID exists.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, recorded_at, schema_path, config_path, schema_version,
		       config_version, valid, finding_count, findings
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, NewStorageError("get", err)
	}
	return run, nil
}

// List retrieves runs matching the query, newest first.
func (s *Store) List(ctx context.Context, q Query) ([]*Run, error) {
	sqlQuery := `
		SELECT id, recorded_at, schema_path, config_path, schema_version,
		       config_version, valid, finding_count, findings
		FROM runs
	`
	var where []string
	var args []interface{}

	if q.ConfigPath != "" {
		where = append(where, "config_path = ?")
		args = append(args, q.ConfigPath)
	}
	if q.OnlyInvalid {
		where = append(where, "valid = 0")
	}
	if !q.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, q.Since)
	}

	for i, clause := range where {
		if i == 0 {
			sqlQuery += " WHERE " + clause
		} else {
			sqlQuery += " AND " + clause
		}
	}

	sqlQuery += " ORDER BY recorded_at DESC"

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("list", err)
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, NewStorageError("scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("list", err)
	}

	return runs, nil
}

// Count returns the number of recorded runs for a configuration path,
// or all runs when path is empty.
func (s *Store) Count(ctx context.Context, configPath string) (int64, error) {
	var n int64
	var err error
	if configPath == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM runs WHERE config_path = ?", configPath).Scan(&n)
	}
	if err != nil {
		return 0, NewStorageError("count", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("close", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var configVersion sql.NullString
	var findings sql.NullString

	err := row.Scan(
		&run.ID, &run.RecordedAt,
		&run.SchemaPath, &run.ConfigPath, &run.SchemaVersion, &configVersion,
		&run.Valid, &run.FindingCount, &findings,
	)
	if err != nil {
		return nil, err
	}

	if configVersion.Valid {
		run.ConfigVersion = configVersion.String
	}
	if findings.Valid && findings.String != "" {
		var fs []*errors.Finding
		if err := json.Unmarshal([]byte(findings.String), &fs); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
		run.Findings = fs
	}

	return &run, nil
}
