package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
const Schema = `
-- Validation runs table
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    recorded_at TIMESTAMP NOT NULL,

    -- Inputs
    schema_path TEXT NOT NULL,
    config_path TEXT NOT NULL,
    schema_version TEXT NOT NULL,
    config_version TEXT,

    -- Outcome
    valid BOOLEAN NOT NULL,
    finding_count INTEGER NOT NULL,
    findings TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_config_path ON runs(config_path);
CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_info (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_info`
