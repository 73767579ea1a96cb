package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

// Run is one recorded validation run.
type Run struct {
	// ID is a unique identifier for the run.
	ID string `json:"id"`

	// RecordedAt is when the run was recorded.
	RecordedAt time.Time `json:"recorded_at"`

	// SchemaPath is the schema manifest that was validated against.
	SchemaPath string `json:"schema_path"`

	// ConfigPath is the configuration file that was validated.
	ConfigPath string `json:"config_path"`

	// SchemaVersion is the version declared by the schema manifest.
	SchemaVersion string `json:"schema_version"`

	// ConfigVersion is the schemaversion declared by the configuration,
	// empty if the attribute was missing or unparseable.
	ConfigVersion string `json:"config_version,omitempty"`

	// Valid reports whether the run produced no findings.
	Valid bool `json:"valid"`

	// FindingCount is the number of findings.
	FindingCount int `json:"finding_count"`

	// Findings holds the findings themselves.
	Findings []*errors.Finding `json:"findings,omitempty"`
}

// NewRun creates a Run with a fresh ID and the current time.
func NewRun(schemaPath, configPath string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		SchemaPath: schemaPath,
		ConfigPath: configPath,
	}
}

// Query filters runs returned by Store.List.
type Query struct {
	// ConfigPath restricts results to runs for one configuration file.
	// Empty matches all.
	ConfigPath string

	// OnlyInvalid restricts results to runs that produced findings.
	OnlyInvalid bool

	// Since restricts results to runs recorded at or after this time.
	// The zero value matches all.
	Since time.Time

	// Limit caps the number of returned runs. Zero means the default of 100.
	Limit int

	// Offset skips that many runs for pagination.
	Offset int
}

// StorageError represents a failure in the history store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
