package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"sysmon-tools/sysmonlint/pkg/history"
	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
	"sysmon-tools/sysmonlint/pkg/sysmon/parser"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
	"sysmon-tools/sysmonlint/pkg/sysmon/validator"
)

// Outcome is what a ValidateFunc reports for one completed run.
type Outcome struct {
	// Findings holds every validation finding. Never nil.
	Findings *sysmonErrors.FindingList

	// SchemaVersion is the version of the schema manifest used.
	SchemaVersion string

	// ConfigVersion is the schemaversion attribute the configuration
	// declares, empty when it declares none.
	ConfigVersion string
}

// ValidateFunc validates one configuration file against a schema manifest.
type ValidateFunc func(schemaPath, configPath string) (*Outcome, error)

func defaultValidate(schemaPath, configPath string) (*Outcome, error) {
	s, err := schema.Parse(schemaPath)
	if err != nil {
		return nil, err
	}

	doc, err := parser.NewParser().Parse(configPath)
	if err != nil {
		return nil, err
	}

	findings, err := validator.New(s).Validate(doc)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Findings: findings, SchemaVersion: s.Version().String()}
	out.ConfigVersion, _ = doc.Root.Attr("schemaversion")
	return out, nil
}

// Triggers reported on Result.
const (
	TriggerStart  = "start"
	TriggerChange = "change"
	TriggerRescan = "rescan"
)

// Result is the outcome of validating one configuration file.
type Result struct {
	// ConfigPath is the configuration that was validated.
	ConfigPath string

	// Trigger says why the run happened: start, change, or rescan.
	Trigger string

	// Findings is nil when Err is set.
	Findings *sysmonErrors.FindingList

	// SchemaVersion and ConfigVersion are the versions the run saw,
	// empty when Err is set.
	SchemaVersion string
	ConfigVersion string

	// Err is set when the run could not complete, typically a
	// *errors.ParseError for a malformed document.
	Err error

	// Duration is the wall time of the run.
	Duration time.Duration
}

// SessionConfig contains settings for a watch session.
type SessionConfig struct {
	// SchemaPath is the schema manifest. Changes to it revalidate
	// every configuration.
	SchemaPath string

	// ConfigPaths are the configuration files to watch.
	ConfigPaths []string

	// DebounceInterval is how long to wait after a file event before
	// revalidating.
	DebounceInterval time.Duration

	// RescanSchedule is an optional cron expression for periodic
	// revalidation. Empty disables rescans.
	RescanSchedule string

	// MetricsAddress is the listen address for the Prometheus endpoint.
	// Empty disables it.
	MetricsAddress string
}

// Session watches a schema manifest and configuration files, revalidating
// on change.
type Session struct {
	config   *SessionConfig
	validate ValidateFunc
	metrics  *Metrics
	store    *history.Store
	logger   *slog.Logger

	// OnResult receives every validation result. Set before Run.
	OnResult func(*Result)
}

// NewSession creates a watch session. A nil validate falls back to a
// default that reloads the schema on every run.
func NewSession(cfg *SessionConfig, validate ValidateFunc) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil session config")
	}
	if cfg.SchemaPath == "" {
		return nil, fmt.Errorf("no schema path")
	}
	if len(cfg.ConfigPaths) == 0 {
		return nil, fmt.Errorf("no configuration files to watch")
	}
	if validate == nil {
		validate = defaultValidate
	}

	// Watch events arrive with cleaned paths, so the comparison targets
	// must be cleaned too.
	clean := *cfg
	clean.SchemaPath = filepath.Clean(cfg.SchemaPath)
	clean.ConfigPaths = make([]string, len(cfg.ConfigPaths))
	for i, p := range cfg.ConfigPaths {
		clean.ConfigPaths[i] = filepath.Clean(p)
	}

	return &Session{
		config:   &clean,
		validate: validate,
		metrics:  NewMetrics(),
		logger:   slog.Default().With("component", "watch.session"),
	}, nil
}

// SetHistoryStore enables recording each run to the given store.
func (s *Session) SetHistoryStore(store *history.Store) {
	s.store = store
}

// Metrics returns the session's metrics, mainly for tests.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Run validates everything once, then blocks revalidating on file changes
// and scheduled rescans until the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	paths := append([]string{s.config.SchemaPath}, s.config.ConfigPaths...)
	watcher, err := NewFileWatcher(paths, s.config.DebounceInterval, s.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	var metricsServer *http.Server
	if s.config.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		metricsServer = &http.Server{Addr: s.config.MetricsAddress, Handler: mux}
		go func() {
			s.logger.Info("metrics endpoint listening", "address", s.config.MetricsAddress)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	var scheduler *cron.Cron
	if s.config.RescanSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(s.config.RescanSchedule, func() {
			s.runAll(ctx, TriggerRescan)
		})
		if err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", s.config.RescanSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	s.runAll(ctx, TriggerStart)

	return watcher.Watch(ctx, func(path string) {
		if path == s.config.SchemaPath {
			// Schema changed, everything needs a fresh look.
			s.runAll(ctx, TriggerChange)
			return
		}
		s.runOne(ctx, path, TriggerChange)
	})
}

func (s *Session) runAll(ctx context.Context, trigger string) {
	for _, configPath := range s.config.ConfigPaths {
		s.runOne(ctx, configPath, trigger)
	}
}

func (s *Session) runOne(ctx context.Context, configPath, trigger string) {
	start := time.Now()
	outcome, err := s.validate(s.config.SchemaPath, configPath)
	result := &Result{
		ConfigPath: configPath,
		Trigger:    trigger,
		Err:        err,
		Duration:   time.Since(start),
	}
	if outcome != nil {
		result.Findings = outcome.Findings
		result.SchemaVersion = outcome.SchemaVersion
		result.ConfigVersion = outcome.ConfigVersion
	}

	s.observe(result)
	s.record(ctx, result)

	if s.OnResult != nil {
		s.OnResult(result)
	}
}

func (s *Session) observe(result *Result) {
	switch {
	case result.Err != nil:
		s.logger.Error("validation failed",
			"config", result.ConfigPath,
			"trigger", result.Trigger,
			"error", result.Err,
		)
		s.metrics.ObserveRun(OutcomeError, result.Duration, nil)
	case result.Findings.HasFindings():
		s.logger.Warn("validation produced findings",
			"config", result.ConfigPath,
			"trigger", result.Trigger,
			"count", result.Findings.Count(),
		)
		rules := make([]string, 0, result.Findings.Count())
		for _, f := range result.Findings.Findings {
			rules = append(rules, string(f.Rule))
		}
		s.metrics.ObserveRun(OutcomeFindings, result.Duration, rules)
	default:
		s.logger.Info("validation passed",
			"config", result.ConfigPath,
			"trigger", result.Trigger,
		)
		s.metrics.ObserveRun(OutcomeValid, result.Duration, nil)
	}
}

func (s *Session) record(ctx context.Context, result *Result) {
	if s.store == nil || result.Err != nil {
		return
	}

	run := history.NewRun(s.config.SchemaPath, result.ConfigPath)
	run.SchemaVersion = result.SchemaVersion
	run.ConfigVersion = result.ConfigVersion
	run.Valid = !result.Findings.HasFindings()
	run.FindingCount = result.Findings.Count()
	run.Findings = result.Findings.Findings

	if err := s.store.Record(ctx, run); err != nil {
		s.logger.Error("failed to record run", "error", err)
	}
}
