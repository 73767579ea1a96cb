package watch

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics exported by watch mode. All metrics
// are registered on a dedicated registry so the /metrics endpoint only
// exposes sysmonlint's own series.
type Metrics struct {
	registry *prometheus.Registry

	// runsTotal counts validation runs by outcome: valid, findings, error.
	runsTotal *prometheus.CounterVec

	// findingsTotal counts findings by rule.
	findingsTotal *prometheus.CounterVec

	// runDuration observes wall time per validation run.
	runDuration prometheus.Histogram

	// lastRunTimestamp is the unix time of the most recent run.
	lastRunTimestamp prometheus.Gauge

	// lastRunFindings is the finding count of the most recent run.
	lastRunFindings prometheus.Gauge
}

// Run outcomes used as the "outcome" label on runsTotal.
const (
	OutcomeValid    = "valid"
	OutcomeFindings = "findings"
	OutcomeError    = "error"
)

// NewMetrics creates the watch-mode metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sysmonlint",
			Name:      "validation_runs_total",
			Help:      "Validation runs by outcome.",
		}, []string{"outcome"}),
		findingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sysmonlint",
			Name:      "findings_total",
			Help:      "Findings produced, by rule.",
		}, []string{"rule"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sysmonlint",
			Name:      "validation_duration_seconds",
			Help:      "Wall time per validation run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sysmonlint",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the most recent validation run.",
		}),
		lastRunFindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sysmonlint",
			Name:      "last_run_findings",
			Help:      "Finding count of the most recent validation run.",
		}),
	}

	registry.MustRegister(
		m.runsTotal,
		m.findingsTotal,
		m.runDuration,
		m.lastRunTimestamp,
		m.lastRunFindings,
	)

	return m
}

// ObserveRun records one validation run. rules holds the rule name of every
// finding; outcome is one of OutcomeValid, OutcomeFindings, OutcomeError.
func (m *Metrics) ObserveRun(outcome string, duration time.Duration, rules []string) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.lastRunTimestamp.SetToCurrentTime()
	m.lastRunFindings.Set(float64(len(rules)))
	for _, rule := range rules {
		m.findingsTotal.WithLabelValues(rule).Inc()
	}
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
