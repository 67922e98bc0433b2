// Package metrics provides Prometheus metrics for dataset imports.
//
// bda-datasets is a one-shot CLI, so metrics are kept on a private registry
// and written out in the text exposition format for the node_exporter
// textfile collector instead of being served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pfrederiksen/bda-datasets/internal/football"
)

// Fetch origins used as label values.
const (
	OriginCache  = "cache"
	OriginRemote = "remote"
)

// Manager holds the import metrics.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	fetches          *prometheus.CounterVec
	fetchFailures    prometheus.Counter
	fetchDuration    *prometheus.HistogramVec
	recordsParsed    prometheus.Counter
	recordsSkipped   prometheus.Counter
	recordsEmitted   prometheus.Counter
	seasonBoundaries prometheus.Counter
	blockMismatches  prometheus.Counter
	buildFailures    *prometheus.CounterVec
	lastImportUnix   prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the fetch duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry uses registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager with its metrics registered.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bda",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.fetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "fetches_total",
		Help:      "Raw dataset loads by origin (cache or remote)",
	}, []string{"dataset", "origin"})

	m.fetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "fetch_failures_total",
		Help:      "Raw dataset loads that failed",
	})

	m.fetchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "source",
		Name:      "fetch_duration_seconds",
		Help:      "Time to obtain the raw dataset",
		Buckets:   m.histogramBuckets,
	}, []string{"origin"})

	m.recordsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "records_parsed_total",
		Help:      "Data rows parsed successfully",
	})

	m.recordsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "records_skipped_total",
		Help:      "Malformed data rows skipped",
	})

	m.recordsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "records_emitted_total",
		Help:      "Rows kept after season filtering",
	})

	m.seasonBoundaries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "season_boundaries_total",
		Help:      "Week resets detected",
	})

	m.blockMismatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "season_length_mismatches_total",
		Help:      "Season blocks whose row count differs from the expected season length",
	})

	m.buildFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "table",
		Name:      "build_failures_total",
		Help:      "Table builds aborted by a fatal error",
	}, []string{"reason"})

	m.lastImportUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_import_timestamp_seconds",
		Help:      "Unix time of the last successful import",
	})

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records a successful raw dataset load.
func (m *Manager) RecordFetch(dataset string, fromCache bool, d time.Duration) {
	origin := OriginRemote
	if fromCache {
		origin = OriginCache
	}
	m.fetches.WithLabelValues(dataset, origin).Inc()
	m.fetchDuration.WithLabelValues(origin).Observe(d.Seconds())
}

// RecordFetchFailure records a failed raw dataset load.
func (m *Manager) RecordFetchFailure() {
	m.fetchFailures.Inc()
}

// RecordTable records the counts of a successfully built table.
func (m *Manager) RecordTable(t *football.Table, now time.Time) {
	m.recordsParsed.Add(float64(t.Parsed))
	m.recordsSkipped.Add(float64(t.Skipped))
	m.recordsEmitted.Add(float64(len(t.Records)))
	m.seasonBoundaries.Add(float64(t.Boundaries))
	for _, b := range t.Blocks {
		if b.Rows != football.SeasonLength {
			m.blockMismatches.Inc()
		}
	}
	m.lastImportUnix.Set(float64(now.Unix()))
}

// RecordBuildFailure records a table build aborted with reason.
func (m *Manager) RecordBuildFailure(reason string) {
	m.buildFailures.WithLabelValues(reason).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
