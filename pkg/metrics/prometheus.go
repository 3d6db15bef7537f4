// Package metrics provides Prometheus metrics for the placemap viewer.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the viewer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Selection Metrics
	selections      *prometheus.CounterVec
	selectionMisses prometheus.Counter
	selectionClears prometheus.Counter
	filtersApplied  prometheus.Counter
	filterResults   prometheus.Gauge

	// View Metrics
	viewTransitions   *prometheus.CounterVec
	landingDismissals *prometheus.CounterVec

	// Preload Metrics
	preloadAttempts      *prometheus.CounterVec
	preloadFailures      *prometheus.CounterVec
	preloadHints         *prometheus.CounterVec
	preloadLatency       *prometheus.HistogramVec
	preloadActiveWorkers *prometheus.GaugeVec
	preloadQueueSize     *prometheus.GaugeVec
	preloadRunDuration   *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "placemap",
		subsystem:        "viewer",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selections_total",
		Help:        "Total number of place selections by source",
		ConstLabels: labels,
	}, []string{"source"})

	m.selectionMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_misses_total",
		Help:        "Selections addressed to an unknown place id",
		ConstLabels: labels,
	})

	m.selectionClears = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_clears_total",
		Help:        "Total number of cleared selections",
		ConstLabels: labels,
	})

	m.filtersApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "filters_applied_total",
		Help:        "Total number of list filter runs",
		ConstLabels: labels,
	})

	m.filterResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "filter_results",
		Help:        "Number of rows rendered by the last filter run",
		ConstLabels: labels,
	})

	m.viewTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_transitions_total",
		Help:        "Responsive pane transitions",
		ConstLabels: labels,
	}, []string{"from", "to"})

	m.landingDismissals = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "landing_dismissals_total",
		Help:        "Landing overlay dismissals by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.preloadAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_attempts_total",
		Help:        "Media preload attempts by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_failures_total",
		Help:        "Media preload attempts that did not warm the resource",
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadHints = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_hints_total",
		Help:        "Early preload hints issued by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_latency_milliseconds",
		Help:        "Latency of a single preload task in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadActiveWorkers = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_active_workers",
		Help:        "Preload workers currently running",
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadQueueSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_queue_size",
		Help:        "URLs waiting to be claimed by a preload worker",
		ConstLabels: labels,
	}, []string{"kind"})

	m.preloadRunDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "preload_run_duration_milliseconds",
		Help:        "Duration of a full preload run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"kind"})
}

// Selection Metrics Functions.

// RecordSelection counts a successful selection from source (marker, row, url, ...).
func RecordSelection(source string) {
	if !globalManager.enabled {
		return
	}
	globalManager.selections.WithLabelValues(source).Inc()
}

// RecordSelectionMiss counts a selection addressed to an unknown id.
func RecordSelectionMiss() {
	if !globalManager.enabled {
		return
	}
	globalManager.selectionMisses.Inc()
}

// RecordSelectionClear counts a cleared selection.
func RecordSelectionClear() {
	if !globalManager.enabled {
		return
	}
	globalManager.selectionClears.Inc()
}

// RecordFilter counts a filter run and the number of rows it produced.
func RecordFilter(results int) {
	if !globalManager.enabled {
		return
	}
	globalManager.filtersApplied.Inc()
	globalManager.filterResults.Set(float64(results))
}

// View Metrics Functions.

// RecordViewTransition counts a responsive pane transition.
func RecordViewTransition(from, to string) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewTransitions.WithLabelValues(from, to).Inc()
}

// RecordLandingDismissal counts a landing overlay dismissal.
func RecordLandingDismissal(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.landingDismissals.WithLabelValues(reason).Inc()
}

// Preload Metrics Functions.

// RecordPreloadAttempt records one preload task outcome and its latency.
func RecordPreloadAttempt(kind string, ok bool, latency time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.preloadAttempts.WithLabelValues(kind).Inc()
	if !ok {
		globalManager.preloadFailures.WithLabelValues(kind).Inc()
	}
	globalManager.preloadLatency.WithLabelValues(kind).Observe(float64(latency.Milliseconds()))
}

// RecordPreloadHint counts an early preload hint.
func RecordPreloadHint(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.preloadHints.WithLabelValues(kind).Inc()
}

// UpdatePreloadActiveWorkers sets the number of running workers for kind.
func UpdatePreloadActiveWorkers(kind string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.preloadActiveWorkers.WithLabelValues(kind).Set(float64(count))
}

// UpdatePreloadQueueSize sets the number of unclaimed URLs for kind.
func UpdatePreloadQueueSize(kind string, size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.preloadQueueSize.WithLabelValues(kind).Set(float64(size))
}

// RecordPreloadRun records the duration of a complete preload run.
func RecordPreloadRun(kind string, d time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.preloadRunDuration.WithLabelValues(kind).Observe(float64(d.Milliseconds()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the custom registry to path in the node exporter
// textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
