// Package metrics provides Prometheus metrics for the athlete BMI dashboard.
package metrics

import (
	"slices"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset build metrics, set once at startup
	rowsRead           prometheus.Counter
	rowsSkipped        prometheus.Counter
	rowsDuplicate      prometheus.Counter
	entriesTotal       prometheus.Gauge
	yearsTotal         prometheus.Gauge
	datasetLoadLatency prometheus.Gauge
	datasetLoadedUnix  prometheus.Gauge

	// Selection metrics
	selections      *prometheus.CounterVec
	selectionErrors *prometheus.CounterVec
	selectionSize   prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// globalState pairs the manager used by the package helpers with the
// registry it registers on.
type globalState struct {
	manager  *Manager
	registry *prometheus.Registry
}

var global atomic.Pointer[globalState] //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// custom registry, which avoids the default Go metrics. Call it at startup,
// before handlers capture GetRegistry.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	m := NewManager(append(slices.Clip(opts), WithPrometheusRegistry(registry))...)
	global.Store(&globalState{manager: m, registry: registry})
}

func current() *Manager {
	return global.Load().manager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "athletebmi",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
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

	m.rowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_read_total",
		Help:        "Total number of raw rows read from the athlete dataset",
		ConstLabels: m.constLabels,
	})

	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_skipped_total",
		Help:        "Rows dropped because height or weight was missing",
		ConstLabels: m.constLabels,
	})

	m.rowsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_duplicate_total",
		Help:        "Rows dropped because the athlete was already seen for that year",
		ConstLabels: m.constLabels,
	})

	m.entriesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entries",
		Help:        "Number of athlete-year entries held in the index",
		ConstLabels: m.constLabels,
	})

	m.yearsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "years",
		Help:        "Number of distinct years in the index",
		ConstLabels: m.constLabels,
	})

	m.datasetLoadLatency = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time spent loading and indexing the dataset at startup",
		ConstLabels: m.constLabels,
	})

	m.datasetLoadedUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loaded_unix",
		Help:        "Unix timestamp of the dataset build",
		ConstLabels: m.constLabels,
	})

	m.selections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "selections_total",
			Help:        "Chart selections served by sort order",
			ConstLabels: m.constLabels,
		},
		[]string{"order"},
	)

	m.selectionErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "selection_errors_total",
			Help:        "Failed chart selections by error kind",
			ConstLabels: m.constLabels,
		},
		[]string{"kind"},
	)

	m.selectionSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "selection_size",
		Help:        "Number of bars returned per selection",
		Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100},
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// DatasetBuild summarizes a finished dataset build for RecordDatasetBuild.
type DatasetBuild struct {
	RowsRead    int
	RowsSkipped int
	Duplicates  int
	Entries     int
	Years       int
	DurationMs  float64
	LoadedUnix  int64
}

// RecordDatasetBuild publishes the counters of a dataset build.
func RecordDatasetBuild(b DatasetBuild) {
	current().rowsRead.Add(float64(b.RowsRead))
	current().rowsSkipped.Add(float64(b.RowsSkipped))
	current().rowsDuplicate.Add(float64(b.Duplicates))
	current().entriesTotal.Set(float64(b.Entries))
	current().yearsTotal.Set(float64(b.Years))
	current().datasetLoadLatency.Set(b.DurationMs)
	current().datasetLoadedUnix.Set(float64(b.LoadedUnix))
}

// RecordSelection counts a served selection and its size.
func RecordSelection(order string, size int) {
	current().selections.WithLabelValues(order).Inc()
	current().selectionSize.Observe(float64(size))
}

// RecordSelectionError counts a failed selection, e.g. kind "year_not_found".
func RecordSelectionError(kind string) {
	current().selectionErrors.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	current().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return global.Load().registry
}
