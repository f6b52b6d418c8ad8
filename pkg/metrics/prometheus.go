// Package metrics provides Prometheus metrics for the analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Report metrics
	reportsGenerated *prometheus.CounterVec
	reportDuration   *prometheus.HistogramVec
	panelErrors      *prometheus.CounterVec

	// Dataset metrics
	refreshTotal       *prometheus.CounterVec
	refreshDuration    prometheus.Histogram
	refreshLastUnix    prometheus.Gauge
	datasetRecords     *prometheus.GaugeVec
	datasetDuplicates  *prometheus.CounterVec
	matchFlagConflicts prometheus.Counter

	// Source metrics
	sourceFetches       *prometheus.CounterVec
	sourceFetchDuration *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "orijent",
		subsystem:        "analytics",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.reportsGenerated = auto.NewCounterVec(
		m.counterOpts("reports_generated_total", "Total number of reports built by kind"),
		[]string{"report"},
	)
	m.reportDuration = auto.NewHistogramVec(
		m.histogramOpts("report_duration_milliseconds", "Report build time in milliseconds"),
		[]string{"report"},
	)
	m.panelErrors = auto.NewCounterVec(
		m.counterOpts("panel_errors_total", "Chart panels that could not be computed, by report and error type"),
		[]string{"report", "error_type"},
	)

	m.refreshTotal = auto.NewCounterVec(
		m.counterOpts("dataset_refresh_total", "Dataset refreshes by outcome"),
		[]string{"status"},
	)
	m.refreshDuration = auto.NewHistogram(
		m.histogramOpts("dataset_refresh_duration_milliseconds", "Dataset refresh time in milliseconds"),
	)
	m.refreshLastUnix = auto.NewGauge(
		m.gaugeOpts("dataset_last_refresh_unix", "Unix timestamp of the last published dataset"),
	)
	m.datasetRecords = auto.NewGaugeVec(
		m.gaugeOpts("dataset_records", "Rows in the published dataset by table"),
		[]string{"table"},
	)
	m.datasetDuplicates = auto.NewCounterVec(
		m.counterOpts("dataset_duplicates_total", "Rows overridden by later submissions, by table"),
		[]string{"table"},
	)
	m.matchFlagConflicts = auto.NewCounter(
		m.counterOpts("match_flag_conflicts_total", "Session days whose rows disagreed on the match flag"),
	)

	m.sourceFetches = auto.NewCounterVec(
		m.counterOpts("source_fetch_total", "Source table fetches by source and result (hit, miss, error)"),
		[]string{"source", "result"},
	)
	m.sourceFetchDuration = auto.NewHistogramVec(
		m.histogramOpts("source_fetch_duration_milliseconds", "Uncached source fetch time in milliseconds"),
		[]string{"source"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	gc := m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds")
	gc.Buckets = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	m.systemGCPauseTime = auto.NewHistogram(gc)
}

// RecordReport counts a built report and its latency.
func RecordReport(report string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportsGenerated.WithLabelValues(report).Inc()
	globalManager.reportDuration.WithLabelValues(report).Observe(durationMs)
}

// RecordPanelError counts a panel that could not be computed.
func RecordPanelError(report, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.panelErrors.WithLabelValues(report, errorType).Inc()
}

// RecordRefresh counts a dataset refresh with its outcome ("ok" or "error").
func RecordRefresh(status string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshTotal.WithLabelValues(status).Inc()
	globalManager.refreshDuration.Observe(durationMs)
}

// UpdateLastRefresh sets the publish time of the current dataset.
func UpdateLastRefresh(unix int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshLastUnix.Set(float64(unix))
}

// UpdateDatasetRecords sets the row count of a table.
func UpdateDatasetRecords(table string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetRecords.WithLabelValues(table).Set(float64(count))
}

// RecordDuplicates adds overridden rows of a table.
func RecordDuplicates(table string, count int) {
	if !globalManager.enabled || count <= 0 {
		return
	}
	globalManager.datasetDuplicates.WithLabelValues(table).Add(float64(count))
}

// RecordMatchFlagConflicts adds session days with a disagreeing match flag.
func RecordMatchFlagConflicts(count int) {
	if !globalManager.enabled || count <= 0 {
		return
	}
	globalManager.matchFlagConflicts.Add(float64(count))
}

// RecordSourceFetch counts a source lookup; result is hit, miss or error.
func RecordSourceFetch(source, result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.sourceFetches.WithLabelValues(source, result).Inc()
}

// RecordSourceFetchDuration records the time of an uncached fetch.
func RecordSourceFetchDuration(source string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.sourceFetchDuration.WithLabelValues(source).Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled toggles recording of the service metrics. System gauges are
// always updated.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
