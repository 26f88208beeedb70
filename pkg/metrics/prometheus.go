// Package metrics provides Prometheus metrics for the medalboard report service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the medalboard service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Dataset
	datasetRawRows    prometheus.Gauge
	datasetColumns    prometheus.Gauge
	datasetLoadedUnix prometheus.Gauge
	datasetLoadErrors prometheus.Counter

	// Pipeline
	pipelineRuns        prometheus.Counter
	pipelineDuration    prometheus.Histogram
	tidyRows            prometheus.Gauge
	rowsDropped         *prometheus.CounterVec
	malformedKeys       prometheus.Counter
	repeatedMedals      prometheus.Counter
	pipelineErrors      prometheus.Counter
	viewRenders         *prometheus.CounterVec
	viewRenderDuration  *prometheus.HistogramVec
	emptyLookupResults  *prometheus.CounterVec
	exportsTotal        *prometheus.CounterVec
	chartRenderDuration prometheus.Histogram

	// Sessions
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsExpired prometheus.Counter
	sessionsEvicted prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "medalboard",
		subsystem:      "report",
		latencyBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:    make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(n, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(n, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(n, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(n, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(n, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        n,
		Help:        help,
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	m.datasetRawRows = m.gauge("dataset_raw_rows", "Number of rows in the loaded raw medal table")
	m.datasetColumns = m.gauge("dataset_columns", "Number of columns in the loaded raw medal table")
	m.datasetLoadedUnix = m.gauge("dataset_loaded_timestamp_seconds", "Unix time the dataset was loaded")
	m.datasetLoadErrors = m.counter("dataset_load_errors_total", "Total number of failed dataset loads")

	m.pipelineRuns = m.counter("pipeline_runs_total", "Total number of tidy pipeline executions")
	m.pipelineDuration = m.histogram("pipeline_duration_milliseconds", "Tidy pipeline duration in milliseconds", m.latencyBuckets)
	m.tidyRows = m.gauge("tidy_rows", "Rows in the most recent tidy table")
	m.rowsDropped = m.counterVec("rows_dropped_total", "Melted rows dropped by the tidy pipeline", "reason")
	m.malformedKeys = m.counter("malformed_keys_total", "Composite column keys without the gender/event separator")
	m.repeatedMedals = m.counter("repeated_medals_total", "Athlete/gender/event triples carrying more than one medal")
	m.pipelineErrors = m.counter("pipeline_errors_total", "Total number of failed pipeline executions")

	m.viewRenders = m.counterVec("view_renders_total", "Total number of rendered views", "view")
	m.viewRenderDuration = m.histogramVec("view_render_duration_milliseconds", "View render duration in milliseconds", "view")
	m.emptyLookupResults = m.counterVec("empty_lookup_results_total", "Lookups that produced an empty table", "lookup")
	m.exportsTotal = m.counterVec("exports_total", "Tidy table exports by format", "format")
	m.chartRenderDuration = m.histogram("chart_render_duration_milliseconds", "Bar chart render duration in milliseconds", m.latencyBuckets)

	m.sessionsActive = m.gauge("sessions_active", "Current number of live report sessions")
	m.sessionsCreated = m.counter("sessions_created_total", "Total number of report sessions created")
	m.sessionsExpired = m.counter("sessions_expired_total", "Total number of sessions expired by TTL")
	m.sessionsEvicted = m.counter("sessions_evicted_total", "Total number of sessions evicted by the size bound")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Dataset.

// RecordDatasetLoaded sets the dataset shape gauges.
func RecordDatasetLoaded(rows, columns int, at time.Time) {
	globalManager.datasetRawRows.Set(float64(rows))
	globalManager.datasetColumns.Set(float64(columns))
	globalManager.datasetLoadedUnix.Set(float64(at.Unix()))
}

// RecordDatasetLoadError increments the dataset load error counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// Pipeline.

// RecordPipelineRun records one tidy pipeline execution.
func RecordPipelineRun(durationMs float64, tidyRows int) {
	globalManager.pipelineRuns.Inc()
	globalManager.pipelineDuration.Observe(durationMs)
	globalManager.tidyRows.Set(float64(tidyRows))
}

// RecordRowsDropped adds n to the dropped-rows counter for reason.
func RecordRowsDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordMalformedKeys adds n malformed composite keys.
func RecordMalformedKeys(n int) {
	if n <= 0 {
		return
	}
	globalManager.malformedKeys.Add(float64(n))
}

// RecordRepeatedMedals adds n repeated medal triples.
func RecordRepeatedMedals(n int) {
	if n <= 0 {
		return
	}
	globalManager.repeatedMedals.Add(float64(n))
}

// RecordPipelineError increments the pipeline error counter.
func RecordPipelineError() {
	globalManager.pipelineErrors.Inc()
}

// RecordViewRender records a rendered view and its duration.
func RecordViewRender(view string, durationMs float64) {
	globalManager.viewRenders.WithLabelValues(view).Inc()
	globalManager.viewRenderDuration.WithLabelValues(view).Observe(durationMs)
}

// RecordEmptyLookup counts a lookup that produced zero rows.
func RecordEmptyLookup(lookup string) {
	globalManager.emptyLookupResults.WithLabelValues(lookup).Inc()
}

// RecordExport counts a tidy table export.
func RecordExport(format string) {
	globalManager.exportsTotal.WithLabelValues(format).Inc()
}

// RecordChartRender records chart render latency.
func RecordChartRender(durationMs float64) {
	globalManager.chartRenderDuration.Observe(durationMs)
}

// Sessions.

// UpdateSessionsActive sets the live session gauge.
func UpdateSessionsActive(n int) {
	globalManager.sessionsActive.Set(float64(n))
}

// RecordSessionCreated increments the created sessions counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionsExpired adds n expired sessions.
func RecordSessionsExpired(n int) {
	if n <= 0 {
		return
	}
	globalManager.sessionsExpired.Add(float64(n))
}

// RecordSessionEvicted increments the evicted sessions counter.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System.

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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
