// Package metrics provides Prometheus metrics for the challenge tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Domain
	calendarGrids      *prometheus.CounterVec
	calendarCells      prometheus.Histogram
	dayTables          prometheus.Counter
	leaderboardBuilds  prometheus.Counter
	leaderboardRows    prometheus.Histogram
	leaderboardLatency prometheus.Histogram
	parseErrors        *prometheus.CounterVec
	entriesCreated     prometheus.Counter
	entriesDuplicate   prometheus.Counter
	challengesTotal    prometheus.Gauge

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tilt",
		subsystem:        "challenges",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.calendarGrids = m.counterVec("calendar_grids_total", "Calendar grids built by view mode", "mode")
	m.calendarCells = m.histogram("calendar_grid_cells", "Cells per calendar grid", []float64{7, 28, 35, 42})
	m.dayTables = m.counter("day_tables_total", "Full challenge day tables built")
	m.leaderboardBuilds = m.counter("leaderboard_builds_total", "Leaderboards aggregated")
	m.leaderboardRows = m.histogram("leaderboard_rows", "Rows per aggregated leaderboard", prometheus.ExponentialBuckets(1, 4, 8))
	m.leaderboardLatency = m.histogram("leaderboard_latency_milliseconds", "Leaderboard aggregation latency in milliseconds", m.histogramBuckets)
	m.parseErrors = m.counterVec("date_parse_errors_total", "Dates rejected by the normalizer", "source")
	m.entriesCreated = m.counter("entries_created_total", "Entries logged")
	m.entriesDuplicate = m.counter("entries_duplicate_total", "Entries rejected as a second entry for the same day")
	m.challengesTotal = m.gauge("challenges", "Published challenges at last listing")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency in milliseconds", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Store operation failures", "op")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// RecordCalendarGrid records one built grid.
func RecordCalendarGrid(mode string, cells int) {
	globalManager.calendarGrids.WithLabelValues(mode).Inc()
	globalManager.calendarCells.Observe(float64(cells))
}

// RecordDayTable records one built day table.
func RecordDayTable() {
	globalManager.dayTables.Inc()
}

// RecordLeaderboard records one aggregation.
func RecordLeaderboard(rows int, latencyMs float64) {
	globalManager.leaderboardBuilds.Inc()
	globalManager.leaderboardRows.Observe(float64(rows))
	globalManager.leaderboardLatency.Observe(latencyMs)
}

// RecordParseError counts a rejected date string.
func RecordParseError(source string) {
	globalManager.parseErrors.WithLabelValues(source).Inc()
}

// RecordEntryCreated counts a logged entry.
func RecordEntryCreated() {
	globalManager.entriesCreated.Inc()
}

// RecordEntryDuplicate counts a rejected duplicate entry.
func RecordEntryDuplicate() {
	globalManager.entriesDuplicate.Inc()
}

// UpdateChallengesTotal sets the published challenge gauge.
func UpdateChallengesTotal(n int) {
	globalManager.challengesTotal.Set(float64(n))
}

// RecordStoreLatency records a store operation's latency.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
