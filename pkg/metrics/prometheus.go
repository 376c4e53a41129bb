// Package metrics provides Prometheus metrics for the convention catalog service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the catalog service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Catalog Metrics - build outcomes and dataset shape
	catalogBuilds        *prometheus.CounterVec
	catalogBuildDuration prometheus.Histogram
	catalogRecords       prometheus.Gauge
	catalogRejectedRows  prometheus.Gauge
	catalogDuplicateIDs  prometheus.Gauge
	catalogLastBuildUnix prometheus.Gauge
	catalogGeneration    prometheus.Gauge

	// Query Metrics - filter, conflict and export work
	queryLatency       *prometheus.HistogramVec
	queryResultSize    *prometheus.HistogramVec
	conflictCandidates prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	// Reload Queue Metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Reload Worker Metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "concal",
		subsystem:        "catalog",
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Catalog Metrics
	m.catalogBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "builds_total",
		Help:        "Total number of catalog builds by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})
	m.catalogBuildDuration = m.histogram("build_duration_milliseconds",
		"Catalog build time in milliseconds (ingest, normalize, index)", m.histogramBuckets)
	m.catalogRecords = m.gauge("records", "Number of events in the published catalog")
	m.catalogRejectedRows = m.gauge("rejected_rows", "Rows dropped as malformed by the last build")
	m.catalogDuplicateIDs = m.gauge("duplicate_game_ids", "Game ids carried by more than one event in the published catalog")
	m.catalogLastBuildUnix = m.gauge("last_build_unix", "Unix time of the last published catalog")
	m.catalogGeneration = m.gauge("generation", "Generation number of the published catalog")

	// Query Metrics
	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_latency_milliseconds",
		Help:        "Query latency in milliseconds by kind",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.queryResultSize = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_result_size",
		Help:        "Number of event ids a query produced",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.conflictCandidates = m.counter("conflict_candidates_total", "Candidate events checked for conflicts")

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_rate_limited_total",
		Help:        "Requests rejected by the rate limiter",
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	// Reload Queue Metrics
	m.queueSize = m.gauge("reload_queue_size", "Reload jobs waiting in the queue")
	m.queueCapacity = m.gauge("reload_queue_capacity", "Reload queue capacity")
	m.queueEnqueueRate = m.counter("reload_queue_enqueue_total", "Reload jobs enqueued")
	m.queueDequeueRate = m.counter("reload_queue_dequeue_total", "Reload jobs dequeued")
	m.queueEnqueueErrors = m.counter("reload_queue_enqueue_errors_total", "Reload jobs refused by the queue")

	// Reload Worker Metrics
	m.workerActiveCount = m.gauge("reload_worker_active", "Reload workers currently running")
	m.workerProcessingLatency = m.histogram("reload_worker_processing_latency_milliseconds",
		"Time to process one reload job in milliseconds", m.histogramBuckets)
	m.workerErrorRate = m.counter("reload_worker_errors_total", "Reload jobs that failed")

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	// System Metrics
	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// Catalog Metrics Functions.

// RecordCatalogBuild records one build attempt and its duration.
func RecordCatalogBuild(ok bool, durationMs float64) {
	globalManager.catalogBuilds.WithLabelValues(strconv.FormatBool(ok)).Inc()
	globalManager.catalogBuildDuration.Observe(durationMs)
}

// UpdateCatalog sets the gauges describing the published catalog.
func UpdateCatalog(generation uint64, records, rejected, duplicates int, builtUnix float64) {
	globalManager.catalogGeneration.Set(float64(generation))
	globalManager.catalogRecords.Set(float64(records))
	globalManager.catalogRejectedRows.Set(float64(rejected))
	globalManager.catalogDuplicateIDs.Set(float64(duplicates))
	globalManager.catalogLastBuildUnix.Set(builtUnix)
}

// Query Metrics Functions.

// RecordQuery records the latency and result size of a query kind
// ("events", "conflicts", "export", ...).
func RecordQuery(kind string, latencyMs float64, results int) {
	globalManager.queryLatency.WithLabelValues(kind).Observe(latencyMs)
	globalManager.queryResultSize.WithLabelValues(kind).Observe(float64(results))
}

// RecordConflictCandidates adds n to the conflict candidates counter.
func RecordConflictCandidates(n int) {
	globalManager.conflictCandidates.Add(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request refused by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
