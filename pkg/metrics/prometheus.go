// Package metrics provides Prometheus metrics for the spinwheel service.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace           string
	subsystem           string
	histogramBuckets    []float64
	spinDurationBuckets []float64
	constLabels         map[string]string
	registry            prometheus.Registerer

	// Spins
	spinsTotal     *prometheus.CounterVec
	spinDuplicates prometheus.Counter
	spinNoops      prometheus.Counter
	spinDuration   prometheus.Histogram
	spinExtraTurns prometheus.Histogram
	outcomesStored prometheus.Counter
	historyEntries prometheus.Gauge

	// Wheels
	wheelSaves   prometheus.Counter
	wheelDeletes prometheus.Counter
	wheelsTotal  prometheus.Gauge
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
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
		namespace:           "spinwheel",
		subsystem:           "service",
		histogramBuckets:    []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		spinDurationBuckets: []float64{600, 800, 1000, 2000, 4000, 8000, 20000, 60000, 200000},
		constLabels:         map[string]string{},
		registry:            prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.spinsTotal = auto.NewCounterVec(
		m.counter("spins_total", "Spins planned, by wheel layer"),
		[]string{"layer"},
	)
	m.spinDuplicates = auto.NewCounter(m.counter("spin_duplicates_total",
		"Spin requests rejected by idempotency key"))
	m.spinNoops = auto.NewCounter(m.counter("spin_noops_total",
		"Spin requests ignored because the layer has no positive weight"))
	m.spinDuration = auto.NewHistogram(m.histogram("spin_duration_milliseconds",
		"Planned spin animation length in milliseconds", m.spinDurationBuckets))
	m.spinExtraTurns = auto.NewHistogram(m.histogram("spin_extra_turns",
		"Full revolutions added to each spin", []float64{1, 2, 3, 4, 5, 6, 8, 10}))
	m.outcomesStored = auto.NewCounter(m.counter("spin_outcomes_recorded_total",
		"Spin outcomes appended to history"))
	m.historyEntries = auto.NewGauge(m.gauge("history_entries",
		"Spin outcomes currently held in history"))

	m.wheelSaves = auto.NewCounter(m.counter("wheel_saves_total", "Wheel documents stored"))
	m.wheelDeletes = auto.NewCounter(m.counter("wheel_deletes_total", "Wheel documents deleted"))
	m.wheelsTotal = auto.NewGauge(m.gauge("wheels_total", "Wheel documents in the store"))
	m.storeLatency = auto.NewHistogramVec(
		m.histogram("store_latency_milliseconds", "Wheel store operation latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.queueSize = auto.NewGauge(m.gauge("queue_size", "Current size of the outcome queue"))
	m.queueCapacity = auto.NewGauge(m.gauge("queue_capacity", "Maximum outcome queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gauge("queue_utilization_ratio",
		"Queue utilization ratio (current size / capacity)"))
	m.queueEnqueued = auto.NewCounter(m.counter("queue_enqueue_total", "Total number of outcomes enqueued"))
	m.queueDequeued = auto.NewCounter(m.counter("queue_dequeue_total", "Total number of outcomes dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counter("queue_enqueue_errors_total", "Total number of enqueue errors"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogram("queue_processing_latency_milliseconds",
		"Time an outcome waited in the queue in milliseconds", m.histogramBuckets))

	m.workerCount = auto.NewGauge(m.gauge("worker_count", "Configured number of outcome workers"))
	m.workerActiveCount = auto.NewGauge(m.gauge("worker_active_count", "Number of busy workers"))
	m.workerIdleCount = auto.NewGauge(m.gauge("worker_idle_count", "Number of idle workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogram("worker_processing_latency_milliseconds",
		"Worker processing latency in milliseconds", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counter("worker_errors_total", "Total number of worker errors"))

	m.errorsByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordSpin counts a planned spin and observes its shape.
func RecordSpin(layer string, durationMs float64, extraTurns int) {
	globalManager.spinsTotal.WithLabelValues(layer).Inc()
	globalManager.spinDuration.Observe(durationMs)
	globalManager.spinExtraTurns.Observe(float64(extraTurns))
}

// RecordSpinDuplicate counts a request replayed with a known idempotency key.
func RecordSpinDuplicate() {
	globalManager.spinDuplicates.Inc()
}

// RecordSpinNoop counts a spin request on a layer with nothing to draw.
func RecordSpinNoop() {
	globalManager.spinNoops.Inc()
}

// RecordOutcomeStored counts an outcome appended to history.
func RecordOutcomeStored() {
	globalManager.outcomesStored.Inc()
}

// UpdateHistoryEntries sets the number of outcomes held in history.
func UpdateHistoryEntries(n int) {
	globalManager.historyEntries.Set(float64(n))
}

// RecordWheelSave counts a stored wheel document.
func RecordWheelSave() {
	globalManager.wheelSaves.Inc()
}

// RecordWheelDelete counts a deleted wheel document.
func RecordWheelDelete() {
	globalManager.wheelDeletes.Inc()
}

// UpdateWheelsTotal sets the number of wheels in the store.
func UpdateWheelsTotal(n int) {
	globalManager.wheelsTotal.Set(float64(n))
}

// RecordStoreLatency observes a store operation.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records how long an item waited in the queue.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards runtime collector registration

// RegisterRuntimeCollectors adds the Go runtime and process collectors to
// the custom registry. Calling it more than once is harmless.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Value returns the sum of every sample of the named counter or gauge in
// the custom registry. Histograms report their sample count.
func Value(name string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather: %w", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				total += float64(metric.GetHistogram().GetSampleCount())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFamilyNotFound, name)
}
