// Package metrics provides Prometheus metrics for the rollcall signup service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rollcall service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Signup flow metrics
	signups             prometheus.Counter
	unregistrations     prometheus.Counter
	signupConflicts     prometheus.Counter
	unregisterConflicts prometheus.Counter
	lookupMisses        prometheus.Counter

	// Registry scale metrics
	activitiesTotal   prometheus.Gauge
	participantsTotal prometheus.Gauge
	rosterSize        *prometheus.GaugeVec
	rosterUtilization *prometheus.GaugeVec

	// Registry operation latency
	registryUpdateLatency prometheus.Histogram
	registryQueryLatency  prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByEndpoint *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "rollcall",
		subsystem:        "registry",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Register on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signups_total",
		Help:      "Total number of successful activity signups",
	})

	m.unregistrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unregistrations_total",
		Help:      "Total number of successful activity unregistrations",
	})

	m.signupConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signup_conflicts_total",
		Help:      "Total number of signups rejected because the student was already on the roster",
	})

	m.unregisterConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unregister_conflicts_total",
		Help:      "Total number of unregistrations rejected because the student was not on the roster",
	})

	m.lookupMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activity_lookup_misses_total",
		Help:      "Total number of requests naming an activity that does not exist",
	})

	m.activitiesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activities_total",
		Help:      "Number of activities in the registry",
	})

	m.participantsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participants_total",
		Help:      "Number of signups across all activity rosters",
	})

	m.rosterSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "roster_size",
			Help:      "Number of participants per activity",
		},
		[]string{"activity"},
	)

	m.rosterUtilization = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "roster_utilization_ratio",
			Help:      "Roster fill ratio per activity (participants / max participants); informational, signups are not capped",
		},
		[]string{"activity"},
	)

	m.registryUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registry_update_latency_milliseconds",
		Help:      "Registry mutation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.registryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registry_query_latency_milliseconds",
		Help:      "Registry read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error responses by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSignup increments the successful signups counter.
func RecordSignup() {
	globalManager.signups.Inc()
}

// RecordUnregistration increments the successful unregistrations counter.
func RecordUnregistration() {
	globalManager.unregistrations.Inc()
}

// RecordSignupConflict increments the duplicate-signup counter.
func RecordSignupConflict() {
	globalManager.signupConflicts.Inc()
}

// RecordUnregisterConflict increments the not-registered counter.
func RecordUnregisterConflict() {
	globalManager.unregisterConflicts.Inc()
}

// RecordLookupMiss increments the unknown-activity counter.
func RecordLookupMiss() {
	globalManager.lookupMisses.Inc()
}

// UpdateActivitiesTotal sets the number of activities in the registry.
func UpdateActivitiesTotal(count int) {
	globalManager.activitiesTotal.Set(float64(count))
}

// UpdateParticipantsTotal sets the number of signups across all rosters.
func UpdateParticipantsTotal(count int) {
	globalManager.participantsTotal.Set(float64(count))
}

// UpdateRosterSize sets the roster size for one activity.
func UpdateRosterSize(activity string, size int) {
	globalManager.rosterSize.WithLabelValues(activity).Set(float64(size))
}

// UpdateRosterUtilization sets the fill ratio for one activity.
func UpdateRosterUtilization(activity string, ratio float64) {
	globalManager.rosterUtilization.WithLabelValues(activity).Set(ratio)
}

// RecordRegistryUpdateLatency records registry mutation latency.
func RecordRegistryUpdateLatency(latencyMs float64) {
	globalManager.registryUpdateLatency.Observe(latencyMs)
}

// RecordRegistryQueryLatency records registry read latency.
func RecordRegistryQueryLatency(latencyMs float64) {
	globalManager.registryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error response with endpoint, method and error type labels.
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
