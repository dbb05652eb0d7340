package providers

import (
	"falci/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveInferenceDuration(duration time.Duration)
	IncInferenceFailures()
	IncReadings(kind string, outcome string)
	ObserveStorageDuration(op string, duration time.Duration)
	SetActiveSessions(count int)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	inferenceDuration prometheus.Histogram
	inferenceFailures prometheus.Counter
	readingsTotal     *prometheus.CounterVec
	storageDuration   *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveInferenceDuration(duration time.Duration) {
	m.inferenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncInferenceFailures() {
	m.inferenceFailures.Inc()
}

func (m *MetricsProvider) IncReadings(kind string, outcome string) {
	m.readingsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) ObserveStorageDuration(op string, duration time.Duration) {
	m.storageDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "falci_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "falci_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "falci_cache_hits_total",
			Help: "Total number of store cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "falci_cache_misses_total",
			Help: "Total number of store cache misses",
		}),

		inferenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "falci_inference_duration_seconds",
			Help:    "Duration of generation service calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),

		inferenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "falci_inference_failures_total",
			Help: "Total number of failed generation service calls",
		}),

		readingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "falci_readings_total",
			Help: "Total number of reading submissions by kind and outcome",
		}, []string{"kind", "outcome"}),

		storageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "falci_storage_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "falci_active_sessions",
			Help: "Number of open user sessions",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveInferenceDuration(_ time.Duration)         {}
func (n *noopMetrics) IncInferenceFailures()                            {}
func (n *noopMetrics) IncReadings(_ string, _ string)                   {}
func (n *noopMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
