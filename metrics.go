package halite

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle:
// exchanges, redirect hops, session cookie growth and error kinds. It is safe
// for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	redirectsTotal *prometheus.CounterVec

	sessionCookies *prometheus.GaugeVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "halite_requests_total",
				Help: "Total number of HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "halite_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "halite_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		redirectsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "halite_redirects_total",
				Help: "Total number of redirect hops followed",
			},
			[]string{"method", "endpoint"},
		),
		sessionCookies: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "halite_session_cookies",
				Help: "Number of cookies currently stored in the client session",
			},
			[]string{"name"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "halite_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type", "method", "endpoint"},
		),
	}
}

// RecordRequestStart marks an exchange as in flight.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd marks an in-flight exchange as finished.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordRequest records a completed exchange with its status and duration.
// Status 0 means the exchange failed before a response arrived.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, status, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, status, endpoint).Observe(duration.Seconds())
}

// RecordRedirect records one followed redirect hop.
func (mc *MetricsCollector) RecordRedirect(method, endpoint string) {
	mc.redirectsTotal.WithLabelValues(method, endpoint).Inc()
}

// RecordSessionCookies records the current session cookie count.
func (mc *MetricsCollector) RecordSessionCookies(name string, count int) {
	mc.sessionCookies.WithLabelValues(name).Set(float64(count))
}

// RecordError records an error by taxonomy type.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}
