package metrics

import (
	"sync"

	"github.com/go-authgate/authchain/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface consumed by the rest of the application.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthAttemptsTotal        *prometheus.CounterVec
	AuthDuration             prometheus.Histogram
	AuthCacheLookupsTotal    *prometheus.CounterVec
	AuthBackendDuration      *prometheus.HistogramVec
	AuthBackendErrorsTotal   *prometheus.CounterVec
	FilterChainSelectedTotal *prometheus.CounterVec

	// User Gauges
	UsersTotal  prometheus.Gauge
	UsersLocked prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	latencyBuckets := []float64{
		0.001,
		0.005,
		0.010,
		0.025,
		0.050,
		0.100,
		0.250,
		0.500,
		1.0,
		2.5,
		5.0,
		10.0,
	}

	m := &Metrics{
		AuthAttemptsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of username/password authentication attempts",
			},
			// success, bad_credentials, disabled, expired, locked,
			// credentials_expired, service_error, unsupported
			[]string{"result"},
		),
		AuthDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_duration_seconds",
				Help:    "Authentication latency in seconds",
				Buckets: latencyBuckets,
			},
		),
		AuthCacheLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_cache_lookups_total",
				Help: "Total number of user cache lookups",
			},
			[]string{"outcome"}, // hit, stale, miss, error
		),
		AuthBackendDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auth_backend_duration_seconds",
				Help:    "Credential backend call latency in seconds",
				Buckets: latencyBuckets,
			},
			[]string{"backend"},
		),
		AuthBackendErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_backend_errors_total",
				Help: "Total number of credential backend failures",
			},
			[]string{"backend", "kind"}, // credentials, unavailable, empty
		),
		FilterChainSelectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filterchain_selections_total",
				Help: "Total number of requests dispatched to each filter chain",
			},
			[]string{"chain"},
		),

		UsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "users_total",
				Help: "Current number of local user accounts",
			},
		),
		UsersLocked: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "users_locked",
				Help: "Current number of locked local user accounts",
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: latencyBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_users, count_locked_users
		),
	}

	return m
}
