package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware creates a Gin middleware that records HTTP metrics
func HTTPMetricsMiddleware(m Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid self-recording
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := normalizePath(c.FullPath()) // Use route pattern, not actual path
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// normalizePath returns the route pattern, or "unknown" for unmatched routes
func normalizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// RecordAuthAttempt records an authentication outcome and its latency
func (m *Metrics) RecordAuthAttempt(result string, duration time.Duration) {
	m.AuthAttemptsTotal.WithLabelValues(result).Inc()
	m.AuthDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a user cache lookup outcome
func (m *Metrics) RecordCacheLookup(outcome string) {
	m.AuthCacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordBackendCall records credential backend latency
func (m *Metrics) RecordBackendCall(backend string, duration time.Duration) {
	m.AuthBackendDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordBackendError records a credential backend failure
func (m *Metrics) RecordBackendError(backend, kind string) {
	m.AuthBackendErrorsTotal.WithLabelValues(backend, kind).Inc()
}

// RecordChainSelection records the filter chain chosen for a request
func (m *Metrics) RecordChainSelection(chain string) {
	m.FilterChainSelectedTotal.WithLabelValues(chain).Inc()
}

// SetUserCounts updates the account gauges
func (m *Metrics) SetUserCounts(total, locked int64) {
	m.UsersTotal.Set(float64(total))
	m.UsersLocked.Set(float64(locked))
}

// RecordDatabaseQueryError records database query errors
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
