package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Authentication
	RecordAuthAttempt(result string, duration time.Duration)
	RecordCacheLookup(outcome string)
	RecordBackendCall(backend string, duration time.Duration)
	RecordBackendError(backend, kind string)

	// Filter chains
	RecordChainSelection(chain string)

	// Gauges
	SetUserCounts(total, locked int64)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// UserCounter reports the account totals exposed as gauges.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountLockedUsers(ctx context.Context) (int64, error)
}
