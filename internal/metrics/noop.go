package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthAttempt(result string, duration time.Duration)  {}
func (n *NoopMetrics) RecordCacheLookup(outcome string)                         {}
func (n *NoopMetrics) RecordBackendCall(backend string, duration time.Duration) {}
func (n *NoopMetrics) RecordBackendError(backend, kind string)                  {}
func (n *NoopMetrics) RecordChainSelection(chain string)                        {}

func (n *NoopMetrics) SetUserCounts(total, locked int64) {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
