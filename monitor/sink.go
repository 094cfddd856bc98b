package monitor

import "time"

// Sink exposes monitor-level observability hooks, mirroring the cache's
// Metrics interface. A NoopSink is used by default; see metrics/prom for a
// Prometheus adapter.
type Sink interface {
	ObserveGeneration(contentType string, d time.Duration, success bool)
	AlertFired(severity Severity)
}

// NoopSink is a drop-in Sink implementation that does nothing.
type NoopSink struct{}

func (NoopSink) ObserveGeneration(string, time.Duration, bool) {}
func (NoopSink) AlertFired(Severity)                           {}

var _ Sink = NoopSink{}
