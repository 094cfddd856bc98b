// Package monitor measures content-generation performance: it samples
// operations, maintains rolling metrics over trailing windows, raises
// threshold alerts, and produces periodic reports with trend deltas against
// the preceding equal-length period.
//
// Flow
//
//	id := m.RecordGenerationStart("quest", params)
//	// ... external generator runs ...
//	m.RecordGenerationEnd(id, true, &monitor.Content{Type: "quest"}, nil)
//
// Every finalized sample folds into rolling metrics and per-content-type
// stats, then all alert thresholds are checked against the current rolling
// metrics. Each check is independent and several alerts can fire from one
// sample. Alerts are append-only; resolution flips a flag, never deletes.
//
// Sampling: RecordGenerationStart passes a probability gate (SampleRate)
// so monitoring overhead stays bounded under high throughput. Unsampled
// operations receive ids whose RecordGenerationEnd is a silent no-op.
// Inject Options.Rand for deterministic tests.
//
// An operation abandoned without RecordGenerationEnd leaves an unfinalized
// sample; the background loop prunes samples past SampleRetention either
// way, so orphans do not leak.
//
// Wiring to a cache: subscribe to the cache's event bus, or use the root
// package's System which does it for you.
package monitor
