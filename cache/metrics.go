package cache

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictStrategy: removed by the active eviction strategy during makeSpace.
	EvictStrategy EvictReason = iota
	// EvictTTL: expired by TTL (lazy eviction on access).
	EvictTTL
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, bytes int64)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                        {}
func (NoopMetrics) Miss()                       {}
func (NoopMetrics) Evict(EvictReason)           {}
func (NoopMetrics) Size(entries int, bytes int64) {}

var _ Metrics = NoopMetrics{}
