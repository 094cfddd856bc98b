// Package cache provides an in-memory store for expensive generated content
// keyed by fingerprint, with count and byte-size bounds, pluggable eviction
// scoring, TTL expiry on read, tag invalidation, and a preload queue.
//
// Design
//
//   - Concurrency: one mutex guards the entry table, the memory counter,
//     eviction, and the preload queue. Eviction runs under the same lock as
//     size accounting so concurrent Sets cannot double-claim freed space.
//
//   - Eviction: on an over-bound Set, the active policy.Strategy ranks the
//     full resident set and returns candidates worst-first; the cache deletes
//     them one at a time until the new entry fits. Four strategies ship:
//     LRU, LFU, priority-ordered, and a composite "intelligent" score.
//
//   - Overcommit: bounds are best-effort. If the strategy exhausts its
//     candidates before enough space is freed, the write is admitted anyway
//     and the cache temporarily exceeds its limits. This availability
//     tradeoff is deliberate: a full cache must degrade, not fail the
//     generation pipeline.
//
//   - TTL: entries may carry absolute deadlines; expiry is discovered lazily
//     on Get and reported as a miss plus a CacheExpired event.
//
//   - Priority: when a caller does not pin a priority, it is derived from
//     generation metadata: quality, generation cost, and player relevance
//     all raise it.
//
//   - Observability: Options.Metrics receives Hit/Miss/Evict/Size signals
//     (NoopMetrics by default; see metrics/prom for a Prometheus adapter),
//     and Options.Events publishes typed lifecycle events.
//
// Basic usage
//
//	c := cache.New(cache.Options{MaxSize: 1000, MaxMemory: 64 << 20})
//	key := cache.Fingerprint("quest", map[string]any{"level": 12})
//	c.Set(key, quest, cache.SetOptions{
//	    Tags:     []string{"zone:highlands"},
//	    Metadata: cache.Metadata{ContentType: "quest", Quality: 0.9},
//	})
//	if e, ok := c.Get(key); ok {
//	    _ = e.Content()
//	}
//
// The cache never builds content on a miss. Callers regenerate and Set; two
// concurrent misses for the same key may both regenerate, and the last Set
// wins. If single-flight semantics are needed, coalesce in the caller.
package cache
