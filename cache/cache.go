package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oryosef1/contentcache/event"
	"github.com/oryosef1/contentcache/internal/util"
	"github.com/oryosef1/contentcache/policy"
)

// Cache is an in-memory store for expensive generated content, keyed by
// fingerprint, bounded by entry count and total payload bytes, with a
// pluggable eviction strategy and TTL expiry on read.
//
// All methods are safe for concurrent use. A single mutex guards the entry
// table, the memory counter, and eviction, so capacity accounting is always
// consistent with the resident set: two overlapping Set calls cannot both
// believe they made space.
//
// Capacity bounds are best-effort, not hard: if the strategy cannot surface
// enough candidates to free the requested space, Set still stores the entry
// and the cache temporarily overcommits rather than failing the write.
// A cache must never be the reason a generation pipeline fails.
type Cache struct {
	// ---- guarded by mu ----
	mu      sync.Mutex
	entries map[string]*Entry
	memory  int64 // sum of Entry.size for resident entries
	queue   []*PreloadRequest

	opt    Options
	closed atomic.Bool

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_           util.CacheLinePad
	hits        util.PaddedAtomicInt64
	misses      util.PaddedAtomicInt64
	evictions   util.PaddedAtomicUint64
	expirations util.PaddedAtomicUint64
	sets        util.PaddedAtomicUint64
	deletes     util.PaddedAtomicUint64
}

// New constructs a cache with the provided Options (see Options for the
// defaults applied to zero values).
func New(opt Options) *Cache {
	opt = withDefaults(opt)
	return &Cache{
		entries: make(map[string]*Entry),
		opt:     opt,
	}
}

// Get returns a snapshot of the entry stored under key. A hit bumps the
// entry's access time and count. A present-but-expired entry is removed and
// reported as a miss.
func (c *Cache) Get(key string) (Entry, bool) {
	if c.closed.Load() {
		return Entry{}, false
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		c.publish(event.CacheMiss, MissEvent{Key: key})
		return Entry{}, false
	}
	if e.expired(now) {
		c.unlinkLocked(e)
		c.expirations.Add(1)
		c.misses.Add(1)
		c.opt.Metrics.Evict(EvictTTL)
		c.opt.Metrics.Miss()
		c.opt.Metrics.Size(len(c.entries), c.memory)
		c.publish(event.CacheExpired, ExpiredEvent{Key: key, Entry: *e})
		return Entry{}, false
	}

	e.lastAccessed = now
	e.accessCount++
	e.meta.ReuseFrequency++
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	c.publish(event.CacheHit, HitEvent{Key: key, Entry: *e})
	return *e, true
}

// Has reports whether key is resident and unexpired without promoting the
// entry or touching hit/miss accounting.
func (c *Cache) Has(key string) bool {
	if c.closed.Load() {
		return false
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && !e.expired(now)
}

// Set stores content under key, evicting other entries first if the count or
// memory bound would be exceeded. An existing entry under the same key is
// replaced. Returns false only when the payload size cannot be computed; the
// failure is logged, never raised.
func (c *Cache) Set(key string, content any, opts SetOptions) bool {
	if c.closed.Load() {
		return false
	}
	size, err := c.opt.Sizer(content)
	if err != nil {
		c.opt.Logger.Warn("cache set dropped: content size unavailable",
			"key", key, "error", err)
		return false
	}
	now := c.now()

	priority := defaultPriority(opts.Metadata)
	if opts.Priority != nil {
		priority = clampPriority(*opts.Priority)
	}

	var expiresAt time.Time
	ttl := opts.TTL
	if ttl == 0 {
		ttl = c.opt.DefaultTTL
	}
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	var tags map[string]struct{}
	if len(opts.Tags) > 0 {
		tags = make(map[string]struct{}, len(opts.Tags))
		for _, t := range opts.Tags {
			tags[t] = struct{}{}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		// Replace in place; the old entry's bytes are reclaimed first.
		c.unlinkLocked(old)
	}
	if len(c.entries)+1 > c.opt.MaxSize || c.memory+size > c.opt.MaxMemory {
		c.makeSpaceLocked(size)
	}

	e := &Entry{
		key:          key,
		content:      content,
		generatedAt:  now,
		lastAccessed: now,
		accessCount:  1,
		size:         size,
		priority:     priority,
		expiresAt:    expiresAt,
		tags:         tags,
		meta:         opts.Metadata,
	}
	c.entries[key] = e
	c.memory += size
	c.sets.Add(1)
	c.opt.Metrics.Size(len(c.entries), c.memory)
	c.publish(event.CacheSet, SetEvent{Key: key, Entry: *e})
	return true
}

// Delete removes key if present and returns true on success.
func (c *Cache) Delete(key string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.unlinkLocked(e)
	c.deletes.Add(1)
	c.opt.Metrics.Size(len(c.entries), c.memory)
	c.publish(event.CacheDelete, DeleteEvent{Key: key, Entry: *e})
	return true
}

// InvalidateByTag removes every entry carrying tag and returns the number
// of entries removed.
func (c *Cache) InvalidateByTag(tag string) int {
	if c.closed.Load() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, e := range c.entries {
		if _, ok := e.tags[tag]; !ok {
			continue
		}
		c.unlinkLocked(e)
		c.deletes.Add(1)
		removed++
		c.publish(event.CacheDelete, DeleteEvent{Key: e.key, Entry: *e})
	}
	if removed > 0 {
		c.opt.Metrics.Size(len(c.entries), c.memory)
	}
	return removed
}

// Clear removes all entries, the preload queue, and resets the memory counter.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.queue = nil
	c.memory = 0
	c.opt.Metrics.Size(0, 0)
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// MemoryUsage returns the total payload bytes of resident entries.
func (c *Cache) MemoryUsage() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory
}

// Keys returns the resident fingerprint keys in no particular order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}

// Close marks the cache as closed. Future operations are ignored.
func (c *Cache) Close() error {
	c.closed.Store(true)
	return nil
}

// -------------------- internals (mu held) --------------------

// makeSpaceLocked evicts strategy-selected candidates until the incoming
// entry of the given size fits within both bounds. Candidates are requested
// over the full resident set and removed one at a time; if the strategy
// stops producing candidates before enough space is freed, the cache
// accepts temporary overcommit instead of failing the write.
func (c *Cache) makeSpaceLocked(size int64) {
	var evicted []Entry
	for c.overLocked(size) {
		view := make([]policy.Entry, 0, len(c.entries))
		for _, e := range c.entries {
			view = append(view, *e)
		}
		needed := c.memory + size - c.opt.MaxMemory
		if needed < 0 {
			needed = 0
		}
		progress := false
		for _, cand := range c.opt.Strategy.Candidates(view, needed) {
			e, ok := c.entries[cand.Key()]
			if !ok {
				continue
			}
			c.unlinkLocked(e)
			c.evictions.Add(1)
			c.opt.Metrics.Evict(EvictStrategy)
			evicted = append(evicted, *e)
			progress = true
			if !c.overLocked(size) {
				break
			}
		}
		if !progress {
			break
		}
	}
	if len(evicted) > 0 {
		c.opt.Metrics.Size(len(c.entries), c.memory)
		c.publish(event.CacheEviction, EvictionEvent{Evicted: evicted})
	}
}

// overLocked reports whether admitting one more entry of the given size
// would violate the count or memory bound.
func (c *Cache) overLocked(size int64) bool {
	return len(c.entries)+1 > c.opt.MaxSize || c.memory+size > c.opt.MaxMemory
}

// unlinkLocked removes e from the table and reclaims its bytes.
func (c *Cache) unlinkLocked(e *Entry) {
	delete(c.entries, e.key)
	c.memory -= e.size
	if c.memory < 0 {
		c.memory = 0
	}
}

func (c *Cache) now() time.Time {
	if c.opt.Clock != nil {
		return c.opt.Clock.Now()
	}
	return time.Now()
}

// publish emits on the configured bus. Handlers run under the cache lock;
// they must be lightweight and must not call back into the cache.
func (c *Cache) publish(t event.Type, payload any) {
	if c.opt.Events == nil {
		return
	}
	c.opt.Events.Publish(event.Event{Type: t, At: c.now(), Payload: payload})
}
