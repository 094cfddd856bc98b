// Package event provides a small typed publish/subscribe bus used to surface
// cache and monitor lifecycle events to external observers.
//
// Handlers run synchronously on the publishing goroutine and may be invoked
// while internal locks are held; keep them lightweight and never call back
// into the publisher. A panicking handler is recovered and ignored; event
// delivery is best-effort observability, not a control path.
package event

import (
	"sync"
	"time"
)

// Type identifies an event category on the bus.
type Type string

// Event types emitted by the cache and the performance monitor.
const (
	CacheHit      Type = "cache.hit"
	CacheMiss     Type = "cache.miss"
	CacheExpired  Type = "cache.expired"
	CacheSet      Type = "cache.set"
	CacheDelete   Type = "cache.delete"
	CacheEviction Type = "cache.eviction"

	PreloadQueued  Type = "preload.queued"
	PreloadRequest Type = "preload.request"

	AlertRaised    Type = "alert.raised"
	AlertResolved  Type = "alert.resolved"
	PeriodicReport Type = "report.periodic"

	GenerationComplete Type = "generation.complete"
)

// Event is a single published occurrence. Payload is a per-type struct
// defined by the publishing package (cache or monitor).
type Event struct {
	Type    Type
	At      time.Time
	Payload any
}

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to registered handlers. The zero value is unusable;
// construct with NewBus. All methods are safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[Type]map[int]Handler
	all  map[int]Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Type]map[int]Handler),
		all:  make(map[int]Handler),
	}
}

// Subscribe registers h for events of type t and returns an unsubscribe func.
func (b *Bus) Subscribe(t Type, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	if b.subs[t] == nil {
		b.subs[t] = make(map[int]Handler)
	}
	b.subs[t][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[t], id)
	}
}

// SubscribeAll registers h for every event type and returns an unsubscribe func.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.all[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers e to all matching handlers. A nil bus is a no-op so
// callers can hold an optional *Bus without nil checks at every call site.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type])+len(b.all))
	for _, h := range b.subs[e.Type] {
		handlers = append(handlers, h)
	}
	for _, h := range b.all {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() { _ = recover() }()
	h(e)
}
