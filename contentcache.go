// Package contentcache wires the content cache and the performance monitor
// into one system: both share an event bus, and the monitor is subscribed
// to the cache's hit/miss/expiry/eviction events so the cache hit rate and
// per-content-type cache counters stay current without explicit calls.
//
// The generation pipeline itself stays external:
//
//	sys := contentcache.New(cache.Options{...}, monitor.DefaultOptions())
//	key := cache.Fingerprint("quest", params)
//	if e, ok := sys.Cache.Get(key); ok {
//	    return e.Content()
//	}
//	op := sys.Monitor.RecordGenerationStart("quest", params)
//	content, err := generate(params) // external collaborator
//	sys.Monitor.RecordGenerationEnd(op, err == nil, nil, err)
//	if err == nil {
//	    sys.Cache.Set(key, content, cache.SetOptions{Metadata: meta})
//	}
package contentcache

import (
	"context"
	"strings"

	"github.com/oryosef1/contentcache/cache"
	"github.com/oryosef1/contentcache/event"
	"github.com/oryosef1/contentcache/monitor"
)

// System is a cache/monitor pair sharing one event bus.
type System struct {
	Cache   *cache.Cache
	Monitor *monitor.Monitor
	Bus     *event.Bus
}

// New builds the pair. A bus already present in either Options is reused;
// otherwise one is created and installed in both.
func New(copt cache.Options, mopt monitor.Options) *System {
	bus := copt.Events
	if bus == nil {
		bus = mopt.Events
	}
	if bus == nil {
		bus = event.NewBus()
	}
	copt.Events = bus
	mopt.Events = bus

	s := &System{
		Cache:   cache.New(copt),
		Monitor: monitor.New(mopt),
		Bus:     bus,
	}
	s.subscribe()
	return s
}

// Start launches the monitor's background reporting/pruning loop.
func (s *System) Start(ctx context.Context) { s.Monitor.Start(ctx) }

// Close shuts the cache down. Alerts and report history stay readable.
func (s *System) Close() error { return s.Cache.Close() }

// subscribe feeds cache traffic into the monitor's cache counters.
func (s *System) subscribe() {
	s.Bus.Subscribe(event.CacheHit, func(e event.Event) {
		p := e.Payload.(cache.HitEvent)
		s.Monitor.RecordCacheEvent(monitor.CacheHit,
			p.Entry.Metadata().ContentType, p.Entry.Size())
	})
	s.Bus.Subscribe(event.CacheMiss, func(e event.Event) {
		p := e.Payload.(cache.MissEvent)
		s.Monitor.RecordCacheEvent(monitor.CacheMiss, contentTypeFromKey(p.Key), 0)
	})
	s.Bus.Subscribe(event.CacheExpired, func(e event.Event) {
		p := e.Payload.(cache.ExpiredEvent)
		s.Monitor.RecordCacheEvent(monitor.CacheMiss,
			p.Entry.Metadata().ContentType, p.Entry.Size())
	})
	s.Bus.Subscribe(event.CacheEviction, func(e event.Event) {
		p := e.Payload.(cache.EvictionEvent)
		for _, entry := range p.Evicted {
			s.Monitor.RecordCacheEvent(monitor.CacheEviction,
				entry.Metadata().ContentType, entry.Size())
		}
	})
}

// contentTypeFromKey recovers the content type from a Fingerprint-style
// "type:hash" key; misses for foreign key formats report an empty type.
func contentTypeFromKey(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return ""
}
