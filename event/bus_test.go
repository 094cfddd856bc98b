package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBus_SubscribePublish(t *testing.T) {
	t.Parallel()

	b := NewBus()
	var hits, misses []Event
	b.Subscribe(CacheHit, func(e Event) { hits = append(hits, e) })
	b.Subscribe(CacheMiss, func(e Event) { misses = append(misses, e) })

	b.Publish(Event{Type: CacheHit, Payload: "h1"})
	b.Publish(Event{Type: CacheHit, Payload: "h2"})
	b.Publish(Event{Type: CacheMiss, Payload: "m1"})

	require.Len(t, hits, 2)
	assert.Equal(t, "h1", hits[0].Payload)
	assert.Equal(t, "h2", hits[1].Payload)
	require.Len(t, misses, 1)
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	b := NewBus()
	n := 0
	off := b.Subscribe(CacheSet, func(Event) { n++ })

	b.Publish(Event{Type: CacheSet})
	off()
	b.Publish(Event{Type: CacheSet})
	off() // idempotent

	assert.Equal(t, 1, n)
}

func TestBus_SubscribeAll(t *testing.T) {
	t.Parallel()

	b := NewBus()
	var seen []Type
	off := b.SubscribeAll(func(e Event) { seen = append(seen, e.Type) })

	b.Publish(Event{Type: CacheHit})
	b.Publish(Event{Type: AlertRaised})
	b.Publish(Event{Type: PeriodicReport})
	off()
	b.Publish(Event{Type: CacheHit})

	assert.Equal(t, []Type{CacheHit, AlertRaised, PeriodicReport}, seen)
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	b := NewBus()
	delivered := false
	b.Subscribe(CacheEviction, func(Event) { panic("bad handler") })
	b.SubscribeAll(func(Event) { delivered = true })

	b.Publish(Event{Type: CacheEviction})
	assert.True(t, delivered)
}

func TestBus_NilBusIsNoop(t *testing.T) {
	t.Parallel()

	var b *Bus
	b.Publish(Event{Type: CacheHit}) // must not panic
}

func TestBus_StampsMissingTimestamp(t *testing.T) {
	t.Parallel()

	b := NewBus()
	var got Event
	b.Subscribe(CacheHit, func(e Event) { got = e })

	b.Publish(Event{Type: CacheHit})
	assert.False(t, got.At.IsZero())

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.Publish(Event{Type: CacheHit, At: at})
	assert.Equal(t, at, got.At)
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	t.Parallel()

	b := NewBus()
	var mu sync.Mutex
	count := 0

	var g errgroup.Group
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				off := b.Subscribe(CacheHit, func(Event) {
					mu.Lock()
					count++
					mu.Unlock()
				})
				b.Publish(Event{Type: CacheHit})
				off()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.GreaterOrEqual(t, count, 4*200, "each publisher sees at least its own handler")
}
