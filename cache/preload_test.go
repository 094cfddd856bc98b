package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryosef1/contentcache/event"
)

func TestPreload_PriorityOrder(t *testing.T) {
	t.Parallel()

	c := New(Options{EnablePreloading: true})
	t.Cleanup(func() { _ = c.Close() })

	c.Preload("quest", map[string]any{"n": 1}, 3)
	c.Preload("item", map[string]any{"n": 2}, 8)
	c.Preload("dialogue", map[string]any{"n": 3}, DefaultPreloadPriority)
	require.Equal(t, 3, c.PreloadQueueLen())

	r, ok := c.ProcessPreloadQueue()
	require.True(t, ok)
	assert.Equal(t, "item", r.ContentType)

	r, ok = c.ProcessPreloadQueue()
	require.True(t, ok)
	assert.Equal(t, "dialogue", r.ContentType)

	r, ok = c.ProcessPreloadQueue()
	require.True(t, ok)
	assert.Equal(t, "quest", r.ContentType)

	_, ok = c.ProcessPreloadQueue()
	assert.False(t, ok, "drained queue must report empty")
}

func TestPreload_FIFOWithinSamePriority(t *testing.T) {
	t.Parallel()

	c := New(Options{EnablePreloading: true})
	t.Cleanup(func() { _ = c.Close() })

	c.Preload("first", nil, 5)
	c.Preload("second", nil, 5)
	c.Preload("third", nil, 5)

	for _, want := range []string{"first", "second", "third"} {
		r, ok := c.ProcessPreloadQueue()
		require.True(t, ok)
		assert.Equal(t, want, r.ContentType)
	}
}

func TestPreload_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	t.Cleanup(func() { _ = c.Close() })

	c.Preload("quest", nil, 9)
	assert.Equal(t, 0, c.PreloadQueueLen())
}

func TestPreload_Events(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	var queued, requested []string
	bus.Subscribe(event.PreloadQueued, func(e event.Event) {
		queued = append(queued, e.Payload.(PreloadEvent).Request.ContentType)
	})
	bus.Subscribe(event.PreloadRequest, func(e event.Event) {
		requested = append(requested, e.Payload.(PreloadEvent).Request.ContentType)
	})

	c := New(Options{EnablePreloading: true, Events: bus})
	t.Cleanup(func() { _ = c.Close() })

	c.Preload("quest", nil, 5)
	c.ProcessPreloadQueue()

	assert.Equal(t, []string{"quest"}, queued)
	assert.Equal(t, []string{"quest"}, requested)
}
