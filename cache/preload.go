package cache

import (
	"sort"
	"time"

	"github.com/oryosef1/contentcache/event"
)

// DefaultPreloadPriority is the queue priority used when callers have no
// stronger opinion.
const DefaultPreloadPriority = 5

// PreloadRequest asks the external generator to produce content ahead of
// demand. The cache only queues and dispatches requests; it never generates
// content itself.
type PreloadRequest struct {
	ContentType string
	Parameters  map[string]any
	Priority    float64
	QueuedAt    time.Time
}

// Preload enqueues a preload request. The queue is kept sorted by descending
// priority; requests with equal priority dispatch in arrival order. A no-op
// unless Options.EnablePreloading is set.
func (c *Cache) Preload(contentType string, params map[string]any, priority float64) {
	if !c.opt.EnablePreloading || c.closed.Load() {
		return
	}
	r := &PreloadRequest{
		ContentType: contentType,
		Parameters:  params,
		Priority:    priority,
		QueuedAt:    c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := sort.Search(len(c.queue), func(i int) bool {
		return c.queue[i].Priority < r.Priority
	})
	c.queue = append(c.queue, nil)
	copy(c.queue[i+1:], c.queue[i:])
	c.queue[i] = r
	c.publish(event.PreloadQueued, PreloadEvent{Request: *r})
}

// ProcessPreloadQueue pops the highest-priority request and announces it on
// the event bus for the external generator to fulfill. Returns false when
// the queue is empty.
func (c *Cache) ProcessPreloadQueue() (PreloadRequest, bool) {
	if c.closed.Load() {
		return PreloadRequest{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return PreloadRequest{}, false
	}
	r := c.queue[0]
	c.queue = c.queue[1:]
	c.publish(event.PreloadRequest, PreloadEvent{Request: *r})
	return *r, true
}

// PreloadQueueLen returns the number of pending preload requests.
func (c *Cache) PreloadQueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
