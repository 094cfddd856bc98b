package cache

import (
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oryosef1/contentcache/policy"
)

// A mixed workload of concurrent Set/Get/Delete/InvalidateByTag on random
// keys. Should pass under `-race` without detector reports.
func TestRace_MixedWorkload(t *testing.T) {
	c := New(Options{
		MaxSize:          4096,
		MaxMemory:        8 << 20,
		EnablePreloading: true,
	})
	t.Cleanup(func() { _ = c.Close() })

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 20_000
	deadline := time.Now().Add(2 * time.Second)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		id := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% Delete
					c.Delete(k)
				case 5, 6: // ~2% tag invalidation
					c.InvalidateByTag("batch:" + strconv.Itoa(r.Intn(8)))
				case 7: // ~1% preload churn
					c.Preload("quest", map[string]any{"slot": r.Intn(64)}, float64(r.Intn(10)))
					c.ProcessPreloadQueue()
				case 8, 9, 10, 11, 12, 13, 14, 15, 16, 17: // ~10% Set
					c.Set(k, r.Int(), SetOptions{
						TTL:  time.Duration(10+r.Intn(20)) * time.Millisecond,
						Tags: []string{"batch:" + strconv.Itoa(r.Intn(8))},
					})
				default: // ~80% Get
					c.Get(k)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// Concurrent writers against tight bounds: accounting must stay consistent
// with the resident set once the dust settles.
func TestRace_BoundsUnderConcurrentSets(t *testing.T) {
	const maxMemory = 256 << 10
	c := New(Options{
		MaxSize:   256,
		MaxMemory: maxMemory,
		Strategy:  policy.NewLRU(),
	})
	t.Cleanup(func() { _ = c.Close() })

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		id := w
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				key := fmt.Sprintf("w%d:%d", id, i)
				if !c.Set(key, "some-content-payload", SetOptions{}) {
					return fmt.Errorf("set %s failed", key)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := c.Len(); got > 256 {
		t.Fatalf("count bound violated: %d entries", got)
	}
	if got := c.MemoryUsage(); got > maxMemory {
		t.Fatalf("memory bound violated: %d bytes", got)
	}
}
