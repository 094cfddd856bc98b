package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/oryosef1/contentcache/policy"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines).
func benchmarkMix(b *testing.B, strategy policy.Strategy, readsPct int) {
	c := New(Options{
		MaxSize:   100_000,
		MaxMemory: 256 << 20,
		Strategy:  strategy,
	})
	b.Cleanup(func() { _ = c.Close() })

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		c.Set("k:"+strconv.Itoa(i), "v", SetOptions{})
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Set(k, "v", SetOptions{})
			}
			i++
		}
	})
}

func BenchmarkCache_LRU_90r10w(b *testing.B) { benchmarkMix(b, policy.NewLRU(), 90) }
func BenchmarkCache_LRU_50r50w(b *testing.B) { benchmarkMix(b, policy.NewLRU(), 50) }

func BenchmarkCache_Intelligent_90r10w(b *testing.B) {
	benchmarkMix(b, policy.NewIntelligent(), 90)
}

func BenchmarkFingerprint(b *testing.B) {
	params := map[string]any{"zone": "highlands", "level": 12, "seed": 42}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Fingerprint("quest", params)
	}
}
