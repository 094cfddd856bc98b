// Package policy implements pluggable eviction strategies for the content
// cache. A Strategy is a pure ranking function: given the full resident entry
// set and the amount of space still needed, it returns the entries to evict,
// worst-first. The cache owns the actual deletion and memory accounting.
package policy

import (
	"fmt"
	"sort"
	"time"
)

// Entry is the read-only view of a cache entry a strategy may inspect.
// All calls happen under the cache lock; implementations must not retain
// entries beyond the Candidates call.
type Entry interface {
	Key() string
	Size() int64
	Priority() float64
	AccessCount() int64
	LastAccessed() time.Time
	Quality() float64
	GenerationCost() time.Duration
}

// Strategy selects eviction candidates. Candidates returns roughly 20% of
// the entry set (at least one entry when the set is non-empty), ranked so
// that the first returned entry is the most evictable.
type Strategy interface {
	Name() string
	Candidates(entries []Entry, required int64) []Entry
}

// Strategy names accepted by FromName and the config file.
const (
	NameLRU         = "lru"
	NameLFU         = "lfu"
	NamePriority    = "priority"
	NameIntelligent = "intelligent"
)

// FromName returns the strategy for a config enum value.
func FromName(name string) (Strategy, error) {
	switch name {
	case NameLRU:
		return NewLRU(), nil
	case NameLFU:
		return NewLFU(), nil
	case NamePriority:
		return NewPriority(), nil
	case NameIntelligent, "":
		return NewIntelligent(), nil
	default:
		return nil, fmt.Errorf("policy: unknown eviction strategy %q", name)
	}
}

// rank sorts a copy of entries by ascending score (lowest = evict first)
// and returns the worst 20% of them, minimum one.
func rank(entries []Entry, score func(Entry) float64) []Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) < score(out[j])
	})

	n := len(out) / 5
	if n < 1 {
		n = 1
	}
	return out[:n]
}
