package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/oryosef1/contentcache/event"
	"github.com/oryosef1/contentcache/policy"
)

// Default capacity limits applied when Options fields are zero.
const (
	DefaultMaxSize   = 1000
	DefaultMaxMemory = 100 << 20 // 100 MB
)

// Clock provides the current time; useful for deterministic tests.
type Clock interface{ Now() time.Time }

// Options configures the cache. Zero values are safe; defaults are applied
// in New():
//   - MaxSize <= 0   => DefaultMaxSize
//   - MaxMemory <= 0 => DefaultMaxMemory
//   - nil Strategy   => policy.NewIntelligent()
//   - nil Metrics    => NoopMetrics
//   - nil Sizer      => JSON-encoded size
//   - nil Logger     => slog.Default()
type Options struct {
	// MaxSize is the entry count limit.
	MaxSize int

	// MaxMemory is the total payload size limit in bytes.
	MaxMemory int64

	// DefaultTTL applies to Set when SetOptions.TTL is zero (0 = no TTL).
	DefaultTTL time.Duration

	// Strategy is the eviction strategy consulted by makeSpace.
	Strategy policy.Strategy

	// EnableCompression is recognized for config compatibility but is
	// currently a passthrough; payloads are stored uncompressed.
	EnableCompression bool

	// EnablePreloading enables the preload request queue.
	EnablePreloading bool

	// Metrics receives hit/miss/eviction/size signals.
	Metrics Metrics

	// Events receives cache lifecycle events. Nil disables emission.
	Events *event.Bus

	// Logger is used for swallowed Set failures. Nil => slog.Default().
	Logger *slog.Logger

	// Clock overrides the time source (tests). Nil => time.Now().
	Clock Clock

	// Sizer computes the stored byte size of a payload.
	Sizer func(content any) (int64, error)
}

// SetOptions carries the per-call knobs of Set. The zero value stores the
// entry with the cache's DefaultTTL and the computed default priority.
type SetOptions struct {
	// TTL overrides the cache DefaultTTL. Zero means "use the default";
	// a negative TTL disables expiry for this entry.
	TTL time.Duration

	// Priority pins the retention priority (clamped to [0,10]). Nil means
	// "derive from metadata".
	Priority *float64

	// Tags are invalidation labels; InvalidateByTag removes every entry
	// carrying the given tag.
	Tags []string

	// Metadata describes how the content was generated.
	Metadata Metadata
}

// jsonSize is the default Sizer: the length of the JSON encoding.
func jsonSize(content any) (int64, error) {
	b, err := json.Marshal(content)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

func withDefaults(opt Options) Options {
	if opt.MaxSize <= 0 {
		opt.MaxSize = DefaultMaxSize
	}
	if opt.MaxMemory <= 0 {
		opt.MaxMemory = DefaultMaxMemory
	}
	if opt.Strategy == nil {
		opt.Strategy = policy.NewIntelligent()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Sizer == nil {
		opt.Sizer = jsonSize
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return opt
}
