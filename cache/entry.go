package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oryosef1/contentcache/internal/util"
)

// Metadata describes how a cached content object was produced. The cache
// never interprets Parameters; they are carried for preload requests and
// external consumers. Quality and PlayerRelevance are in [0,1].
type Metadata struct {
	ContentType     string
	Parameters      map[string]any
	Quality         float64
	GenerationCost  time.Duration
	PlayerRelevance float64
	ReuseFrequency  int64
}

// Entry is a single cached content object. Entries returned by Get and
// carried in events are snapshot copies; the cache retains the only mutable
// instance. Tag and parameter maps are shared and must be treated read-only.
type Entry struct {
	key          string
	content      any
	generatedAt  time.Time
	lastAccessed time.Time
	accessCount  int64
	size         int64
	priority     float64
	expiresAt    time.Time
	tags         map[string]struct{}
	meta         Metadata
}

// Key returns the fingerprint key the entry is stored under.
func (e Entry) Key() string { return e.key }

// Content returns the opaque cached payload.
func (e Entry) Content() any { return e.content }

// GeneratedAt returns the insertion time.
func (e Entry) GeneratedAt() time.Time { return e.generatedAt }

// LastAccessed returns the time of the most recent hit (or insertion).
func (e Entry) LastAccessed() time.Time { return e.lastAccessed }

// AccessCount returns the number of hits, counting insertion as the first.
func (e Entry) AccessCount() int64 { return e.accessCount }

// Size returns the serialized payload size in bytes.
func (e Entry) Size() int64 { return e.size }

// Priority returns the retention priority in [0,10].
func (e Entry) Priority() float64 { return e.priority }

// ExpiresAt returns the absolute expiry deadline; zero means no TTL.
func (e Entry) ExpiresAt() time.Time { return e.expiresAt }

// Quality returns the content quality score from the metadata.
func (e Entry) Quality() float64 { return e.meta.Quality }

// GenerationCost returns how long the content took to generate.
func (e Entry) GenerationCost() time.Duration { return e.meta.GenerationCost }

// Metadata returns the generation metadata.
func (e Entry) Metadata() Metadata { return e.meta }

// HasTag reports whether the entry carries the given invalidation tag.
func (e Entry) HasTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// Tags returns the entry's invalidation tags in sorted order.
func (e Entry) Tags() []string {
	if len(e.tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.tags))
	for t := range e.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// expired reports whether the entry's deadline has passed at now.
func (e *Entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Fingerprint derives a stable cache key from a content type and its
// generation parameters. Parameters are canonicalized through JSON (Go
// serializes map keys in sorted order) and hashed with FNV-1a.
func Fingerprint(contentType string, params map[string]any) string {
	b, err := json.Marshal(params)
	if err != nil {
		// Unserializable parameter values still need a deterministic key.
		b = []byte(fmt.Sprint(params))
	}
	return contentType + ":" + util.HexHash(util.Fnv64a(b))
}

// defaultPriority computes the retention priority when the caller does not
// supply one: content that was expensive to generate or highly relevant to
// the player is worth keeping longer.
//
//	priority = clamp(0, 10, 5 + 3*quality + min(generationMs/1000, 5) + 2*relevance)
func defaultPriority(m Metadata) float64 {
	cost := float64(m.GenerationCost.Milliseconds()) / 1000
	if cost > 5 {
		cost = 5
	}
	return clampPriority(5 + 3*m.Quality + cost + 2*m.PlayerRelevance)
}

func clampPriority(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return p
}
