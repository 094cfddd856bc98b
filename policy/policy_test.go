package policy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEntry is a minimal Entry implementation for strategy tests.
type testEntry struct {
	key          string
	size         int64
	priority     float64
	accessCount  int64
	lastAccessed time.Time
	quality      float64
	genCost      time.Duration
}

func (e testEntry) Key() string                   { return e.key }
func (e testEntry) Size() int64                   { return e.size }
func (e testEntry) Priority() float64             { return e.priority }
func (e testEntry) AccessCount() int64            { return e.accessCount }
func (e testEntry) LastAccessed() time.Time       { return e.lastAccessed }
func (e testEntry) Quality() float64              { return e.quality }
func (e testEntry) GenerationCost() time.Duration { return e.genCost }

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key()
	}
	return out
}

func TestFromName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{NameLRU, NameLFU, NamePriority, NameIntelligent} {
		s, err := FromName(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	// Empty means the default composite strategy.
	s, err := FromName("")
	require.NoError(t, err)
	assert.Equal(t, NameIntelligent, s.Name())

	_, err = FromName("fifo")
	assert.Error(t, err)
}

func TestCandidates_BatchSize(t *testing.T) {
	t.Parallel()

	now := time.Now()
	mk := func(n int) []Entry {
		entries := make([]Entry, n)
		for i := range entries {
			entries[i] = testEntry{key: fmt.Sprintf("k%d", i), lastAccessed: now}
		}
		return entries
	}

	s := NewLRU()
	assert.Nil(t, s.Candidates(nil, 0))
	assert.Len(t, s.Candidates(mk(1), 0), 1, "minimum one candidate")
	assert.Len(t, s.Candidates(mk(4), 0), 1, "batch size rounds down, floor of one")
	assert.Len(t, s.Candidates(mk(10), 0), 2)
	assert.Len(t, s.Candidates(mk(100), 0), 20)
}

func TestLRU_OldestFirst(t *testing.T) {
	t.Parallel()

	now := time.Now()
	entries := []Entry{
		testEntry{key: "fresh", lastAccessed: now},
		testEntry{key: "stale", lastAccessed: now.Add(-time.Hour)},
		testEntry{key: "older", lastAccessed: now.Add(-2 * time.Hour)},
		testEntry{key: "mid", lastAccessed: now.Add(-30 * time.Minute)},
		testEntry{key: "recent", lastAccessed: now.Add(-time.Minute)},
	}
	got := NewLRU().Candidates(entries, 0)
	assert.Equal(t, []string{"older"}, keys(got))
}

func TestLFU_ColdestFirst(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		testEntry{key: "hot", accessCount: 90},
		testEntry{key: "cold", accessCount: 1},
		testEntry{key: "warm", accessCount: 15},
		testEntry{key: "cool", accessCount: 3},
		testEntry{key: "hotter", accessCount: 200},
	}
	got := NewLFU().Candidates(entries, 0)
	assert.Equal(t, []string{"cold"}, keys(got))
}

func TestPriority_LowestFirst(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		testEntry{key: "p9", priority: 9},
		testEntry{key: "p1", priority: 1},
		testEntry{key: "p5", priority: 5},
		testEntry{key: "p0", priority: 0},
		testEntry{key: "p7", priority: 7},
	}
	got := NewPriority().Candidates(entries, 0)
	assert.Equal(t, []string{"p0"}, keys(got))
}

func TestIntelligent_Score(t *testing.T) {
	t.Parallel()

	now := time.Now()
	base := testEntry{key: "base", lastAccessed: now, accessCount: 1}

	// Touched just now: full recency credit.
	assert.InDelta(t, 101, Score(base, now), 0.001)

	// Each attribute independently raises the score.
	prio := base
	prio.priority = 4
	assert.Greater(t, Score(prio, now), Score(base, now))

	freq := base
	freq.accessCount = 40
	assert.Greater(t, Score(freq, now), Score(base, now))

	qual := base
	qual.quality = 0.9
	assert.Greater(t, Score(qual, now), Score(base, now))

	costly := base
	costly.genCost = 800 * time.Millisecond
	assert.Greater(t, Score(costly, now), Score(base, now))

	// Recency credit fades with age and bottoms out at zero.
	stale := base
	stale.lastAccessed = now.Add(-50 * time.Minute)
	assert.Less(t, Score(stale, now), Score(base, now))

	dead := base
	dead.lastAccessed = now.Add(-200 * time.Minute)
	assert.InDelta(t, 1, Score(dead, now), 0.001)

	// Generation cost credit is capped at 10.
	veryCostly := base
	veryCostly.genCost = time.Hour
	assert.InDelta(t, Score(base, now)+10, Score(veryCostly, now), 0.001)
}

func TestIntelligent_EvictsLowestScore(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := NewIntelligent()
	s.Now = func() time.Time { return now }

	// a scores far below b; only a may be offered for eviction.
	a := testEntry{key: "a", lastAccessed: now.Add(-3 * time.Hour), accessCount: 4}
	b := testEntry{key: "b", lastAccessed: now.Add(-3 * time.Hour), accessCount: 4,
		priority: 4, quality: 0.3}
	require.Less(t, Score(a, now), Score(b, now))

	got := s.Candidates([]Entry{b, a}, 1)
	assert.Equal(t, []string{"a"}, keys(got))
}
