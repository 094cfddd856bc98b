package policy

import "time"

// Intelligent ranks entries by a composite score combining priority, access
// frequency, recency, content quality, and regeneration cost. Entries that
// are high-priority, frequently or recently used, high-quality, or expensive
// to regenerate score high and survive; stale cheap low-quality entries sink
// to the bottom and are evicted first.
type Intelligent struct {
	// Now overrides the time source for recency scoring. Nil means time.Now.
	Now func() time.Time
}

// NewIntelligent returns the composite-score strategy.
func NewIntelligent() *Intelligent { return &Intelligent{} }

// Name implements Strategy.
func (*Intelligent) Name() string { return NameIntelligent }

// Candidates implements Strategy.
func (s *Intelligent) Candidates(entries []Entry, _ int64) []Entry {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return rank(entries, func(e Entry) float64 {
		return Score(e, now)
	})
}

// Score computes the composite eviction score of e at the given instant.
// Lower scores are evicted sooner.
//
//	score = priority*10
//	      + accessCount
//	      + max(0, 100 - minutesSinceLastAccess)   // recency, fades after ~100min
//	      + quality*20
//	      + min(generationCostMs/100, 10)          // capped regeneration cost
func Score(e Entry, now time.Time) float64 {
	score := e.Priority()*10 + float64(e.AccessCount())

	minutes := now.Sub(e.LastAccessed()).Minutes()
	if recency := 100 - minutes; recency > 0 {
		score += recency
	}

	score += e.Quality() * 20

	cost := float64(e.GenerationCost().Milliseconds()) / 100
	if cost > 10 {
		cost = 10
	}
	score += cost

	return score
}
