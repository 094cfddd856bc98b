package policy

// lru evicts the least recently accessed entries first.
type lru struct{}

// NewLRU returns the least-recently-used strategy.
func NewLRU() Strategy { return lru{} }

func (lru) Name() string { return NameLRU }

func (lru) Candidates(entries []Entry, _ int64) []Entry {
	return rank(entries, func(e Entry) float64 {
		return float64(e.LastAccessed().UnixNano())
	})
}
