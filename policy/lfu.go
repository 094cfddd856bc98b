package policy

// lfu evicts the least frequently accessed entries first.
type lfu struct{}

// NewLFU returns the least-frequently-used strategy.
func NewLFU() Strategy { return lfu{} }

func (lfu) Name() string { return NameLFU }

func (lfu) Candidates(entries []Entry, _ int64) []Entry {
	return rank(entries, func(e Entry) float64 {
		return float64(e.AccessCount())
	})
}
