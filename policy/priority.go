package policy

// priority evicts the lowest-priority entries first, ignoring recency
// and frequency entirely.
type priority struct{}

// NewPriority returns the priority-ordered strategy.
func NewPriority() Strategy { return priority{} }

func (priority) Name() string { return NamePriority }

func (priority) Candidates(entries []Entry, _ int64) []Entry {
	return rank(entries, func(e Entry) float64 {
		return e.Priority()
	})
}
