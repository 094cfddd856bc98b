package cache

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   uint64
	Expirations uint64
	Sets        uint64
	Deletes     uint64
	Entries     int
	Memory      int64
	HitRate     float64
}

// Stats returns the current counters. HitRate is hits/(hits+misses), or 0
// before any lookup.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	memory := c.memory
	c.mu.Unlock()

	s := Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
		Sets:        c.sets.Load(),
		Deletes:     c.deletes.Load(),
		Entries:     entries,
		Memory:      memory,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
