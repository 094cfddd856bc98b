package monitor

import "time"

// Sample records one generation operation from start to finalization.
// Samples returned by accessors are copies.
type Sample struct {
	ID          string
	ContentType string
	Parameters  map[string]any

	StartTime      time.Time
	EndTime        time.Time
	GenerationTime time.Duration
	ValidationTime time.Duration

	MemoryBefore uint64
	MemoryAfter  uint64
	MemoryDelta  int64

	// Completed is false for in-flight or abandoned operations. Abandoned
	// samples never fold into metrics and are pruned by retention.
	Completed bool
	Success   bool
	Error     string
}

// Content is the slice of the external generator's output the monitor is
// allowed to inspect: type, quality, and the generator's own timing.
type Content struct {
	Type           string
	Quality        float64
	GenerationTime time.Duration
}

// ContentTypeStats accumulates per-content-type counters. They grow
// monotonically and reset only on ClearHistory.
type ContentTypeStats struct {
	ContentType string

	Requests  int64
	Successes int64
	Failures  int64

	TotalGenerationTime time.Duration
	TotalMemoryDelta    int64

	CacheHits      int64
	CacheMisses    int64
	CacheEvictions int64
}

// AverageGenerationTime returns the mean generation time across requests.
func (s ContentTypeStats) AverageGenerationTime() time.Duration {
	if s.Requests == 0 {
		return 0
	}
	return s.TotalGenerationTime / time.Duration(s.Requests)
}

// SuccessRate returns successes/requests, or 1 when nothing was requested.
func (s ContentTypeStats) SuccessRate() float64 {
	if s.Requests == 0 {
		return 1
	}
	return float64(s.Successes) / float64(s.Requests)
}
