package monitor

import "time"

// Metrics is a rolling snapshot of generation performance. Time-based
// fields cover the trailing MetricsWindow; Throughput covers the trailing
// ThroughputWindow. An empty window is not evidence of failure: SuccessRate
// defaults to 1 and ErrorRate to 0.
type Metrics struct {
	AverageResponseTime time.Duration
	SuccessRate         float64
	ErrorRate           float64
	Throughput          float64 // operations per second
	MemoryUsage         uint64
	CacheHitRate        float64
	SampleCount         int
}

// Snapshot returns the current rolling metrics.
func (m *Monitor) Snapshot() Metrics {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metricsLocked(now)
}

func (m *Monitor) metricsLocked(now time.Time) Metrics {
	met := windowMetrics(m.samples, now.Add(-m.opt.MetricsWindow), now)
	met.Throughput = throughput(m.samples, now.Add(-m.opt.ThroughputWindow), now,
		m.opt.ThroughputWindow.Seconds())
	met.MemoryUsage = m.opt.MemoryUsage()
	met.CacheHitRate = m.cacheHitRateLocked()
	return met
}

// cacheHitRateLocked returns hits/(hits+misses); with no cache traffic yet
// it reports 1 so a cold start does not read as a degraded cache.
func (m *Monitor) cacheHitRateLocked() float64 {
	total := m.cacheHits + m.cacheMisses
	if total == 0 {
		return 1
	}
	return float64(m.cacheHits) / float64(total)
}

// windowMetrics folds the completed samples finalized in (from, to] into
// response-time and success-rate aggregates.
func windowMetrics(samples []*Sample, from, to time.Time) Metrics {
	var (
		count     int
		successes int
		total     time.Duration
	)
	for _, s := range samples {
		if !inWindow(s, from, to) {
			continue
		}
		count++
		total += s.GenerationTime
		if s.Success {
			successes++
		}
	}

	met := Metrics{SuccessRate: 1, SampleCount: count}
	if count > 0 {
		met.AverageResponseTime = total / time.Duration(count)
		met.SuccessRate = float64(successes) / float64(count)
	}
	met.ErrorRate = 1 - met.SuccessRate
	return met
}

func throughput(samples []*Sample, from, to time.Time, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	count := 0
	for _, s := range samples {
		if inWindow(s, from, to) {
			count++
		}
	}
	return float64(count) / seconds
}

func inWindow(s *Sample, from, to time.Time) bool {
	return s.Completed && s.EndTime.After(from) && !s.EndTime.After(to)
}
