package monitor

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/oryosef1/contentcache/event"
)

// Direction classifies a metric's movement between two consecutive periods.
type Direction string

// Trend directions. Changes under 5% in either direction read as stable.
const (
	TrendIncreasing Direction = "increasing"
	TrendDecreasing Direction = "decreasing"
	TrendStable     Direction = "stable"
)

// stableBandPct is the percent-change band classified as stable.
const stableBandPct = 5

// TrendDelta pairs a direction with the underlying percent change.
type TrendDelta struct {
	Direction Direction
	ChangePct float64
}

// Trends compares the report period against the preceding equal-length
// period, per metric.
type Trends struct {
	ResponseTime TrendDelta
	SuccessRate  TrendDelta
	ErrorRate    TrendDelta
	Throughput   TrendDelta
}

// TypeBreakdown summarizes one content type's activity within a report
// period.
type TypeBreakdown struct {
	Requests              int
	Successes             int
	AverageGenerationTime time.Duration
}

// Report is a full performance snapshot over a period.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Period      time.Duration

	Metrics      Metrics
	Trends       Trends
	ContentTypes map[string]TypeBreakdown

	// Alerts raised within the period.
	Alerts []Alert

	Recommendations []string
}

// ParsePeriod parses a compact period string: a positive integer followed
// by one of s, m, h, or d ("30s", "5m", "2h", "1d").
func ParsePeriod(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("monitor: invalid period %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("monitor: invalid period %q", s)
	}
	switch s[len(s)-1] {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("monitor: invalid period unit in %q", s)
	}
}

// GenerateReport builds a report over the trailing period ("5m", "2h", …):
// rolling metrics for the slice, trend deltas versus the preceding
// equal-length period, a per-content-type breakdown, the alerts raised in
// the period, and rule-derived recommendations. The report is appended to a
// retention-bounded history and published on the event bus.
func (m *Monitor) GenerateReport(period string) (*Report, error) {
	d, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	return m.generateReport(d)
}

func (m *Monitor) generateReport(period time.Duration) (*Report, error) {
	now := m.now()
	from := now.Add(-period)
	prevFrom := now.Add(-2 * period)

	// Snapshot under the lock; all computation happens outside it.
	m.mu.Lock()
	samples := make([]*Sample, 0, len(m.samples))
	for _, s := range m.samples {
		if s.Completed && s.EndTime.After(prevFrom) {
			cp := *s
			samples = append(samples, &cp)
		}
	}
	memory := m.opt.MemoryUsage()
	hitRate := m.cacheHitRateLocked()
	m.mu.Unlock()

	current := periodMetrics(samples, from, now, period)
	previous := periodMetrics(samples, prevFrom, from, period)
	current.MemoryUsage = memory
	current.CacheHitRate = hitRate

	r := &Report{
		ID:           uuid.NewString(),
		GeneratedAt:  now,
		Period:       period,
		Metrics:      current,
		Trends:       computeTrends(previous, current),
		ContentTypes: breakdown(samples, from, now),
		Alerts:       m.AlertsBetween(from, now),
	}
	r.Recommendations = recommendations(r)

	m.mu.Lock()
	m.reports = append(m.reports, r)
	cutoff := now.Add(-m.opt.ReportRetention)
	kept := m.reports[:0]
	for _, old := range m.reports {
		if !old.GeneratedAt.Before(cutoff) {
			kept = append(kept, old)
		}
	}
	m.reports = kept
	m.mu.Unlock()

	m.publish(event.PeriodicReport, *r)
	return r, nil
}

// ReportHistory returns copies of retained reports, oldest first.
func (m *Monitor) ReportHistory() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Report, len(m.reports))
	for i, r := range m.reports {
		out[i] = *r
	}
	return out
}

// periodMetrics computes the sample-derived metrics for one period slice.
func periodMetrics(samples []*Sample, from, to time.Time, period time.Duration) Metrics {
	met := windowMetrics(samples, from, to)
	met.Throughput = throughput(samples, from, to, period.Seconds())
	return met
}

func computeTrends(prev, cur Metrics) Trends {
	return Trends{
		ResponseTime: classifyTrend(
			float64(prev.AverageResponseTime), float64(cur.AverageResponseTime)),
		SuccessRate: classifyTrend(prev.SuccessRate, cur.SuccessRate),
		ErrorRate:   classifyTrend(prev.ErrorRate, cur.ErrorRate),
		Throughput:  classifyTrend(prev.Throughput, cur.Throughput),
	}
}

// classifyTrend computes percent change from previous to current. A zero
// baseline cannot express a percentage: the change counts as increasing
// when something appeared, stable otherwise.
func classifyTrend(previous, current float64) TrendDelta {
	if previous == 0 {
		if current == 0 {
			return TrendDelta{Direction: TrendStable}
		}
		return TrendDelta{Direction: TrendIncreasing, ChangePct: 100}
	}
	pct := (current - previous) / previous * 100
	switch {
	case math.Abs(pct) < stableBandPct:
		return TrendDelta{Direction: TrendStable, ChangePct: pct}
	case pct > 0:
		return TrendDelta{Direction: TrendIncreasing, ChangePct: pct}
	default:
		return TrendDelta{Direction: TrendDecreasing, ChangePct: pct}
	}
}

func breakdown(samples []*Sample, from, to time.Time) map[string]TypeBreakdown {
	totals := make(map[string]time.Duration)
	out := make(map[string]TypeBreakdown)
	for _, s := range samples {
		if !inWindow(s, from, to) {
			continue
		}
		b := out[s.ContentType]
		b.Requests++
		if s.Success {
			b.Successes++
		}
		totals[s.ContentType] += s.GenerationTime
		out[s.ContentType] = b
	}
	for ct, b := range out {
		b.AverageGenerationTime = totals[ct] / time.Duration(b.Requests)
		out[ct] = b
	}
	return out
}

// Recommendation rule boundaries.
const (
	slowGenerationCutoff = 2 * time.Second
	lowHitRateCutoff     = 0.6
)

func recommendations(r *Report) []string {
	var recs []string
	if r.Metrics.AverageResponseTime > slowGenerationCutoff {
		recs = append(recs,
			"average generation time exceeds 2s; tune generation parameters or preload high-traffic content")
	}
	if r.Metrics.CacheHitRate < lowHitRateCutoff {
		recs = append(recs,
			"cache hit rate below 60%; review cache capacity and eviction strategy")
	}
	for _, a := range r.Alerts {
		if a.Severity == SeverityCritical {
			recs = append(recs,
				"critical alerts were raised during this period; requires immediate attention")
			break
		}
	}
	return recs
}
