package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oryosef1/contentcache/event"
)

// CacheEventType classifies cache traffic reported via RecordCacheEvent.
type CacheEventType string

// Cache event types.
const (
	CacheHit      CacheEventType = "hit"
	CacheMiss     CacheEventType = "miss"
	CacheEviction CacheEventType = "eviction"
)

// GenerationCompleteEvent is published after every finalized sample.
type GenerationCompleteEvent struct {
	OperationID    string
	ContentType    string
	GenerationTime time.Duration
	Success        bool
	MemoryDelta    int64
}

// Monitor samples content-generation operations, maintains rolling
// performance metrics and per-content-type stats, raises threshold alerts,
// and produces periodic trend reports.
//
// All methods are safe for concurrent use. One mutex guards the sample
// list, per-type stats, alert table, and report history; report and trend
// computation happens outside the lock on snapshots.
type Monitor struct {
	mu        sync.Mutex
	samples   []*Sample
	index     map[string]*Sample // operation id -> in-flight/retained sample
	typeStats map[string]*ContentTypeStats
	alerts    []*Alert
	reports   []*Report

	cacheHits   int64
	cacheMisses int64

	opt Options
}

// New constructs a monitor with the provided Options. Note that the zero
// Options value disables metrics and alerts; see DefaultOptions.
func New(opt Options) *Monitor {
	return &Monitor{
		index:     make(map[string]*Sample),
		typeStats: make(map[string]*ContentTypeStats),
		opt:       withDefaults(opt),
	}
}

// RecordGenerationStart opens a sample for a generation operation and
// returns its operation id. The sampling gate decides whether the operation
// is actually recorded; unsampled operations still get an id but stay
// invisible to metrics.
func (m *Monitor) RecordGenerationStart(contentType string, params map[string]any) string {
	id := uuid.NewString()
	if !m.opt.EnableMetrics || !m.shouldSample() {
		return id
	}

	s := &Sample{
		ID:           id,
		ContentType:  contentType,
		Parameters:   params,
		StartTime:    m.now(),
		MemoryBefore: m.opt.MemoryUsage(),
	}

	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.index[id] = s
	m.mu.Unlock()
	return id
}

// RecordGenerationEnd finalizes the sample for id, folds it into rolling
// metrics and per-type stats, and evaluates alert thresholds against the
// current rolling metrics. Unknown or already-finalized ids are a silent
// no-op, which guards against double completion and post-prune completion.
func (m *Monitor) RecordGenerationEnd(id string, success bool, content *Content, genErr error) {
	now := m.now()

	m.mu.Lock()
	s, ok := m.index[id]
	if !ok || s.Completed {
		m.mu.Unlock()
		return
	}
	s.EndTime = now
	s.GenerationTime = now.Sub(s.StartTime)
	if s.GenerationTime <= 0 && content != nil {
		// Sub-resolution timers: trust the generator's own timing.
		s.GenerationTime = content.GenerationTime
	}
	s.MemoryAfter = m.opt.MemoryUsage()
	s.MemoryDelta = int64(s.MemoryAfter) - int64(s.MemoryBefore)
	s.Completed = true
	s.Success = success
	if genErr != nil {
		s.Error = genErr.Error()
	}

	st := m.typeStatsLocked(s.ContentType)
	st.Requests++
	if success {
		st.Successes++
	} else {
		st.Failures++
	}
	st.TotalGenerationTime += s.GenerationTime
	st.TotalMemoryDelta += s.MemoryDelta

	snapshot := *s
	metrics := m.metricsLocked(now)
	m.mu.Unlock()

	m.opt.Sink.ObserveGeneration(snapshot.ContentType, snapshot.GenerationTime, success)
	if m.opt.EnableAlerts {
		m.evaluateThresholds(snapshot, metrics)
	}
	m.publish(event.GenerationComplete, GenerationCompleteEvent{
		OperationID:    snapshot.ID,
		ContentType:    snapshot.ContentType,
		GenerationTime: snapshot.GenerationTime,
		Success:        success,
		MemoryDelta:    snapshot.MemoryDelta,
	})
}

// RecordValidationTime attaches a secondary timing to an existing sample.
// Unknown ids are ignored.
func (m *Monitor) RecordValidationTime(id string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.index[id]; ok {
		s.ValidationTime = d
	}
}

// RecordCacheEvent updates per-content-type cache counters and the global
// cache hit rate.
func (m *Monitor) RecordCacheEvent(typ CacheEventType, contentType string, size int64) {
	if !m.opt.EnableMetrics {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.typeStatsLocked(contentType)
	switch typ {
	case CacheHit:
		st.CacheHits++
		m.cacheHits++
	case CacheMiss:
		st.CacheMisses++
		m.cacheMisses++
	case CacheEviction:
		st.CacheEvictions++
	}
}

// ContentTypes returns a snapshot of the per-content-type stats.
func (m *Monitor) ContentTypes() map[string]ContentTypeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]ContentTypeStats, len(m.typeStats))
	for k, v := range m.typeStats {
		out[k] = *v
	}
	return out
}

// Samples returns copies of the retained samples, in-flight ones included.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, len(m.samples))
	for i, s := range m.samples {
		out[i] = *s
	}
	return out
}

// ClearHistory drops samples, per-type stats, cache counters, and report
// history. Alerts are kept: they are a historical record.
func (m *Monitor) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = nil
	m.index = make(map[string]*Sample)
	m.typeStats = make(map[string]*ContentTypeStats)
	m.reports = nil
	m.cacheHits = 0
	m.cacheMisses = 0
}

// Prune drops samples older than the retention window. Abandoned samples
// (started but never finalized) are pruned by their start time so they do
// not leak.
func (m *Monitor) Prune() {
	cutoff := m.now().Add(-m.opt.SampleRetention)
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.samples[:0]
	for _, s := range m.samples {
		ref := s.StartTime
		if s.Completed {
			ref = s.EndTime
		}
		if ref.Before(cutoff) {
			delete(m.index, s.ID)
			continue
		}
		kept = append(kept, s)
	}
	m.samples = kept
}

// Start launches the background loop: periodic pruning plus a report per
// ReportingInterval. The loop reads shared state only through snapshots and
// stops when ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(m.opt.ReportingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Prune()
				if _, err := m.generateReport(m.opt.ReportingInterval); err != nil {
					m.opt.Logger.Warn("periodic report failed", "error", err)
				}
			}
		}
	}()
}

// -------------------- internals --------------------

func (m *Monitor) shouldSample() bool {
	if m.opt.SampleRate >= 1 {
		return true
	}
	return m.opt.Rand() < m.opt.SampleRate
}

func (m *Monitor) typeStatsLocked(contentType string) *ContentTypeStats {
	st, ok := m.typeStats[contentType]
	if !ok {
		st = &ContentTypeStats{ContentType: contentType}
		m.typeStats[contentType] = st
	}
	return st
}

func (m *Monitor) now() time.Time {
	if m.opt.Clock != nil {
		return m.opt.Clock.Now()
	}
	return time.Now()
}

func (m *Monitor) publish(t event.Type, payload any) {
	if m.opt.Events == nil {
		return
	}
	m.opt.Events.Publish(event.Event{Type: t, At: m.now(), Payload: payload})
}
