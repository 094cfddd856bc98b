package monitor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oryosef1/contentcache/event"
)

// Severity ranks an alert.
type Severity string

// Alert severities.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Metric names used in alerts.
const (
	MetricGenerationTime = "generation_time"
	MetricSuccessRate    = "success_rate"
	MetricMemoryUsage    = "memory_usage"
	MetricErrorRate      = "error_rate"
	MetricCacheHitRate   = "cache_hit_rate"
)

// Alert is a threshold breach. Alerts are immutable once raised except for
// the Resolved flag, and are never deleted: repeated breaches raise new
// alerts with distinct ids and timestamps.
type Alert struct {
	ID        string
	Severity  Severity
	Metric    string
	Threshold float64
	Actual    float64
	Timestamp time.Time
	Message   string
	Resolved  bool
}

// evaluateThresholds runs every check independently against the finalized
// sample and the current rolling metrics; several alerts can fire in one
// pass. Raising an alert never fails the operation that triggered it.
func (m *Monitor) evaluateThresholds(s Sample, met Metrics) {
	t := m.opt.Thresholds
	var fired []*Alert

	if s.GenerationTime > t.MaxGenerationTime {
		fired = append(fired, &Alert{
			Severity:  SeverityCritical,
			Metric:    MetricGenerationTime,
			Threshold: float64(t.MaxGenerationTime.Milliseconds()),
			Actual:    float64(s.GenerationTime.Milliseconds()),
			Message: fmt.Sprintf("%s generation took %s (threshold %s)",
				s.ContentType, s.GenerationTime, t.MaxGenerationTime),
		})
	}
	if met.SuccessRate < t.MinSuccessRate {
		fired = append(fired, &Alert{
			Severity:  SeverityWarning,
			Metric:    MetricSuccessRate,
			Threshold: t.MinSuccessRate,
			Actual:    met.SuccessRate,
			Message: fmt.Sprintf("success rate %.2f below threshold %.2f",
				met.SuccessRate, t.MinSuccessRate),
		})
	}
	if met.MemoryUsage > t.MaxMemoryUsage {
		fired = append(fired, &Alert{
			Severity:  SeverityWarning,
			Metric:    MetricMemoryUsage,
			Threshold: float64(t.MaxMemoryUsage),
			Actual:    float64(met.MemoryUsage),
			Message: fmt.Sprintf("memory usage %d bytes above threshold %d",
				met.MemoryUsage, t.MaxMemoryUsage),
		})
	}
	if met.ErrorRate > t.MaxErrorRate {
		fired = append(fired, &Alert{
			Severity:  SeverityCritical,
			Metric:    MetricErrorRate,
			Threshold: t.MaxErrorRate,
			Actual:    met.ErrorRate,
			Message: fmt.Sprintf("error rate %.2f above threshold %.2f",
				met.ErrorRate, t.MaxErrorRate),
		})
	}
	if met.CacheHitRate < t.MinCacheHitRate {
		fired = append(fired, &Alert{
			Severity:  SeverityInfo,
			Metric:    MetricCacheHitRate,
			Threshold: t.MinCacheHitRate,
			Actual:    met.CacheHitRate,
			Message: fmt.Sprintf("cache hit rate %.2f below threshold %.2f",
				met.CacheHitRate, t.MinCacheHitRate),
		})
	}
	if len(fired) == 0 {
		return
	}

	now := m.now()
	for _, a := range fired {
		a.ID = uuid.NewString()
		a.Timestamp = now
	}

	m.mu.Lock()
	m.alerts = append(m.alerts, fired...)
	m.mu.Unlock()

	for _, a := range fired {
		m.opt.Sink.AlertFired(a.Severity)
		m.opt.Logger.Warn("performance alert",
			"severity", string(a.Severity), "metric", a.Metric,
			"threshold", a.Threshold, "actual", a.Actual)
		m.publish(event.AlertRaised, *a)
	}
}

// Alerts returns copies of every alert ever raised, oldest first.
func (m *Monitor) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	for i, a := range m.alerts {
		out[i] = *a
	}
	return out
}

// ActiveAlerts returns copies of the unresolved alerts.
func (m *Monitor) ActiveAlerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Alert
	for _, a := range m.alerts {
		if !a.Resolved {
			out = append(out, *a)
		}
	}
	return out
}

// AlertsBetween returns copies of alerts raised in (from, to].
func (m *Monitor) AlertsBetween(from, to time.Time) []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Alert
	for _, a := range m.alerts {
		if a.Timestamp.After(from) && !a.Timestamp.After(to) {
			out = append(out, *a)
		}
	}
	return out
}

// ResolveAlert marks the alert with the given id as resolved. Returns false
// for unknown ids.
func (m *Monitor) ResolveAlert(id string) bool {
	m.mu.Lock()
	var resolved *Alert
	for _, a := range m.alerts {
		if a.ID == id && !a.Resolved {
			a.Resolved = true
			resolved = a
			break
		}
	}
	m.mu.Unlock()

	if resolved == nil {
		return false
	}
	m.publish(event.AlertResolved, *resolved)
	return true
}
