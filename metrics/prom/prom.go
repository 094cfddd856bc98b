// Package prom exports cache and monitor observability signals as
// Prometheus metrics.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oryosef1/contentcache/cache"
	"github.com/oryosef1/contentcache/monitor"
)

// CacheAdapter implements cache.Metrics and exports Prometheus
// counters/gauges. Safe for concurrent use.
type CacheAdapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evicts    *prometheus.CounterVec
	sizeEnt   prometheus.Gauge
	sizeBytes prometheus.Gauge
}

// NewCache constructs a cache metrics adapter.
//   - reg:         registry to register with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func NewCache(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *CacheAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &CacheAdapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Cache evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
		sizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_bytes",
			Help:        "Total resident payload bytes",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt, a.sizeBytes)
	return a
}

// Hit increments the hit counter.
func (a *CacheAdapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *CacheAdapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *CacheAdapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// Size updates gauges for the number of entries and resident bytes.
func (a *CacheAdapter) Size(entries int, bytes int64) {
	a.sizeEnt.Set(float64(entries))
	a.sizeBytes.Set(float64(bytes))
}

// reason maps EvictReason to a stable label value.
func reason(r cache.EvictReason) string {
	if r == cache.EvictTTL {
		return "ttl"
	}
	return "strategy"
}

var _ cache.Metrics = (*CacheAdapter)(nil)

// MonitorAdapter implements monitor.Sink: a generation-duration histogram
// labeled by content type and outcome, plus an alert counter by severity.
type MonitorAdapter struct {
	generations *prometheus.HistogramVec
	alerts      *prometheus.CounterVec
}

// NewMonitor constructs a monitor sink adapter; arguments mirror NewCache.
func NewMonitor(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *MonitorAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &MonitorAdapter{
		generations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "generation_seconds",
				Help:        "Content generation duration by type and outcome",
				ConstLabels: constLabels,
				Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"content_type", "outcome"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "alerts_total",
				Help:        "Performance alerts by severity",
				ConstLabels: constLabels,
			},
			[]string{"severity"},
		),
	}
	reg.MustRegister(a.generations, a.alerts)
	return a
}

// ObserveGeneration records one finished generation operation.
func (a *MonitorAdapter) ObserveGeneration(contentType string, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	a.generations.WithLabelValues(contentType, outcome).Observe(d.Seconds())
}

// AlertFired increments the alert counter for the given severity.
func (a *MonitorAdapter) AlertFired(sev monitor.Severity) {
	a.alerts.WithLabelValues(string(sev)).Inc()
}

var _ monitor.Sink = (*MonitorAdapter)(nil)
