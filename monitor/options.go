package monitor

import (
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"github.com/oryosef1/contentcache/event"
)

// Clock provides the current time; useful for deterministic tests.
type Clock interface{ Now() time.Time }

// Thresholds are the alert boundaries checked after every finalized sample.
// Zero fields fall back to the package defaults.
type Thresholds struct {
	// MaxGenerationTime fires a critical alert when a single sampled
	// operation exceeds it.
	MaxGenerationTime time.Duration

	// MinSuccessRate fires a warning when the rolling success rate drops
	// below it.
	MinSuccessRate float64

	// MaxMemoryUsage (bytes) fires a warning when resident memory exceeds it.
	MaxMemoryUsage uint64

	// MaxErrorRate fires a critical alert when the rolling error rate
	// exceeds it.
	MaxErrorRate float64

	// MinCacheHitRate fires an info alert when the global cache hit rate
	// drops below it.
	MinCacheHitRate float64
}

// Default threshold values.
const (
	DefaultMaxGenerationTime = 5 * time.Second
	DefaultMinSuccessRate    = 0.95
	DefaultMaxMemoryUsage    = 500 << 20 // 500 MB
	DefaultMaxErrorRate      = 0.05
	DefaultMinCacheHitRate   = 0.6
)

// Default window and retention values.
const (
	DefaultMetricsWindow     = 5 * time.Minute
	DefaultThroughputWindow  = time.Minute
	DefaultReportingInterval = time.Minute
	DefaultSampleRetention   = time.Hour
	DefaultReportRetention   = 24 * time.Hour
)

// Options configures the monitor. Note that the zero value disables both
// metrics and alerts; start from DefaultOptions() and override.
type Options struct {
	// EnableMetrics turns on operation sampling and rolling metrics.
	EnableMetrics bool

	// EnableAlerts turns on threshold evaluation after finalized samples.
	EnableAlerts bool

	// SampleRate in [0,1] is the probability that an operation is recorded.
	// Unsampled operations still receive ids but are invisible to metrics;
	// this bounds monitoring overhead under high throughput.
	SampleRate float64

	// ReportingInterval is the period of the background report loop.
	ReportingInterval time.Duration

	// Thresholds are the alert boundaries (zero fields => defaults).
	Thresholds Thresholds

	// MetricsWindow is the trailing window for time-based rolling metrics.
	MetricsWindow time.Duration

	// ThroughputWindow is the trailing window for throughput.
	ThroughputWindow time.Duration

	// SampleRetention bounds how long samples are kept, finalized or not
	// (abandoned operations are pruned the same way).
	SampleRetention time.Duration

	// ReportRetention bounds the report history.
	ReportRetention time.Duration

	// Rand is the sampling gate's random source in [0,1). Nil => math/rand.
	// Inject a deterministic source in tests.
	Rand func() float64

	// MemoryUsage reports current resident memory in bytes.
	// Nil => Go heap in use (runtime.MemStats.HeapAlloc).
	MemoryUsage func() uint64

	// Events receives alert, report, and generation-complete events.
	Events *event.Bus

	// Sink receives per-generation observations and alert signals.
	// Nil => NoopSink. See metrics/prom for a Prometheus adapter.
	Sink Sink

	// Logger is used for swallowed failures. Nil => slog.Default().
	Logger *slog.Logger

	// Clock overrides the time source (tests). Nil => time.Now().
	Clock Clock
}

// DefaultOptions returns Options with metrics and alerts enabled and every
// operation sampled.
func DefaultOptions() Options {
	return Options{
		EnableMetrics: true,
		EnableAlerts:  true,
		SampleRate:    1,
	}
}

func withDefaults(opt Options) Options {
	if opt.ReportingInterval <= 0 {
		opt.ReportingInterval = DefaultReportingInterval
	}
	if opt.MetricsWindow <= 0 {
		opt.MetricsWindow = DefaultMetricsWindow
	}
	if opt.ThroughputWindow <= 0 {
		opt.ThroughputWindow = DefaultThroughputWindow
	}
	if opt.SampleRetention <= 0 {
		opt.SampleRetention = DefaultSampleRetention
	}
	if opt.ReportRetention <= 0 {
		opt.ReportRetention = DefaultReportRetention
	}
	if opt.Thresholds.MaxGenerationTime <= 0 {
		opt.Thresholds.MaxGenerationTime = DefaultMaxGenerationTime
	}
	if opt.Thresholds.MinSuccessRate <= 0 {
		opt.Thresholds.MinSuccessRate = DefaultMinSuccessRate
	}
	if opt.Thresholds.MaxMemoryUsage == 0 {
		opt.Thresholds.MaxMemoryUsage = DefaultMaxMemoryUsage
	}
	if opt.Thresholds.MaxErrorRate <= 0 {
		opt.Thresholds.MaxErrorRate = DefaultMaxErrorRate
	}
	if opt.Thresholds.MinCacheHitRate <= 0 {
		opt.Thresholds.MinCacheHitRate = DefaultMinCacheHitRate
	}
	if opt.Rand == nil {
		opt.Rand = rand.Float64
	}
	if opt.MemoryUsage == nil {
		opt.MemoryUsage = heapInUse
	}
	if opt.Sink == nil {
		opt.Sink = NoopSink{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return opt
}

// heapInUse is the default memory accessor. ReadMemStats is not free; the
// sampling gate keeps it off the unsampled fast path.
func heapInUse() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
