// Package config loads cache and monitor settings from a YAML file and
// converts them into cache.Options / monitor.Options.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oryosef1/contentcache/cache"
	"github.com/oryosef1/contentcache/monitor"
	"github.com/oryosef1/contentcache/policy"
)

// Duration wraps time.Duration with YAML decoding of "30s"/"5m" strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full file layout.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// CacheConfig mirrors cache.Options.
type CacheConfig struct {
	MaxSize           int      `yaml:"max_size"`
	MaxMemoryMB       int      `yaml:"max_memory_mb"`
	DefaultTTL        Duration `yaml:"default_ttl"`
	EvictionStrategy  string   `yaml:"eviction_strategy"`
	EnableCompression bool     `yaml:"enable_compression"`
	EnablePreloading  bool     `yaml:"enable_preloading"`
}

// MonitorConfig mirrors monitor.Options.
type MonitorConfig struct {
	EnableMetrics     bool             `yaml:"enable_metrics"`
	EnableAlerts      bool             `yaml:"enable_alerts"`
	SampleRate        float64          `yaml:"sample_rate"`
	ReportingInterval Duration         `yaml:"reporting_interval"`
	Thresholds        ThresholdsConfig `yaml:"alert_thresholds"`
}

// ThresholdsConfig mirrors monitor.Thresholds.
type ThresholdsConfig struct {
	MaxGenerationTime Duration `yaml:"max_generation_time"`
	MinSuccessRate    float64  `yaml:"min_success_rate"`
	MaxMemoryUsageMB  int      `yaml:"max_memory_usage_mb"`
	MaxErrorRate      float64  `yaml:"max_error_rate"`
	MinCacheHitRate   float64  `yaml:"min_cache_hit_rate"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			MaxSize:          cache.DefaultMaxSize,
			MaxMemoryMB:      100,
			EvictionStrategy: policy.NameIntelligent,
			EnablePreloading: true,
		},
		Monitor: MonitorConfig{
			EnableMetrics: true,
			EnableAlerts:  true,
			SampleRate:    1,
		},
	}
}

// Load reads a YAML config file, layered over Default().
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the runtime cannot honor.
func (c Config) Validate() error {
	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("config: cache.max_size must be >= 0")
	}
	if c.Cache.MaxMemoryMB < 0 {
		return fmt.Errorf("config: cache.max_memory_mb must be >= 0")
	}
	if _, err := policy.FromName(c.Cache.EvictionStrategy); err != nil {
		return err
	}
	if c.Monitor.SampleRate < 0 || c.Monitor.SampleRate > 1 {
		return fmt.Errorf("config: monitor.sample_rate must be in [0,1]")
	}
	return nil
}

// CacheOptions converts the cache section.
func (c Config) CacheOptions() (cache.Options, error) {
	strategy, err := policy.FromName(c.Cache.EvictionStrategy)
	if err != nil {
		return cache.Options{}, err
	}
	return cache.Options{
		MaxSize:           c.Cache.MaxSize,
		MaxMemory:         int64(c.Cache.MaxMemoryMB) << 20,
		DefaultTTL:        c.Cache.DefaultTTL.Std(),
		Strategy:          strategy,
		EnableCompression: c.Cache.EnableCompression,
		EnablePreloading:  c.Cache.EnablePreloading,
	}, nil
}

// MonitorOptions converts the monitor section.
func (c Config) MonitorOptions() monitor.Options {
	return monitor.Options{
		EnableMetrics:     c.Monitor.EnableMetrics,
		EnableAlerts:      c.Monitor.EnableAlerts,
		SampleRate:        c.Monitor.SampleRate,
		ReportingInterval: c.Monitor.ReportingInterval.Std(),
		Thresholds: monitor.Thresholds{
			MaxGenerationTime: c.Monitor.Thresholds.MaxGenerationTime.Std(),
			MinSuccessRate:    c.Monitor.Thresholds.MinSuccessRate,
			MaxMemoryUsage:    uint64(c.Monitor.Thresholds.MaxMemoryUsageMB) << 20,
			MaxErrorRate:      c.Monitor.Thresholds.MaxErrorRate,
			MinCacheHitRate:   c.Monitor.Thresholds.MinCacheHitRate,
		},
	}
}
