package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oryosef1/contentcache/policy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contentcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
cache:
  max_size: 500
  max_memory_mb: 64
  default_ttl: 30m
  eviction_strategy: lru
  enable_preloading: false
monitor:
  enable_metrics: true
  enable_alerts: true
  sample_rate: 0.25
  reporting_interval: 1m
  alert_thresholds:
    max_generation_time: 3s
    min_success_rate: 0.9
    max_memory_usage_mb: 256
    max_error_rate: 0.1
    min_cache_hit_rate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Cache.MaxSize)
	assert.Equal(t, 64, cfg.Cache.MaxMemoryMB)
	assert.Equal(t, 30*time.Minute, cfg.Cache.DefaultTTL.Std())
	assert.Equal(t, policy.NameLRU, cfg.Cache.EvictionStrategy)
	assert.False(t, cfg.Cache.EnablePreloading)
	assert.Equal(t, 0.25, cfg.Monitor.SampleRate)
	assert.Equal(t, 3*time.Second, cfg.Monitor.Thresholds.MaxGenerationTime.Std())
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	t.Parallel()

	// A partial file keeps the defaults for everything it omits.
	path := writeConfig(t, "cache:\n  max_size: 42\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, 42, cfg.Cache.MaxSize)
	assert.Equal(t, def.Cache.MaxMemoryMB, cfg.Cache.MaxMemoryMB)
	assert.Equal(t, def.Cache.EvictionStrategy, cfg.Cache.EvictionStrategy)
	assert.Equal(t, def.Monitor.SampleRate, cfg.Monitor.SampleRate)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "cache:\n  default_ttl: eventually\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Cache.MaxSize = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Cache.MaxMemoryMB = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Cache.EvictionStrategy = "random"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Monitor.SampleRate = 1.5
	assert.Error(t, bad.Validate())
}

func TestCacheOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Cache.MaxMemoryMB = 64
	cfg.Cache.DefaultTTL = Duration(time.Hour)
	cfg.Cache.EvictionStrategy = policy.NameLFU

	opt, err := cfg.CacheOptions()
	require.NoError(t, err)
	assert.EqualValues(t, 64<<20, opt.MaxMemory)
	assert.Equal(t, time.Hour, opt.DefaultTTL)
	assert.Equal(t, policy.NameLFU, opt.Strategy.Name())
}

func TestMonitorOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Monitor.Thresholds.MaxMemoryUsageMB = 256
	cfg.Monitor.Thresholds.MaxGenerationTime = Duration(3 * time.Second)

	opt := cfg.MonitorOptions()
	assert.True(t, opt.EnableMetrics)
	assert.EqualValues(t, 256<<20, opt.Thresholds.MaxMemoryUsage)
	assert.Equal(t, 3*time.Second, opt.Thresholds.MaxGenerationTime)
}
