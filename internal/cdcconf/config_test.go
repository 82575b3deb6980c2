// file: internal/cdcconf/config_test.go
package cdcconf

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/registry"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	// 测试工作目录是包目录，其中没有 config.yaml
	l := NewLoader("")
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, l.ConfigFileUsed())

	assert.Equal(t, 10224, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "https://data.cdc.gov/resource", cfg.Soda.DataURL)
	assert.Equal(t, "https://chronicdata.cdc.gov/resource", cfg.Soda.ChronicDataURL)
	assert.Equal(t, 30*time.Second, cfg.Soda.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Soda.RequestInterval)
	assert.Equal(t, 3, cfg.Soda.MaxRetries)
	assert.Equal(t, 4, cfg.Probe.Concurrency)
	assert.Equal(t, 5*time.Minute, cfg.Probe.CacheTTL)
	assert.Empty(t, cfg.Datasets)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
server:
  port: 9000
soda:
  request_interval: 250ms
  max_retries: 5
datasets:
  teen_vaccinations:
    id: ee48-w5t6
  brfss_diabetes:
    host: data.cdc.gov
`)
	t.Setenv("CDC_APP_TOKEN", "secret-token")
	t.Setenv("CDC_SERVER_LOG_LEVEL", "debug")

	l := NewLoader(path)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, path, l.ConfigFileUsed())

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "secret-token", cfg.Soda.AppToken)
	assert.Equal(t, 250*time.Millisecond, cfg.Soda.RequestInterval)
	assert.Equal(t, 5, cfg.Soda.MaxRetries)

	require.Contains(t, cfg.Datasets, "teen_vaccinations")
	assert.Equal(t, "ee48-w5t6", cfg.Datasets["teen_vaccinations"].ID)
	assert.Equal(t, "data.cdc.gov", cfg.Datasets["brfss_diabetes"].Host)

	urls := cfg.BaseURLs()
	assert.Equal(t, cfg.Soda.DataURL, urls[domain.HostData])
	assert.Equal(t, cfg.Soda.ChronicDataURL, urls[domain.HostChronicData])
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := NewLoader("").Load()
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad data url", func(c *Config) { c.Soda.DataURL = "ftp://x" }, "soda.data_url"},
		{"zero timeout", func(c *Config) { c.Soda.Timeout = 0 }, "soda.timeout"},
		{"negative interval", func(c *Config) { c.Soda.RequestInterval = -time.Second }, "soda.request_interval"},
		{"negative retries", func(c *Config) { c.Soda.MaxRetries = -1 }, "soda.max_retries"},
		{"unknown host override", func(c *Config) {
			c.Datasets = map[string]registry.Override{"brfss_diabetes": {Host: "mars"}}
		}, "datasets.brfss_diabetes.host"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base(t)
			require.NoError(t, cfg.Validate())
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "soda:\n  max_retries: 1\n")

	l := NewLoader(path)
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Soda.MaxRetries)

	var latest atomic.Int64
	l.Watch(func(c *Config) { latest.Store(int64(c.Soda.MaxRetries)) })

	// 给 fsnotify 一点时间完成目录注册
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "soda:\n  max_retries: 7\n")

	assert.Eventually(t, func() bool { return latest.Load() == 7 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatch_NoFileIsNoop(t *testing.T) {
	l := NewLoader("")
	_, err := l.Load()
	require.NoError(t, err)
	assert.NotPanics(t, func() { l.Watch(func(*Config) {}) })
}
