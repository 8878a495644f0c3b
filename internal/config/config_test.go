package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every override so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER_HOST", "SERVER_PORT", "DATA_PROVIDER", "DATA_BASE_URL", "DATA_API_KEY", "HTTPS_PROXY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "AAPL", cfg.Defaults.Ticker)
	assert.Equal(t, 365, cfg.Defaults.LookbackDays)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout: 5s
data_source:
  provider: rest
  base_url: http://bars.internal
  api_key: k
  timeout: 3s
chart:
  title: Prices
  height: 640
defaults:
  ticker: MSFT
  lookback_days: 90
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "rest", cfg.DataSource.Provider)
	assert.Equal(t, "http://bars.internal", cfg.DataSource.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "Prices", cfg.Chart.Title)
	assert.Equal(t, 640, cfg.Chart.Height)
	assert.Equal(t, "MSFT", cfg.Defaults.Ticker)
	assert.Equal(t, 90, cfg.Defaults.LookbackDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "data_source:\n  provider: yahoo\n")
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("DATA_PROVIDER", "mock")
	t.Setenv("HTTPS_PROXY", "http://proxy:3128")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_BadInput(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "eighty")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"negative height", func(c *Config) { c.Chart.Height = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
