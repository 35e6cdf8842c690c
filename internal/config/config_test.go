package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.RequestsPerMin)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.PageTimeout)
	assert.Equal(t, 5*time.Second, cfg.Fetcher.AuxTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.Fetcher.MaxBodySize)
	assert.Equal(t, "mobile", cfg.Connectors.PageSpeed.Strategy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  requests_per_min: 120
fetcher:
  page_timeout: 20s
logging:
  level: debug
  format: json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RequestsPerMin)
	assert.Equal(t, 20*time.Second, cfg.Fetcher.PageTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAGESPEED_API_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Connectors.PageSpeed.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero page timeout", func(c *Config) { c.Fetcher.PageTimeout = 0 }, "page_timeout"},
		{"zero aux timeout", func(c *Config) { c.Fetcher.AuxTimeout = 0 }, "aux_timeout"},
		{"zero body size", func(c *Config) { c.Fetcher.MaxBodySize = 0 }, "max_body_size"},
		{"bad strategy", func(c *Config) { c.Connectors.PageSpeed.Strategy = "tablet" }, "strategy"},
		{"zero rate limit", func(c *Config) { c.Server.RequestsPerMin = 0 }, "requests_per_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
