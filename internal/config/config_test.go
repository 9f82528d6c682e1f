package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Routing.BaseURL)
	assert.Equal(t, "route", cfg.Routing.AvoidEndpoint)
	assert.Equal(t, "normal_route", cfg.Routing.DirectEndpoint)
	assert.Equal(t, 30*time.Second, cfg.Routing.Timeout)
	assert.Equal(t, time.Second, cfg.Navigation.TickInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileAndEnvironmentLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saferide.yaml")
	yaml := `
server:
  port: 9090
routing:
  base_url: http://routing.internal:5000
  timeout: 5s
  sample_route_path: /srv/route_sample.json
  sample_cache_ttl: 1h
navigation:
  tick_interval: 250ms
  fallback_start:
    latitude: 35.0
    longitude: 138.0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("SAFERIDE_ROUTING__AVOID_ENDPOINT", "rain_route")
	t.Setenv("SAFERIDE_LOGGING__LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://routing.internal:5000", cfg.Routing.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Routing.Timeout)
	assert.Equal(t, "/srv/route_sample.json", cfg.Routing.SampleRoutePath)
	assert.Equal(t, time.Hour, cfg.Routing.SampleCacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Navigation.TickInterval)
	assert.Equal(t, 35.0, cfg.Navigation.FallbackStart.Latitude)
	assert.Equal(t, 138.0, cfg.Navigation.FallbackStart.Coordinate().Lon())

	// Environment wins over file and defaults
	assert.Equal(t, "rain_route", cfg.Routing.AvoidEndpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults
	assert.Equal(t, "normal_route", cfg.Routing.DirectEndpoint)
	assert.Equal(t, 8.33, cfg.Routing.FallbackSpeedMPS)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing base url", func(c *Config) { c.Routing.BaseURL = "" }, "base_url"},
		{"missing endpoint", func(c *Config) { c.Routing.DirectEndpoint = "" }, "endpoints"},
		{"zero timeout", func(c *Config) { c.Routing.Timeout = 0 }, "timeout"},
		{"negative cache ttl", func(c *Config) { c.Routing.SampleCacheTTL = -time.Second }, "sample_cache_ttl"},
		{"zero tick", func(c *Config) { c.Navigation.TickInterval = 0 }, "tick_interval"},
		{"bad fallback", func(c *Config) { c.Navigation.FallbackStart.Latitude = 120 }, "fallback_start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
