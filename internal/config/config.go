package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// EnvPrefix is the prefix for environment overrides, e.g. SAFERIDE_ROUTING__BASE_URL
const EnvPrefix = "SAFERIDE_"

// Config represents the complete navigator configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Routing    RoutingConfig    `koanf:"routing"`
	Navigation NavigationConfig `koanf:"navigation"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP surface settings
type ServerConfig struct {
	Host           string   `koanf:"host"`
	Port           int      `koanf:"port"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RoutingConfig holds the routing backend settings
type RoutingConfig struct {
	BaseURL        string        `koanf:"base_url"`
	AvoidEndpoint  string        `koanf:"avoid_endpoint"`  // rain-avoiding routes
	DirectEndpoint string        `koanf:"direct_endpoint"` // plain shortest routes
	Timeout        time.Duration `koanf:"timeout"`
	// SampleRoutePath overrides the bundled reference route; empty uses the embedded document
	SampleRoutePath string `koanf:"sample_route_path"`
	// SampleCacheTTL bounds how long a parsed sample route is reused; 0 keeps it forever
	SampleCacheTTL   time.Duration `koanf:"sample_cache_ttl"`
	FallbackSpeedMPS float64       `koanf:"fallback_speed_mps"`
}

// NavigationConfig holds simulator settings
type NavigationConfig struct {
	TickInterval  time.Duration   `koanf:"tick_interval"`
	FallbackStart CoordinatesYAML `koanf:"fallback_start"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// CoordinatesYAML represents lat/lon coordinates in YAML config
type CoordinatesYAML struct {
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

// Coordinate converts to a geo.Coordinate
func (c CoordinatesYAML) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(c.Longitude, c.Latitude)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Routing: RoutingConfig{
			BaseURL:          "http://127.0.0.1:5000",
			AvoidEndpoint:    "route",
			DirectEndpoint:   "normal_route",
			Timeout:          30 * time.Second,
			SampleCacheTTL:   5 * time.Minute,
			FallbackSpeedMPS: 8.33, // ~30 km/h
		},
		Navigation: NavigationConfig{
			TickInterval: time.Second,
			FallbackStart: CoordinatesYAML{
				Latitude:  34.7,
				Longitude: 137.7,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultsMap flattens DefaultConfig into koanf keys
func defaultsMap() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"server.host":                         d.Server.Host,
		"server.port":                         d.Server.Port,
		"server.allowed_origins":              d.Server.AllowedOrigins,
		"routing.base_url":                    d.Routing.BaseURL,
		"routing.avoid_endpoint":              d.Routing.AvoidEndpoint,
		"routing.direct_endpoint":             d.Routing.DirectEndpoint,
		"routing.timeout":                     d.Routing.Timeout,
		"routing.sample_route_path":           d.Routing.SampleRoutePath,
		"routing.sample_cache_ttl":            d.Routing.SampleCacheTTL,
		"routing.fallback_speed_mps":          d.Routing.FallbackSpeedMPS,
		"navigation.tick_interval":            d.Navigation.TickInterval,
		"navigation.fallback_start.latitude":  d.Navigation.FallbackStart.Latitude,
		"navigation.fallback_start.longitude": d.Navigation.FallbackStart.Longitude,
		"logging.level":                       d.Logging.Level,
		"logging.development":                 d.Logging.Development,
	}
}

// Load layers defaults, an optional YAML file and SAFERIDE_ environment variables.
// A missing file at path is not an error; an empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SAFERIDE_ROUTING__BASE_URL to routing.base_url
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects configurations the navigator cannot run with
func (c *Config) Validate() error {
	if c.Routing.BaseURL == "" {
		return fmt.Errorf("routing.base_url is required")
	}
	if c.Routing.AvoidEndpoint == "" || c.Routing.DirectEndpoint == "" {
		return fmt.Errorf("routing endpoints must not be empty")
	}
	if c.Routing.Timeout <= 0 {
		return fmt.Errorf("routing.timeout must be positive")
	}
	if c.Routing.SampleCacheTTL < 0 {
		return fmt.Errorf("routing.sample_cache_ttl must not be negative")
	}
	if c.Navigation.TickInterval <= 0 {
		return fmt.Errorf("navigation.tick_interval must be positive")
	}
	if !c.Navigation.FallbackStart.Coordinate().Valid() {
		return fmt.Errorf("navigation.fallback_start is not a valid coordinate")
	}
	return nil
}
