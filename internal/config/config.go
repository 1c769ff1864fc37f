package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AksiLipe/hexagons/internal/world"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all process configuration
type Config struct {
	World    world.GenConfig `yaml:"world"`
	Route    RouteConfig     `yaml:"route"`
	API      APIConfig       `yaml:"api"`
	Database DatabaseConfig  `yaml:"database"`
	Log      LogConfig       `yaml:"log"`
	Entropy  EntropyConfig   `yaml:"entropy"`
}

// RouteConfig selects the endpoints painted after generation.
// From and To are indices into the full cell array and must lie on the hex disk.
type RouteConfig struct {
	Enabled bool `yaml:"enabled"`
	From    int  `yaml:"from"`
	To      int  `yaml:"to"`
}

// APIConfig holds HTTP API settings
type APIConfig struct {
	Enabled        bool `yaml:"enabled"`
	Port           int  `yaml:"port"`
	RouteRateLimit int  `yaml:"route_rate_limit"` // route requests per IP per hour

	// Peer IPs whose X-Forwarded-For header is trusted for rate limiting.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DatabaseConfig holds SQLite settings. An empty path disables persistence.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// EntropyConfig holds the random.org key used when world.seed is 0.
type EntropyConfig struct {
	RandomOrgKey string `yaml:"random_org_key"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{World: world.DefaultGenConfig()}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{World: world.DefaultGenConfig()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.RouteRateLimit == 0 {
		cfg.API.RouteRateLimit = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if key := os.Getenv("RANDOM_ORG_API_KEY"); key != "" {
		cfg.Entropy.RandomOrgKey = key
	}
}

// Validate checks world parameters and the route endpoints.
func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("%w: world: %w", ErrInvalidConfig, err)
	}
	if c.Route.Enabled {
		n := 2*c.World.Radius + 1
		cells := n * n * n
		if c.Route.From < 0 || c.Route.From >= cells || c.Route.To < 0 || c.Route.To >= cells {
			return fmt.Errorf("%w: route endpoints %d -> %d outside %d cells", ErrInvalidConfig, c.Route.From, c.Route.To, cells)
		}
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("%w: api port %d", ErrInvalidConfig, c.API.Port)
	}
	return nil
}
