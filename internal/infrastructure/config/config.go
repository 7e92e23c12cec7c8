package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	Simulation SimulationConfig
	Data       DataConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// GenerationConfig holds reply/image generation service settings.
// An empty Endpoint selects the offline canned generator.
type GenerationConfig struct {
	Endpoint        string        `envconfig:"GEN_ENDPOINT" default:""`
	APIKey          string        `envconfig:"GEN_API_KEY" default:""`
	Timeout         time.Duration `envconfig:"GEN_TIMEOUT" default:"20s"`
	RetryMax        int           `envconfig:"GEN_RETRY_MAX" default:"2"`
	RequestsPerSec  float64       `envconfig:"GEN_RPS" default:"5"`
	BreakerFailures uint32        `envconfig:"GEN_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"GEN_BREAKER_COOLDOWN" default:"30s"`
}

// SimulationConfig holds the fake latencies standing in for network work.
type SimulationConfig struct {
	RideConfirmDelay time.Duration `envconfig:"SIM_RIDE_CONFIRM_DELAY" default:"3s"`
	RideArrivalDelay time.Duration `envconfig:"SIM_RIDE_ARRIVAL_DELAY" default:"8s"`
	InstallDelay     time.Duration `envconfig:"SIM_INSTALL_DELAY" default:"2s"`
	ReplyDelay       time.Duration `envconfig:"SIM_REPLY_DELAY" default:"1200ms"`
}

// DataConfig points at optional seed and catalog files.
type DataConfig struct {
	SeedFile    string `envconfig:"SEED_FILE" default:""`
	CatalogGlob string `envconfig:"CATALOG_GLOB" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Global            bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	sim := c.Simulation
	for name, d := range map[string]time.Duration{
		"SIM_RIDE_CONFIRM_DELAY": sim.RideConfirmDelay,
		"SIM_RIDE_ARRIVAL_DELAY": sim.RideArrivalDelay,
		"SIM_INSTALL_DELAY":      sim.InstallDelay,
		"SIM_REPLY_DELAY":        sim.ReplyDelay,
	} {
		if d < 0 {
			return fmt.Errorf("invalid config: %s must not be negative", name)
		}
	}
	if c.Generation.RetryMax < 0 {
		return fmt.Errorf("invalid config: GEN_RETRY_MAX must not be negative")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid config: RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Generation: GenerationConfig{
			Timeout:         20 * time.Second,
			RetryMax:        2,
			RequestsPerSec:  5,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Simulation: SimulationConfig{
			RideConfirmDelay: 3 * time.Second,
			RideArrivalDelay: 8 * time.Second,
			InstallDelay:     2 * time.Second,
			ReplyDelay:       1200 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			Global:            false,
		},
	}
}

// Instant returns a configuration with every simulated delay set to zero.
// Tests use it so async work completes as soon as the task runs.
func Instant() *Config {
	cfg := Default()
	cfg.Simulation = SimulationConfig{}
	cfg.RateLimit.Enabled = false
	return cfg
}
