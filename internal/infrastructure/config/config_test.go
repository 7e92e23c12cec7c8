package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Empty(t, cfg.Generation.Endpoint)
	assert.Equal(t, 20*time.Second, cfg.Generation.Timeout)

	assert.Equal(t, 3*time.Second, cfg.Simulation.RideConfirmDelay)
	assert.Equal(t, 2*time.Second, cfg.Simulation.InstallDelay)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                   "9000",
		"HOST":                   "127.0.0.1",
		"ALLOWED_ORIGINS":        "http://a.test,http://b.test",
		"GEN_ENDPOINT":           "http://gen:8080",
		"GEN_TIMEOUT":            "5s",
		"SIM_RIDE_CONFIRM_DELAY": "250ms",
		"SIM_INSTALL_DELAY":      "0s",
		"SEED_FILE":              "/etc/phonesim/seed.toml",
		"CATALOG_GLOB":           "catalog/**/*.yaml",
		"LOG_LEVEL":              "debug",
		"LOG_DEV":                "true",
		"RATE_LIMIT_RPS":         "500",
		"RATE_LIMIT_BURST":       "1000",
		"RATE_LIMIT_ENABLED":     "false",
		"RATE_LIMIT_GLOBAL":      "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://gen:8080", cfg.Generation.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.RideConfirmDelay)
	assert.Zero(t, cfg.Simulation.InstallDelay)
	assert.Equal(t, "/etc/phonesim/seed.toml", cfg.Data.SeedFile)
	assert.Equal(t, "catalog/**/*.yaml", cfg.Data.CatalogGlob)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.RateLimit.Global)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8*time.Second, cfg.Simulation.RideArrivalDelay)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unparseable duration", "SIM_INSTALL_DELAY", "soon"},
		{"negative delay", "SIM_RIDE_CONFIRM_DELAY", "-1s"},
		{"negative retries", "GEN_RETRY_MAX", "-1"},
		{"zero rps while enabled", "RATE_LIMIT_RPS", "0"},
		{"bad bool", "LOG_DEV", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{"default values", "", "", "8000", "0.0.0.0"},
		{"custom port", "9000", "", "9000", "0.0.0.0"},
		{"custom host", "", "localhost", "8000", "localhost"},
		{"custom port and host", "3000", "127.0.0.1", "3000", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}

func TestInstant(t *testing.T) {
	cfg := Instant()
	assert.Zero(t, cfg.Simulation.RideConfirmDelay)
	assert.Zero(t, cfg.Simulation.ReplyDelay)
	assert.False(t, cfg.RateLimit.Enabled)
	require.NoError(t, cfg.Validate())
}
