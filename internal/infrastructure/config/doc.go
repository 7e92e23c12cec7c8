// Package config provides 12-factor configuration for the phone shell backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/server can override the listen address.
//
// Configuration Sections:
//   - Server: HTTP listen address, CORS origins, shutdown grace period
//   - Generation: reply/image service endpoint, timeout, retries, breaker
//   - Simulation: fake latencies for ride confirmation, arrival, installs, replies
//   - Data: optional TOML seed file and YAML app catalog glob
//   - Logging: log level and output format
//   - RateLimit: per-IP or global rate limiting
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, ALLOWED_ORIGINS, SHUTDOWN_TIMEOUT
//   - GEN_ENDPOINT, GEN_API_KEY, GEN_TIMEOUT, GEN_RETRY_MAX, GEN_RPS
//   - SIM_RIDE_CONFIRM_DELAY, SIM_RIDE_ARRIVAL_DELAY, SIM_INSTALL_DELAY, SIM_REPLY_DELAY
//   - SEED_FILE, CATALOG_GLOB
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_GLOBAL
package config
