// Package middleware provides the HTTP middleware of the phone API.
//
// Middleware stack includes:
//   - CORS: cross-origin access for the browser frontends, WebSocket upgrades included
//   - RateLimit: per-IP token buckets, idle clients evicted
//   - GlobalRateLimit: one bucket for the whole API
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins...)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
