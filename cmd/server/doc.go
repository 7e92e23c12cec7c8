// Package main is the entry point for the phone simulator backend.
//
// The server hosts one simulated phone: the shared entity store, the app
// catalog, per-skin navigation and the cross-app router that turns user
// actions into state changes and delayed follow-up work.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Canned replies, built-in demo data
//	./server -dev
//
//	# Remote reply generation with a custom seed
//	./server -port 8000 -gen http://localhost:9000 -seed ./seed.toml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
