// Package services implements the core use cases: ingestion, retrieval,
// friend-mode routing, profile updates and session management. Services
// depend on the ports packages only; adapters are injected at wiring
// time.
package services
