// Package main hosts the Clipforge CLI entrypoint and command graph.
//
// The Cobra-based command tree covers queue maintenance, candidate review,
// VOD discovery, daemon status, and configuration scaffolding. Commands open
// the shared SQLite queue directly (the database runs in WAL mode, so the CLI
// and daemon can operate concurrently) and reuse the same service layer the
// daemon's HTTP API is built on.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
