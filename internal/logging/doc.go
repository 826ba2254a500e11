// Package logging configures slog output for the daemon and CLI: console or
// JSON handlers, optional log-file mirroring, and shared attribute helpers so
// stages emit consistently keyed structured fields.
package logging
