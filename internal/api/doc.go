// Package api defines the transport-friendly view models and services shared
// by the daemon HTTP endpoints and the CLI. Services wrap the queue store and
// return DTOs so callers never serialize queue.Item directly.
package api
