// Package daemon ties the queue store, workflow manager, and HTTP API into a
// single lifecycle with flock-based locking to prevent multiple instances
// from processing the same queue.
package daemon
