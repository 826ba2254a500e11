// Package services provides shared error classification and context plumbing
// for the pipeline stages and their external tool wrappers.
package services
