// Package upload publishes exported clips to the configured platforms via
// their command line uploaders, honoring dry-run mode.
package upload
