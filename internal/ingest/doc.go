// Package ingest downloads a queued VOD and its chat log into the staging
// directory and records source metadata on the queue item.
package ingest
