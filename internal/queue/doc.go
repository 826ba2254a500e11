// Package queue persists pipeline state in SQLite. Each item tracks one
// source VOD as it moves from ingestion through detection, review, slicing,
// subtitling, export, and upload. Candidate approval state lives in its own
// table keyed by (item, candidate start) so review decisions never mutate
// detector output.
package queue
