// Package workflow drives queue items through the pipeline stages. A manager
// polls the SQLite queue for items whose status matches a registered stage,
// moves them into the stage's processing status, runs the handler, and
// persists either the stage's done status or a classified failure.
package workflow
