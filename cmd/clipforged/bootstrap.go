package main

import (
	"log/slog"

	"clipforge/internal/config"
	"clipforge/internal/daemon"
	"clipforge/internal/detection"
	"clipforge/internal/export"
	"clipforge/internal/ingest"
	"clipforge/internal/queue"
	"clipforge/internal/slicing"
	"clipforge/internal/subtitles"
	"clipforge/internal/upload"
	"clipforge/internal/workflow"
)

// bootstrap wires stage handlers into a workflow manager and wraps it in
// a daemon.
func bootstrap(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	manager := workflow.NewManager(cfg, store, logger)
	manager.ConfigureStages(buildStages(cfg, store, logger))
	return daemon.New(cfg, store, logger, manager)
}

func buildStages(cfg *config.Config, store *queue.Store, logger *slog.Logger) workflow.StageSet {
	stages := workflow.StageSet{
		Ingest:    ingest.NewFetcher(cfg, store, logger),
		Detection: detection.NewDetector(cfg, store, logger),
		Slicing:   slicing.NewSlicer(cfg, store, logger),
		Subtitles: subtitles.NewSubtitler(cfg, store, logger),
		Export:    export.NewExporter(cfg, store, logger),
	}
	// With uploads disabled the export stage finishes the pipeline.
	if cfg.Upload.Enabled {
		stages.Upload = upload.NewUploader(cfg, store, logger)
	}
	return stages
}
