package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/notifications"
	"clipforge/internal/queue"
	"clipforge/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
// Nil entries are skipped; later stages chain from the previous registered
// stage's done status.
type StageSet struct {
	Ingest    stage.Handler
	Detection stage.Handler
	Slicing   stage.Handler
	Subtitles stage.Handler
	Export    stage.Handler
	Upload    stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	notifier     notifications.Service
	pollInterval time.Duration

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item

	queueActive bool
	queueStart  time.Time
}

// NewManager constructs a new workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier
// (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	pollInterval := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: pollInterval,
	}
}

// ConfigureStages registers the concrete stage handlers the workflow will run.
// Slicing picks up at approved: the gap between detected and approved is the
// human review gate and is crossed by the CLI or the HTTP API, never by the
// manager.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage

	if set.Ingest != nil {
		stages = append(stages, pipelineStage{
			name:             "ingest",
			handler:          set.Ingest,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusFetching,
			doneStatus:       queue.StatusFetched,
		})
	}
	if set.Detection != nil {
		stages = append(stages, pipelineStage{
			name:             "detection",
			handler:          set.Detection,
			startStatus:      queue.StatusFetched,
			processingStatus: queue.StatusDetecting,
			doneStatus:       queue.StatusDetected,
		})
	}

	exportStart := queue.StatusSliced
	if set.Slicing != nil {
		stages = append(stages, pipelineStage{
			name:             "slicing",
			handler:          set.Slicing,
			startStatus:      queue.StatusApproved,
			processingStatus: queue.StatusSlicing,
			doneStatus:       queue.StatusSliced,
		})
	}
	if set.Subtitles != nil {
		stages = append(stages, pipelineStage{
			name:             "subtitles",
			handler:          set.Subtitles,
			startStatus:      queue.StatusSliced,
			processingStatus: queue.StatusSubtitling,
			doneStatus:       queue.StatusSubtitled,
		})
		exportStart = queue.StatusSubtitled
	}

	uploadStart := queue.StatusExported
	exportDone := queue.StatusExported
	if set.Upload == nil {
		exportDone = queue.StatusCompleted
	}
	if set.Export != nil {
		stages = append(stages, pipelineStage{
			name:             "export",
			handler:          set.Export,
			startStatus:      exportStart,
			processingStatus: queue.StatusExporting,
			doneStatus:       exportDone,
		})
	}
	if set.Upload != nil {
		stages = append(stages, pipelineStage{
			name:             "upload",
			handler:          set.Upload,
			startStatus:      uploadStart,
			processingStatus: queue.StatusUploading,
			doneStatus:       queue.StatusCompleted,
		})
	}

	stageByStart := make(map[queue.Status]pipelineStage, len(stages))
	statusOrder := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		stageByStart[stg.startStatus] = stg
		statusOrder = append(statusOrder, stg.startStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = stageByStart
	m.statusOrder = statusOrder
	m.mu.Unlock()
}
