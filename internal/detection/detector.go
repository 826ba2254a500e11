package detection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"clipforge/internal/audioscan"
	"clipforge/internal/chatlog"
	"clipforge/internal/config"
	"clipforge/internal/highlights"
	"clipforge/internal/logging"
	"clipforge/internal/notifications"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/stage"
)

// AudioScanner produces an amplitude envelope series for a media file.
type AudioScanner interface {
	Scan(ctx context.Context, path string, duration float64) (highlights.TimeSeries, error)
}

// Detector implements the detection stage.
type Detector struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	audio    AudioScanner
	notifier notifications.Service
}

// NewDetector constructs the detection handler using default dependencies.
func NewDetector(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Detector {
	return NewDetectorWithDependencies(cfg, store, logger,
		audioscan.NewScanner(cfg, logger),
		notifications.NewService(cfg),
	)
}

// NewDetectorWithDependencies allows injecting the audio scanner and notifier.
func NewDetectorWithDependencies(
	cfg *config.Config,
	store *queue.Store,
	logger *slog.Logger,
	audio AudioScanner,
	notifier notifications.Service,
) *Detector {
	return &Detector{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "detection"),
		audio:    audio,
		notifier: notifier,
	}
}

func (d *Detector) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Detecting highlights", "Loading signals")
	if strings.TrimSpace(item.SourceFile) == "" {
		return services.Wrap(services.ErrValidation, "detection", "prepare",
			"Item has no source file; rerun ingest", nil)
	}
	if strings.TrimSpace(item.ChatLogFile) == "" {
		return services.Wrap(services.ErrValidation, "detection", "prepare",
			"Item has no chat log; rerun ingest", nil)
	}
	if item.DurationSeconds <= 0 {
		return services.Wrap(services.ErrValidation, "detection", "prepare",
			"Item has no recorded duration; rerun ingest", nil)
	}
	return nil
}

func (d *Detector) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, d.logger)

	chatLog, err := chatlog.ParseFile(item.ChatLogFile)
	if err != nil {
		return services.Wrap(services.ErrValidation, "detection", "parse chat log",
			"Chat log could not be parsed; re-download it", err)
	}
	chatSeries, err := chatlog.RateSeries(chatLog, d.cfg.Detection.ChatBucketSeconds)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "detection", "bucket chat log",
			"Check the chat_bucket_seconds setting", err)
	}

	item.SetProgress("Detecting highlights", "Scanning audio track", 20)
	if err := d.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist detection progress: %w", err)
	}

	audioSeries, err := d.audio.Scan(ctx, item.SourceFile, item.DurationSeconds)
	if err != nil {
		return err
	}

	item.SetProgress("Detecting highlights", "Ranking candidates", 70)
	if err := d.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist detection progress: %w", err)
	}

	candidates, err := d.detectWithRelaxation(logger, chatSeries, audioSeries)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return services.Wrap(services.ErrValidation, "detection", "detect highlights",
			"No highlight candidates found even after relaxing thresholds; review the VOD manually", nil)
	}

	records := make([]queue.CandidateRecord, 0, len(candidates))
	spans := make([][2]float64, 0, len(candidates))
	for _, candidate := range candidates {
		kinds := make([]string, 0, len(candidate.Kinds))
		for _, kind := range candidate.Kinds {
			kinds = append(kinds, string(kind))
		}
		records = append(records, queue.CandidateRecord{
			Start:  candidate.Start,
			End:    candidate.End,
			Score:  candidate.Score,
			Kinds:  kinds,
			Reason: candidate.Reason,
		})
		spans = append(spans, [2]float64{candidate.Start, candidate.End})
	}

	payload, err := queue.EncodeCandidates(records)
	if err != nil {
		return fmt.Errorf("encode candidates: %w", err)
	}
	item.CandidatesJSON = payload
	if err := d.store.SeedApprovals(ctx, item.ID, spans); err != nil {
		return fmt.Errorf("seed approvals: %w", err)
	}

	item.SetProgress("Detecting highlights",
		fmt.Sprintf("%d candidates awaiting review", len(records)), 100)
	logger.Info("detection complete",
		logging.Int("candidates", len(records)),
		logging.Float64("duration_seconds", item.DurationSeconds),
	)

	if d.notifier != nil {
		if err := d.notifier.NotifyCandidatesFound(ctx, item.Title, len(records)); err != nil {
			logger.Warn("candidate notification failed", logging.Error(err))
		}
		if err := d.notifier.NotifyAwaitingReview(ctx, item.Title, len(records)); err != nil {
			logger.Warn("review notification failed", logging.Error(err))
		}
	}
	return nil
}

// detectWithRelaxation reruns the detector with scaled-down thresholds when a
// pass returns nothing. The detector itself never relaxes; the retry policy
// lives here so it stays visible in one place.
func (d *Detector) detectWithRelaxation(logger *slog.Logger, chat, audio highlights.TimeSeries) ([]highlights.Candidate, error) {
	opts := optionsFromConfig(d.cfg.Detection)
	attempts := d.cfg.Detection.MaxRelaxAttempts
	if attempts < 0 {
		attempts = 0
	}
	factor := d.cfg.Detection.RelaxFactor
	if factor <= 0 || factor >= 1 {
		attempts = 0
	}

	for attempt := 0; ; attempt++ {
		candidates, err := highlights.Detect(chat, audio, opts)
		if err != nil {
			switch {
			case errors.Is(err, highlights.ErrBadOptions):
				return nil, services.Wrap(services.ErrConfiguration, "detection", "detect highlights",
					"Check the [detection] config section", err)
			case errors.Is(err, highlights.ErrBadSeries):
				return nil, services.Wrap(services.ErrValidation, "detection", "detect highlights",
					"Signal series malformed; re-download the VOD", err)
			default:
				return nil, err
			}
		}
		if len(candidates) > 0 || attempt >= attempts {
			return candidates, nil
		}
		opts = opts.Relaxed(factor)
		logger.Info("no candidates, relaxing thresholds",
			logging.Int("attempt", attempt+1),
			logging.Float64("chat_threshold", opts.ChatThreshold),
			logging.Float64("audio_threshold", opts.AudioThreshold),
		)
	}
}

func optionsFromConfig(det config.Detection) highlights.Options {
	return highlights.Options{
		ChatThreshold:   det.ChatThreshold,
		AudioThreshold:  det.AudioThreshold,
		MinWindow:       det.MinWindowSeconds,
		SmoothingWindow: det.SmoothingWindowSeconds,
		OverlapBonus:    det.OverlapBonus,
		MinGap:          det.MinGapSeconds,
		MaxCandidates:   det.MaxCandidates,
	}
}

func (d *Detector) HealthCheck(ctx context.Context) stage.Health {
	if _, err := exec.LookPath(d.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy("detection", fmt.Sprintf("%s not found in PATH", d.cfg.FFmpegBinary()))
	}
	if d.cfg.Detection.ChatBucketSeconds <= 0 {
		return stage.Unhealthy("detection", "chat_bucket_seconds must be positive")
	}
	return stage.Healthy("detection")
}
