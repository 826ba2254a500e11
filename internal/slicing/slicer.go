package slicing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	ffmpegsvc "clipforge/internal/services/ffmpeg"
	"clipforge/internal/stage"
)

// MediaSlicer extracts a time range from a media file.
type MediaSlicer interface {
	Slice(ctx context.Context, source, dest string, start, end float64) error
}

// Slicer implements the slicing stage.
type Slicer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	media  MediaSlicer
}

// NewSlicer constructs the slicing handler backed by ffmpeg.
func NewSlicer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Slicer {
	return NewSlicerWithDependencies(cfg, store, logger, ffmpegsvc.NewExecutor(cfg))
}

// NewSlicerWithDependencies allows injecting the media slicer (used in tests).
func NewSlicerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, media MediaSlicer) *Slicer {
	return &Slicer{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "slicing"),
		media:  media,
	}
}

func (s *Slicer) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Slicing", "Collecting approved candidates")
	if strings.TrimSpace(item.SourceFile) == "" {
		return services.Wrap(services.ErrValidation, "slicing", "prepare",
			"Item has no source file; rerun ingest", nil)
	}
	if _, err := os.Stat(item.SourceFile); err != nil {
		return services.Wrap(services.ErrValidation, "slicing", "prepare",
			fmt.Sprintf("Source file %s is missing", item.SourceFile), err)
	}
	return nil
}

func (s *Slicer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	candidates, err := stage.DecodeCandidates(item)
	if err != nil {
		return err
	}
	approved, err := s.approvedCandidates(ctx, item, candidates)
	if err != nil {
		return err
	}
	if len(approved) == 0 {
		return services.Wrap(services.ErrValidation, "slicing", "collect approvals",
			"No approved candidates; approve at least one before slicing", nil)
	}

	clipDir := filepath.Join(s.cfg.Paths.StagingDir, "clips", fmt.Sprintf("%d", item.ID))
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return fmt.Errorf("create clip directory: %w", err)
	}

	clips := make([]queue.Clip, 0, len(approved))
	for i, candidate := range approved {
		clip := s.planClip(candidate, item.DurationSeconds)
		clip.Title = clipTitle(item.Title, clip.Start)
		clip.SourceFile = filepath.Join(clipDir, fmt.Sprintf("clip_%03d.mp4", i+1))

		item.SetProgress("Slicing",
			fmt.Sprintf("Cutting clip %d of %d", i+1, len(approved)),
			float64(i)/float64(len(approved))*100)
		if err := s.store.Update(ctx, item); err != nil {
			return fmt.Errorf("persist slicing progress: %w", err)
		}

		if err := s.media.Slice(ctx, item.SourceFile, clip.SourceFile, clip.Start, clip.End); err != nil {
			return services.Wrap(services.ErrExternalTool, "slicing", "cut clip",
				fmt.Sprintf("ffmpeg failed cutting [%.1f, %.1f]", clip.Start, clip.End), err)
		}
		clips = append(clips, clip)
		logger.Info("clip cut",
			logging.Float64("start", clip.Start),
			logging.Float64("end", clip.End),
			logging.String("file", clip.SourceFile),
		)
	}

	payload, err := queue.EncodeClips(clips)
	if err != nil {
		return fmt.Errorf("encode clips: %w", err)
	}
	item.ClipsJSON = payload
	item.SetProgress("Slicing", fmt.Sprintf("%d clips cut", len(clips)), 100)
	return nil
}

// approvedCandidates filters the persisted candidate list down to the spans
// the reviewer approved. Approval rows are keyed by candidate start time.
func (s *Slicer) approvedCandidates(ctx context.Context, item *queue.Item, candidates []queue.CandidateRecord) ([]queue.CandidateRecord, error) {
	starts, err := s.store.ApprovedStarts(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("load approvals: %w", err)
	}
	approvedAt := make(map[float64]bool, len(starts))
	for _, start := range starts {
		approvedAt[start] = true
	}

	approved := make([]queue.CandidateRecord, 0, len(starts))
	for _, candidate := range candidates {
		if approvedAt[candidate.Start] {
			approved = append(approved, candidate)
		}
	}
	return approved, nil
}

// planClip expands a candidate span with pre/post roll and clamps the result
// to the VOD bounds and the configured clip length limits. A clip that runs
// into the end of the VOD may come out shorter than min_clip_seconds; that is
// preferable to inventing footage.
func (s *Slicer) planClip(candidate queue.CandidateRecord, duration float64) queue.Clip {
	start := candidate.Start - s.cfg.Slicing.PreRollSeconds
	if start < 0 {
		start = 0
	}
	end := candidate.End + s.cfg.Slicing.PostRollSeconds
	if duration > 0 && end > duration {
		end = duration
	}

	if min := s.cfg.Slicing.MinClipSeconds; min > 0 && end-start < min {
		end = start + min
		if duration > 0 && end > duration {
			end = duration
		}
	}
	if max := s.cfg.Slicing.MaxClipSeconds; max > 0 && end-start > max {
		end = start + max
	}

	return queue.Clip{
		CandidateStart: candidate.Start,
		CandidateEnd:   candidate.End,
		Start:          start,
		End:            end,
		Score:          candidate.Score,
	}
}

func clipTitle(vodTitle string, start float64) string {
	total := int(start)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	stamp := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		stamp = fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	title := strings.TrimSpace(vodTitle)
	if title == "" {
		title = "Highlight"
	}
	return fmt.Sprintf("%s @ %s", title, stamp)
}

func (s *Slicer) HealthCheck(ctx context.Context) stage.Health {
	if _, err := exec.LookPath(s.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy("slicing", fmt.Sprintf("%s not found in PATH", s.cfg.FFmpegBinary()))
	}
	return stage.Healthy("slicing")
}
