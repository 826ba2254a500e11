package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	ffmpegsvc "clipforge/internal/services/ffmpeg"
	whispersvc "clipforge/internal/services/whisper"
	"clipforge/internal/stage"
)

// Transcriber produces an SRT file for a clip.
type Transcriber interface {
	Transcribe(ctx context.Context, clipPath, outputDir string) (string, error)
}

// Burner renders a subtitle file into the video stream.
type Burner interface {
	BurnSubtitles(ctx context.Context, source, srtPath, dest string, fontSize int) error
}

// Subtitler implements the subtitling stage.
type Subtitler struct {
	store       *queue.Store
	cfg         *config.Config
	logger      *slog.Logger
	transcriber Transcriber
	burner      Burner
}

// NewSubtitler constructs the subtitling handler backed by whisper and ffmpeg.
func NewSubtitler(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Subtitler {
	return NewSubtitlerWithDependencies(cfg, store, logger,
		whispersvc.New(cfg.WhisperBinary(), cfg.Subtitles.WhisperModel),
		ffmpegsvc.NewExecutor(cfg),
	)
}

// NewSubtitlerWithDependencies allows injecting the transcriber and burner.
func NewSubtitlerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, transcriber Transcriber, burner Burner) *Subtitler {
	return &Subtitler{
		store:       store,
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "subtitles"),
		transcriber: transcriber,
		burner:      burner,
	}
}

func (s *Subtitler) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Subtitling", "Preparing transcription")
	return nil
}

func (s *Subtitler) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	if !s.cfg.Subtitles.Enabled {
		item.SetProgress("Subtitling", "Subtitles disabled, passing through", 100)
		logger.Info("subtitles disabled, passing clips through")
		return nil
	}

	clips, err := stage.DecodeClips(item)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return services.Wrap(services.ErrValidation, "subtitles", "load clips",
			"Item has no clips; rerun slicing", nil)
	}

	for i := range clips {
		clip := &clips[i]
		if strings.TrimSpace(clip.SourceFile) == "" {
			return services.Wrap(services.ErrValidation, "subtitles", "load clips",
				fmt.Sprintf("Clip %d has no source file; rerun slicing", i+1), nil)
		}

		item.SetProgress("Subtitling",
			fmt.Sprintf("Transcribing clip %d of %d", i+1, len(clips)),
			float64(i)/float64(len(clips))*100)
		if err := s.store.Update(ctx, item); err != nil {
			return fmt.Errorf("persist subtitling progress: %w", err)
		}

		srtPath, err := s.transcriber.Transcribe(ctx, clip.SourceFile, filepath.Dir(clip.SourceFile))
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "subtitles", "transcribe clip",
				fmt.Sprintf("whisper failed on clip %d", i+1), err)
		}
		clip.SubtitleFile = srtPath

		if s.cfg.Subtitles.BurnIn {
			dest := subtitledPath(clip.SourceFile)
			if err := s.burner.BurnSubtitles(ctx, clip.SourceFile, srtPath, dest, s.cfg.Subtitles.FontSize); err != nil {
				return services.Wrap(services.ErrExternalTool, "subtitles", "burn subtitles",
					fmt.Sprintf("ffmpeg failed burning subtitles into clip %d", i+1), err)
			}
			clip.SubtitledFile = dest
		}
		logger.Info("clip subtitled",
			logging.String("clip", clip.SourceFile),
			logging.String("srt", srtPath),
			logging.Bool("burned_in", s.cfg.Subtitles.BurnIn),
		)
	}

	payload, err := queue.EncodeClips(clips)
	if err != nil {
		return fmt.Errorf("encode clips: %w", err)
	}
	item.ClipsJSON = payload
	item.SetProgress("Subtitling", fmt.Sprintf("%d clips subtitled", len(clips)), 100)
	return nil
}

// subtitledPath derives the burned-in output path next to the clip.
func subtitledPath(clipPath string) string {
	ext := filepath.Ext(clipPath)
	return strings.TrimSuffix(clipPath, ext) + "_subtitled" + ext
}

func (s *Subtitler) HealthCheck(ctx context.Context) stage.Health {
	if !s.cfg.Subtitles.Enabled {
		return stage.Healthy("subtitles")
	}
	for _, binary := range []string{s.cfg.WhisperBinary(), s.cfg.FFmpegBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy("subtitles", fmt.Sprintf("%s not found in PATH", binary))
		}
	}
	return stage.Healthy("subtitles")
}
