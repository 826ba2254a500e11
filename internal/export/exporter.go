package export

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

// Renderer encodes a clip with one export profile.
type Renderer interface {
	Export(ctx context.Context, source, dest string, profile config.ExportProfile) error
}

// Exporter implements the export stage.
type Exporter struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	renderer Renderer
}

// NewExporter constructs the export handler backed by ffmpeg.
func NewExporter(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Exporter {
	return NewExporterWithDependencies(cfg, store, logger, ffmpegsvc.NewExecutor(cfg))
}

// NewExporterWithDependencies allows injecting the renderer (used in tests).
func NewExporterWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, renderer Renderer) *Exporter {
	return &Exporter{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "export"),
		renderer: renderer,
	}
}

func (e *Exporter) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Exporting", "Preparing export profiles")
	if len(e.cfg.Export.Profiles) == 0 {
		return services.Wrap(services.ErrConfiguration, "export", "prepare",
			"No export profiles configured; add at least one [[export.profiles]] entry", nil)
	}
	return nil
}

func (e *Exporter) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	clips, err := stage.DecodeClips(item)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return services.Wrap(services.ErrValidation, "export", "load clips",
			"Item has no clips; rerun slicing", nil)
	}

	exportDir := filepath.Join(e.cfg.Paths.LibraryDir, libraryFolder(item))
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	total := len(clips) * len(e.cfg.Export.Profiles)
	done := 0
	for i := range clips {
		clip := &clips[i]
		source := clip.SubtitledFile
		if strings.TrimSpace(source) == "" {
			source = clip.SourceFile
		}
		if strings.TrimSpace(source) == "" {
			return services.Wrap(services.ErrValidation, "export", "load clips",
				fmt.Sprintf("Clip %d has no media file; rerun slicing", i+1), nil)
		}
		if clip.Exports == nil {
			clip.Exports = make(map[string]string, len(e.cfg.Export.Profiles))
		}

		for _, profile := range e.cfg.Export.Profiles {
			dest := filepath.Join(exportDir, fmt.Sprintf("clip_%03d_%s.mp4", i+1, profile.Name))

			item.SetProgress("Exporting",
				fmt.Sprintf("Rendering clip %d of %d (%s)", i+1, len(clips), profile.Name),
				float64(done)/float64(total)*100)
			if err := e.store.Update(ctx, item); err != nil {
				return fmt.Errorf("persist export progress: %w", err)
			}

			if err := e.renderer.Export(ctx, source, dest, profile); err != nil {
				return services.Wrap(services.ErrExternalTool, "export", "render clip",
					fmt.Sprintf("ffmpeg failed rendering clip %d with profile %s", i+1, profile.Name), err)
			}
			clip.Exports[profile.Name] = dest
			done++
			logger.Info("clip exported",
				logging.String("profile", profile.Name),
				logging.String("file", dest),
			)
		}
	}

	payload, err := queue.EncodeClips(clips)
	if err != nil {
		return fmt.Errorf("encode clips: %w", err)
	}
	item.ClipsJSON = payload
	item.SetProgress("Exporting", fmt.Sprintf("%d renders complete", done), 100)
	return nil
}

// libraryFolder names the per-item folder in the library. The channel keeps
// one streamer's clips together; the item id keeps reruns from colliding.
func libraryFolder(item *queue.Item) string {
	channel := strings.TrimSpace(item.Channel)
	if channel == "" {
		channel = "clips"
	}
	return filepath.Join(sanitizeFolderName(channel), fmt.Sprintf("vod_%d", item.ID))
}

func sanitizeFolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "clips"
	}
	return b.String()
}

func (e *Exporter) HealthCheck(ctx context.Context) stage.Health {
	if _, err := exec.LookPath(e.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy("export", fmt.Sprintf("%s not found in PATH", e.cfg.FFmpegBinary()))
	}
	if len(e.cfg.Export.Profiles) == 0 {
		return stage.Unhealthy("export", "no export profiles configured")
	}
	return stage.Healthy("export")
}
