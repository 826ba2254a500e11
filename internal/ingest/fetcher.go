package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/notifications"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/services/chatdl"
	ffmpegsvc "clipforge/internal/services/ffmpeg"
	"clipforge/internal/services/ytdlp"
	"clipforge/internal/stage"
)

// VODDownloader fetches VOD metadata and media.
type VODDownloader interface {
	Probe(ctx context.Context, url string) (ytdlp.Metadata, error)
	Download(ctx context.Context, url, destDir string) (string, error)
}

// ChatDownloader fetches the chat log for a VOD.
type ChatDownloader interface {
	Download(ctx context.Context, vodURL, destDir string) (string, error)
}

// DurationProber reads the container duration of a downloaded file.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Fetcher implements the ingest stage.
type Fetcher struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	vods     VODDownloader
	chat     ChatDownloader
	prober   DurationProber
	notifier notifications.Service
}

// NewFetcher constructs the ingest handler using default dependencies.
func NewFetcher(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Fetcher {
	return NewFetcherWithDependencies(
		cfg, store, logger,
		ytdlp.New(cfg.YtdlpBinary()),
		chatdl.New(cfg.ChatDownloaderBinary()),
		ffmpegsvc.NewExecutor(cfg),
		notifications.NewService(cfg),
	)
}

// NewFetcherWithDependencies allows injecting all collaborators (used in tests).
func NewFetcherWithDependencies(
	cfg *config.Config,
	store *queue.Store,
	logger *slog.Logger,
	vods VODDownloader,
	chat ChatDownloader,
	prober DurationProber,
	notifier notifications.Service,
) *Fetcher {
	return &Fetcher{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "ingest"),
		vods:     vods,
		chat:     chat,
		prober:   prober,
		notifier: notifier,
	}
}

func (f *Fetcher) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, f.logger)
	item.InitProgress("Fetching", "Starting download")
	logger.Info("starting ingest",
		logging.String("vod_url", strings.TrimSpace(item.VODURL)),
	)
	return nil
}

func (f *Fetcher) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, f.logger)

	meta, err := f.vods.Probe(ctx, item.VODURL)
	if err != nil {
		return services.Wrap(
			services.ErrExternalTool, "ingest", "probe vod",
			"Could not read VOD metadata; check the URL and yt-dlp installation", err)
	}
	if strings.TrimSpace(item.Title) == "" {
		item.Title = meta.Title
	}
	if strings.TrimSpace(item.Channel) == "" {
		item.Channel = meta.Uploader
	}

	item.SetProgress("Fetching", "Downloading VOD", 10)
	if err := f.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist ingest progress: %w", err)
	}

	downloadDir := filepath.Join(f.cfg.Paths.StagingDir, "downloads")
	sourceFile, err := f.vods.Download(ctx, item.VODURL, downloadDir)
	if err != nil {
		return services.Wrap(
			services.ErrExternalTool, "ingest", "download vod",
			"VOD download failed", err)
	}
	item.SourceFile = sourceFile

	item.SetProgress("Fetching", "Downloading chat log", 70)
	if err := f.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist ingest progress: %w", err)
	}

	chatDir := filepath.Join(f.cfg.Paths.StagingDir, "chat")
	chatFile, err := f.chat.Download(ctx, item.VODURL, chatDir)
	if err != nil {
		return services.Wrap(
			services.ErrExternalTool, "ingest", "download chat",
			"Chat log download failed", err)
	}
	item.ChatLogFile = chatFile

	duration, err := f.prober.ProbeDuration(ctx, sourceFile)
	if err != nil {
		if meta.Duration > 0 {
			logger.Warn("ffprobe failed, using reported VOD duration", logging.Error(err))
			duration = meta.Duration
		} else {
			return services.Wrap(
				services.ErrExternalTool, "ingest", "probe duration",
				"Could not determine VOD duration", err)
		}
	}
	item.DurationSeconds = duration

	item.SetProgress("Fetching", "Download complete", 100)
	logger.Info("ingest complete",
		logging.String("source_file", sourceFile),
		logging.String("chat_log", chatFile),
		logging.Float64("duration_seconds", duration),
	)

	if f.notifier != nil {
		if err := f.notifier.NotifyVODFetched(ctx, item.Title); err != nil {
			logger.Warn("fetched notification failed", logging.Error(err))
		}
	}
	return nil
}

func (f *Fetcher) HealthCheck(ctx context.Context) stage.Health {
	for _, binary := range []string{f.cfg.YtdlpBinary(), f.cfg.ChatDownloaderBinary(), f.cfg.FFprobeBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy("ingest", fmt.Sprintf("%s not found in PATH", binary))
		}
	}
	return stage.Healthy("ingest")
}
