package upload

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/notifications"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/services/publish"
	"clipforge/internal/stage"
)

// Uploader implements the upload stage.
type Uploader struct {
	store      *queue.Store
	cfg        *config.Config
	logger     *slog.Logger
	publishers []publish.Publisher
	notifier   notifications.Service
}

// NewUploader constructs the upload handler from the configured platforms.
func NewUploader(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Uploader {
	return NewUploaderWithDependencies(cfg, store, logger, publish.New(cfg), notifications.NewService(cfg))
}

// NewUploaderWithDependencies allows injecting publishers and the notifier.
func NewUploaderWithDependencies(
	cfg *config.Config,
	store *queue.Store,
	logger *slog.Logger,
	publishers []publish.Publisher,
	notifier notifications.Service,
) *Uploader {
	return &Uploader{
		store:      store,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "upload"),
		publishers: publishers,
		notifier:   notifier,
	}
}

func (u *Uploader) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Uploading", "Preparing uploads")
	if u.cfg.Upload.Enabled && len(u.publishers) == 0 {
		return services.Wrap(services.ErrConfiguration, "upload", "prepare",
			"Upload is enabled but no platforms are configured", nil)
	}
	return nil
}

func (u *Uploader) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, u.logger)

	if !u.cfg.Upload.Enabled {
		item.SetProgress("Uploading", "Upload disabled, passing through", 100)
		logger.Info("upload disabled, passing clips through")
		return nil
	}

	clips, err := stage.DecodeClips(item)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return services.Wrap(services.ErrValidation, "upload", "load clips",
			"Item has no clips; rerun slicing", nil)
	}

	total := len(clips) * len(u.publishers)
	done := 0
	for i := range clips {
		clip := &clips[i]
		for _, publisher := range u.publishers {
			profile, file := exportForPlatform(clip, publisher.Platform())
			if file == "" {
				return services.Wrap(services.ErrValidation, "upload", "select export",
					fmt.Sprintf("Clip %d has no export for platform %s; rerun export", i+1, publisher.Platform()), nil)
			}

			item.SetProgress("Uploading",
				fmt.Sprintf("Uploading clip %d of %d to %s", i+1, len(clips), publisher.Platform()),
				float64(done)/float64(total)*100)
			if err := u.store.Update(ctx, item); err != nil {
				return fmt.Errorf("persist upload progress: %w", err)
			}

			result, err := publisher.Publish(ctx, file, clip.Title)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "upload", "publish clip",
					fmt.Sprintf("Upload of clip %d to %s failed", i+1, publisher.Platform()), err)
			}
			clip.Uploads = append(clip.Uploads, queue.UploadRecord{
				Platform: result.Platform,
				Profile:  profile,
				URL:      result.URL,
				DryRun:   result.DryRun,
			})
			done++
			logger.Info("clip published",
				logging.String("platform", result.Platform),
				logging.String("url", result.URL),
				logging.Bool("dry_run", result.DryRun),
			)

			if u.notifier != nil && !result.DryRun {
				if err := u.notifier.NotifyClipPublished(ctx, clip.Title, result.Platform, result.URL); err != nil {
					logger.Warn("publish notification failed", logging.Error(err))
				}
			}
		}
	}

	payload, err := queue.EncodeClips(clips)
	if err != nil {
		return fmt.Errorf("encode clips: %w", err)
	}
	item.ClipsJSON = payload
	item.SetProgress("Uploading", fmt.Sprintf("%d uploads complete", done), 100)
	return nil
}

// exportForPlatform picks the rendered file to upload for a platform. A
// profile named after the platform wins; otherwise the first profile in
// lexical order is used so repeated runs upload the same file.
func exportForPlatform(clip *queue.Clip, platform string) (string, string) {
	if file, ok := clip.Exports[platform]; ok {
		return platform, file
	}
	for profile, file := range clip.Exports {
		if strings.EqualFold(profile, platform) {
			return profile, file
		}
	}
	profiles := make([]string, 0, len(clip.Exports))
	for profile := range clip.Exports {
		profiles = append(profiles, profile)
	}
	if len(profiles) == 0 {
		return "", ""
	}
	sort.Strings(profiles)
	return profiles[0], clip.Exports[profiles[0]]
}

func (u *Uploader) HealthCheck(ctx context.Context) stage.Health {
	if u.cfg.Upload.Enabled && len(u.publishers) == 0 {
		return stage.Unhealthy("upload", "upload enabled but no platforms configured")
	}
	return stage.Healthy("upload")
}
