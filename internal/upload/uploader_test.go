package upload

import (
	"context"
	"errors"
	"testing"

	"clipforge/internal/logging"
	"clipforge/internal/queue"
	"clipforge/internal/services"
	"clipforge/internal/services/publish"
	"clipforge/internal/testsupport"
)

type stubPublisher struct {
	platform string
	dryRun   bool
	err      error
	files    []string
}

func (s *stubPublisher) Platform() string { return s.platform }

func (s *stubPublisher) Publish(_ context.Context, filePath, title string) (publish.Result, error) {
	s.files = append(s.files, filePath)
	if s.err != nil {
		return publish.Result{}, s.err
	}
	url := "https://example.com/" + s.platform
	if s.dryRun {
		url = "dry-run://" + s.platform
	}
	return publish.Result{Platform: s.platform, URL: url, DryRun: s.dryRun}, nil
}

func uploadFixture(t *testing.T, enabled bool, publishers ...publish.Publisher) (*Uploader, *testsupport.RecordingNotifier, *queue.Item) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Upload.Enabled = enabled
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &testsupport.RecordingNotifier{}
	uploader := NewUploaderWithDependencies(cfg, store, logging.NewNop(), publishers, notifier)

	item := testsupport.NewVOD(t, store, "https://www.twitch.tv/videos/7", "Ranked grind")
	clips := []queue.Clip{{
		Start: 95, End: 125, Title: "Ranked grind @ 01:35",
		SourceFile: "/tmp/clips/clip_001.mp4",
		Exports: map[string]string{
			"youtube": "/tmp/library/clip_001_youtube.mp4",
			"tiktok":  "/tmp/library/clip_001_tiktok.mp4",
		},
	}}
	payload, err := queue.EncodeClips(clips)
	if err != nil {
		t.Fatalf("EncodeClips: %v", err)
	}
	item.ClipsJSON = payload
	return uploader, notifier, item
}

func TestExecutePublishesMatchingExportPerPlatform(t *testing.T) {
	youtube := &stubPublisher{platform: "youtube"}
	tiktok := &stubPublisher{platform: "tiktok"}
	uploader, notifier, item := uploadFixture(t, true, youtube, tiktok)

	if err := uploader.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(youtube.files) != 1 || youtube.files[0] != "/tmp/library/clip_001_youtube.mp4" {
		t.Errorf("youtube received %v, want the youtube export", youtube.files)
	}
	if len(tiktok.files) != 1 || tiktok.files[0] != "/tmp/library/clip_001_tiktok.mp4" {
		t.Errorf("tiktok received %v, want the tiktok export", tiktok.files)
	}

	clips, err := queue.DecodeClips(item.ClipsJSON)
	if err != nil {
		t.Fatalf("DecodeClips: %v", err)
	}
	if len(clips[0].Uploads) != 2 {
		t.Fatalf("uploads = %+v, want one record per platform", clips[0].Uploads)
	}
	if !notifier.Contains("published:Ranked grind @ 01:35:youtube:") {
		t.Errorf("expected publish notification, got %v", notifier.Events())
	}
}

func TestExportForPlatformFallbackIsDeterministic(t *testing.T) {
	clip := &queue.Clip{Exports: map[string]string{
		"shorts": "/tmp/library/clip_001_shorts.mp4",
		"reels":  "/tmp/library/clip_001_reels.mp4",
		"wide":   "/tmp/library/clip_001_wide.mp4",
	}}

	for i := 0; i < 20; i++ {
		profile, file := exportForPlatform(clip, "tiktok")
		if profile != "reels" || file != "/tmp/library/clip_001_reels.mp4" {
			t.Fatalf("fallback picked %q (%s), want first profile in lexical order", profile, file)
		}
	}
}

func TestExportForPlatformPrefersCaseInsensitiveMatch(t *testing.T) {
	clip := &queue.Clip{Exports: map[string]string{
		"reels":   "/tmp/library/clip_001_reels.mp4",
		"TikTok":  "/tmp/library/clip_001_tiktok.mp4",
		"youtube": "/tmp/library/clip_001_youtube.mp4",
	}}

	profile, file := exportForPlatform(clip, "tiktok")
	if profile != "TikTok" || file != "/tmp/library/clip_001_tiktok.mp4" {
		t.Fatalf("got %q (%s), want the case-insensitive name match", profile, file)
	}
}

func TestExecuteDryRunSkipsPublishNotification(t *testing.T) {
	youtube := &stubPublisher{platform: "youtube", dryRun: true}
	uploader, notifier, item := uploadFixture(t, true, youtube)

	if err := uploader.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if notifier.Contains("published:") {
		t.Errorf("dry-run should not notify, got %v", notifier.Events())
	}
	clips, err := queue.DecodeClips(item.ClipsJSON)
	if err != nil {
		t.Fatalf("DecodeClips: %v", err)
	}
	if !clips[0].Uploads[0].DryRun {
		t.Errorf("upload record = %+v, want dry_run marked", clips[0].Uploads[0])
	}
}

func TestExecutePassesThroughWhenUploadDisabled(t *testing.T) {
	youtube := &stubPublisher{platform: "youtube"}
	uploader, _, item := uploadFixture(t, false, youtube)

	if err := uploader.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(youtube.files) != 0 {
		t.Errorf("publisher called %d times, want 0 when disabled", len(youtube.files))
	}
}

func TestExecutePublishFailureSurfaces(t *testing.T) {
	youtube := &stubPublisher{platform: "youtube", err: errors.New("quota exceeded")}
	uploader, _, item := uploadFixture(t, true, youtube)

	if err := uploader.Execute(context.Background(), item); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
}

func TestPrepareRejectsEnabledUploadWithoutPlatforms(t *testing.T) {
	uploader, _, item := uploadFixture(t, true)

	if err := uploader.Prepare(context.Background(), item); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}
