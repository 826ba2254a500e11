package ytdlp

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	payload := `{"id":"2345678901","title":"Ranked grind to GM","uploader":"teststreamer","duration":14523.0}`
	meta, err := ParseMetadata(payload)
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}
	if meta.ID != "2345678901" || meta.Title != "Ranked grind to GM" || meta.Duration != 14523 {
		t.Fatalf("unexpected metadata: %#v", meta)
	}

	if _, err := ParseMetadata("not json"); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestDownloadReturnsPrintedPath(t *testing.T) {
	svc := New("yt-dlp")
	var gotArgs []string
	svc.WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		gotArgs = args
		return "/staging/downloads/2345678901.mp4\n", nil
	})

	path, err := svc.Download(context.Background(), "https://www.twitch.tv/videos/2345678901", t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != "/staging/downloads/2345678901.mp4" {
		t.Fatalf("path = %q", path)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "after_move:filepath") || !strings.Contains(joined, "--merge-output-format mp4") {
		t.Errorf("unexpected args: %v", gotArgs)
	}
}

func TestDownloadEmptyOutput(t *testing.T) {
	svc := New("")
	svc.WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		return "  \n", nil
	})
	if _, err := svc.Download(context.Background(), "url", t.TempDir()); err == nil {
		t.Fatal("expected error when yt-dlp prints no path")
	}
}

func TestProbePropagatesRunnerError(t *testing.T) {
	svc := New("")
	svc.WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("exit status 1")
	})
	if _, err := svc.Probe(context.Background(), "url"); err == nil {
		t.Fatal("expected probe error")
	}
}
