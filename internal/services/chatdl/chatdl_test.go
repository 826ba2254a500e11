package chatdl

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestVODID(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://www.twitch.tv/videos/2345678901", "2345678901", true},
		{"https://www.twitch.tv/videos/123?t=1h2m", "123", true},
		{"2345678901", "2345678901", true},
		{"https://www.twitch.tv/teststreamer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := VODID(tt.input)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("VODID(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("VODID(%q) should fail", tt.input)
		}
	}
}

func TestDownloadBuildsCommand(t *testing.T) {
	svc := New("")
	var gotName string
	var gotArgs []string
	svc.WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		gotName = name
		gotArgs = args
		return "", nil
	})

	destDir := t.TempDir()
	path, err := svc.Download(context.Background(), "https://www.twitch.tv/videos/987", destDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != filepath.Join(destDir, "987_chat.json") {
		t.Fatalf("path = %q", path)
	}
	if gotName != "TwitchDownloaderCLI" {
		t.Errorf("binary = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "chatdownload") || !strings.Contains(joined, "--id 987") {
		t.Errorf("unexpected args: %v", gotArgs)
	}
}

func TestDownloadRejectsBadURL(t *testing.T) {
	svc := New("")
	if _, err := svc.Download(context.Background(), "https://example.com/clip", t.TempDir()); err == nil {
		t.Fatal("expected error for URL without VOD id")
	}
}
