// Package ytdlp wraps the yt-dlp command line tool for VOD downloads.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

func defaultRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Metadata is the subset of yt-dlp's JSON dump the pipeline needs.
type Metadata struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

// Service downloads VODs via yt-dlp.
type Service struct {
	binary string
	runner Runner
}

// New constructs a Service for the given binary name.
func New(binary string) *Service {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Service{binary: binary, runner: defaultRunner}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner Runner) {
	if runner != nil {
		s.runner = runner
	}
}

// Probe fetches VOD metadata without downloading.
func (s *Service) Probe(ctx context.Context, url string) (Metadata, error) {
	out, err := s.runner(ctx, s.binary, "--dump-json", "--skip-download", url)
	if err != nil {
		return Metadata{}, fmt.Errorf("probe vod: %w", err)
	}
	return ParseMetadata(out)
}

// ParseMetadata decodes a yt-dlp --dump-json payload.
func ParseMetadata(payload string) (Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse vod metadata: %w", err)
	}
	return meta, nil
}

// Download fetches the VOD into destDir and returns the final file path.
// yt-dlp prints the post-move path when asked, which avoids guessing the
// container extension.
func (s *Service) Download(ctx context.Context, url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure download dir: %w", err)
	}
	out, err := s.runner(ctx, s.binary,
		"--no-simulate",
		"--print", "after_move:filepath",
		"--merge-output-format", "mp4",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		url,
	)
	if err != nil {
		return "", fmt.Errorf("download vod: %w", err)
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", fmt.Errorf("download vod: yt-dlp reported no output path")
	}
	return path, nil
}
