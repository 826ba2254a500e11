// Package chatdl wraps TwitchDownloaderCLI for chat log downloads.
package chatdl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

func defaultRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(buf.String()))
	}
	return buf.String(), nil
}

var vodIDPattern = regexp.MustCompile(`(?:^|/videos/)(\d+)(?:[/?#]|$)`)

// VODID extracts the numeric VOD identifier from a Twitch VOD URL. A bare
// numeric ID passes through unchanged.
func VODID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if match := vodIDPattern.FindStringSubmatch(url); match != nil {
		return match[1], nil
	}
	return "", fmt.Errorf("no VOD id in %q", url)
}

// Service downloads chat logs via TwitchDownloaderCLI.
type Service struct {
	binary string
	runner Runner
}

// New constructs a Service for the given binary name.
func New(binary string) *Service {
	if binary == "" {
		binary = "TwitchDownloaderCLI"
	}
	return &Service{binary: binary, runner: defaultRunner}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner Runner) {
	if runner != nil {
		s.runner = runner
	}
}

// Download fetches the chat log for a VOD URL into destDir and returns the
// JSON file path.
func (s *Service) Download(ctx context.Context, vodURL, destDir string) (string, error) {
	id, err := VODID(vodURL)
	if err != nil {
		return "", fmt.Errorf("download chat: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure chat dir: %w", err)
	}
	dest := filepath.Join(destDir, id+"_chat.json")
	if _, err := s.runner(ctx, s.binary,
		"chatdownload",
		"--id", id,
		"--output", dest,
	); err != nil {
		return "", fmt.Errorf("download chat: %w", err)
	}
	return dest, nil
}
