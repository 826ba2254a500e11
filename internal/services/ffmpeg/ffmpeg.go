// Package ffmpeg wraps the ffmpeg and ffprobe command line tools for clip
// cutting, subtitle burn-in, export encoding, and duration probing.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"clipforge/internal/config"
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

// Executor runs ffmpeg operations.
type Executor struct {
	ffmpegBin  string
	ffprobeBin string
	runner     Runner
}

// NewExecutor builds an Executor from configuration.
func NewExecutor(cfg *config.Config) *Executor {
	return &Executor{
		ffmpegBin:  cfg.FFmpegBinary(),
		ffprobeBin: cfg.FFprobeBinary(),
		runner:     defaultRunner,
	}
}

// WithRunner sets a custom command runner (for testing).
func (e *Executor) WithRunner(runner Runner) {
	if runner != nil {
		e.runner = runner
	}
}

// ProbeDuration returns the container duration of a media file in seconds.
func (e *Executor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := e.runner(ctx, e.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}

// Slice cuts [start, end) out of source into dest with stream copy. Seeking
// before the input keeps the cut fast; stream copy lands on the nearest
// keyframe, which is acceptable for review clips.
func (e *Executor) Slice(ctx context.Context, source, dest string, start, end float64) error {
	if end <= start {
		return fmt.Errorf("slice: end %.2f must be after start %.2f", end, start)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("slice: ensure dest dir: %w", err)
	}
	_, err := e.runner(ctx, e.ffmpegBin,
		"-hide_banner", "-nostats", "-y",
		"-ss", formatSeconds(start),
		"-i", source,
		"-t", formatSeconds(end-start),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		dest,
	)
	if err != nil {
		return fmt.Errorf("slice clip: %w", err)
	}
	return nil
}

// BurnSubtitles re-encodes source with the SRT rendered into the video.
func (e *Executor) BurnSubtitles(ctx context.Context, source, srtPath, dest string, fontSize int) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("burn subtitles: ensure dest dir: %w", err)
	}
	filter := fmt.Sprintf("subtitles=%s", escapeFilterPath(srtPath))
	if fontSize > 0 {
		filter += fmt.Sprintf(":force_style='FontSize=%d'", fontSize)
	}
	_, err := e.runner(ctx, e.ffmpegBin,
		"-hide_banner", "-nostats", "-y",
		"-i", source,
		"-vf", filter,
		"-c:a", "copy",
		dest,
	)
	if err != nil {
		return fmt.Errorf("burn subtitles: %w", err)
	}
	return nil
}

// Export re-encodes source for a platform profile: scale to cover the target
// frame, center-crop to it, then encode with the profile's settings.
func (e *Executor) Export(ctx context.Context, source, dest string, profile config.ExportProfile) error {
	if profile.Width <= 0 || profile.Height <= 0 {
		return fmt.Errorf("export: profile %q has no frame size", profile.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("export: ensure dest dir: %w", err)
	}
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		profile.Width, profile.Height, profile.Width, profile.Height,
	)
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-i", source,
		"-vf", filter,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(profile.CRF),
		"-preset", profile.SpeedPreset,
		"-c:a", "aac",
	}
	if profile.AudioBitrate != "" {
		args = append(args, "-b:a", profile.AudioBitrate)
	}
	args = append(args, "-movflags", "+faststart", dest)
	if _, err := e.runner(ctx, e.ffmpegBin, args...); err != nil {
		return fmt.Errorf("export clip: %w", err)
	}
	return nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// escapeFilterPath quotes characters the subtitles filter treats specially.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
	)
	return replacer.Replace(path)
}
