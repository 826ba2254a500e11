// Package whisper wraps the whisper command line tool for SRT transcription.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
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

// DefaultModel is used when the config leaves the model unset.
const DefaultModel = "small"

// Service transcribes clips to SRT subtitle files.
type Service struct {
	binary string
	model  string
	runner Runner
}

// New constructs a Service. Empty arguments fall back to defaults.
func New(binary, model string) *Service {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = DefaultModel
	}
	return &Service{binary: binary, model: model, runner: defaultRunner}
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.model
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner Runner) {
	if runner != nil {
		s.runner = runner
	}
}

// Transcribe runs whisper over the clip and returns the SRT path. whisper
// names its outputs after the input basename inside outputDir.
func (s *Service) Transcribe(ctx context.Context, clipPath, outputDir string) (string, error) {
	if clipPath == "" {
		return "", fmt.Errorf("transcribe: clip path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(clipPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	if _, err := s.runner(ctx, s.binary,
		clipPath,
		"--model", s.model,
		"--output_format", "srt",
		"--output_dir", outputDir,
	); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	return filepath.Join(outputDir, base+".srt"), nil
}
