// Package publish uploads exported clips to short-form platforms through
// per-platform command line uploaders.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
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

// Result describes one completed publish.
type Result struct {
	Platform string
	URL      string
	DryRun   bool
}

// Publisher uploads a single file to one platform.
type Publisher interface {
	Platform() string
	Publish(ctx context.Context, filePath, title string) (Result, error)
}

// uploaderBinaries maps platform names to their upload CLIs.
var uploaderBinaries = map[string]string{
	"youtube": "youtubeuploader",
	"tiktok":  "tiktok-uploader",
}

type commandPublisher struct {
	platform string
	binary   string
	dryRun   bool
	runner   Runner
}

// New builds publishers for every configured platform. Unknown platforms are
// rejected by config validation before this runs.
func New(cfg *config.Config) []Publisher {
	publishers := make([]Publisher, 0, len(cfg.Upload.Platforms))
	for _, platform := range cfg.Upload.Platforms {
		binary, ok := uploaderBinaries[platform]
		if !ok {
			continue
		}
		publishers = append(publishers, &commandPublisher{
			platform: platform,
			binary:   binary,
			dryRun:   cfg.Upload.DryRun,
			runner:   defaultRunner,
		})
	}
	return publishers
}

// NewCommandPublisher builds a single publisher with an injectable runner.
// Used by tests and by callers that need one platform only.
func NewCommandPublisher(platform, binary string, dryRun bool, runner Runner) Publisher {
	if runner == nil {
		runner = defaultRunner
	}
	return &commandPublisher{platform: platform, binary: binary, dryRun: dryRun, runner: runner}
}

func (p *commandPublisher) Platform() string {
	return p.platform
}

func (p *commandPublisher) Publish(ctx context.Context, filePath, title string) (Result, error) {
	if p.dryRun {
		return Result{
			Platform: p.platform,
			URL:      fmt.Sprintf("dry-run://%s/%s", p.platform, strings.TrimPrefix(filePath, "/")),
			DryRun:   true,
		}, nil
	}

	out, err := p.runner(ctx, p.binary, p.buildArgs(filePath, title)...)
	if err != nil {
		return Result{}, fmt.Errorf("publish to %s: %w", p.platform, err)
	}
	return Result{Platform: p.platform, URL: extractURL(out)}, nil
}

func (p *commandPublisher) buildArgs(filePath, title string) []string {
	switch p.platform {
	case "youtube":
		return []string{"-filename", filePath, "-title", title, "-privacy", "public"}
	case "tiktok":
		return []string{"upload", "--video", filePath, "--title", title}
	default:
		return []string{filePath}
	}
}

// extractURL returns the first http(s) URL in uploader output, or empty.
func extractURL(output string) string {
	for _, field := range strings.Fields(output) {
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			return field
		}
	}
	return ""
}
