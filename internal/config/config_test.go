package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("expected exists=false for missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Detection.ChatThreshold != defaultChatThreshold {
		t.Errorf("chat threshold = %v, want default %v", cfg.Detection.ChatThreshold, defaultChatThreshold)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
staging_dir = "` + dir + `/staging"
library_dir = "` + dir + `/clips"
log_dir = "` + dir + `/logs"

[detection]
chat_threshold = 25.0
max_candidates = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Detection.ChatThreshold != 25.0 {
		t.Errorf("chat threshold = %v, want 25.0", cfg.Detection.ChatThreshold)
	}
	if cfg.Detection.MaxCandidates != 3 {
		t.Errorf("max candidates = %v, want 3", cfg.Detection.MaxCandidates)
	}
	// Untouched sections keep defaults.
	if cfg.Slicing.MinClipSeconds != defaultMinClipSeconds {
		t.Errorf("min clip seconds = %v, want default", cfg.Slicing.MinClipSeconds)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"negative chat threshold", func(c *Config) { c.Detection.ChatThreshold = -1 }, "chat_threshold"},
		{"zero min window", func(c *Config) { c.Detection.MinWindowSeconds = 0 }, "min_window_seconds"},
		{"zero min gap", func(c *Config) { c.Detection.MinGapSeconds = 0 }, "min_gap_seconds"},
		{"relax factor one", func(c *Config) { c.Detection.RelaxFactor = 1 }, "relax_factor"},
		{"max below min clip", func(c *Config) { c.Slicing.MaxClipSeconds = 5 }, "max_clip_seconds"},
		{"no export profiles", func(c *Config) { c.Export.Profiles = nil }, "export.profiles"},
		{"bad upload platform", func(c *Config) {
			c.Upload.Enabled = true
			c.Upload.Platforms = []string{"myspace"}
		}, "platform"},
		{"zero poll interval", func(c *Config) { c.Workflow.QueuePollInterval = 0 }, "queue_poll_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error %q does not mention %q", err, tt.wantKey)
			}
		})
	}
}

func TestTwitchCredentialEnvFallback(t *testing.T) {
	t.Setenv("TWITCH_CLIENT_ID", "env-client")
	t.Setenv("TWITCH_ACCESS_TOKEN", "env-token")

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Twitch.ClientID != "env-client" {
		t.Errorf("client id = %q, want env fallback", cfg.Twitch.ClientID)
	}
	if cfg.Twitch.AccessToken != "env-token" {
		t.Errorf("access token = %q, want env fallback", cfg.Twitch.AccessToken)
	}
}

func TestProfileLookup(t *testing.T) {
	cfg := Default()
	profile, ok := cfg.Profile("SHORTS")
	if !ok {
		t.Fatal("expected shorts profile")
	}
	if profile.Width != 1080 || profile.Height != 1920 {
		t.Errorf("profile dimensions = %dx%d, want 1080x1920", profile.Width, profile.Height)
	}
	if _, ok := cfg.Profile("nope"); ok {
		t.Error("unexpected profile match")
	}
}
