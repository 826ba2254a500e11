package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Twitch contains credentials and channel settings for VOD ingestion.
type Twitch struct {
	ClientID    string `toml:"client_id"`
	AccessToken string `toml:"access_token"`
	ChannelID   string `toml:"channel_id"`
	VODLimit    int    `toml:"vod_limit"`
}

// Detection contains highlight detector tuning. The thresholds were never
// rigorously validated upstream; treat them as starting points.
type Detection struct {
	ChatThreshold          float64 `toml:"chat_threshold"`
	AudioThreshold         float64 `toml:"audio_threshold"`
	MinWindowSeconds       float64 `toml:"min_window_seconds"`
	SmoothingWindowSeconds float64 `toml:"smoothing_window_seconds"`
	OverlapBonus           float64 `toml:"overlap_bonus"`
	MinGapSeconds          float64 `toml:"min_gap_seconds"`
	MaxCandidates          int     `toml:"max_candidates"`
	ChatBucketSeconds      float64 `toml:"chat_bucket_seconds"`
	AudioNoiseFloorDB      float64 `toml:"audio_noise_floor_db"`
	AudioMinSilenceSeconds float64 `toml:"audio_min_silence_seconds"`
	// RelaxFactor and MaxRelaxAttempts drive the zero-candidate retry loop
	// in the detection stage. The detector itself never relaxes thresholds.
	RelaxFactor      float64 `toml:"relax_factor"`
	MaxRelaxAttempts int     `toml:"max_relax_attempts"`
}

// Slicing contains clip extraction settings.
type Slicing struct {
	PreRollSeconds  float64 `toml:"pre_roll_seconds"`
	PostRollSeconds float64 `toml:"post_roll_seconds"`
	MinClipSeconds  float64 `toml:"min_clip_seconds"`
	MaxClipSeconds  float64 `toml:"max_clip_seconds"`
}

// Subtitles contains transcription and burn-in settings.
type Subtitles struct {
	Enabled      bool   `toml:"enabled"`
	WhisperModel string `toml:"whisper_model"`
	BurnIn       bool   `toml:"burn_in"`
	FontSize     int    `toml:"font_size"`
}

// ExportProfile describes one platform output preset.
type ExportProfile struct {
	Name         string `toml:"name"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	CRF          int    `toml:"crf"`
	SpeedPreset  string `toml:"speed_preset"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Export contains the platform preset list.
type Export struct {
	Profiles []ExportProfile `toml:"profiles"`
}

// Upload contains publish settings.
type Upload struct {
	Enabled   bool     `toml:"enabled"`
	DryRun    bool     `toml:"dry_run"`
	Platforms []string `toml:"platforms"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Ingest         bool   `toml:"ingest"`
	Detection      bool   `toml:"detection"`
	Review         bool   `toml:"review"`
	Upload         bool   `toml:"upload"`
	Queue          bool   `toml:"queue"`
	Errors         bool   `toml:"errors"`
}

// Workflow contains daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Clipforge.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Twitch        Twitch        `toml:"twitch"`
	Detection     Detection     `toml:"detection"`
	Slicing       Slicing       `toml:"slicing"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Export        Export        `toml:"export"`
	Upload        Upload        `toml:"upload"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// LibraryDir is created on a best-effort basis so the daemon can run when
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string { return "ffmpeg" }

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string { return "ffprobe" }

// YtdlpBinary returns the VOD downloader executable name.
func (c *Config) YtdlpBinary() string { return "yt-dlp" }

// ChatDownloaderBinary returns the chat log downloader executable name.
func (c *Config) ChatDownloaderBinary() string { return "TwitchDownloaderCLI" }

// WhisperBinary returns the transcription executable name.
func (c *Config) WhisperBinary() string { return "whisper" }

// Profile returns the export profile with the given name.
func (c *Config) Profile(name string) (ExportProfile, bool) {
	for _, profile := range c.Export.Profiles {
		if strings.EqualFold(profile.Name, name) {
			return profile, true
		}
	}
	return ExportProfile{}, false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
