package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateSlicing(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.ChatThreshold < 0 {
		return errors.New("detection.chat_threshold must not be negative")
	}
	if d.AudioThreshold < 0 {
		return errors.New("detection.audio_threshold must not be negative")
	}
	if d.MinWindowSeconds <= 0 {
		return errors.New("detection.min_window_seconds must be positive")
	}
	if d.SmoothingWindowSeconds < 0 {
		return errors.New("detection.smoothing_window_seconds must not be negative")
	}
	if d.MinGapSeconds <= 0 {
		return errors.New("detection.min_gap_seconds must be positive")
	}
	if d.OverlapBonus < 0 {
		return errors.New("detection.overlap_bonus must not be negative")
	}
	if d.MaxCandidates < 0 {
		return errors.New("detection.max_candidates must not be negative")
	}
	if d.ChatBucketSeconds <= 0 {
		return errors.New("detection.chat_bucket_seconds must be positive")
	}
	if d.AudioMinSilenceSeconds <= 0 {
		return errors.New("detection.audio_min_silence_seconds must be positive")
	}
	if d.RelaxFactor <= 0 || d.RelaxFactor >= 1 {
		return errors.New("detection.relax_factor must be between 0 and 1 exclusive")
	}
	if d.MaxRelaxAttempts < 0 {
		return errors.New("detection.max_relax_attempts must not be negative")
	}
	return nil
}

func (c *Config) validateSlicing() error {
	s := c.Slicing
	if s.PreRollSeconds < 0 || s.PostRollSeconds < 0 {
		return errors.New("slicing.pre_roll_seconds and slicing.post_roll_seconds must not be negative")
	}
	if s.MinClipSeconds <= 0 {
		return errors.New("slicing.min_clip_seconds must be positive")
	}
	if s.MaxClipSeconds <= s.MinClipSeconds {
		return errors.New("slicing.max_clip_seconds must be greater than slicing.min_clip_seconds")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.Enabled && c.Subtitles.WhisperModel == "" {
		return errors.New("subtitles.whisper_model must be set when subtitles.enabled is true")
	}
	if c.Subtitles.FontSize <= 0 {
		return errors.New("subtitles.font_size must be positive")
	}
	return nil
}

func (c *Config) validateExport() error {
	if len(c.Export.Profiles) == 0 {
		return errors.New("export.profiles must include at least one profile")
	}
	seen := make(map[string]struct{}, len(c.Export.Profiles))
	for _, profile := range c.Export.Profiles {
		if profile.Name == "" {
			return errors.New("export profile name must be set")
		}
		if _, dup := seen[profile.Name]; dup {
			return fmt.Errorf("duplicate export profile %q", profile.Name)
		}
		seen[profile.Name] = struct{}{}
		if profile.Width <= 0 || profile.Height <= 0 {
			return fmt.Errorf("export profile %q dimensions must be positive", profile.Name)
		}
		if profile.CRF < 0 || profile.CRF > 51 {
			return fmt.Errorf("export profile %q crf must be between 0 and 51", profile.Name)
		}
	}
	return nil
}

func (c *Config) validateUpload() error {
	if !c.Upload.Enabled {
		return nil
	}
	if len(c.Upload.Platforms) == 0 {
		return errors.New("upload.platforms must include at least one platform when upload.enabled is true")
	}
	for _, platform := range c.Upload.Platforms {
		switch platform {
		case "youtube", "tiktok":
		default:
			return fmt.Errorf("upload.platforms contains unsupported platform %q", platform)
		}
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
