package config

import (
	"os"
	"strings"
)

// normalize expands path fields, trims string values, and applies environment
// fallbacks for Twitch credentials so secrets can stay out of the config file.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)

	c.Twitch.ClientID = strings.TrimSpace(c.Twitch.ClientID)
	c.Twitch.AccessToken = strings.TrimSpace(c.Twitch.AccessToken)
	c.Twitch.ChannelID = strings.TrimSpace(c.Twitch.ChannelID)
	if c.Twitch.ClientID == "" {
		c.Twitch.ClientID = strings.TrimSpace(os.Getenv("TWITCH_CLIENT_ID"))
	}
	if c.Twitch.AccessToken == "" {
		c.Twitch.AccessToken = strings.TrimSpace(os.Getenv("TWITCH_ACCESS_TOKEN"))
	}

	c.Subtitles.WhisperModel = strings.TrimSpace(c.Subtitles.WhisperModel)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	platforms := make([]string, 0, len(c.Upload.Platforms))
	for _, platform := range c.Upload.Platforms {
		if trimmed := strings.ToLower(strings.TrimSpace(platform)); trimmed != "" {
			platforms = append(platforms, trimmed)
		}
	}
	c.Upload.Platforms = platforms

	for i := range c.Export.Profiles {
		c.Export.Profiles[i].Name = strings.ToLower(strings.TrimSpace(c.Export.Profiles[i].Name))
		c.Export.Profiles[i].SpeedPreset = strings.TrimSpace(c.Export.Profiles[i].SpeedPreset)
		c.Export.Profiles[i].AudioBitrate = strings.TrimSpace(c.Export.Profiles[i].AudioBitrate)
	}
	return nil
}
