package config

const (
	defaultStagingDir         = "~/.local/share/clipforge/staging"
	defaultLibraryDir         = "~/clips"
	defaultLogDir             = "~/.local/share/clipforge/logs"
	defaultAPIBind            = "127.0.0.1:7512"
	defaultVODLimit           = 5
	defaultChatThreshold      = 10.0
	defaultAudioThreshold     = 0.5
	defaultMinWindowSeconds   = 5.0
	defaultSmoothingSeconds   = 10.0
	defaultOverlapBonus       = 10.0
	defaultMinGapSeconds      = 10.0
	defaultMaxCandidates      = 10
	defaultChatBucketSeconds  = 10.0
	defaultAudioNoiseFloorDB  = -30.0
	defaultAudioMinSilence    = 0.5
	defaultRelaxFactor        = 0.75
	defaultMaxRelaxAttempts   = 2
	defaultPreRollSeconds     = 5.0
	defaultPostRollSeconds    = 5.0
	defaultMinClipSeconds     = 10.0
	defaultMaxClipSeconds     = 60.0
	defaultWhisperModel       = "small"
	defaultSubtitleFontSize   = 24
	defaultNotifyTimeout      = 10
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Twitch: Twitch{
			VODLimit: defaultVODLimit,
		},
		Detection: Detection{
			ChatThreshold:          defaultChatThreshold,
			AudioThreshold:         defaultAudioThreshold,
			MinWindowSeconds:       defaultMinWindowSeconds,
			SmoothingWindowSeconds: defaultSmoothingSeconds,
			OverlapBonus:           defaultOverlapBonus,
			MinGapSeconds:          defaultMinGapSeconds,
			MaxCandidates:          defaultMaxCandidates,
			ChatBucketSeconds:      defaultChatBucketSeconds,
			AudioNoiseFloorDB:      defaultAudioNoiseFloorDB,
			AudioMinSilenceSeconds: defaultAudioMinSilence,
			RelaxFactor:            defaultRelaxFactor,
			MaxRelaxAttempts:       defaultMaxRelaxAttempts,
		},
		Slicing: Slicing{
			PreRollSeconds:  defaultPreRollSeconds,
			PostRollSeconds: defaultPostRollSeconds,
			MinClipSeconds:  defaultMinClipSeconds,
			MaxClipSeconds:  defaultMaxClipSeconds,
		},
		Subtitles: Subtitles{
			Enabled:      true,
			WhisperModel: defaultWhisperModel,
			BurnIn:       true,
			FontSize:     defaultSubtitleFontSize,
		},
		Export: Export{
			Profiles: []ExportProfile{
				{Name: "shorts", Width: 1080, Height: 1920, CRF: 23, SpeedPreset: "medium", AudioBitrate: "128k"},
				{Name: "tiktok", Width: 1080, Height: 1920, CRF: 23, SpeedPreset: "medium", AudioBitrate: "128k"},
			},
		},
		Upload: Upload{
			Enabled:   false,
			DryRun:    true,
			Platforms: []string{"youtube"},
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Ingest:         true,
			Detection:      true,
			Review:         true,
			Upload:         true,
			Queue:          true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
