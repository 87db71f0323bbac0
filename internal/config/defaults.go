package config

const (
	defaultBaseURL         = "https://api.igniteai.app"
	defaultRequestTimeout  = 30
	defaultCacheDir        = "~/.cache/ignite"
	defaultDataDir         = "~/.local/share/ignite"
	defaultLogDir          = "~/.local/share/ignite/logs"
	defaultDownloadDir     = "."
	defaultPollInterval    = 3
	defaultPollCeiling     = 600
	defaultDuration        = 15
	defaultVideoModel      = "veo-3.1-fast-generate-preview"
	defaultImageModel      = "gemini-2.5-flash-image"
	defaultAspectRatio     = "9:16"
	defaultMusicMood       = "Energetic"
	defaultHistoryCacheTTL = 300
	defaultHistoryLimit    = 20
	defaultNotifyTimeout   = 10
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			CacheDir:    defaultCacheDir,
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			DownloadDir: defaultDownloadDir,
		},
		Generation: Generation{
			PollInterval:    defaultPollInterval,
			PollCeiling:     defaultPollCeiling,
			DefaultDuration: defaultDuration,
			VideoModel:      defaultVideoModel,
			ImageModel:      defaultImageModel,
			AspectRatio:     defaultAspectRatio,
			MusicMood:       defaultMusicMood,
		},
		History: History{
			CacheTTL: defaultHistoryCacheTTL,
			Limit:    defaultHistoryLimit,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completion:     true,
			Failure:        true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
