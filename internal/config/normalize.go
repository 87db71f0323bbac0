package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeAuth()
	c.normalizeGeneration()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.WSURL = strings.TrimRight(strings.TrimSpace(c.API.WSURL), "/")
	if c.API.WSURL == "" {
		c.API.WSURL = deriveWSURL(c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
}

func deriveWSURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.Token = strings.TrimSpace(c.Auth.Token)
	if c.Auth.Token == "" {
		if value, ok := os.LookupEnv("IGNITE_API_TOKEN"); ok {
			c.Auth.Token = strings.TrimSpace(value)
		}
	}
	c.Auth.TokenURL = strings.TrimSpace(c.Auth.TokenURL)
	c.Auth.ClientID = strings.TrimSpace(c.Auth.ClientID)
	c.Auth.ClientSecret = strings.TrimSpace(c.Auth.ClientSecret)
	c.Auth.RefreshToken = strings.TrimSpace(c.Auth.RefreshToken)
	c.Auth.UserID = strings.TrimSpace(c.Auth.UserID)
}

func (c *Config) normalizeGeneration() {
	if c.Generation.PollInterval <= 0 {
		c.Generation.PollInterval = defaultPollInterval
	}
	if c.Generation.PollCeiling <= 0 {
		c.Generation.PollCeiling = defaultPollCeiling
	}
	if c.Generation.DefaultDuration <= 0 {
		c.Generation.DefaultDuration = defaultDuration
	}
	c.Generation.VideoModel = strings.TrimSpace(c.Generation.VideoModel)
	if c.Generation.VideoModel == "" {
		c.Generation.VideoModel = defaultVideoModel
	}
	c.Generation.ImageModel = strings.TrimSpace(c.Generation.ImageModel)
	if c.Generation.ImageModel == "" {
		c.Generation.ImageModel = defaultImageModel
	}
	c.Generation.AspectRatio = strings.TrimSpace(c.Generation.AspectRatio)
	if c.Generation.AspectRatio == "" {
		c.Generation.AspectRatio = defaultAspectRatio
	}
	c.Generation.MusicMood = strings.TrimSpace(c.Generation.MusicMood)
	if c.Generation.MusicMood == "" {
		c.Generation.MusicMood = defaultMusicMood
	}
}

func (c *Config) normalizeHistory() {
	if c.History.CacheTTL <= 0 {
		c.History.CacheTTL = defaultHistoryCacheTTL
	}
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
