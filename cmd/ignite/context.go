package main

import (
	"log/slog"
	"strings"
	"sync"

	"ignite/internal/auth"
	"ignite/internal/client"
	"ignite/internal/config"
	"ignite/internal/historycache"
	"ignite/internal/logging"
	"ignite/internal/logstream"
	"ignite/internal/notifications"
	"ignite/internal/runstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewWithFile(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) tokenSource() (auth.TokenSource, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return auth.FromConfig(cfg)
}

func (c *commandContext) apiClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	tokens, err := c.tokenSource()
	if err != nil {
		return nil, err
	}
	return client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Tokens:  tokens,
		Logger:  c.logger(),
	})
}

func (c *commandContext) logClient() (*logstream.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	tokens, err := c.tokenSource()
	if err != nil {
		return nil, err
	}
	return logstream.New(logstream.Config{
		WSURL:  cfg.API.WSURL,
		Tokens: tokens,
		Logger: c.logger(),
	})
}

func (c *commandContext) openRunStore() (*runstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return runstore.Open(cfg.RunStorePath())
}

func (c *commandContext) openHistoryCache() (*historycache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return historycache.New(cfg.HistoryCachePath(), cfg.HistoryTTL(), c.logger())
}

func (c *commandContext) notifier() notifications.Service {
	cfg, err := c.ensureConfig()
	if err != nil {
		return notifications.NewNoop()
	}
	return notifications.NewService(cfg)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
