package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https:// (got %q)", c.API.BaseURL)
	}
	if !strings.HasPrefix(c.API.WSURL, "ws://") && !strings.HasPrefix(c.API.WSURL, "wss://") {
		return fmt.Errorf("api.ws_url must start with ws:// or wss:// (got %q)", c.API.WSURL)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.TokenURL == "" {
		return nil
	}
	if c.Auth.Token != "" {
		return errors.New("auth.token and auth.token_url are mutually exclusive; configure one")
	}
	if c.Auth.ClientID == "" {
		return errors.New("auth.client_id must be set when auth.token_url is set")
	}
	if c.Auth.RefreshToken == "" {
		return errors.New("auth.refresh_token must be set when auth.token_url is set")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	if err := ensurePositiveMap(map[string]int{
		"api.request_timeout":         c.API.RequestTimeout,
		"generation.poll_interval":    c.Generation.PollInterval,
		"generation.poll_ceiling":     c.Generation.PollCeiling,
		"generation.default_duration": c.Generation.DefaultDuration,
		"history.cache_ttl":           c.History.CacheTTL,
		"history.limit":               c.History.Limit,
	}); err != nil {
		return err
	}
	if c.Generation.PollCeiling <= c.Generation.PollInterval {
		return errors.New("generation.poll_ceiling must be greater than generation.poll_interval")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
