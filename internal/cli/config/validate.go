package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if b := c.API.Breaker; b.Enabled {
		if b.FailureThreshold <= 0 || b.FailureThreshold > 1 {
			errs = append(errs, fmt.Errorf("api.breaker.failure_threshold must be in (0,1], got %v", b.FailureThreshold))
		}
		if b.Timeout <= 0 {
			errs = append(errs, errors.New("api.breaker.timeout must be positive"))
		}
	}
	if c.Search.Debounce <= 0 {
		errs = append(errs, errors.New("search.debounce must be positive"))
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port out of range: %d", c.UI.Port))
	}
	if c.UI.AdvertRotation <= 0 {
		errs = append(errs, errors.New("ui.advert_rotation must be positive"))
	}
	if c.UI.SessionIdleTimeout <= 0 {
		errs = append(errs, errors.New("ui.session_idle_timeout must be positive"))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	switch c.OutputFormat {
	case "auto", "text", "markdown", "json":
	default:
		errs = append(errs, fmt.Errorf("output must be one of auto, text, markdown, json, got %q", c.OutputFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
