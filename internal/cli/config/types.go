// Package config provides configuration management for the binfinder CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	API          APIConfig    `koanf:"api"`
	Search       SearchConfig `koanf:"search"`
	UI           UIConfig     `koanf:"ui"`
	Log          LogConfig    `koanf:"log"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory when there is none.
	ProjectRoot string `koanf:"-"`
}

// APIConfig locates and tunes access to the inventory backend.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker around backend requests.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold float64       `koanf:"failure_threshold"`
	MinRequests      uint32        `koanf:"min_requests"`
}

// SearchConfig tunes the search box.
type SearchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port               int           `koanf:"port"`
	AutoOpen           bool          `koanf:"auto_open"`
	Watch              bool          `koanf:"watch"`
	SessionSecret      string        `koanf:"session_secret"`
	AdvertRotation     time.Duration `koanf:"advert_rotation"`
	SessionIdleTimeout time.Duration `koanf:"session_idle_timeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default configuration values.
const (
	DefaultBaseURL            = "http://localhost:8080/api"
	DefaultTimeout            = 10 * time.Second
	DefaultDebounce           = 300 * time.Millisecond
	DefaultPort               = 8765
	DefaultAdvertRotation     = 8 * time.Second
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultOutput             = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames are searched in order in each candidate directory.
var ConfigFileNames = []string{"binfinder.yaml", "binfinder.yml"}

// Defaults returns the built-in configuration values keyed by koanf path.
func Defaults() map[string]any {
	return defaults()
}

func defaults() map[string]any {
	return map[string]any{
		"verbose":                       false,
		"output":                        DefaultOutput,
		"api.base_url":                  DefaultBaseURL,
		"api.timeout":                   DefaultTimeout.String(),
		"api.breaker.enabled":           true,
		"api.breaker.max_requests":      5,
		"api.breaker.interval":          "30s",
		"api.breaker.timeout":           "60s",
		"api.breaker.failure_threshold": 0.8,
		"api.breaker.min_requests":      5,
		"search.debounce":               DefaultDebounce.String(),
		"ui.port":                       DefaultPort,
		"ui.auto_open":                  true,
		"ui.watch":                      true,
		"ui.session_secret":             "",
		"ui.advert_rotation":            DefaultAdvertRotation.String(),
		"ui.session_idle_timeout":       DefaultSessionIdleTimeout.String(),
		"log.level":                     DefaultLogLevel,
		"log.format":                    DefaultLogFormat,
	}
}
