package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/cli/config"
	"github.com/binfinder/binfinder/internal/cli/output"
	"github.com/binfinder/binfinder/internal/inventory"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Client    *api.Client
	Inventory *inventory.Service
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext with a backend client and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client, err := NewClient(cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Client:    client,
		Inventory: inventory.New(client, nil, logger),
		Renderer:  r,
	}, nil
}

// NewClient builds the backend client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, observer api.RequestObserver) (*api.Client, error) {
	b := cfg.API.Breaker
	return api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Breaker: api.BreakerConfig{
			Enabled:          b.Enabled,
			MaxRequests:      b.MaxRequests,
			Interval:         b.Interval,
			Timeout:          b.Timeout,
			FailureThreshold: b.FailureThreshold,
			MinRequests:      b.MinRequests,
		},
		Logger:   logger,
		Observer: observer,
	})
}

// getConfig returns the current configuration, or the defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			OutputFormat: config.DefaultOutput,
			API:          config.APIConfig{BaseURL: config.DefaultBaseURL, Timeout: config.DefaultTimeout},
			Search:       config.SearchConfig{Debounce: config.DefaultDebounce},
		}
	}
	return cfg
}
