package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/binfinder/binfinder/internal/cli/config"
	"github.com/binfinder/binfinder/internal/metrics"
	"github.com/binfinder/binfinder/internal/ui"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the binfinder web UI",
		Long: `Start a local web server with the binfinder interface.

The UI provides:
- Live item search with the container each item belongs in
- Container, item and advert management
- A rotating advert panel
- Prometheus metrics at /metrics`,
		Example: `  # Start UI on default port
  binfinder ui

  # Start on custom port
  binfinder ui --port 3000

  # Start without auto-opening browser
  binfinder ui --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload settings when the config file changes")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := cfg.UI.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	secret := cfg.UI.SessionSecret
	if secret == "" {
		logger.Warn("ui.session_secret is not set; sessions will not survive a restart")
		secret = generateSessionSecret()
	}

	collector := metrics.New(true)
	client, err := NewClient(cfg, logger, collector)
	if err != nil {
		return err
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	flags := cmd.Root().PersistentFlags()

	server := ui.NewServer(ui.Config{
		Client:        client,
		Metrics:       collector,
		Port:          port,
		Watch:         watch,
		SessionSecret: secret,
		Logger:        logger,
		ConfigFile:    config.GetConfigFileUsed(),
		Settings:      uiSettings(cfg),
		Reload: func() (ui.Settings, error) {
			next, err := config.LoadConfig(cfgFile, flags)
			if err != nil {
				return ui.Settings{}, err
			}
			return uiSettings(next), nil
		},
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting UI server on http://localhost:%d\n", port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

func uiSettings(cfg *config.Config) ui.Settings {
	return ui.Settings{
		Debounce:       cfg.Search.Debounce,
		AdvertRotation: cfg.UI.AdvertRotation,
		IdleTimeout:    cfg.UI.SessionIdleTimeout,
	}
}

// generateSessionSecret returns a random secret for this process only.
func generateSessionSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
