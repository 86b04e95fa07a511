// Package ui provides the binfinder web interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/inventory"
	"github.com/binfinder/binfinder/internal/metrics"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/internal/ui/router"
	"github.com/binfinder/binfinder/internal/ui/workspace"
)

// SweepSchedule is how often idle workspaces are collected.
const SweepSchedule = "@every 1m"

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// Settings are the runtime settings hot reload can change.
type Settings = workspace.Settings

// Config holds configuration for the UI server.
type Config struct {
	Client *api.Client
	// Metrics is optional; when nil /metrics is not served.
	Metrics       *metrics.Collector
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
	// ConfigFile is watched for changes when Watch is set.
	ConfigFile string
	Settings   Settings
	// Reload re-reads the configuration after ConfigFile changes.
	Reload func() (Settings, error)
}

// Server is the main UI server.
type Server struct {
	sessionStore *sessions.CookieStore
	inventory    *inventory.Service
	registry     *workspace.Registry
	settings     *workspace.LiveSettings
	metrics      *metrics.Collector
	port         int
	watch        bool
	configFile   string
	reload       func() (Settings, error)
	logger       *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	service := inventory.New(cfg.Client, notifier.New(), logger)
	settings := workspace.NewLiveSettings(cfg.Settings)

	wsCfg := workspace.Config{
		Fetcher:   cfg.Client,
		Adverts:   cfg.Client,
		Settings:  settings,
		Inventory: service.Notifier(),
		Logger:    logger,
	}
	if cfg.Metrics != nil {
		wsCfg.Observer = cfg.Metrics
		wsCfg.Gauge = cfg.Metrics
	}

	return &Server{
		sessionStore: sessionStore,
		inventory:    service,
		registry:     workspace.NewRegistry(wsCfg),
		settings:     settings,
		metrics:      cfg.Metrics,
		port:         cfg.Port,
		watch:        cfg.Watch,
		configFile:   cfg.ConfigFile,
		reload:       cfg.Reload,
		logger:       logger,
	}
}

// Handler returns the server's routes wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := router.Deps{
		Registry:     s.registry,
		Inventory:    s.inventory,
		SessionStore: s.sessionStore,
		Logger:       s.logger,
	}
	if s.metrics != nil {
		deps.Metrics = s.metrics.Handler()
	}
	router.SetupRoutes(r, deps)

	return r
}

// Settings returns the settings currently in effect.
func (s *Server) Settings() Settings {
	return s.settings.Load()
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper, err := s.startSweeper()
	if err != nil {
		return err
	}

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		err := srv.Shutdown(shutdownCtx)

		<-sweeper.Stop().Done()
		s.registry.Close()
		s.inventory.Notifier().Close()
		return err
	})

	return eg.Wait()
}

// startSweeper schedules the idle workspace sweep.
func (s *Server) startSweeper() (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(SweepSchedule, s.sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule workspace sweep: %w", err)
	}
	c.Start()
	return c, nil
}

func (s *Server) sweep() {
	if n := s.registry.Sweep(); n > 0 {
		s.logger.Debug("closed idle workspaces", "count", n, "remaining", s.registry.Len())
	}
}

// reloadSettings re-reads the configuration and swaps the live settings.
// A failed reload keeps the previous settings.
func (s *Server) reloadSettings() {
	next, err := s.reload()
	if err != nil {
		s.logger.Error("config reload failed, keeping previous settings", "file", s.configFile, "error", err)
		return
	}
	s.settings.Store(next)
	s.logger.Info("settings reloaded",
		"debounce", next.Debounce,
		"advert_rotation", next.AdvertRotation,
		"idle_timeout", next.IdleTimeout,
	)
}

// watchConfig reloads settings when the config file changes. The parent
// directory is watched so editors that replace the file on save are seen.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "file", target, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("config file changed, reloading", "file", event.Name)
				s.reloadSettings()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
