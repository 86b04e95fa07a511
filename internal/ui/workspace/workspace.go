// Package workspace keeps the per-session state of the web UI: each browser
// session owns one Workspace with its own search resolver and advert carousel.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/binfinder/binfinder/internal/carousel"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/internal/resolver"
)

// Gauge receives the number of live workspaces.
type Gauge interface {
	SetWorkspaces(n int)
}

// Config configures a Registry.
type Config struct {
	Fetcher  resolver.Fetcher
	Adverts  carousel.Source
	Settings *LiveSettings
	// Inventory, when set, triggers a carousel reload on advert changes.
	Inventory *notifier.Notifier
	Observer  resolver.Observer
	Gauge     Gauge
	Logger    *slog.Logger
	// Scheduler overrides the resolver's timer, for tests.
	Scheduler resolver.Scheduler
}

// Workspace is the state owned by one browser session.
type Workspace struct {
	ID       string
	Resolver *resolver.Resolver
	Carousel *carousel.Carousel

	// guarded by Registry.mu
	refs     int
	lastSeen time.Time

	rotMu    sync.Mutex
	rotRefs  int
	rotStop  context.CancelFunc
	rotDone  chan struct{}
	adverts  carousel.Source
	settings *LiveSettings
	events   *notifier.Notifier
}

// AttachCarousel starts advert loading and rotation for this workspace if it
// is not already running. The returned func detaches; rotation stops when the
// last attachment is released.
func (w *Workspace) AttachCarousel() (detach func()) {
	w.rotMu.Lock()
	defer w.rotMu.Unlock()

	w.rotRefs++
	if w.rotRefs == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		w.rotStop = cancel
		w.rotDone = make(chan struct{})
		go w.runCarousel(ctx, w.rotDone)
	}

	var once sync.Once
	return func() {
		once.Do(w.detachCarousel)
	}
}

func (w *Workspace) detachCarousel() {
	w.rotMu.Lock()
	if w.rotRefs > 0 {
		w.rotRefs--
	}
	if w.rotRefs > 0 || w.rotStop == nil {
		w.rotMu.Unlock()
		return
	}
	stop, done := w.rotStop, w.rotDone
	w.rotStop, w.rotDone = nil, nil
	w.rotMu.Unlock()

	stop()
	<-done
}

func (w *Workspace) runCarousel(ctx context.Context, done chan struct{}) {
	defer close(done)

	var changes chan struct{}
	if w.events != nil {
		changes = w.events.Subscribe(notifier.TopicAdverts)
		defer w.events.Unsubscribe(changes)
	}

	reset := w.settings.Subscribe()
	defer w.settings.Unsubscribe(reset)

	w.Carousel.Reload(ctx, w.adverts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Carousel.Rotate(ctx, func() time.Duration { return w.settings.Load().AdvertRotation }, reset)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			w.Carousel.Reload(ctx, w.adverts)
		}
	}
}

func (w *Workspace) close() {
	w.rotMu.Lock()
	stop, done := w.rotStop, w.rotDone
	w.rotStop, w.rotDone, w.rotRefs = nil, nil, 0
	w.rotMu.Unlock()
	if stop != nil {
		stop()
		<-done
	}

	w.Resolver.Close()
	w.Carousel.Close()
}

// Registry owns every live workspace.
type Registry struct {
	cfg Config
	now func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
	closed     bool
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Settings == nil {
		cfg.Settings = NewLiveSettings(Settings{
			Debounce:       resolver.DefaultDebounce,
			AdvertRotation: 8 * time.Second,
			IdleTimeout:    30 * time.Minute,
		})
	}
	return &Registry{
		cfg:        cfg,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it on first use, and marks it
// as seen.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

// Acquire is Get for long-lived streams: the workspace is not swept until
// the matching Release.
func (r *Registry) Acquire(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.getLocked(id)
	ws.refs++
	return ws
}

// Release ends an Acquire.
func (r *Registry) Release(ws *Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws.refs > 0 {
		ws.refs--
	}
	ws.lastSeen = r.now()
}

func (r *Registry) getLocked(id string) *Workspace {
	if ws, ok := r.workspaces[id]; ok {
		ws.lastSeen = r.now()
		return ws
	}

	settings := r.cfg.Settings
	opts := []resolver.Option{
		resolver.WithDebounceFunc(func() time.Duration { return settings.Load().Debounce }),
		resolver.WithLogger(r.cfg.Logger.With("workspace", id)),
	}
	if r.cfg.Observer != nil {
		opts = append(opts, resolver.WithObserver(r.cfg.Observer))
	}
	if r.cfg.Scheduler != nil {
		opts = append(opts, resolver.WithScheduler(r.cfg.Scheduler))
	}

	ws := &Workspace{
		ID:       id,
		Resolver: resolver.New(r.cfg.Fetcher, opts...),
		Carousel: carousel.New(r.cfg.Logger),
		lastSeen: r.now(),
		adverts:  r.cfg.Adverts,
		settings: settings,
		events:   r.cfg.Inventory,
	}
	if r.closed {
		// Serve the request but never register: the registry is shutting down.
		ws.close()
		return ws
	}
	r.workspaces[id] = ws
	r.cfg.Logger.Debug("workspace created", "workspace", id)
	r.reportLocked()
	return ws
}

// Sweep closes workspaces with no open streams that have been idle longer
// than the configured idle timeout. It returns how many were closed.
func (r *Registry) Sweep() int {
	idle := r.cfg.Settings.Load().IdleTimeout

	r.mu.Lock()
	cutoff := r.now().Add(-idle)
	var expired []*Workspace
	for id, ws := range r.workspaces {
		if ws.refs == 0 && ws.lastSeen.Before(cutoff) {
			expired = append(expired, ws)
			delete(r.workspaces, id)
		}
	}
	r.reportLocked()
	r.mu.Unlock()

	for _, ws := range expired {
		r.cfg.Logger.Debug("workspace expired", "workspace", ws.ID)
		ws.close()
	}
	return len(expired)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Close closes every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	all := make([]*Workspace, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		all = append(all, ws)
	}
	r.workspaces = make(map[string]*Workspace)
	r.reportLocked()
	r.mu.Unlock()

	for _, ws := range all {
		ws.close()
	}
}

func (r *Registry) reportLocked() {
	if r.cfg.Gauge != nil {
		r.cfg.Gauge.SetWorkspaces(len(r.workspaces))
	}
}
