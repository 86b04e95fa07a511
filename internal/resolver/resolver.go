// Package resolver implements debounced item search joined with containers.
//
// A Resolver turns a stream of query changes into search cycles. Each cycle
// fetches the items matching the query and the full container list
// concurrently, joins them by container id and publishes the enriched
// results. Rapid changes are coalesced by a quiet period, and a cycle that
// completes after a newer one was launched is discarded.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/binfinder/binfinder/internal/api"
	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/pkg/core"
)

// DefaultDebounce is the quiet period between the last query change and the
// start of a cycle.
const DefaultDebounce = 300 * time.Millisecond

// ErrorPrefix starts every cycle error message.
const ErrorPrefix = "Failed to fetch filtered items: "

// Cycle outcomes reported to the Observer.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// Fetcher is the backend surface a Resolver needs. *api.Client satisfies it.
type Fetcher interface {
	SearchItems(ctx context.Context, name string) ([]core.Item, error)
	ListContainers(ctx context.Context) ([]core.Container, error)
}

// Observer is told about every finished cycle.
type Observer interface {
	ObserveCycle(outcome string, elapsed time.Duration)
	ObserveStale()
}

// Scheduler runs f once after d. The returned stop func cancels the call and
// reports whether it was still pending.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc is the Scheduler backed by time.AfterFunc.
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// State is a snapshot of what the search view shows.
type State struct {
	Query   string
	Results []core.EnrichedItem
	Loading bool
	// Error is empty unless the latest cycle failed. When set, Results is empty.
	Error string
	// Generation identifies the latest launched cycle.
	Generation uint64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDebounce sets a fixed quiet period.
func WithDebounce(d time.Duration) Option {
	return func(r *Resolver) {
		r.debounce = func() time.Duration { return d }
	}
}

// WithDebounceFunc reads the quiet period each time a cycle is scheduled, so
// a reloaded setting applies to the next keystroke.
func WithDebounceFunc(f func() time.Duration) Option {
	return func(r *Resolver) {
		r.debounce = f
	}
}

// WithScheduler replaces the timer implementation.
func WithScheduler(s Scheduler) Option {
	return func(r *Resolver) {
		r.schedule = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithObserver sets a cycle observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// Resolver owns the search state for one view.
type Resolver struct {
	fetcher  Fetcher
	debounce func() time.Duration
	schedule Scheduler
	logger   *slog.Logger
	observer Observer
	notify   *notifier.Notifier

	mu    sync.Mutex
	state State
	// seq is the generation of the latest launched cycle.
	seq uint64
	// token identifies the pending timer; a fired timer with a stale token is ignored.
	token     uint64
	stopTimer func() bool
	cancel    context.CancelFunc
	closed    bool

	wg sync.WaitGroup
}

// New creates a Resolver with an empty state.
func New(fetcher Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:  fetcher,
		debounce: func() time.Duration { return DefaultDebounce },
		schedule: AfterFunc,
		logger:   slog.New(slog.DiscardHandler),
		notify:   notifier.New(),
		state:    State{Results: []core.EnrichedItem{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns a snapshot of the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe returns a channel pinged after every state change.
func (r *Resolver) Subscribe() chan struct{} {
	return r.notify.Subscribe(notifier.TopicSearch)
}

// Unsubscribe releases a channel returned by Subscribe.
func (r *Resolver) Unsubscribe(ch chan struct{}) {
	r.notify.Unsubscribe(ch)
}

// Set records a query change. A blank query clears the results at once and
// issues no requests; anything else starts a cycle once the quiet period has
// passed without a further change. Setting the current query again is a no-op.
func (r *Resolver) Set(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || query == r.state.Query {
		return
	}
	r.state.Query = query
	r.stopPendingLocked()

	if strings.TrimSpace(query) == "" {
		r.seq++
		r.cancelInflightLocked()
		r.state.Results = []core.EnrichedItem{}
		r.state.Loading = false
		r.state.Error = ""
		r.state.Generation = r.seq
		r.notify.Broadcast(notifier.TopicSearch)
		return
	}

	r.token++
	token := r.token
	r.stopTimer = r.schedule(r.debounce(), func() { r.fire(token) })
}

// Refresh re-runs the current query immediately, skipping the quiet period.
func (r *Resolver) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || strings.TrimSpace(r.state.Query) == "" {
		return
	}
	r.stopPendingLocked()
	r.launchLocked()
}

// Close stops pending timers, cancels in-flight requests, waits for cycle
// goroutines and closes subscriber channels.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.stopPendingLocked()
	r.cancelInflightLocked()
	r.mu.Unlock()

	r.wg.Wait()
	r.notify.Close()
}

func (r *Resolver) fire(token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || token != r.token {
		return
	}
	r.stopTimer = nil
	r.launchLocked()
}

func (r *Resolver) launchLocked() {
	r.seq++
	gen := r.seq
	query := r.state.Query

	r.cancelInflightLocked()
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.state.Loading = true
	r.state.Error = ""
	r.state.Generation = gen
	r.notify.Broadcast(notifier.TopicSearch)

	r.logger.Debug("search cycle started", "generation", gen, "query", query)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		start := time.Now()
		results, err := Resolve(ctx, r.fetcher, query)
		r.commit(gen, results, err, time.Since(start))
	}()
}

func (r *Resolver) commit(gen uint64, results []core.EnrichedItem, err error, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if gen != r.seq {
		r.logger.Debug("discarding stale search result", "generation", gen, "latest", r.seq)
		if r.observer != nil {
			r.observer.ObserveStale()
		}
		return
	}
	r.cancel = nil

	outcome := OutcomeMatched
	r.state.Loading = false
	if err != nil {
		outcome = OutcomeFailed
		r.state.Results = []core.EnrichedItem{}
		r.state.Error = FormatError(err)
		r.logger.Warn("search cycle failed", "generation", gen, "query", r.state.Query, "error", err)
	} else {
		if len(results) == 0 {
			outcome = OutcomeEmpty
		}
		r.state.Results = results
		r.state.Error = ""
		r.logger.Debug("search cycle finished", "generation", gen, "results", len(results), "duration", elapsed)
	}

	if r.observer != nil {
		r.observer.ObserveCycle(outcome, elapsed)
	}
	r.notify.Broadcast(notifier.TopicSearch)
}

func (r *Resolver) stopPendingLocked() {
	r.token++
	if r.stopTimer != nil {
		r.stopTimer()
		r.stopTimer = nil
	}
}

func (r *Resolver) cancelInflightLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Resolve runs one cycle without debouncing: it fetches matching items and
// all containers concurrently and joins them. Either request failing fails the
// whole call and cancels the other. A blank query returns no results and makes
// no requests.
func Resolve(ctx context.Context, f Fetcher, query string) ([]core.EnrichedItem, error) {
	if strings.TrimSpace(query) == "" {
		return []core.EnrichedItem{}, nil
	}

	var (
		items      []core.Item
		containers []core.Container
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = f.SearchItems(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		containers, err = f.ListContainers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return core.JoinContainers(items, containers), nil
}

// FormatError renders a cycle failure for display.
func FormatError(err error) string {
	return ErrorPrefix + api.Message(err)
}
