// Package carousel holds the rotating advert display state.
package carousel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/binfinder/binfinder/internal/notifier"
	"github.com/binfinder/binfinder/pkg/core"
)

// LoadError is shown when adverts cannot be fetched.
const LoadError = "Failed to load adverts for display."

// Source provides the adverts to display.
type Source interface {
	ListAdverts(ctx context.Context) ([]core.Advert, error)
}

// Snapshot is a copy of the carousel state.
type Snapshot struct {
	Adverts []core.Advert
	Index   int
	Loading bool
	Error   string
}

// Current returns the advert at Index, if any.
func (s Snapshot) Current() (core.Advert, bool) {
	if len(s.Adverts) == 0 {
		return core.Advert{}, false
	}
	return s.Adverts[s.Index], true
}

// Carousel cycles through adverts. It is safe for concurrent use.
type Carousel struct {
	mu      sync.Mutex
	adverts []core.Advert
	index   int
	loading bool
	err     string

	notify *notifier.Notifier
	logger *slog.Logger
}

// New creates an empty carousel.
func New(logger *slog.Logger) *Carousel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Carousel{notify: notifier.New(), logger: logger}
}

// Subscribe returns a channel pinged after every change.
func (c *Carousel) Subscribe() chan struct{} {
	return c.notify.Subscribe(notifier.TopicCarousel)
}

// Unsubscribe releases a channel returned by Subscribe.
func (c *Carousel) Unsubscribe(ch chan struct{}) {
	c.notify.Unsubscribe(ch)
}

// Close releases all subscribers.
func (c *Carousel) Close() {
	c.notify.Close()
}

// Load replaces the adverts and clears any error. The current index is kept
// while it is still in range, otherwise it resets to the first advert.
func (c *Carousel) Load(adverts []core.Advert) {
	c.mu.Lock()
	c.adverts = append([]core.Advert(nil), adverts...)
	if c.index >= len(c.adverts) {
		c.index = 0
	}
	c.loading = false
	c.err = ""
	c.mu.Unlock()

	c.notify.Broadcast(notifier.TopicCarousel)
}

// Fail records a load failure and drops the adverts.
func (c *Carousel) Fail() {
	c.mu.Lock()
	c.adverts = nil
	c.index = 0
	c.loading = false
	c.err = LoadError
	c.mu.Unlock()

	c.notify.Broadcast(notifier.TopicCarousel)
}

// Reload fetches adverts from src and loads them, or records the failure.
func (c *Carousel) Reload(ctx context.Context, src Source) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	c.notify.Broadcast(notifier.TopicCarousel)

	adverts, err := src.ListAdverts(ctx)
	if err != nil {
		c.logger.Warn("failed to load adverts for display", "error", err)
		c.Fail()
		return
	}
	c.Load(adverts)
}

// Next advances to the following advert, wrapping at the end.
func (c *Carousel) Next() {
	c.step(1)
}

// Prev moves to the preceding advert, wrapping at the start.
func (c *Carousel) Prev() {
	c.step(-1)
}

func (c *Carousel) step(delta int) {
	c.mu.Lock()
	n := len(c.adverts)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	c.index = ((c.index+delta)%n + n) % n
	c.mu.Unlock()

	c.notify.Broadcast(notifier.TopicCarousel)
}

// Current returns the advert on display.
func (c *Carousel) Current() (core.Advert, bool) {
	return c.Snapshot().Current()
}

// Position returns the 1-based position of the current advert and the count.
// Both are zero when there is nothing to show.
func (c *Carousel) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.adverts) == 0 {
		return 0, 0
	}
	return c.index + 1, len(c.adverts)
}

// Snapshot returns a copy of the state.
func (c *Carousel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Adverts: append([]core.Advert(nil), c.adverts...),
		Index:   c.index,
		Loading: c.loading,
		Error:   c.err,
	}
}

// Rotate advances the carousel until ctx is done. The interval is read
// before each wait; a ping on reset abandons the current wait and reads it
// again. A non-positive interval pauses rotation until the next reset.
func (c *Carousel) Rotate(ctx context.Context, interval func() time.Duration, reset <-chan struct{}) {
	for {
		var tick <-chan time.Time
		var timer *time.Timer
		if d := interval(); d > 0 {
			timer = time.NewTimer(d)
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-tick:
			c.Next()
		case _, ok := <-reset:
			if timer != nil {
				timer.Stop()
			}
			if !ok {
				reset = nil
			}
		}
	}
}
