package workspace

import (
	"sync/atomic"
	"time"

	"github.com/binfinder/binfinder/internal/notifier"
)

// Settings are the UI settings that can change while the server runs.
type Settings struct {
	Debounce       time.Duration
	AdvertRotation time.Duration
	IdleTimeout    time.Duration
}

// LiveSettings holds the current Settings and swaps them atomically.
// Every Store pings subscribers.
type LiveSettings struct {
	p      atomic.Pointer[Settings]
	notify *notifier.Notifier
}

// NewLiveSettings creates a holder initialised with s.
func NewLiveSettings(s Settings) *LiveSettings {
	ls := &LiveSettings{notify: notifier.New()}
	ls.Store(s)
	return ls
}

// Load returns the current settings.
func (ls *LiveSettings) Load() Settings {
	return *ls.p.Load()
}

// Store replaces the current settings.
func (ls *LiveSettings) Store(s Settings) {
	ls.p.Store(&s)
	ls.notify.Broadcast(notifier.TopicSettings)
}

// Subscribe returns a channel pinged after every Store.
func (ls *LiveSettings) Subscribe() chan struct{} {
	return ls.notify.Subscribe(notifier.TopicSettings)
}

// Unsubscribe releases a channel returned by Subscribe.
func (ls *LiveSettings) Unsubscribe(ch chan struct{}) {
	ls.notify.Unsubscribe(ch)
}
