// Package notifier provides a topic-filtered broadcast for change pings.
package notifier

import "sync"

// Topic names a kind of change.
type Topic string

// Topics broadcast by binfinder.
const (
	TopicSearch     Topic = "search"
	TopicCarousel   Topic = "carousel"
	TopicContainers Topic = "containers"
	TopicItems      Topic = "items"
	TopicAdverts    Topic = "adverts"
	TopicSettings   Topic = "settings"
)

// Notifier broadcasts change pings to subscribed listeners.
// Listeners receive an empty struct when something they care about changed
// and should re-read the source of truth; pings carry no payload.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}][]Topic
	closed    bool
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}][]Topic),
	}
}

// Subscribe returns a channel that receives a ping whenever one of topics is
// broadcast. With no topics the listener receives every broadcast.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(topics ...Topic) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		close(ch)
		return ch
	}
	n.listeners[ch] = topics
	return ch
}

// Unsubscribe removes a listener channel and closes it. It is safe to call
// after Close.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast pings every listener subscribed to topic.
// Non-blocking: a listener with a pending ping is skipped.
func (n *Notifier) Broadcast(topic Topic) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, topics := range n.listeners {
		if !wants(topics, topic) {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close closes every listener channel. Later subscriptions receive an
// already-closed channel.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for ch := range n.listeners {
		close(ch)
	}
	clear(n.listeners)
}

// Len returns the number of active listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

func wants(topics []Topic, topic Topic) bool {
	if len(topics) == 0 {
		return true
	}
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
