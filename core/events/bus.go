// Package events is a non-blocking publish-subscribe bus used by the state holders
// (alerts, navigation, screens) to tell renderers that something changed.
package events

import "sync"

const subBufferSize = 16

// Sources
const (
	Alerts     = "alerts"
	Navigation = "navigation"
	Session    = "session"
	Screen     = "screen"
)

// Event only names what changed; subscribers read the new state from its owner.
type Event struct {
	Source string
	Detail string
}

// Bus drops events for subscribers that are slow to consume them rather than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]chan Event)}
}

// Subscribe creates (or replaces) the subscription id.
func (b *Bus) Subscribe(id string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.subs[id]; ok {
		close(old)
	}
	ch := make(chan Event, subBufferSize)
	b.subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish is safe on a nil Bus.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
