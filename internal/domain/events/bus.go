// Package events is the in-process change feed. The store publishes every
// committed mutation here; the WebSocket stream and metrics subscribe.
package events

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Bus is a publish/subscribe feed with namespace filtering
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]*subscription
	next    int
	dropped atomic.Uint64
}

type subscription struct {
	namespace string
	ch        chan Change
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]*subscription),
	}
}

// Publish delivers changes to every subscriber whose namespace prefixes the kind.
// Slow subscribers lose changes rather than blocking the writer.
func (b *Bus) Publish(changes ...Change) {
	if b == nil || len(changes) == 0 {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range changes {
		for _, sub := range b.subs {
			if !strings.HasPrefix(c.Kind, sub.namespace) {
				continue
			}
			select {
			case sub.ch <- c:
			default:
				b.dropped.Add(1)
			}
		}
	}
}

// Subscribe returns a channel of changes matching namespace ("" matches all)
// and a function that ends the subscription and closes the channel
func (b *Bus) Subscribe(namespace string, bufSize int) (<-chan Change, func()) {
	ch := make(chan Change, bufSize)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = &subscription{namespace: namespace, ch: ch}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the current subscriber count
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
