// Package events provides an in-process publish/subscribe bus for
// parameterless signals.
//
// Handlers run synchronously on the publishing goroutine, in subscription
// order. A handler that needs to do slow work should start its own
// goroutine.
package events

import (
	"sync"

	"github.com/custodia-labs/sercha-assist/internal/core/domain"
)

// Handler reacts to a signal.
type Handler func()

// Metrics counts bus traffic.
type Metrics struct {
	Published   int64
	Delivered   int64
	Subscribers int
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches signals to subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    map[domain.Topic][]subscription
	nextID  uint64
	closed  bool
	metrics Metrics
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[domain.Topic][]subscription)}
}

// Subscribe registers handler for topic. The returned function removes
// the subscription and is safe to call more than once.
func (b *Bus) Subscribe(topic domain.Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || handler == nil {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.metrics.Subscribers++

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic domain.Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
		b.metrics.Subscribers--
		return
	}
}

// Publish delivers the signal to every subscriber of topic and returns how
// many handlers ran.
func (b *Bus) Publish(topic domain.Topic) int {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, s := range b.subs[topic] {
		handlers = append(handlers, s.handler)
	}
	b.metrics.Published++
	b.metrics.Delivered += int64(len(handlers))
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	return len(handlers)
}

// Metrics returns a snapshot of bus counters.
func (b *Bus) Metrics() Metrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

// Close drops every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[domain.Topic][]subscription)
	b.metrics.Subscribers = 0
}
