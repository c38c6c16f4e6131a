// Package eventbus is the multi-producer, multi-subscriber broadcast bus
// §4.I describes: late subscribers miss earlier events, a bounded
// per-subscriber buffer means a slow subscriber loses its oldest
// messages rather than stalling publishers, and publishing with no
// subscribers is a no-op.
package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the per-subscriber buffer size §4.I names.
const DefaultCapacity = 1024

// ErrClosed is returned by Receive once its subscription has been closed
// and its buffer drained.
var ErrClosed = errors.New("eventbus: subscription closed")

// Event is any lifecycle payload published on the bus (the
// WorkspaceIndexing*/ProjectIndexing* structs in this package, typically).
type Event any

// Message is what Receive hands back: either an Event, or — when Lagged
// is greater than zero — a signal that Lagged events were dropped before
// this receive because the subscriber fell behind.
type Message struct {
	Event  Event
	Lagged int
}

// Bus is a broadcast event bus. The zero value is not usable; use New.
type Bus struct {
	mu       sync.RWMutex
	subs     map[int]*Subscription
	nextID   int
	capacity int
}

// New creates a Bus with the default per-subscriber buffer capacity.
func New() *Bus {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a Bus whose subscribers each buffer up to
// capacity undelivered events before dropping the oldest.
func NewWithCapacity(capacity int) *Bus {
	return &Bus{subs: make(map[int]*Subscription), capacity: capacity}
}

// Publish broadcasts event to every current subscriber. A subscriber that
// joined after an earlier Publish call simply never sees it. Publishing
// with no subscribers is a no-op.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.push(event)
	}
}

// Subscribe registers a new subscription. Callers must Unsubscribe when
// done to release its buffer.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	s := &Subscription{bus: b, id: id, ch: make(chan Event, b.capacity)}
	b.subs[id] = s
	return s
}

// Subscription is one subscriber's view of the bus.
type Subscription struct {
	bus     *Bus
	id      int
	ch      chan Event
	dropped int64
	closeMu sync.Mutex
	closed  bool
}

// push delivers event to the subscription's buffer, dropping the oldest
// buffered event (and counting it as lagged) if the buffer is full.
func (s *Subscription) push(event Event) {
	select {
	case s.ch <- event:
		return
	default:
	}
	select {
	case <-s.ch:
		atomic.AddInt64(&s.dropped, 1)
	default:
	}
	select {
	case s.ch <- event:
	default:
		// Another push raced us and refilled the slot just vacated;
		// count this event as lagged too rather than block the publisher.
		atomic.AddInt64(&s.dropped, 1)
	}
}

// Receive blocks until an event arrives, ctx is cancelled, or the
// subscription is closed. If events were dropped since the last Receive,
// it returns a Lagged(n) message first rather than the next real event.
func (s *Subscription) Receive(ctx context.Context) (Message, error) {
	if n := atomic.SwapInt64(&s.dropped, 0); n > 0 {
		return Message{Lagged: int(n)}, nil
	}
	select {
	case event, ok := <-s.ch:
		if !ok {
			return Message{}, ErrClosed
		}
		return Message{Event: event}, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Unsubscribe removes the subscription from the bus and closes its
// buffer. Any buffered-but-undelivered events are discarded.
func (s *Subscription) Unsubscribe() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
	close(s.ch)
}
