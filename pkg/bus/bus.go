// Package bus provides a generic synchronous publish/subscribe fan-out used
// to decouple producers from consumers.
//
// Delivery is fire-and-forget and fully synchronous within the publishing
// goroutine: no queuing, no backpressure. A handler that panics is recovered
// and logged at the bus boundary so the fault never reaches the publisher or
// later handlers. Handlers must not republish the same event type from
// within their own invocation; the bus does not guard against recursion.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/formguide/pkg/logger"
)

// Event carries one published notification. The payload type is fixed per
// bus instance, keeping payload schemas a compile-time contract between
// publishers and subscribers.
type Event[T any] struct {
	Type string
	Data T
}

// Handler consumes published events.
type Handler[T any] func(Event[T])

// Subscription identifies a registered handler for removal. Go functions
// are not comparable, so unsubscription is by token rather than handler
// identity.
type Subscription uint64

// Bus fans events out to subscribers in subscription order.
// All methods are safe for concurrent use.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID Subscription
	subs   []subscriber[T]
	logger logger.Logger
}

type subscriber[T any] struct {
	id      Subscription
	handler Handler[T]
}

// Option applies a configuration option to the Bus.
type Option[T any] func(*Bus[T])

// WithLogger sets a custom logger for handler fault reports.
func WithLogger[T any](l logger.Logger) Option[T] {
	return func(b *Bus[T]) {
		if l != nil {
			b.logger = l
		}
	}
}

// New constructs a bus with configuration options.
func New[T any](opts ...Option[T]) *Bus[T] {
	b := &Bus[T]{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler and returns its subscription token.
// Nil handlers are ignored and return a zero token.
func (b *Bus[T]) Subscribe(h Handler[T]) Subscription {
	if h == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: b.nextID, handler: h})
	return b.nextID
}

// Unsubscribe removes the handler registered under sub. Unknown tokens are
// a no-op.
func (b *Bus[T]) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every currently-registered handler synchronously, in
// subscription order. A panicking handler is isolated and logged; delivery
// continues with the next handler.
func (b *Bus[T]) Publish(eventType string, data T) {
	b.mu.RLock()
	snapshot := make([]subscriber[T], len(b.subs))
	copy(snapshot, b.subs)
	b.mu.RUnlock()

	e := Event[T]{Type: eventType, Data: data}
	for _, s := range snapshot {
		b.deliver(s, e)
	}
}

// SubscriberCount returns the number of registered handlers.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus[T]) deliver(s subscriber[T], e Event[T]) {
	defer func() {
		if r := recover(); r != nil {
			b.log().Error(context.Background(), "bus handler fault",
				logger.String("eventType", e.Type),
				logger.Error(fmt.Errorf("handler panic: %v", r)),
			)
		}
	}()
	s.handler(e)
}

func (b *Bus[T]) log() logger.Logger {
	if b.logger != nil {
		return b.logger
	}
	return logger.Get().Named("bus")
}
