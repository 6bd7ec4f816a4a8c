// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tejashwikalptaru/yorum/internal/domain"
	"github.com/tejashwikalptaru/yorum/internal/ports"
)

// wildcard is the subscription key for handlers that receive every event.
const wildcard domain.EventType = "*"

// SyncEventBus is a synchronous implementation of the EventBus interface.
// Events are delivered to handlers synchronously in the order they were subscribed,
// type-specific handlers first, wildcard handlers last.
//
// Thread-safety: Publishing and subscribing may happen from any goroutine.
// Handlers run without the bus lock held, so they may publish or subscribe themselves.
type SyncEventBus struct {
	logger *slog.Logger

	subscribers map[domain.EventType][]subscription
	nextID      uint64
	closed      bool

	mu sync.RWMutex
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		logger:      slog.New(slog.DiscardHandler),
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers event to its type subscribers, then to wildcard subscribers.
// A panicking handler is logged and does not prevent delivery to the others.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.subscribers[event.Type()])+len(bus.subscribers[wildcard]))
	targets = append(targets, bus.subscribers[event.Type()]...)
	targets = append(targets, bus.subscribers[wildcard]...)
	logger := bus.logger
	bus.mu.RUnlock()

	logger.Debug("event published",
		slog.String("event_type", string(event.Type())),
		slog.Int("handlers", len(targets)))

	for _, sub := range targets {
		bus.deliver(logger, sub, event)
	}
}

func (bus *SyncEventBus) deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// Panics on a nil handler or a closed bus.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, "sub", handler)
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(wildcard, "sub-all", handler)
}

func (bus *SyncEventBus) add(key domain.EventType, prefix string, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))
	bus.subscribers[key] = append(bus.subscribers[key], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a previously registered handler. Unknown IDs are ignored.
// Delivery order of the remaining handlers is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for key, subs := range bus.subscribers {
		for i, sub := range subs {
			if sub.id == id {
				bus.subscribers[key] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// HasSubscribers reports whether publishing eventType would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.subscribers[eventType]) > 0 || len(bus.subscribers[wildcard]) > 0
}

// Close drops every subscription. Later publishes are ignored.
//
// Returns an error if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return errors.New("event bus already closed")
	}

	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)

	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := 0
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
