// Package ports defines the interfaces between the player core and its adapters.
package ports

import (
	"github.com/tejashwikalptaru/yorum/internal/domain"
)

// EventBus carries controller and favorites events to the presenter.
//
// The playback controller publishes only after releasing its own lock, so
// handlers may call back into it. Implementations must be safe for concurrent
// Publish and Subscribe.
//
//	id := bus.Subscribe(domain.EventTrackProgress, func(event domain.Event) {
//	    e := event.(domain.TrackProgressEvent)
//	    view.SetProgress(e.Position, e.Duration)
//	})
//	defer bus.Unsubscribe(id)
type EventBus interface {
	// Publish delivers event to the handlers of its type, then to the
	// SubscribeAll handlers, each group in subscription order.
	Publish(event domain.Event)

	// Subscribe registers handler for one event type.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a handler. Unknown ids are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers handler for every event type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anything listens for eventType.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops every subscription. Publishing after Close is a no-op.
	Close() error
}
