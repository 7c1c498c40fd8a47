// Package ports define the EventBus interface for event-driven communication.
// The event bus decouples the preset runtime from the UI chrome.
package ports

import (
	"github.com/lucasvidela/visuales/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// The event bus decouples event producers (registry, runtime, sources) from
// event consumers (window chrome, logging). Multiple subscribers can listen
// to the same event, and subscribers don't know about publishers.
//
// Thread-safety: Implementations must be thread-safe as events may be
// published and subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In the registry: Publish an event
//	bus.Publish(domain.NewPresetActivatedEvent(descriptor))
//
//	// In the window chrome: Subscribe to events
//	subID := bus.Subscribe(domain.EventPresetActivated, func(event domain.Event) {
//	    e := event.(domain.PresetActivatedEvent)
//	    window.SetTitle(e.Descriptor.Name)
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	//
	// This method must not block for long periods. Handlers should process
	// events quickly or dispatch to a background goroutine if long
	// processing is needed.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	//
	// The same handler can be registered multiple times, resulting in
	// multiple calls. Each subscription gets a unique SubscriptionID.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging, debugging, or analytics.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for
	// the given event type. This can be used to avoid expensive event
	// construction if no one is listening.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, no more events should be published or subscribed.
	Close() error
}
