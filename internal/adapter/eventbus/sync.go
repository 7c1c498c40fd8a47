// Package eventbus provides the synchronous event bus used by the preset
// runtime. Registry, runtime and sources publish; the window chrome and
// tests subscribe.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// typeAny is the reserved key wildcard subscriptions are stored under.
// Real event types are dotted names ("preset.activated"), so it can never
// collide.
const typeAny domain.EventType = "*"

// subscriber pairs a handler with the id used to remove it.
type subscriber struct {
	id domain.SubscriptionID
	fn domain.EventHandler
}

// SyncEventBus delivers events to handlers synchronously, on the
// publisher's goroutine, in subscription order. Wildcard handlers run after
// the type-specific ones.
//
// Thread-safety: subscription state lives behind an RWMutex; Publish
// snapshots the handler list before calling out, so handlers may subscribe
// or unsubscribe freely.
//
// A slow handler blocks the publisher. The runtime publishes from the
// render loop, so handlers must either return quickly or hand off to their
// own goroutine.
type SyncEventBus struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[domain.EventType][]subscriber
	nextID uint64
	closed bool
}

// NewSyncEventBus creates an empty bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		subs: make(map[domain.EventType][]subscriber),
	}
}

// SetLogger attaches a logger. Call once after construction; without it the
// bus stays silent.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers an event to every matching subscriber. A nil event and a
// closed bus are both no-ops. A panicking handler is logged and skipped;
// the remaining handlers still run.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	matched := bus.subs[event.Type()]
	wild := bus.subs[typeAny]
	targets := make([]subscriber, 0, len(matched)+len(wild))
	targets = append(targets, matched...)
	targets = append(targets, wild...)
	bus.mu.RUnlock()

	if bus.logger != nil && len(targets) > 0 {
		bus.logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("handlers", len(targets)))
	}

	for _, sub := range targets {
		bus.deliver(sub, event)
	}
}

// deliver runs one handler with panic isolation.
func (bus *SyncEventBus) deliver(sub subscriber, event domain.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			if bus.logger != nil {
				bus.logger.Error("event handler panicked",
					slog.String("event_type", string(event.Type())),
					slog.String("subscription_id", string(sub.id)),
					slog.Any("panic", rec))
			}
		}
	}()
	sub.fn(event)
}

// Subscribe registers a handler for one event type and returns the id to
// unsubscribe with. The same handler may be registered repeatedly; each
// registration is independent. Panics on a nil handler or a closed bus,
// both of which are programming errors.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, handler)
}

// SubscribeAll registers a handler for every event regardless of type.
// Used for logging and diagnostics.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(typeAny, handler)
}

func (bus *SyncEventBus) add(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	id := domain.SubscriptionID(fmt.Sprintf("sub-%d", bus.nextID))
	bus.subs[eventType] = append(bus.subs[eventType], subscriber{id: id, fn: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown or already-removed ids are a
// no-op. Removal preserves the delivery order of the remaining handlers.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, list := range bus.subs {
		for i, sub := range list {
			if sub.id != id {
				continue
			}
			bus.subs[eventType] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether anyone would receive an event of the given
// type, counting wildcard subscriptions.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[eventType]) > 0 || len(bus.subs[typeAny]) > 0
}

// SubscriberCount returns the total number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := 0
	for _, list := range bus.subs {
		count += len(list)
	}
	return count
}

// Close drops every subscription and refuses further publishes.
// Returns an error when already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return errors.New("event bus already closed")
	}
	bus.closed = true
	bus.subs = make(map[domain.EventType][]subscriber)
	return nil
}

var _ ports.EventBus = (*SyncEventBus)(nil)
