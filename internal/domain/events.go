// Package domain defines events for the event-driven architecture.
// Events enable loose coupling between the preset runtime and the UI layer.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Preset lifecycle events
	EventPresetsLoaded     EventType = "preset.loaded_all"
	EventPresetLoadFailed  EventType = "preset.load_failed"
	EventPresetActivated   EventType = "preset.activated"
	EventPresetDeactivated EventType = "preset.deactivated"
	EventPresetFaulted     EventType = "preset.faulted"

	// Configuration events
	EventPresetConfigUpdated EventType = "config.updated"
	EventOpacityChanged      EventType = "opacity.changed"

	// Source events
	EventAudioSourceStarted EventType = "source.started"
	EventAudioSourceStopped EventType = "source.stopped"

	// Render loop events
	EventRenderLoopStarted EventType = "loop.started"
	EventRenderLoopStopped EventType = "loop.stopped"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// PresetsLoadedEvent is published when batch discovery finishes.
type PresetsLoadedEvent struct {
	baseEvent
	Loaded  int
	Skipped int
}

// Type returns the event type.
func (e PresetsLoadedEvent) Type() EventType {
	return EventPresetsLoaded
}

// NewPresetsLoadedEvent creates a new PresetsLoadedEvent.
func NewPresetsLoadedEvent(loaded, skipped int) PresetsLoadedEvent {
	return PresetsLoadedEvent{
		baseEvent: newBaseEvent(),
		Loaded:    loaded,
		Skipped:   skipped,
	}
}

// PresetLoadFailedEvent is published when a single preset's factory fails
// during batch discovery. The rest of the batch is unaffected.
type PresetLoadFailedEvent struct {
	baseEvent
	PresetID string
	Error    error
}

// Type returns the event type.
func (e PresetLoadFailedEvent) Type() EventType {
	return EventPresetLoadFailed
}

// NewPresetLoadFailedEvent creates a new PresetLoadFailedEvent.
func NewPresetLoadFailedEvent(presetID string, err error) PresetLoadFailedEvent {
	return PresetLoadFailedEvent{
		baseEvent: newBaseEvent(),
		PresetID:  presetID,
		Error:     err,
	}
}

// PresetActivatedEvent is published when a preset becomes the active one.
type PresetActivatedEvent struct {
	baseEvent
	Descriptor PresetDescriptor
}

// Type returns the event type.
func (e PresetActivatedEvent) Type() EventType {
	return EventPresetActivated
}

// NewPresetActivatedEvent creates a new PresetActivatedEvent.
func NewPresetActivatedEvent(descriptor PresetDescriptor) PresetActivatedEvent {
	return PresetActivatedEvent{
		baseEvent:  newBaseEvent(),
		Descriptor: descriptor,
	}
}

// PresetDeactivatedEvent is published after a preset's Dispose completed.
type PresetDeactivatedEvent struct {
	baseEvent
	PresetID string
}

// Type returns the event type.
func (e PresetDeactivatedEvent) Type() EventType {
	return EventPresetDeactivated
}

// NewPresetDeactivatedEvent creates a new PresetDeactivatedEvent.
func NewPresetDeactivatedEvent(presetID string) PresetDeactivatedEvent {
	return PresetDeactivatedEvent{
		baseEvent: newBaseEvent(),
		PresetID:  presetID,
	}
}

// PresetFaultedEvent is published when a preset's per-frame update fails
// and the runtime auto-deactivates it to protect the render loop.
type PresetFaultedEvent struct {
	baseEvent
	PresetID string
	Error    error
}

// Type returns the event type.
func (e PresetFaultedEvent) Type() EventType {
	return EventPresetFaulted
}

// NewPresetFaultedEvent creates a new PresetFaultedEvent.
func NewPresetFaultedEvent(presetID string, err error) PresetFaultedEvent {
	return PresetFaultedEvent{
		baseEvent: newBaseEvent(),
		PresetID:  presetID,
		Error:     err,
	}
}

// PresetConfigUpdatedEvent is published after a config delta was merged
// into the active preset.
type PresetConfigUpdatedEvent struct {
	baseEvent
	PresetID string
	Delta    Config
}

// Type returns the event type.
func (e PresetConfigUpdatedEvent) Type() EventType {
	return EventPresetConfigUpdated
}

// NewPresetConfigUpdatedEvent creates a new PresetConfigUpdatedEvent.
func NewPresetConfigUpdatedEvent(presetID string, delta Config) PresetConfigUpdatedEvent {
	return PresetConfigUpdatedEvent{
		baseEvent: newBaseEvent(),
		PresetID:  presetID,
		Delta:     delta,
	}
}

// OpacityChangedEvent is published when the global output opacity changes.
type OpacityChangedEvent struct {
	baseEvent
	Opacity float64
}

// Type returns the event type.
func (e OpacityChangedEvent) Type() EventType {
	return EventOpacityChanged
}

// NewOpacityChangedEvent creates a new OpacityChangedEvent.
func NewOpacityChangedEvent(opacity float64) OpacityChangedEvent {
	return OpacityChangedEvent{
		baseEvent: newBaseEvent(),
		Opacity:   opacity,
	}
}

// AudioSourceStartedEvent is published when an audio source begins delivering.
type AudioSourceStartedEvent struct {
	baseEvent
	Info SourceInfo
}

// Type returns the event type.
func (e AudioSourceStartedEvent) Type() EventType {
	return EventAudioSourceStarted
}

// NewAudioSourceStartedEvent creates a new AudioSourceStartedEvent.
func NewAudioSourceStartedEvent(info SourceInfo) AudioSourceStartedEvent {
	return AudioSourceStartedEvent{
		baseEvent: newBaseEvent(),
		Info:      info,
	}
}

// AudioSourceStoppedEvent is published when an audio source stops.
type AudioSourceStoppedEvent struct {
	baseEvent
	Kind string
}

// Type returns the event type.
func (e AudioSourceStoppedEvent) Type() EventType {
	return EventAudioSourceStopped
}

// NewAudioSourceStoppedEvent creates a new AudioSourceStoppedEvent.
func NewAudioSourceStoppedEvent(kind string) AudioSourceStoppedEvent {
	return AudioSourceStoppedEvent{
		baseEvent: newBaseEvent(),
		Kind:      kind,
	}
}

// RenderLoopStartedEvent is published when the render loop starts ticking.
type RenderLoopStartedEvent struct {
	baseEvent
	TargetFPS int
}

// Type returns the event type.
func (e RenderLoopStartedEvent) Type() EventType {
	return EventRenderLoopStarted
}

// NewRenderLoopStartedEvent creates a new RenderLoopStartedEvent.
func NewRenderLoopStartedEvent(targetFPS int) RenderLoopStartedEvent {
	return RenderLoopStartedEvent{
		baseEvent: newBaseEvent(),
		TargetFPS: targetFPS,
	}
}

// RenderLoopStoppedEvent is published when the render loop has shut down.
type RenderLoopStoppedEvent struct {
	baseEvent
	Frames uint64
}

// Type returns the event type.
func (e RenderLoopStoppedEvent) Type() EventType {
	return EventRenderLoopStopped
}

// NewRenderLoopStoppedEvent creates a new RenderLoopStoppedEvent.
func NewRenderLoopStoppedEvent(frames uint64) RenderLoopStoppedEvent {
	return RenderLoopStoppedEvent{
		baseEvent: newBaseEvent(),
		Frames:    frames,
	}
}
