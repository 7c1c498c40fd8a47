package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// Runtime is the active-preset manager: the single point that receives the
// live AudioData stream, MIDI events and config deltas, and forwards them
// to whatever preset currently owns the surface.
//
// Receipt of audio is decoupled from consumption at render time: audio data
// is a mutable latest-value cell, never a queue, so bursty delivery cannot
// build backlog. A frame always uses the most recent sample available,
// skipping or repeating samples relative to the source's true rate.
//
// Thread-safety: the cell and opacity are guarded by their own mutex; all
// preset forwarding is serialized inside the registry.
type Runtime struct {
	// Dependencies (injected)
	logger   *slog.Logger
	bus      ports.EventBus
	registry *Registry

	// State
	mu        sync.Mutex
	latest    domain.AudioData
	opacity   float64
	epoch     time.Time // animation time zero, set on first Step
	lastStep  time.Time
	hasEpoch  bool
	stepCount uint64
}

// NewRuntime creates the active-preset manager.
func NewRuntime(logger *slog.Logger, bus ports.EventBus, registry *Registry) *Runtime {
	return &Runtime{
		logger:   logger,
		bus:      bus,
		registry: registry,
		opacity:  1.0,
	}
}

// UpdateAudioData stores the latest audio snapshot. It never blocks and
// never queues: a second call before the next Step simply overwrites the
// first (last write wins).
//
// Called from the audio source's delivery goroutine at its own, possibly
// irregular, rate.
func (rt *Runtime) UpdateAudioData(data domain.AudioData) {
	rt.mu.Lock()
	rt.latest = data
	rt.mu.Unlock()
}

// Step advances the active preset by one frame. Invoked once per render
// frame by the loop driver.
//
// The frame carries the latest stored AudioData, the elapsed time since the
// previous Step and the global opacity. A faulted preset is deactivated
// inside the registry; the loop itself always survives.
func (rt *Runtime) Step(now time.Time) {
	rt.mu.Lock()
	if !rt.hasEpoch {
		rt.epoch = now
		rt.lastStep = now
		rt.hasEpoch = true
	}
	frame := domain.Frame{
		Audio:   rt.latest,
		Delta:   now.Sub(rt.lastStep),
		Time:    now.Sub(rt.epoch),
		Opacity: rt.opacity,
	}
	rt.lastStep = now
	rt.stepCount++
	rt.mu.Unlock()

	if err := rt.registry.UpdateActive(frame); err != nil {
		// Already logged, published and deactivated by the registry.
		rt.logger.Debug("frame dropped preset", slog.Any("error", err))
	}
}

// SetOpacity sets the global output opacity, clamped to [0,1], and forwards
// it to the active preset as a config delta so the change is immediately
// visible. No-op on the preset side when nothing is active.
func (rt *Runtime) SetOpacity(value float64) {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	rt.mu.Lock()
	rt.opacity = value
	rt.mu.Unlock()

	rt.registry.UpdateActiveConfig(domain.Config{"opacity": value})
	rt.bus.Publish(domain.NewOpacityChangedEvent(value))
}

// Opacity returns the current global output opacity.
func (rt *Runtime) Opacity() float64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.opacity
}

// UpdatePresetConfig forwards a sparse config delta verbatim to the active
// preset. No-op when nothing is active. No schema validation happens here:
// unknown key paths are created by the merge.
func (rt *Runtime) UpdatePresetConfig(delta domain.Config) {
	if id := rt.registry.UpdateActiveConfig(delta); id != "" {
		rt.logger.Debug("preset config updated", slog.String("preset_id", id))
	}
}

// HandleMIDI forwards a note event to the active preset when it implements
// the optional MIDI handler; otherwise the event is ignored.
func (rt *Runtime) HandleMIDI(event domain.MIDIEvent) {
	rt.registry.ForwardMIDI(event)
}

// LatestAudio returns the current contents of the audio cell.
// Used by tests and the monitor chrome; presets receive it via Frame.
func (rt *Runtime) LatestAudio() domain.AudioData {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.latest
}

// StepCount returns the number of frames stepped so far.
func (rt *Runtime) StepCount() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.stepCount
}

// Verify sink interfaces are satisfied.
var (
	_ ports.AudioSink = (*Runtime)(nil)
	_ ports.MIDISink  = (*Runtime)(nil)
)
