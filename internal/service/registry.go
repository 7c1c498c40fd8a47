// Package service provides the preset runtime: registry, active-preset
// manager and render loop.
package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// LoadedPreset pairs a descriptor with a constructed, live preset instance
// bound to the shared surface. The registry owns its lifecycle bookkeeping:
// Init runs at most once, Dispose runs at most once, and no method is
// invoked on the instance after Dispose.
type LoadedPreset struct {
	preset     ports.Preset
	descriptor domain.PresetDescriptor
	factory    ports.PresetFactory
	config     domain.Config
	state      domain.PresetState
}

// Descriptor returns the preset's static metadata.
func (lp *LoadedPreset) Descriptor() domain.PresetDescriptor {
	return lp.descriptor
}

// ID returns the preset's stable identifier.
func (lp *LoadedPreset) ID() string {
	return lp.descriptor.ID
}

// State returns the instance's lifecycle state.
func (lp *LoadedPreset) State() domain.PresetState {
	return lp.state
}

// Registry discovers, constructs and owns every preset instance, and holds
// the single active slot. The active slot is a single owned pointer, not a
// collection: two presets can never concurrently hold disposal-pending
// resources on the shared surface.
//
// Thread-safety: all operations are serialized by one mutex. The render
// loop's per-frame forwarding (UpdateActive) takes the same mutex, so a
// Deactivate can never dispose an instance mid-update.
type Registry struct {
	// Dependencies (injected)
	logger  *slog.Logger
	bus     ports.EventBus
	surface ports.Surface
	catalog []ports.PresetDefinition

	// State
	mu       sync.Mutex
	loaded   []*LoadedPreset // discovery order
	byID     map[string]*LoadedPreset
	active   *LoadedPreset
	disposed bool
}

// NewRegistry creates a registry over the given preset catalog.
// Call LoadAll before activating anything.
func NewRegistry(
	logger *slog.Logger,
	bus ports.EventBus,
	surface ports.Surface,
	catalog []ports.PresetDefinition,
) *Registry {
	return &Registry{
		logger:  logger,
		bus:     bus,
		surface: surface,
		catalog: catalog,
		byID:    make(map[string]*LoadedPreset),
	}
}

// LoadAll constructs every catalog entry against the shared surface and
// returns the loaded presets in discovery order.
//
// Constructions are attempted independently: a factory that returns an
// error or panics skips that one preset with a log entry and a
// PresetLoadFailedEvent; the batch itself never fails. Calling LoadAll
// again replaces the previous load (used by reload).
func (r *Registry) LoadAll() []*LoadedPreset {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return nil
	}

	// Reload: tear down whatever the previous load produced.
	r.disposeAllLocked()

	r.loaded = make([]*LoadedPreset, 0, len(r.catalog))
	r.byID = make(map[string]*LoadedPreset, len(r.catalog))

	skipped := 0
	for _, def := range r.catalog {
		lp, err := r.constructLocked(def, nil)
		if err != nil {
			skipped++
			r.logger.Warn("preset construction failed, skipping",
				slog.String("preset_id", def.Descriptor.ID),
				slog.Any("error", err))
			r.bus.Publish(domain.NewPresetLoadFailedEvent(def.Descriptor.ID, err))
			continue
		}

		r.loaded = append(r.loaded, lp)
		r.byID[lp.ID()] = lp
	}

	r.logger.Info("presets loaded",
		slog.Int("loaded", len(r.loaded)),
		slog.Int("skipped", skipped))
	r.bus.Publish(domain.NewPresetsLoadedEvent(len(r.loaded), skipped))

	return r.loaded
}

// constructLocked invokes a preset factory with panic isolation. A nil cfg
// starts the instance from the descriptor's defaults; reconstruction passes
// the accumulated tree instead so the new instance sees every override.
func (r *Registry) constructLocked(def ports.PresetDefinition, cfg domain.Config) (lp *LoadedPreset, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			lp = nil
			err = domain.NewPresetError(def.Descriptor.ID, "construct", fmt.Errorf("panic: %v", rec))
		}
	}()

	if cfg == nil {
		cfg = def.Descriptor.Defaults.Clone()
	}
	preset, factoryErr := def.Factory(r.surface, cfg)
	if factoryErr != nil {
		return nil, domain.NewPresetError(def.Descriptor.ID, "construct", factoryErr)
	}

	return &LoadedPreset{
		preset:     preset,
		descriptor: def.Descriptor,
		factory:    def.Factory,
		config:     cfg,
		state:      domain.StateLoaded,
	}, nil
}

// Descriptors returns the descriptors of all loaded presets in discovery order.
func (r *Registry) Descriptors() []domain.PresetDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PresetDescriptor, 0, len(r.loaded))
	for _, lp := range r.loaded {
		out = append(out, lp.descriptor)
	}
	return out
}

// Activate makes the named preset the active one and returns it.
//
// An unknown id returns (nil, false) with no side effect; this is a normal
// outcome, not an error. Activating the already-active preset is a no-op
// returning (preset, true).
//
// The previous active instance is fully disposed before the new instance's
// Init begins, so at most one live instance ever holds surface resources.
// An Init failure leaves nothing active and returns (nil, false).
func (r *Registry) Activate(id string) (*LoadedPreset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return nil, false
	}

	lp, known := r.byID[id]
	if !known {
		r.logger.Debug("activate: unknown preset id", slog.String("preset_id", id))
		return nil, false
	}

	if r.active == lp {
		return lp, true
	}

	// Deactivation must fully complete before the next Init begins.
	if r.active != nil {
		r.deactivateLocked(r.active)
	}

	// A disposed instance can never be touched again; reconstruct a fresh
	// one from the same factory. The accumulated config goes to the factory
	// so the new instance renders with the carried overrides, not defaults.
	if lp.state == domain.StateDisposed || lp.state == domain.StateFailed {
		fresh, err := r.constructLocked(ports.PresetDefinition{
			Descriptor: lp.descriptor,
			Factory:    lp.factory,
		}, lp.config.Clone())
		if err != nil {
			r.logger.Warn("preset reconstruction failed",
				slog.String("preset_id", id),
				slog.Any("error", err))
			return nil, false
		}
		r.replaceLocked(lp, fresh)
		lp = fresh
	}

	if lp.state == domain.StateLoaded {
		if err := r.initLocked(lp); err != nil {
			lp.state = domain.StateFailed
			r.logger.Warn("preset init failed",
				slog.String("preset_id", id),
				slog.Any("error", err))
			r.bus.Publish(domain.NewPresetLoadFailedEvent(id, err))
			return nil, false
		}
		lp.state = domain.StateActive
	}

	r.active = lp
	r.logger.Info("preset activated", slog.String("preset_id", id))
	r.bus.Publish(domain.NewPresetActivatedEvent(lp.descriptor))

	return lp, true
}

// initLocked invokes Init with panic isolation.
func (r *Registry) initLocked(lp *LoadedPreset) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = domain.NewPresetError(lp.ID(), "init", fmt.Errorf("panic: %v", rec))
		}
	}()

	if initErr := lp.preset.Init(); initErr != nil {
		return domain.NewPresetError(lp.ID(), "init", initErr)
	}
	return nil
}

// replaceLocked swaps a stale instance for a fresh one in both indexes.
func (r *Registry) replaceLocked(old, fresh *LoadedPreset) {
	r.byID[fresh.ID()] = fresh
	for i, lp := range r.loaded {
		if lp == old {
			r.loaded[i] = fresh
			return
		}
	}
}

// Deactivate disposes the named preset if it is currently active and clears
// the active slot. Calling it for an id that is not active is a no-op.
func (r *Registry) Deactivate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || r.active.ID() != id {
		return
	}
	r.deactivateLocked(r.active)
}

// deactivateLocked disposes an instance and clears the active slot.
//
// A panicking Dispose still marks the instance disposed and clears the
// slot; a wedged active-set is worse than a leaked resource.
func (r *Registry) deactivateLocked(lp *LoadedPreset) {
	if lp.state != domain.StateActive {
		r.active = nil
		return
	}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("preset dispose panicked",
					slog.String("preset_id", lp.ID()),
					slog.Any("panic", rec))
			}
		}()
		lp.preset.Dispose()
	}()

	lp.state = domain.StateDisposed
	r.active = nil

	r.logger.Info("preset deactivated", slog.String("preset_id", lp.ID()))
	r.bus.Publish(domain.NewPresetDeactivatedEvent(lp.ID()))
}

// Active returns the named preset when it is currently active, nil otherwise.
// Pure lookup, no side effects.
func (r *Registry) Active(id string) *LoadedPreset {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && r.active.ID() == id {
		return r.active
	}
	return nil
}

// Current returns the currently active preset, or nil when nothing is active.
func (r *Registry) Current() *LoadedPreset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// UpdateActive forwards one frame to the active preset.
//
// A per-frame failure (error return or panic) is the one fault the shared
// render loop must survive: the offending preset is logged, published as
// faulted, auto-deactivated, and the error returned for the caller's
// bookkeeping. With nothing active this is a cheap no-op.
func (r *Registry) UpdateActive(frame domain.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lp := r.active
	if lp == nil {
		return nil
	}

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		return lp.preset.Update(frame)
	}()
	if err == nil {
		return nil
	}

	presetErr := domain.NewPresetError(lp.ID(), "update", err)
	r.logger.Error("preset update failed, deactivating",
		slog.String("preset_id", lp.ID()),
		slog.Any("error", err))
	r.bus.Publish(domain.NewPresetFaultedEvent(lp.ID(), presetErr))
	r.deactivateLocked(lp)

	return presetErr
}

// UpdateActiveConfig deep-merges a config delta into the active preset and
// forwards it for an immediately visible effect. No-op when nothing is
// active. Returns the id of the preset that received the delta, or "".
func (r *Registry) UpdateActiveConfig(delta domain.Config) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lp := r.active
	if lp == nil || len(delta) == 0 {
		return ""
	}

	lp.config.Merge(delta)
	lp.preset.UpdateConfig(delta)
	r.bus.Publish(domain.NewPresetConfigUpdatedEvent(lp.ID(), delta))

	return lp.ID()
}

// ActiveConfig returns a copy of the active preset's accumulated config,
// or nil when nothing is active.
func (r *Registry) ActiveConfig() domain.Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil
	}
	return r.active.config.Clone()
}

// ForwardMIDI delivers a MIDI event to the active preset when it handles
// MIDI; anything else silently ignores the event.
func (r *Registry) ForwardMIDI(event domain.MIDIEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return
	}
	handler, ok := r.active.preset.(ports.MIDIHandler)
	if !ok {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("preset MIDI handler panicked",
				slog.String("preset_id", r.active.ID()),
				slog.Any("panic", rec))
		}
	}()
	handler.OnMIDI(event)
}

// Dispose deactivates and disposes every tracked instance.
// Used on full reload or application shutdown. Idempotent: calling it twice
// produces the same end state as calling it once.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return
	}

	r.disposeAllLocked()
	r.disposed = true
	r.logger.Debug("registry disposed")
}

// disposeAllLocked tears down the current load without closing the registry.
func (r *Registry) disposeAllLocked() {
	if r.active != nil {
		r.deactivateLocked(r.active)
	}
	r.loaded = nil
	r.byID = make(map[string]*LoadedPreset)
}

// Reopen clears the disposed flag so a full reload can repopulate the
// registry. Only the application facade calls this, as part of ReloadPresets.
func (r *Registry) Reopen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = false
}
