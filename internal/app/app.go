// Package app wires the preset runtime together and exposes the narrow
// facade the window chrome and the entry point consume. Nothing outside
// this package constructs services directly.
package app

import (
	"errors"
	"log/slog"

	"github.com/lucasvidela/visuales/internal/adapter/eventbus"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
	"github.com/lucasvidela/visuales/internal/service"
)

// Options carries everything the application needs injected.
// Surface and Catalog are required; the rest have working defaults or may
// be nil for headless operation.
type Options struct {
	Logger      *slog.Logger
	Surface     ports.Surface
	Catalog     []ports.PresetDefinition
	Repository  ports.ConfigRepository
	AudioSource ports.AudioSource
	MIDISource  ports.MIDISource
	TargetFPS   int
}

// App is the application facade. It owns the event bus, the registry, the
// runtime and the render loop, and mediates every external operation on
// them.
type App struct {
	// Dependencies (injected)
	logger      *slog.Logger
	repo        ports.ConfigRepository
	audioSource ports.AudioSource
	midiSource  ports.MIDISource

	// Owned components
	bus      *eventbus.SyncEventBus
	registry *service.Registry
	runtime  *service.Runtime
	loop     *service.RenderLoop
}

// New builds and wires the full runtime. Presets are constructed eagerly;
// nothing is active and nothing ticks until Start.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bus := eventbus.NewSyncEventBus()
	bus.SetLogger(logger)

	registry := service.NewRegistry(logger, bus, opts.Surface, opts.Catalog)
	runtime := service.NewRuntime(logger, bus, registry)
	loop := service.NewRenderLoop(logger, bus, runtime, opts.Surface, opts.TargetFPS)

	a := &App{
		logger:      logger,
		repo:        opts.Repository,
		audioSource: opts.AudioSource,
		midiSource:  opts.MIDISource,
		bus:         bus,
		registry:    registry,
		runtime:     runtime,
		loop:        loop,
	}

	registry.LoadAll()
	return a
}

// Start begins the render loop and the audio and MIDI sources.
func (a *App) Start() error {
	if err := a.loop.Start(); err != nil {
		return err
	}

	if a.audioSource != nil {
		if err := a.audioSource.Start(a.runtime); err != nil {
			a.loop.Stop()
			return err
		}
		a.bus.Publish(domain.NewAudioSourceStartedEvent(a.audioSource.Info()))
	}

	if a.midiSource != nil {
		if err := a.midiSource.Start(a.runtime); err != nil {
			a.stopSources()
			a.loop.Stop()
			return err
		}
	}

	return nil
}

// AvailablePresets lists the descriptors of every loaded preset in
// discovery order.
func (a *App) AvailablePresets() []domain.PresetDescriptor {
	return a.registry.Descriptors()
}

// ActivatePreset switches to the named preset. Saved config overrides from
// previous sessions are re-applied after activation. Returns false for an
// unknown id or a failed activation; nothing changes in that case beyond
// the previous preset having been deactivated.
func (a *App) ActivatePreset(id string) bool {
	lp, ok := a.registry.Activate(id)
	if !ok {
		return false
	}

	if a.repo != nil {
		if saved, err := a.repo.LoadPresetConfig(id); err == nil && len(saved) > 0 {
			a.runtime.UpdatePresetConfig(saved)
		} else if err != nil && !errors.Is(err, ports.ErrNoSavedConfig) {
			a.logger.Warn("saved preset config unavailable",
				slog.String("preset_id", id),
				slog.Any("error", err))
		}
	}

	a.logger.Debug("preset switch complete", slog.String("preset_id", lp.ID()))
	return true
}

// DeactivateCurrentPreset disposes the active preset, leaving the surface
// empty. No-op when nothing is active.
func (a *App) DeactivateCurrentPreset() {
	if lp := a.registry.Current(); lp != nil {
		a.registry.Deactivate(lp.ID())
	}
}

// CurrentPreset returns the descriptor of the active preset.
// ok is false when nothing is active.
func (a *App) CurrentPreset() (desc domain.PresetDescriptor, ok bool) {
	lp := a.registry.Current()
	if lp == nil {
		return domain.PresetDescriptor{}, false
	}
	return lp.Descriptor(), true
}

// SetOpacity sets the global output opacity, clamped to [0,1].
func (a *App) SetOpacity(value float64) {
	a.runtime.SetOpacity(value)
}

// Opacity returns the current global output opacity.
func (a *App) Opacity() float64 {
	return a.runtime.Opacity()
}

// UpdatePresetConfig forwards a sparse config delta to the active preset.
// No-op when nothing is active.
func (a *App) UpdatePresetConfig(delta domain.Config) {
	a.runtime.UpdatePresetConfig(delta)
}

// HandleMIDI forwards a MIDI event to the active preset.
// The window chrome uses this to map keyboard keys to drum notes.
func (a *App) HandleMIDI(event domain.MIDIEvent) {
	a.runtime.HandleMIDI(event)
}

// ReloadPresets disposes every instance and reconstructs the catalog from
// scratch. The previously active preset is re-activated when it survives
// the reload; an error reports only a failed re-activation, the reload
// itself always completes.
func (a *App) ReloadPresets() error {
	var activeID string
	if lp := a.registry.Current(); lp != nil {
		activeID = lp.ID()
	}

	a.registry.Dispose()
	a.registry.Reopen()
	a.registry.LoadAll()

	if activeID != "" && !a.ActivatePreset(activeID) {
		return domain.NewPresetError(activeID, "reload", domain.ErrPresetNotFound)
	}
	return nil
}

// RestoreSession re-applies persisted state: global opacity and the last
// active preset. Called once at startup, after Start.
func (a *App) RestoreSession() {
	if a.repo == nil {
		return
	}

	if opacity, err := a.repo.LoadOpacity(); err == nil {
		a.runtime.SetOpacity(opacity)
	}

	if last, err := a.repo.LoadLastPreset(); err == nil && last != "" {
		if !a.ActivatePreset(last) {
			a.logger.Warn("saved preset no longer available", slog.String("preset_id", last))
		}
	}
}

// Subscribe registers an event handler on the application bus.
func (a *App) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return a.bus.Subscribe(eventType, handler)
}

// Unsubscribe removes a previously registered event handler.
func (a *App) Unsubscribe(id domain.SubscriptionID) {
	a.bus.Unsubscribe(id)
}

// LoopRunning reports whether the render loop is ticking.
func (a *App) LoopRunning() bool {
	return a.loop.IsRunning()
}

// Shutdown persists session state and tears everything down in reverse
// start order. Safe to call more than once.
func (a *App) Shutdown() {
	a.persistSession()

	a.stopSources()
	a.loop.Stop()
	a.registry.Dispose()

	if err := a.bus.Close(); err != nil {
		a.logger.Debug("event bus close", slog.Any("error", err))
	}
	a.logger.Info("shutdown complete")
}

// persistSession saves opacity, the active preset and its accumulated
// config for the next run.
func (a *App) persistSession() {
	if a.repo == nil {
		return
	}

	if err := a.repo.SaveOpacity(a.runtime.Opacity()); err != nil {
		a.logger.Warn("failed to save opacity", slog.Any("error", err))
	}

	lp := a.registry.Current()
	if lp == nil {
		if err := a.repo.SaveLastPreset(""); err != nil {
			a.logger.Warn("failed to save last preset", slog.Any("error", err))
		}
		return
	}

	if err := a.repo.SaveLastPreset(lp.ID()); err != nil {
		a.logger.Warn("failed to save last preset", slog.Any("error", err))
	}
	if cfg := a.registry.ActiveConfig(); cfg != nil {
		if err := a.repo.SavePresetConfig(lp.ID(), cfg); err != nil {
			a.logger.Warn("failed to save preset config",
				slog.String("preset_id", lp.ID()),
				slog.Any("error", err))
		}
	}
}

// stopSources stops the audio and MIDI sources, tolerating already-stopped.
func (a *App) stopSources() {
	if a.midiSource != nil {
		if err := a.midiSource.Stop(); err != nil && !errors.Is(err, domain.ErrSourceStopped) {
			a.logger.Warn("failed to stop MIDI source", slog.Any("error", err))
		}
	}
	if a.audioSource != nil {
		info := a.audioSource.Info()
		if err := a.audioSource.Stop(); err != nil {
			if !errors.Is(err, domain.ErrSourceStopped) {
				a.logger.Warn("failed to stop audio source", slog.Any("error", err))
			}
		} else {
			a.bus.Publish(domain.NewAudioSourceStoppedEvent(info.Kind))
		}
	}
}
