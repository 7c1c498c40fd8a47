package service

import (
	"errors"
	"sync"

	"github.com/lucasvidela/visuales/internal/adapter/eventbus"
	"github.com/lucasvidela/visuales/internal/adapter/surface"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/logger"
	"github.com/lucasvidela/visuales/internal/ports"
)

// fakePreset is a scripted preset that records every lifecycle call and can
// be told to fail or panic at any stage.
type fakePreset struct {
	id string

	mu           sync.Mutex
	cfg          domain.Config // what the factory received
	initCalls    int
	updateCalls  int
	disposeCalls int
	configCalls  int
	midiEvents   []domain.MIDIEvent
	lastFrame    domain.Frame
	lastDelta    domain.Config
	disposed     bool

	// Records a contract violation: any call after Dispose.
	calledAfterDispose bool

	// Failure scripting
	initErr     error
	updateErr   error
	panicUpdate bool
	panicMIDI   bool
}

func (p *fakePreset) Descriptor() domain.PresetDescriptor {
	return domain.PresetDescriptor{ID: p.id, Name: p.id}
}

func (p *fakePreset) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		p.calledAfterDispose = true
	}
	p.initCalls++
	return p.initErr
}

func (p *fakePreset) Update(frame domain.Frame) error {
	p.mu.Lock()
	if p.disposed {
		p.calledAfterDispose = true
	}
	p.updateCalls++
	p.lastFrame = frame
	p.mu.Unlock()

	if p.panicUpdate {
		panic("scripted update panic")
	}
	return p.updateErr
}

func (p *fakePreset) UpdateConfig(delta domain.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		p.calledAfterDispose = true
	}
	p.configCalls++
	p.lastDelta = delta
}

func (p *fakePreset) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposeCalls++
	p.disposed = true
}

func (p *fakePreset) OnMIDI(event domain.MIDIEvent) {
	p.mu.Lock()
	if p.disposed {
		p.calledAfterDispose = true
	}
	p.midiEvents = append(p.midiEvents, event)
	p.mu.Unlock()

	if p.panicMIDI {
		panic("scripted MIDI panic")
	}
}

var (
	_ ports.Preset      = (*fakePreset)(nil)
	_ ports.MIDIHandler = (*fakePreset)(nil)
)

// fakeDefinition builds a catalog entry whose factory hands out the presets
// in order, so tests can hold references to reconstructed instances.
func fakeDefinition(id string, instances ...*fakePreset) (ports.PresetDefinition, *[]*fakePreset) {
	made := make([]*fakePreset, 0, len(instances))
	next := 0
	return ports.PresetDefinition{
		Descriptor: domain.PresetDescriptor{
			ID:       id,
			Name:     id,
			Defaults: domain.Config{},
		},
		Factory: func(_ ports.Surface, cfg domain.Config) (ports.Preset, error) {
			if next >= len(instances) {
				return nil, errors.New("factory exhausted")
			}
			p := instances[next]
			next++
			p.cfg = cfg
			made = append(made, p)
			return p, nil
		},
	}, &made
}

// failingDefinition builds a catalog entry whose factory always errors.
func failingDefinition(id string) ports.PresetDefinition {
	return ports.PresetDefinition{
		Descriptor: domain.PresetDescriptor{ID: id, Name: id, Defaults: domain.Config{}},
		Factory: func(_ ports.Surface, _ domain.Config) (ports.Preset, error) {
			return nil, errors.New("scripted factory failure")
		},
	}
}

// panickingDefinition builds a catalog entry whose factory panics.
func panickingDefinition(id string) ports.PresetDefinition {
	return ports.PresetDefinition{
		Descriptor: domain.PresetDescriptor{ID: id, Name: id, Defaults: domain.Config{}},
		Factory: func(_ ports.Surface, _ domain.Config) (ports.Preset, error) {
			panic("scripted factory panic")
		},
	}
}

// newTestRegistry wires a registry over the given catalog with a quiet
// logger, an offscreen surface and a live event bus.
func newTestRegistry(catalog ...ports.PresetDefinition) (*Registry, *eventbus.SyncEventBus) {
	log := logger.NewTestLogger()
	bus := eventbus.NewSyncEventBus()
	bus.SetLogger(log)
	return NewRegistry(log, bus, surface.NewOffscreen(64, 48), catalog), bus
}
