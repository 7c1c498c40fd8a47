// Package ports define interfaces for dependency inversion.
// These interfaces allow the core runtime to remain independent of the
// rendering toolkit and of any concrete preset implementation.
package ports

import (
	"image"

	"github.com/lucasvidela/visuales/internal/domain"
)

// Preset is the polymorphic capability set every rendering module implements.
// Variants differ only in visual behavior; the lifecycle discipline is
// identical across all of them.
//
// Lifecycle contract:
//   - Init runs exactly once, before any Update.
//   - Update runs once per render frame while the preset is active. It must
//     be cheap enough for the target frame rate and must not allocate
//     unboundedly per call.
//   - UpdateConfig merges a sparse delta (deep merge, scalars replace) and
//     applies any immediately visible effect without Dispose+Init.
//   - Dispose releases everything Init acquired. It must be idempotent and
//     safe to call even if Init never ran. No method is invoked on an
//     instance after its Dispose has run; the registry enforces this.
type Preset interface {
	// Descriptor returns the preset's static identity and metadata.
	Descriptor() domain.PresetDescriptor

	// Init allocates all rendering resources.
	Init() error

	// Update advances animation state by one frame.
	Update(frame domain.Frame) error

	// UpdateConfig deep-merges a configuration delta into the current config.
	UpdateConfig(delta domain.Config)

	// Dispose releases every resource Init acquired.
	Dispose()
}

// MIDIHandler is optionally implemented by presets that react to MIDI notes.
// The runtime type-asserts for it; absence means MIDI events are ignored.
type MIDIHandler interface {
	OnMIDI(event domain.MIDIEvent)
}

// PresetFactory constructs a preset bound to the shared surface with the
// given initial configuration. The instance must not touch the surface
// until Init is called.
type PresetFactory func(surface Surface, cfg domain.Config) (Preset, error)

// PresetDefinition pairs a descriptor with the factory that builds it.
// The catalog resolves these at startup; there is no reflection-based
// discovery.
type PresetDefinition struct {
	Descriptor domain.PresetDescriptor
	Factory    PresetFactory
}

// Surface is the shared rendering target all presets draw into.
// There is exactly one surface per application; only one preset's Update
// runs per frame slot, so presets never need to lock the framebuffer.
type Surface interface {
	// Size returns the current framebuffer dimensions in pixels.
	Size() (width, height int)

	// Framebuffer returns the shared RGBA framebuffer. Presets draw into it
	// during Update; the returned image stays valid until the next Commit.
	Framebuffer() *image.RGBA

	// Commit submits the current framebuffer contents for display.
	// Called by the render loop once per frame, after the active preset's
	// Update.
	Commit()
}
