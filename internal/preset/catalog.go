package preset

import (
	"github.com/lucasvidela/visuales/internal/ports"
)

// Definitions returns the built-in preset catalog in display order.
// The registry constructs every entry at load time; a failing factory only
// skips its own entry.
func Definitions() []ports.PresetDefinition {
	return []ports.PresetDefinition{
		{Descriptor: (&Spectrum{}).Descriptor(), Factory: NewSpectrum},
		{Descriptor: (&Plasma{}).Descriptor(), Factory: NewPlasma},
		{Descriptor: (&Starfield{}).Descriptor(), Factory: NewStarfield},
		{Descriptor: (&Geometria{}).Descriptor(), Factory: NewGeometria},
	}
}
