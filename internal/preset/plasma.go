package preset

import (
	"image/color"
	"math"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

const plasmaPaletteSize = 256

// Plasma renders the classic demoscene plasma effect: overlapping sine
// fields indexed into a precomputed HSL palette. Low-band energy drives the
// animation speed, mid-band warps the field scale.
type Plasma struct {
	base
	draw DrawingUtils

	palette []color.RGBA
	phase   float64
}

// NewPlasma constructs the plasma preset. It conforms to ports.PresetFactory.
func NewPlasma(surface ports.Surface, cfg domain.Config) (ports.Preset, error) {
	return &Plasma{base: newBase(surface, cfg)}, nil
}

// Descriptor returns the preset's static identity and metadata.
func (p *Plasma) Descriptor() domain.PresetDescriptor {
	return domain.PresetDescriptor{
		ID:          "plasma",
		Name:        "Plasma",
		Description: "Demoscene plasma field with audio-reactive speed and scale",
		Author:      "visuales",
		Version:     "1.0.0",
		Category:    "generative",
		Tags:        []string{"plasma", "retro", "fullscreen"},
		Defaults: domain.Config{
			"speed": 1.0,
			"scale": 1.0,
		},
		Controls: []domain.ControlSpec{
			{Path: "speed", Label: "Speed", Kind: domain.ControlSlider, Min: 0.1, Max: 4.0, Default: 1.0},
			{Path: "scale", Label: "Scale", Kind: domain.ControlSlider, Min: 0.25, Max: 4.0, Default: 1.0},
		},
		AudioMapping: map[string]string{
			"low": "animation speed",
			"mid": "field scale",
		},
		Hints: domain.PerformanceHints{
			Complexity: domain.ComplexityMedium,
			TargetFPS:  60,
		},
	}
}

// Init precomputes the color palette.
func (p *Plasma) Init() error {
	if !p.beginInit() {
		return nil
	}

	p.palette = make([]color.RGBA, plasmaPaletteSize)
	for i := range p.palette {
		h := float64(i) / float64(plasmaPaletteSize)
		r, g, b := HSLToRGB(h, 1.0, 0.5)
		p.palette[i] = color.RGBA{
			R: uint8(r * 255),
			G: uint8(g * 255),
			B: uint8(b * 255),
			A: 255,
		}
	}
	return nil
}

// Update renders one frame of the plasma field.
func (p *Plasma) Update(frame domain.Frame) error {
	if !p.alive() {
		return nil
	}

	img := p.surface.Framebuffer()
	width, height := p.surface.Size()
	if width == 0 || height == 0 {
		return nil
	}

	speed := p.floatAt("speed", 1.0)
	scale := p.floatAt("scale", 1.0)
	opacity := p.opacity(frame)

	// Audio reactivity: bass pushes the phase forward, mids tighten the field.
	p.phase += frame.Delta.Seconds() * speed * (1.0 + frame.Audio.Low*4.0)
	fieldScale := scale * (1.0 + frame.Audio.Mid*1.5)

	for y := 0; y < height; y++ {
		fy := float64(y) / float64(height) * 8.0 * fieldScale
		for x := 0; x < width; x++ {
			fx := float64(x) / float64(width) * 8.0 * fieldScale

			v := math.Sin(fx + p.phase)
			v += math.Sin((fy + p.phase) * 0.5)
			v += math.Sin((fx+fy+p.phase)*0.5) * 0.5
			cx := fx + 2.5*math.Sin(p.phase*0.3)
			cy := fy + 2.5*math.Cos(p.phase*0.5)
			v += math.Sin(math.Sqrt(cx*cx+cy*cy)*0.7 + p.phase)

			// v is in roughly [-3.5, 3.5]; fold into palette range
			idx := int((v + 3.5) / 7.0 * float64(plasmaPaletteSize-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= plasmaPaletteSize {
				idx = plasmaPaletteSize - 1
			}

			img.SetRGBA(x, y, Scale(p.palette[idx], opacity))
		}
	}

	return nil
}

// UpdateConfig merges a delta; speed and scale are read per frame so no
// recomputation is needed.
func (p *Plasma) UpdateConfig(delta domain.Config) {
	p.merge(delta)
}

// Dispose releases the palette. Idempotent.
func (p *Plasma) Dispose() {
	if !p.beginDispose() {
		return
	}
	p.palette = nil
}

var _ ports.Preset = (*Plasma)(nil)
