package preset

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// MIDI note assignments for the drum kit driving the form.
const (
	noteKick      = 60
	noteClosedHat = 62
	noteTom1      = 64
	noteTom2      = 65
)

const glitchOffsetCount = 20

// shapeSides are the polygon side counts the form morphs between.
var shapeSides = []int{3, 4, 5, 6, 8, 12}

// Geometria renders a single morphing polygon driven by MIDI drum hits.
// The kick pulses the form, the closed hat glitches its vertices, one tom
// morphs the shape and the other spins it. Between hits everything decays
// back toward rest, so the form breathes with the performance.
type Geometria struct {
	base
	draw DrawingUtils
	rng  *rand.Rand

	sides      int
	baseRadius float64

	// Kick response
	pulse       float64
	pulseTarget float64
	radius      float64
	radiusTgt   float64

	// Hat response
	glitch        float64
	offsets       []float64
	offsetTargets []float64

	// Tom response
	rotation      float64
	rotationSpeed float64

	// Organic vertex wobble
	noiseOffset float64
}

// NewGeometria constructs the geometria preset. It conforms to
// ports.PresetFactory.
func NewGeometria(surface ports.Surface, cfg domain.Config) (ports.Preset, error) {
	return &Geometria{base: newBase(surface, cfg)}, nil
}

// Descriptor returns the preset's static identity and metadata.
func (g *Geometria) Descriptor() domain.PresetDescriptor {
	return domain.PresetDescriptor{
		ID:          "geometria",
		Name:        "Geometria",
		Description: "MIDI-driven morphing polygon: kick pulses, hats glitch, toms morph and spin",
		Author:      "visuales",
		Version:     "1.0.0",
		Category:    "generative",
		Tags:        []string{"midi", "polygon", "live"},
		Defaults: domain.Config{
			"sides":       6,
			"base_radius": 120.0,
		},
		Controls: []domain.ControlSpec{
			{Path: "sides", Label: "Sides", Kind: domain.ControlSelect, Min: 3, Max: 12, Default: 6},
			{Path: "base_radius", Label: "Base radius", Kind: domain.ControlSlider, Min: 40, Max: 300, Default: 120.0},
		},
		AudioMapping: map[string]string{
			"midi:60": "kick pulse",
			"midi:62": "vertex glitch",
			"midi:64": "shape morph",
			"midi:65": "rotation kick",
			"low":     "ambient pulse",
		},
		Hints: domain.PerformanceHints{
			Complexity: domain.ComplexityLight,
			TargetFPS:  60,
		},
	}
}

// Init seeds the form at rest.
func (g *Geometria) Init() error {
	if !g.beginInit() {
		return nil
	}

	g.rng = rand.New(rand.NewSource(7))
	g.sides = g.intAt("sides", 6)
	if g.sides < 3 {
		g.sides = 3
	}
	g.baseRadius = g.floatAt("base_radius", 120.0)
	g.radius = g.baseRadius
	g.radiusTgt = g.baseRadius
	g.offsets = make([]float64, glitchOffsetCount)
	g.offsetTargets = make([]float64, glitchOffsetCount)
	return nil
}

// OnMIDI dispatches a drum hit to the matching trigger. Unmapped notes are
// ignored. Velocity 0 is a note-off and does nothing.
func (g *Geometria) OnMIDI(event domain.MIDIEvent) {
	if !g.alive() || event.Velocity <= 0 {
		return
	}

	vel := float64(event.Velocity) / 127.0

	switch event.Note {
	case noteKick:
		g.triggerKick(vel)
	case noteClosedHat:
		g.triggerHat(vel)
	case noteTom1:
		g.triggerMorph()
	case noteTom2:
		g.triggerSpin(vel)
	}
}

// triggerKick pulses the form and expands the radius toward a hit-scaled
// target.
func (g *Geometria) triggerKick(vel float64) {
	g.pulseTarget = math.Min(1.0, g.pulseTarget+vel*0.8)
	g.radiusTgt = g.baseRadius * (1.0 + vel*0.4)
}

// triggerHat raises the glitch level and scatters the vertex offsets.
func (g *Geometria) triggerHat(vel float64) {
	g.glitch = math.Min(1.0, g.glitch+vel*0.6)
	for i := range g.offsetTargets {
		g.offsetTargets[i] = (g.rng.Float64()*2 - 1) * 30.0 * vel
	}
}

// triggerMorph picks a new side count at random.
func (g *Geometria) triggerMorph() {
	g.sides = shapeSides[g.rng.Intn(len(shapeSides))]
}

// triggerSpin kicks the rotation in a random direction scaled by velocity.
func (g *Geometria) triggerSpin(vel float64) {
	g.rotationSpeed = (g.rng.Float64()*6 - 3) * vel
}

// Update decays all transient state toward rest and redraws the form.
func (g *Geometria) Update(frame domain.Frame) error {
	if !g.alive() {
		return nil
	}

	img := g.surface.Framebuffer()
	width, height := g.surface.Size()
	if width == 0 || height == 0 {
		return nil
	}

	// Low-band energy gives a gentle ambient pulse even without MIDI.
	g.pulseTarget = math.Min(1.0, g.pulseTarget+frame.Audio.Low*0.05)

	// Decay pass. The constants are tuned for 60 fps.
	g.pulse += (g.pulseTarget - g.pulse) * 0.15
	g.pulseTarget *= 0.92
	g.radius += (g.radiusTgt - g.radius) * 0.1
	g.radiusTgt += (g.baseRadius - g.radiusTgt) * 0.08
	g.glitch *= 0.88
	for i := range g.offsets {
		g.offsets[i] += (g.offsetTargets[i] - g.offsets[i]) * 0.2
		g.offsetTargets[i] *= 0.9
	}
	g.rotation += g.rotationSpeed
	g.rotationSpeed *= 0.98
	g.noiseOffset += 0.02

	opacity := g.opacity(frame)
	g.draw.FillBackground(img, color.Black)

	cx := width / 2
	cy := height / 2

	// Glitch echoes behind the main form, fading out.
	if g.glitch > 0.1 {
		echoes := int(g.glitch * 8)
		for i := 0; i < echoes; i++ {
			fade := 120.0 / 255.0 * (1.0 - float64(i)/float64(echoes))
			pts := g.vertices(cx, cy, float64(i)*4.0)
			g.draw.DrawPolygon(img, pts, 1, Scale(color.RGBA{R: 120, G: 120, B: 120, A: 255}, fade*opacity))
		}
	}

	// Main form: solid outline plus two dimmer glow passes.
	pts := g.vertices(cx, cy, 0)
	gray := color.RGBA{R: 120, G: 120, B: 120, A: 255}
	darkGray := color.RGBA{R: 80, G: 80, B: 80, A: 255}
	g.draw.DrawPolygon(img, pts, 3, Scale(gray, opacity))
	g.draw.DrawPolygon(img, pts, 6, Scale(darkGray, 0.35*opacity))
	g.draw.DrawPolygon(img, pts, 9, Scale(darkGray, 0.18*opacity))

	// Center dot brightens with the pulse.
	dotFade := (100.0 + g.pulse*100.0) / 255.0
	g.draw.DrawFilledCircle(img, cx, cy, 3, Scale(gray, dotFade*opacity))

	return nil
}

// vertices computes the polygon's screen points with per-vertex wobble,
// glitch offsets and the kick pulse applied. jitter shifts echo copies.
func (g *Geometria) vertices(cx, cy int, jitter float64) []image.Point {
	pts := make([]image.Point, g.sides)
	rot := g.rotation * math.Pi / 180.0

	for i := 0; i < g.sides; i++ {
		angle := rot + float64(i)/float64(g.sides)*2*math.Pi - math.Pi/2
		wobble := math.Sin(g.noiseOffset+float64(i)*0.5) * 8.0
		r := g.radius + wobble + g.pulse*50.0 + jitter
		if i < len(g.offsets) {
			r += g.offsets[i] * g.glitch
		}
		pts[i] = image.Point{
			X: cx + int(math.Cos(angle)*r),
			Y: cy + int(math.Sin(angle)*r),
		}
	}
	return pts
}

// UpdateConfig merges a delta and applies side and radius changes
// immediately.
func (g *Geometria) UpdateConfig(delta domain.Config) {
	g.merge(delta)
	if !g.alive() {
		return
	}
	if n := g.intAt("sides", g.sides); n >= 3 {
		g.sides = n
	}
	if r := g.floatAt("base_radius", g.baseRadius); r > 0 {
		g.baseRadius = r
	}
}

// Dispose releases the vertex state. Idempotent.
func (g *Geometria) Dispose() {
	if !g.beginDispose() {
		return
	}
	g.offsets = nil
	g.offsetTargets = nil
}

var (
	_ ports.Preset      = (*Geometria)(nil)
	_ ports.MIDIHandler = (*Geometria)(nil)
)
