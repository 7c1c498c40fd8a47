package preset

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

const starfieldDefaultCount = 400

// star is a single particle in 3D space, projected onto the framebuffer
// each frame.
type star struct {
	x, y, z float64
}

// Starfield renders the classic fly-through starfield. Bass energy pushes
// the warp speed; high-band energy brightens the stars.
type Starfield struct {
	base
	draw DrawingUtils

	stars []star
	rng   *rand.Rand
}

// NewStarfield constructs the starfield preset. It conforms to
// ports.PresetFactory.
func NewStarfield(surface ports.Surface, cfg domain.Config) (ports.Preset, error) {
	return &Starfield{base: newBase(surface, cfg)}, nil
}

// Descriptor returns the preset's static identity and metadata.
func (s *Starfield) Descriptor() domain.PresetDescriptor {
	return domain.PresetDescriptor{
		ID:          "starfield",
		Name:        "Starfield",
		Description: "Fly-through starfield with bass-driven warp speed",
		Author:      "visuales",
		Version:     "1.0.0",
		Category:    "generative",
		Tags:        []string{"stars", "3d", "retro"},
		Defaults: domain.Config{
			"stars": starfieldDefaultCount,
			"speed": 1.0,
		},
		Controls: []domain.ControlSpec{
			{Path: "stars", Label: "Stars", Kind: domain.ControlSlider, Min: 50, Max: 2000, Default: starfieldDefaultCount},
			{Path: "speed", Label: "Warp speed", Kind: domain.ControlSlider, Min: 0.1, Max: 5.0, Default: 1.0},
		},
		AudioMapping: map[string]string{
			"low":  "warp speed",
			"high": "star brightness",
		},
		Hints: domain.PerformanceHints{
			Complexity: domain.ComplexityLight,
			TargetFPS:  60,
		},
	}
}

// Init seeds the star positions.
func (s *Starfield) Init() error {
	if !s.beginInit() {
		return nil
	}

	s.rng = rand.New(rand.NewSource(42))
	count := s.intAt("stars", starfieldDefaultCount)
	if count < 1 {
		count = starfieldDefaultCount
	}
	s.stars = make([]star, count)
	for i := range s.stars {
		s.stars[i] = s.spawn()
	}
	return nil
}

// spawn places a star at a random position in the view frustum.
func (s *Starfield) spawn() star {
	return star{
		x: s.rng.Float64()*2 - 1,
		y: s.rng.Float64()*2 - 1,
		z: s.rng.Float64()*0.9 + 0.1,
	}
}

// Update advances and projects every star.
func (s *Starfield) Update(frame domain.Frame) error {
	if !s.alive() {
		return nil
	}

	img := s.surface.Framebuffer()
	width, height := s.surface.Size()
	if width == 0 || height == 0 {
		return nil
	}

	opacity := s.opacity(frame)
	s.draw.FillBackground(img, color.Black)

	speed := s.floatAt("speed", 1.0)
	warp := speed * (0.3 + frame.Audio.Low*2.0) * frame.Delta.Seconds()
	brightness := 0.6 + frame.Audio.High*0.4

	cx := float64(width) / 2
	cy := float64(height) / 2

	for i := range s.stars {
		s.stars[i].z -= warp
		if s.stars[i].z <= 0.01 {
			s.stars[i] = s.spawn()
			s.stars[i].z = 1.0
		}

		st := &s.stars[i]
		px := int(cx + st.x/st.z*cx)
		py := int(cy + st.y/st.z*cy)
		if px < 0 || px >= width || py < 0 || py >= height {
			s.stars[i] = s.spawn()
			s.stars[i].z = 1.0
			continue
		}

		// Closer stars are bigger and brighter.
		depth := 1.0 - st.z
		level := uint8(math.Min(255, (80+depth*175)*brightness))
		col := Scale(color.RGBA{R: level, G: level, B: level, A: 255}, opacity)

		if depth > 0.7 {
			s.draw.DrawFilledCircle(img, px, py, 1.5, col)
		} else {
			img.SetRGBA(px, py, col)
		}
	}

	return nil
}

// UpdateConfig merges a delta and reseeds the field when the star count
// changes.
func (s *Starfield) UpdateConfig(delta domain.Config) {
	s.merge(delta)
	if !s.alive() {
		return
	}
	if n := s.intAt("stars", len(s.stars)); n != len(s.stars) && n >= 1 {
		stars := make([]star, n)
		for i := range stars {
			if i < len(s.stars) {
				stars[i] = s.stars[i]
			} else {
				stars[i] = s.spawn()
			}
		}
		s.stars = stars
	}
}

// Dispose releases the particle state. Idempotent.
func (s *Starfield) Dispose() {
	if !s.beginDispose() {
		return
	}
	s.stars = nil
}

var _ ports.Preset = (*Starfield)(nil)
