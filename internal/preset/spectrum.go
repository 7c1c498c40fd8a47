package preset

import (
	"image/color"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

const (
	spectrumDefaultBars = 48
	capFallSpeed        = 2.5
	capHoldHeight       = 4.0
)

// Spectrum renders classic frequency bars with falling peak caps.
// Bar heights come from the raw FFT bins when the source provides them;
// otherwise the three band energies are spread across the bars.
type Spectrum struct {
	base
	analyzer FrequencyAnalyzer
	draw     DrawingUtils

	numBars    int
	capHeights []float32
}

// NewSpectrum constructs the spectrum preset. It conforms to
// ports.PresetFactory.
func NewSpectrum(surface ports.Surface, cfg domain.Config) (ports.Preset, error) {
	return &Spectrum{base: newBase(surface, cfg)}, nil
}

// Descriptor returns the preset's static identity and metadata.
func (s *Spectrum) Descriptor() domain.PresetDescriptor {
	return domain.PresetDescriptor{
		ID:          "spectrum",
		Name:        "Spectrum Bars",
		Description: "Frequency bars with falling peak caps on a red-to-green gradient",
		Author:      "visuales",
		Version:     "1.0.0",
		Category:    "spectrum",
		Tags:        []string{"bars", "fft", "classic"},
		Defaults: domain.Config{
			"bars":      spectrumDefaultBars,
			"show_caps": true,
		},
		Controls: []domain.ControlSpec{
			{Path: "bars", Label: "Bars", Kind: domain.ControlSlider, Min: 8, Max: 128, Default: spectrumDefaultBars},
			{Path: "show_caps", Label: "Peak caps", Kind: domain.ControlToggle, Default: true},
		},
		AudioMapping: map[string]string{
			"fft": "bar heights",
		},
		Hints: domain.PerformanceHints{
			Complexity: domain.ComplexityLight,
			TargetFPS:  60,
		},
	}
}

// Init allocates the peak-cap state.
func (s *Spectrum) Init() error {
	if !s.beginInit() {
		return nil
	}
	s.numBars = s.intAt("bars", spectrumDefaultBars)
	if s.numBars < 1 {
		s.numBars = spectrumDefaultBars
	}
	s.capHeights = make([]float32, s.numBars)
	return nil
}

// Update draws one frame of bars and caps.
func (s *Spectrum) Update(frame domain.Frame) error {
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

	heights := s.barHeights(frame.Audio, float64(height))
	barWidth := width / s.numBars
	if barWidth < 1 {
		barWidth = 1
	}
	// Leave a 1px gap between bars when there is room for one.
	drawWidth := barWidth
	if barWidth > 1 {
		drawWidth = barWidth - 1
	}

	showCaps := s.boolAt("show_caps", true)

	for i := 0; i < s.numBars && i < len(heights); i++ {
		barHeight := float64(heights[i])
		x := i * barWidth

		// Caps fall at a constant rate and snap up to new peaks.
		if float64(s.capHeights[i]) > barHeight {
			s.capHeights[i] -= capFallSpeed
		}
		if barHeight > float64(s.capHeights[i]) {
			s.capHeights[i] = float32(barHeight)
		}

		col := Scale(s.draw.GetGradientColor(barHeight/float64(height)), opacity)
		for px := x; px < x+drawWidth && px < width; px++ {
			s.draw.DrawLine(img, px, height-1, px, height-1-int(barHeight), col)
		}

		if showCaps && s.capHeights[i] > 0 {
			capY := height - 1 - int(s.capHeights[i]) - int(capHoldHeight)
			capCol := Scale(color.RGBA{R: 255, G: 255, B: 255, A: 255}, opacity)
			for px := x; px < x+drawWidth && px < width; px++ {
				s.draw.DrawLine(img, px, capY, px, capY+int(capHoldHeight)/2, capCol)
			}
		}
	}

	return nil
}

// barHeights resolves per-bar heights from the FFT when present, falling
// back to the three band energies.
func (s *Spectrum) barHeights(audio domain.AudioData, maxHeight float64) []float32 {
	if len(audio.FFT) >= 2 {
		return s.analyzer.CalculateBarHeights(audio.FFT, s.numBars, maxHeight)
	}

	// Band fallback: spread low/mid/high across thirds of the bars.
	heights := make([]float32, s.numBars)
	for i := range heights {
		var energy float64
		switch {
		case i < s.numBars/3:
			energy = audio.Low
		case i < 2*s.numBars/3:
			energy = audio.Mid
		default:
			energy = audio.High
		}
		heights[i] = float32(energy * maxHeight * 0.9)
	}
	return heights
}

// UpdateConfig merges a delta and resizes the cap state when the bar count
// changes.
func (s *Spectrum) UpdateConfig(delta domain.Config) {
	s.merge(delta)
	if !s.alive() {
		return
	}
	if n := s.intAt("bars", s.numBars); n != s.numBars && n >= 1 {
		s.numBars = n
		s.capHeights = make([]float32, n)
	}
}

// Dispose drops the allocated state. Idempotent.
func (s *Spectrum) Dispose() {
	if !s.beginDispose() {
		return
	}
	s.capHeights = nil
}

var _ ports.Preset = (*Spectrum)(nil)
