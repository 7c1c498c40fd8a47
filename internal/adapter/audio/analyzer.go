// Package audio provides shared spectral analysis for the audio source
// adapters. Sources produce raw sample blocks; the analyzer turns each block
// into the normalized AudioData snapshot presets consume.
package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/lucasvidela/visuales/internal/domain"
)

// Band boundaries in Hz.
const (
	lowBandMax = 250.0
	midBandMax = 4000.0
)

// Analyzer converts time-domain sample blocks into AudioData snapshots.
// It windows the block, runs a real FFT and folds the magnitudes into the
// three energy bands.
type Analyzer struct {
	sampleRate int
	win        []float64
}

// NewAnalyzer creates an analyzer for the given sample rate.
func NewAnalyzer(sampleRate int) *Analyzer {
	return &Analyzer{sampleRate: sampleRate}
}

// Analyze produces an AudioData snapshot from one block of mono samples in
// [-1,1]. The FFT slice holds the normalized magnitudes of the positive
// frequency bins.
func (a *Analyzer) Analyze(samples []float64) domain.AudioData {
	if len(samples) < 2 {
		return domain.AudioData{}
	}

	// Window to reduce spectral leakage. The window is cached per block size.
	if len(a.win) != len(samples) {
		a.win = window.Hann(len(samples))
	}
	windowed := make([]float64, len(samples))
	for i, s := range samples {
		windowed[i] = s * a.win[i]
	}

	spectrum := fft.FFTReal(windowed)
	bins := len(spectrum) / 2
	magnitudes := make([]float32, bins)
	for i := 0; i < bins; i++ {
		// Normalize so a full-scale sine lands near 1.0.
		m := 2.0 * cmplx.Abs(spectrum[i]) / float64(len(samples))
		if m > 1.0 {
			m = 1.0
		}
		magnitudes[i] = float32(m)
	}

	binWidth := float64(a.sampleRate) / float64(len(samples))
	low, mid, high := bandEnergies(magnitudes, binWidth)

	return domain.AudioData{
		Low:  low,
		Mid:  mid,
		High: high,
		FFT:  magnitudes,
	}
}

// bandEnergies folds bin magnitudes into normalized low/mid/high energies.
// Each band reports its RMS magnitude, compressed with sqrt so quiet
// passages still register visually.
func bandEnergies(magnitudes []float32, binWidth float64) (low, mid, high float64) {
	var sums [3]float64
	var counts [3]int

	for i, m := range magnitudes {
		freq := float64(i) * binWidth
		var band int
		switch {
		case freq < lowBandMax:
			band = 0
		case freq < midBandMax:
			band = 1
		default:
			band = 2
		}
		sums[band] += float64(m) * float64(m)
		counts[band]++
	}

	norm := func(band int) float64 {
		if counts[band] == 0 {
			return 0
		}
		rms := math.Sqrt(sums[band] / float64(counts[band]))
		v := math.Sqrt(rms) // perceptual compression
		if v > 1 {
			v = 1
		}
		return v
	}

	return norm(0), norm(1), norm(2)
}
