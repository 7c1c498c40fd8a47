package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasvidela/visuales/internal/domain"
)

const testSampleRate = 44100

func sineBlock(freq float64, size int) []float64 {
	block := make([]float64, size)
	for i := range block {
		block[i] = math.Sin(2 * math.Pi * freq * float64(i) / testSampleRate)
	}
	return block
}

func TestAnalyzer_BassSineLandsInLowBand(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	data := analyzer.Analyze(sineBlock(100, 2048))

	assert.Greater(t, data.Low, data.Mid)
	assert.Greater(t, data.Low, data.High)
	assert.Greater(t, data.Low, 0.1)
}

func TestAnalyzer_MidSineLandsInMidBand(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	data := analyzer.Analyze(sineBlock(1000, 2048))

	assert.Greater(t, data.Mid, data.Low)
	assert.Greater(t, data.Mid, data.High)
}

func TestAnalyzer_TrebleSineLandsInHighBand(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	data := analyzer.Analyze(sineBlock(8000, 2048))

	assert.Greater(t, data.High, data.Low)
	assert.Greater(t, data.High, data.Mid)
}

func TestAnalyzer_SilenceIsQuietEverywhere(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	data := analyzer.Analyze(make([]float64, 2048))

	assert.Zero(t, data.Low)
	assert.Zero(t, data.Mid)
	assert.Zero(t, data.High)
}

func TestAnalyzer_FFTBinsAreNormalized(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	data := analyzer.Analyze(sineBlock(1000, 2048))

	require.Len(t, data.FFT, 1024)
	for i, m := range data.FFT {
		assert.GreaterOrEqual(t, m, float32(0), "bin %d", i)
		assert.LessOrEqual(t, m, float32(1), "bin %d", i)
	}

	// The bin nearest the sine frequency carries real energy.
	binWidth := float64(testSampleRate) / 2048.0
	peak := int(1000.0 / binWidth)
	var maxNear float32
	for i := peak - 2; i <= peak+2; i++ {
		if data.FFT[i] > maxNear {
			maxNear = data.FFT[i]
		}
	}
	assert.Greater(t, maxNear, float32(0.2))
}

func TestAnalyzer_DegenerateInput(t *testing.T) {
	analyzer := NewAnalyzer(testSampleRate)

	assert.Equal(t, domain.AudioData{}, analyzer.Analyze(nil))
	assert.Equal(t, domain.AudioData{}, analyzer.Analyze([]float64{0.5}))
}
