// Package synth provides a self-contained demo audio source. It synthesizes
// a drum-and-drone loop in memory and feeds the analysis of each block to
// the runtime, so the visualizer works with no audio files or devices.
package synth

import (
	"math"
	"sync"
	"time"

	"github.com/lucasvidela/visuales/internal/adapter/audio"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

const (
	sampleRate = 44100
	blockSize  = 2048
	bpm        = 120.0
)

// Source is a generated-audio AudioSource. Each delivery interval it
// synthesizes the next sample block of a simple loop (kick on the beat, hat
// on the off-beat, a slow bass drone) and pushes the analyzed snapshot to
// the sink.
type Source struct {
	// Dependencies (injected)
	analyzer *audio.Analyzer

	// Concurrency control
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	phase float64 // absolute sample position across blocks
}

// New creates the demo synth source.
func New() *Source {
	return &Source{analyzer: audio.NewAnalyzer(sampleRate)}
}

// Start begins delivering analyzed blocks to the sink on a background
// goroutine, paced at the block rate. Returns domain.ErrSourceRunning when
// already started.
func (s *Source) Start(sink ports.AudioSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrSourceRunning
	}
	s.running = true
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(sink, s.stop)
	return nil
}

// run is the delivery loop. One block of samples per tick.
func (s *Source) run(sink ports.AudioSink, stop chan struct{}) {
	defer s.wg.Done()

	secondsPerBlock := float64(blockSize) / float64(sampleRate)
	interval := time.Duration(secondsPerBlock * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	block := make([]float64, blockSize)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.synthesize(block)
			sink.UpdateAudioData(s.analyzer.Analyze(block))
		}
	}
}

// synthesize fills the block with the next chunk of the loop.
func (s *Source) synthesize(block []float64) {
	beatLen := 60.0 / bpm * sampleRate

	for i := range block {
		t := s.phase + float64(i)
		beatPos := math.Mod(t, beatLen) / beatLen
		halfPos := math.Mod(t, beatLen/2) / (beatLen / 2)

		// Kick: pitched-down sine burst at the start of each beat.
		kickEnv := math.Exp(-beatPos * 18.0)
		kick := math.Sin(2*math.Pi*55.0*(t/sampleRate)) * kickEnv * 0.8

		// Hat: decaying pseudo-noise burst on the off-beat.
		hatEnv := 0.0
		if beatPos >= 0.5 {
			hatEnv = math.Exp(-(beatPos - 0.5) * 40.0)
		}
		hat := math.Sin(2*math.Pi*9000.0*(t/sampleRate)+math.Sin(t*0.7)*5) * hatEnv * 0.3

		// Drone: two slow detuned bass sines.
		drone := (math.Sin(2*math.Pi*110.0*(t/sampleRate)) +
			math.Sin(2*math.Pi*110.5*(t/sampleRate))) * 0.15

		// A mid-range arpeggio stepping every half beat.
		step := int(math.Mod(t/(beatLen/2), 4))
		arpFreq := 440.0 * math.Pow(2, float64(step)/4.0)
		arp := math.Sin(2*math.Pi*arpFreq*(t/sampleRate)) * 0.2 * (1.0 - halfPos)

		block[i] = kick + hat + drone + arp
	}

	s.phase += float64(len(block))
}

// Stop halts delivery and waits for the goroutine to exit.
// Returns domain.ErrSourceStopped when not running.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return domain.ErrSourceStopped
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Info describes the source.
func (s *Source) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Kind:       "synth",
		SampleRate: sampleRate,
		Title:      "Demo Loop",
		Artist:     "visuales",
	}
}

var _ ports.AudioSource = (*Source)(nil)
