// Package wavfile provides an AudioSource that plays back the analysis of a
// WAV file in real time. Only the spectral snapshots reach the runtime;
// audible playback is out of scope here.
package wavfile

import (
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dhowden/tag"

	"github.com/lucasvidela/visuales/internal/adapter/audio"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

const blockSize = 2048

// Source reads PCM blocks from a WAV file, analyzes each block and delivers
// the snapshots to the sink paced at the file's real-time rate. At EOF the
// file loops.
type Source struct {
	path string

	// Populated by Open
	file     *os.File
	decoder  *wav.Decoder
	analyzer *audio.Analyzer
	info     domain.SourceInfo

	// Concurrency control
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// Open validates the file and reads its format and, best effort, its tag
// metadata. Returns domain.ErrUnsupportedFormat for non-WAV content.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewSourceError("wav", "open", path, "cannot open file", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, domain.NewSourceError("wav", "open", path, "not a valid WAV file", domain.ErrUnsupportedFormat)
	}

	info := domain.SourceInfo{
		Kind:       "wav",
		SampleRate: int(decoder.SampleRate),
	}

	// Tag metadata is optional; most WAV files carry none.
	if _, err := f.Seek(0, 0); err == nil {
		if meta, err := tag.ReadFrom(f); err == nil {
			info.Title = meta.Title()
			info.Artist = meta.Artist()
		}
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, domain.NewSourceError("wav", "open", path, "cannot rewind file", err)
	}
	decoder = wav.NewDecoder(f)
	decoder.ReadInfo()

	// A malformed header can slip through with a zero bit depth, which would
	// make the sample scale divide to Inf.
	if decoder.BitDepth < 8 || decoder.BitDepth > 32 {
		_ = f.Close()
		return nil, domain.NewSourceError("wav", "open", path, "unusable bit depth", domain.ErrUnsupportedFormat)
	}

	return &Source{
		path:     path,
		file:     f,
		decoder:  decoder,
		analyzer: audio.NewAnalyzer(info.SampleRate),
		info:     info,
	}, nil
}

// Start begins delivering analyzed blocks to the sink.
// Returns domain.ErrSourceRunning when already started.
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

// run reads, analyzes and delivers one block per tick, looping at EOF.
func (s *Source) run(sink ports.AudioSink, stop chan struct{}) {
	defer s.wg.Done()

	channels := int(s.decoder.NumChans)
	if channels < 1 {
		channels = 1
	}

	interval := time.Duration(float64(blockSize) / float64(s.info.SampleRate) * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := &goaudio.IntBuffer{
		Data:   make([]int, blockSize*channels),
		Format: &goaudio.Format{NumChannels: channels, SampleRate: s.info.SampleRate},
	}
	mono := make([]float64, blockSize)
	scale := float64(int(1) << (s.decoder.BitDepth - 1))

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := s.decoder.PCMBuffer(buf)
			if err != nil || n == 0 {
				// Loop the file.
				if err := s.decoder.Rewind(); err != nil {
					return
				}
				continue
			}

			frames := n / channels
			for i := 0; i < frames && i < len(mono); i++ {
				var sum float64
				for c := 0; c < channels; c++ {
					sum += float64(buf.Data[i*channels+c])
				}
				mono[i] = sum / float64(channels) / scale
			}
			for i := frames; i < len(mono); i++ {
				mono[i] = 0
			}

			sink.UpdateAudioData(s.analyzer.Analyze(mono))
		}
	}
}

// Stop halts delivery and closes the file.
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
	return s.file.Close()
}

// Info describes the source, including best-effort track metadata.
func (s *Source) Info() domain.SourceInfo {
	return s.info
}

var _ ports.AudioSource = (*Source)(nil)
