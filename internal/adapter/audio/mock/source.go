// Package mock provides a scripted AudioSource for tests.
package mock

import (
	"sync"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// Source is a test double that delivers snapshots only when told to.
// No goroutines, no timing; tests drive it synchronously.
type Source struct {
	mu      sync.Mutex
	sink    ports.AudioSink
	running bool

	StartCalls int
	StopCalls  int
}

// New creates a mock audio source.
func New() *Source {
	return &Source{}
}

// Start records the sink for later Emit calls.
func (s *Source) Start(sink ports.AudioSink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrSourceRunning
	}
	s.running = true
	s.sink = sink
	s.StartCalls++
	return nil
}

// Stop clears the sink.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return domain.ErrSourceStopped
	}
	s.running = false
	s.sink = nil
	s.StopCalls++
	return nil
}

// Info describes the source.
func (s *Source) Info() domain.SourceInfo {
	return domain.SourceInfo{Kind: "mock", SampleRate: 44100}
}

// Emit pushes one snapshot to the sink. No-op when not started.
func (s *Source) Emit(data domain.AudioData) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink.UpdateAudioData(data)
	}
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Source) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

var _ ports.AudioSource = (*Source)(nil)
