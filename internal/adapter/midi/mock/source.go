// Package mock provides a scripted MIDISource for tests and for driving
// presets from the keyboard when no MIDI hardware is attached.
package mock

import (
	"sync"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// Source is a MIDI source driven by explicit Emit calls. The window chrome
// uses it to map keyboard keys to drum notes; tests use it to script event
// sequences.
type Source struct {
	mu      sync.Mutex
	sink    ports.MIDISink
	running bool
}

// New creates a mock MIDI source.
func New() *Source {
	return &Source{}
}

// Start records the sink for later Emit calls.
func (s *Source) Start(sink ports.MIDISink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrSourceRunning
	}
	s.running = true
	s.sink = sink
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
	return nil
}

// Emit forwards one event to the sink. No-op when not started.
func (s *Source) Emit(event domain.MIDIEvent) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink.HandleMIDI(event)
	}
}

var _ ports.MIDISource = (*Source)(nil)
