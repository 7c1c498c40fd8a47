// Package ports define the MIDI source and sink interfaces.
package ports

import (
	"github.com/lucasvidela/visuales/internal/domain"
)

// MIDISink receives discrete note events from a MIDI source.
type MIDISink interface {
	HandleMIDI(event domain.MIDIEvent)
}

// MIDISource delivers note/velocity events asynchronously.
// Presets that implement MIDIHandler receive the events; everything else
// ignores them.
type MIDISource interface {
	// Start begins asynchronous delivery to the sink.
	Start(sink MIDISink) error

	// Stop halts delivery.
	Stop() error
}
