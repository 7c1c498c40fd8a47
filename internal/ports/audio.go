// Package ports define the audio source and sink interfaces.
package ports

import (
	"github.com/lucasvidela/visuales/internal/domain"
)

// AudioSink receives audio-analysis snapshots from a source.
// Delivery is push-based and must never block: the runtime implements this
// as a latest-value cell, so a slow render loop silently drops intermediate
// samples instead of building backlog.
type AudioSink interface {
	UpdateAudioData(data domain.AudioData)
}

// AudioSource is an audio-analysis collaborator delivering normalized
// band energies (and optionally an FFT) to a sink at its own rate.
// Audio frames do not arrive in lockstep with render frames.
//
// Implementations must be safe to Start and Stop from any goroutine and
// must stop delivering before Stop returns.
type AudioSource interface {
	// Start begins asynchronous delivery to the sink.
	// Returns domain.ErrSourceRunning if already started.
	Start(sink AudioSink) error

	// Stop halts delivery and releases the source's resources.
	// Returns domain.ErrSourceStopped if not running.
	Stop() error

	// Info describes the source and, when available, the current track.
	Info() domain.SourceInfo
}
