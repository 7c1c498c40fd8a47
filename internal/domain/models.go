// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the visuales preset runtime.
package domain

import (
	"time"
)

// PresetDescriptor is the static identity and metadata of a preset.
// It is declared by the preset author and immutable once loaded; the UI
// renders the control schema into form controls, the core never validates
// config deltas against it.
type PresetDescriptor struct {
	// ID is the stable identifier used for activation and lookup
	ID string

	// Name is the human-readable display name
	Name string

	// Description explains what the preset renders
	Description string

	// Author is the preset author
	Author string

	// Version is the preset version string
	Version string

	// Category groups presets in the selector (e.g. "spectrum", "generative")
	Category string

	// Tags are free-form labels for filtering
	Tags []string

	// Defaults is the preset's default configuration tree
	Defaults Config

	// Controls is the declared UI control schema (advisory only)
	Controls []ControlSpec

	// AudioMapping documents which audio features drive which parameters.
	// Informational only; the core does not interpret it.
	AudioMapping map[string]string

	// Hints are declared performance characteristics
	Hints PerformanceHints
}

// ControlSpec declares a single UI control for a configuration value.
type ControlSpec struct {
	// Path is the dot-separated key path into the config tree (e.g. "color.hue")
	Path string

	// Label is the display label
	Label string

	// Kind is the control type
	Kind ControlKind

	// Min and Max bound numeric controls
	Min float64
	Max float64

	// Default is the control's default value
	Default any
}

// ControlKind identifies the type of a declared UI control.
type ControlKind string

// Available control kinds.
const (
	ControlSlider ControlKind = "slider"
	ControlToggle ControlKind = "toggle"
	ControlSelect ControlKind = "select"
	ControlColor  ControlKind = "color"
)

// ComplexityTier classifies how expensive a preset is to render.
type ComplexityTier int

const (
	// ComplexityLight presets render comfortably on any machine
	ComplexityLight ComplexityTier = iota

	// ComplexityMedium presets do per-pixel work every frame
	ComplexityMedium

	// ComplexityHeavy presets should only run on capable hardware
	ComplexityHeavy
)

// String returns a human-readable representation of the complexity tier.
func (c ComplexityTier) String() string {
	switch c {
	case ComplexityLight:
		return "light"
	case ComplexityMedium:
		return "medium"
	case ComplexityHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// PerformanceHints are declared performance characteristics of a preset.
type PerformanceHints struct {
	// Complexity is the declared rendering cost tier
	Complexity ComplexityTier

	// TargetFPS is the frame rate the preset is tuned for (0 means default)
	TargetFPS int

	// GPUIntensive marks presets that stress the rendering surface
	GPUIntensive bool
}

// AudioData is a normalized audio-feature snapshot delivered by an audio
// analysis source. Energy bands are in [0,1]. The FFT slice is optional and
// read-only from the preset's perspective.
//
// AudioData is a value type: sources deliver whole snapshots and the runtime
// overwrites its latest-value cell wholesale, so "latest sample wins" and no
// historical buffering exists anywhere in the core.
type AudioData struct {
	// Low is the normalized low-band energy (roughly 20-250 Hz)
	Low float64

	// Mid is the normalized mid-band energy (roughly 250-4000 Hz)
	Mid float64

	// High is the normalized high-band energy (roughly 4 kHz and up)
	High float64

	// FFT holds optional frequency-bin magnitudes, low to high
	FFT []float32
}

// MIDIEvent is a discrete note event from a MIDI source.
type MIDIEvent struct {
	// Note is the MIDI note number (0-127)
	Note int

	// Velocity is the note velocity (0-127, 0 means note off)
	Velocity int
}

// Frame is everything a preset receives for one render-frame update.
type Frame struct {
	// Audio is the latest audio snapshot available when the frame started
	Audio AudioData

	// Delta is the elapsed time since the previous frame
	Delta time.Duration

	// Time is the absolute animation time since the loop started
	Time time.Duration

	// Opacity is the global output opacity in [0,1]
	Opacity float64
}

// PresetState tracks where a loaded preset instance is in its lifecycle.
type PresetState int

const (
	// StateLoaded means the instance is constructed but Init has not run
	StateLoaded PresetState = iota

	// StateActive means Init completed and the instance receives updates
	StateActive

	// StateDisposed means Dispose has run; no further calls are allowed
	StateDisposed

	// StateFailed means construction or Init failed; the instance is inert
	StateFailed
)

// String returns a human-readable representation of the preset state.
func (s PresetState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SourceInfo describes the audio source currently feeding the runtime.
// For file-backed sources it carries best-effort track metadata.
type SourceInfo struct {
	// Kind identifies the source implementation ("synth", "wav", "mock")
	Kind string

	// SampleRate is the source sample rate in Hz
	SampleRate int

	// Title and Artist are optional track metadata
	Title  string
	Artist string
}
