// Package domain defines domain-specific errors.
// These errors represent runtime failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that the registry, runtime and adapters can return.
var (
	// ErrPresetNotFound is returned when a preset id is not in the loaded set.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrPresetDisposed is returned when an operation targets a disposed instance.
	ErrPresetDisposed = errors.New("preset already disposed")

	// ErrPresetNotActive is returned when an operation requires an active preset.
	ErrPresetNotActive = errors.New("preset is not active")

	// ErrRegistryDisposed is returned when the registry has been torn down.
	ErrRegistryDisposed = errors.New("registry disposed")

	// ErrInvalidOpacity is returned when the opacity is out of valid range (0.0-1.0).
	ErrInvalidOpacity = errors.New("invalid opacity: must be between 0.0 and 1.0")

	// ErrSourceRunning is returned when starting an already running audio source.
	ErrSourceRunning = errors.New("audio source already running")

	// ErrSourceStopped is returned when stopping a source that is not running.
	ErrSourceStopped = errors.New("audio source not running")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrLoopRunning is returned when starting an already running render loop.
	ErrLoopRunning = errors.New("render loop already running")
)

// PresetError wraps a failure attributed to a single preset instance.
// It carries the lifecycle operation so callers can distinguish a factory
// failure from a per-frame fault.
type PresetError struct {
	PresetID string // Preset identifier
	Op       string // Operation that failed ("construct", "init", "update", "dispose")
	Err      error  // Underlying error (or recovered panic wrapped as error)
}

// Error implements the error interface.
func (e *PresetError) Error() string {
	return fmt.Sprintf("preset %s: %s failed: %v", e.PresetID, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PresetError) Unwrap() error {
	return e.Err
}

// NewPresetError creates a new PresetError.
func NewPresetError(presetID, op string, err error) *PresetError {
	return &PresetError{
		PresetID: presetID,
		Op:       op,
		Err:      err,
	}
}

// SourceError represents an error from an audio or MIDI source adapter.
type SourceError struct {
	Kind    string // Source kind ("synth", "wav", "mock")
	Op      string // Operation that failed ("open", "decode", "start")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s source %s failed for '%s': %s", e.Kind, e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("%s source %s failed: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(kind, op, path, message string, err error) *SourceError {
	return &SourceError{
		Kind:    kind,
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from the config repository.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Key     string // Storage key involved
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s failed for %q: %s", e.Op, e.Key, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, key, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Key:     key,
		Message: message,
		Err:     err,
	}
}
