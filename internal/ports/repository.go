// Package ports define repository interfaces for session persistence.
package ports

import (
	"errors"

	"github.com/lucasvidela/visuales/internal/domain"
)

// ErrNoSavedConfig is returned when no override is stored for a preset.
var ErrNoSavedConfig = errors.New("no saved config for preset")

// ConfigRepository persists session state between runs: per-preset config
// overrides, the last active preset and the global opacity.
//
// The core runtime itself never touches persistence; the application facade
// saves on shutdown and re-applies overrides on activation.
type ConfigRepository interface {
	// SavePresetConfig stores the accumulated config override for a preset.
	SavePresetConfig(presetID string, cfg domain.Config) error

	// LoadPresetConfig retrieves the stored override for a preset.
	// Returns ErrNoSavedConfig when nothing is stored.
	LoadPresetConfig(presetID string) (domain.Config, error)

	// SaveLastPreset stores the id of the last active preset ("" for none).
	SaveLastPreset(presetID string) error

	// LoadLastPreset retrieves the last active preset id ("" for none).
	LoadLastPreset() (string, error)

	// SaveOpacity stores the global output opacity.
	SaveOpacity(opacity float64) error

	// LoadOpacity retrieves the stored opacity, or 1.0 if none is stored.
	LoadOpacity() (float64, error)

	// Clear removes all stored session state.
	Clear() error
}
