// Package memory implements the config repository on top of Fyne's
// preferences store. The name follows the storage backend's nature: Fyne
// keeps preferences in memory and flushes them to disk itself.
package memory

import (
	"encoding/json"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// Preference keys. Per-preset configs get their id appended.
const (
	keyConfigPrefix = "session.preset_config."
	keyLastPreset   = "session.last_preset"
	keyOpacity      = "session.opacity"
	keyKnownPresets = "session.known_presets"
)

// ConfigRepository implements ports.ConfigRepository using Fyne preferences.
// Config trees are stored as JSON strings; Fyne preferences only hold flat
// scalar values.
//
// Thread-safe: all operations protected by sync.RWMutex.
type ConfigRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewConfigRepository creates a repository backed by the given preferences.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewConfigRepository(prefs fyne.Preferences) *ConfigRepository {
	return &ConfigRepository{prefs: prefs}
}

// SavePresetConfig stores the accumulated config override for a preset.
func (r *ConfigRepository) SavePresetConfig(presetID string, cfg domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(cfg)
	if err != nil {
		return domain.NewRepositoryError("save", keyConfigPrefix+presetID, "failed to marshal config", err)
	}

	r.prefs.SetString(keyConfigPrefix+presetID, string(data))
	r.rememberPresetLocked(presetID)
	return nil
}

// LoadPresetConfig retrieves the stored override for a preset.
// Returns ports.ErrNoSavedConfig when nothing is stored.
func (r *ConfigRepository) LoadPresetConfig(presetID string) (domain.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.prefs.String(keyConfigPrefix + presetID)
	if data == "" {
		return nil, ports.ErrNoSavedConfig
	}

	var cfg domain.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, domain.NewRepositoryError("load", keyConfigPrefix+presetID, "failed to unmarshal config", err)
	}
	return cfg, nil
}

// SaveLastPreset stores the id of the last active preset.
func (r *ConfigRepository) SaveLastPreset(presetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyLastPreset, presetID)
	return nil
}

// LoadLastPreset retrieves the last active preset id ("" for none).
func (r *ConfigRepository) LoadLastPreset() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.StringWithFallback(keyLastPreset, ""), nil
}

// SaveOpacity persists the global output opacity.
func (r *ConfigRepository) SaveOpacity(opacity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetFloat(keyOpacity, opacity)
	return nil
}

// LoadOpacity retrieves the stored opacity, or 1.0 if none is stored.
func (r *ConfigRepository) LoadOpacity() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.FloatWithFallback(keyOpacity, 1.0), nil
}

// Clear removes all stored session state, including every per-preset config
// recorded so far.
func (r *ConfigRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.knownPresetsLocked() {
		r.prefs.RemoveValue(keyConfigPrefix + id)
	}
	r.prefs.RemoveValue(keyKnownPresets)
	r.prefs.RemoveValue(keyLastPreset)
	r.prefs.RemoveValue(keyOpacity)
	return nil
}

// rememberPresetLocked tracks ids with stored configs so Clear can find
// every dynamic key. Must be called with r.mu held.
func (r *ConfigRepository) rememberPresetLocked(presetID string) {
	known := r.knownPresetsLocked()
	for _, id := range known {
		if id == presetID {
			return
		}
	}
	known = append(known, presetID)
	data, err := json.Marshal(known)
	if err != nil {
		return
	}
	r.prefs.SetString(keyKnownPresets, string(data))
}

// knownPresetsLocked returns ids with stored configs. Must be called with
// r.mu held.
func (r *ConfigRepository) knownPresetsLocked() []string {
	data := r.prefs.String(keyKnownPresets)
	if data == "" {
		return nil
	}
	var known []string
	if err := json.Unmarshal([]byte(data), &known); err != nil {
		return nil
	}
	return known
}

// Verify interface implementation
var _ ports.ConfigRepository = (*ConfigRepository)(nil)
