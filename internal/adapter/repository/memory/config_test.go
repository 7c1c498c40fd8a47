package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// Helper to create a test config repository
func newTestConfigRepository() *ConfigRepository {
	app := test.NewApp()
	return NewConfigRepository(app.Preferences())
}

func TestConfigRepository_SaveAndLoadPresetConfig(t *testing.T) {
	repo := newTestConfigRepository()

	cfg := domain.Config{
		"speed": 2.5,
		"color": domain.Config{"hue": 0.3},
	}
	require.NoError(t, repo.SavePresetConfig("plasma", cfg))

	loaded, err := repo.LoadPresetConfig("plasma")
	require.NoError(t, err)

	assert.Equal(t, 2.5, loaded.FloatAt("speed", -1))
	// Nested trees survive the JSON round-trip
	assert.Equal(t, 0.3, loaded.FloatAt("color.hue", -1))
}

func TestConfigRepository_LoadPresetConfig_Missing(t *testing.T) {
	repo := newTestConfigRepository()

	_, err := repo.LoadPresetConfig("unknown")

	assert.ErrorIs(t, err, ports.ErrNoSavedConfig)
}

func TestConfigRepository_PresetConfigsAreIndependent(t *testing.T) {
	repo := newTestConfigRepository()

	require.NoError(t, repo.SavePresetConfig("plasma", domain.Config{"speed": 1.0}))
	require.NoError(t, repo.SavePresetConfig("starfield", domain.Config{"stars": 500}))

	plasma, err := repo.LoadPresetConfig("plasma")
	require.NoError(t, err)
	starfield, err := repo.LoadPresetConfig("starfield")
	require.NoError(t, err)

	assert.Equal(t, 1.0, plasma.FloatAt("speed", -1))
	_, hasStars := plasma.ValueAt("stars")
	assert.False(t, hasStars)
	assert.Equal(t, 500, starfield.IntAt("stars", -1))
}

func TestConfigRepository_SaveAndLoadLastPreset(t *testing.T) {
	repo := newTestConfigRepository()

	require.NoError(t, repo.SaveLastPreset("geometria"))

	last, err := repo.LoadLastPreset()
	require.NoError(t, err)
	assert.Equal(t, "geometria", last)
}

func TestConfigRepository_LoadLastPreset_Default(t *testing.T) {
	repo := newTestConfigRepository()

	last, err := repo.LoadLastPreset()
	require.NoError(t, err)
	assert.Equal(t, "", last)
}

func TestConfigRepository_SaveAndLoadOpacity(t *testing.T) {
	repo := newTestConfigRepository()

	require.NoError(t, repo.SaveOpacity(0.65))

	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 0.65, opacity)
}

func TestConfigRepository_LoadOpacity_Default(t *testing.T) {
	repo := newTestConfigRepository()

	// Load when nothing saved - should return default (1.0)
	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 1.0, opacity)
}

func TestConfigRepository_Clear(t *testing.T) {
	repo := newTestConfigRepository()

	require.NoError(t, repo.SavePresetConfig("plasma", domain.Config{"speed": 2.0}))
	require.NoError(t, repo.SavePresetConfig("spectrum", domain.Config{"bars": 64}))
	require.NoError(t, repo.SaveLastPreset("plasma"))
	require.NoError(t, repo.SaveOpacity(0.3))

	require.NoError(t, repo.Clear())

	_, err := repo.LoadPresetConfig("plasma")
	assert.ErrorIs(t, err, ports.ErrNoSavedConfig)
	_, err = repo.LoadPresetConfig("spectrum")
	assert.ErrorIs(t, err, ports.ErrNoSavedConfig)

	last, err := repo.LoadLastPreset()
	require.NoError(t, err)
	assert.Equal(t, "", last)

	opacity, err := repo.LoadOpacity()
	require.NoError(t, err)
	assert.Equal(t, 1.0, opacity)
}

func TestConfigRepository_OverwritePresetConfig(t *testing.T) {
	repo := newTestConfigRepository()

	require.NoError(t, repo.SavePresetConfig("plasma", domain.Config{"speed": 1.0}))
	require.NoError(t, repo.SavePresetConfig("plasma", domain.Config{"speed": 3.0}))

	loaded, err := repo.LoadPresetConfig("plasma")
	require.NoError(t, err)
	assert.Equal(t, 3.0, loaded.FloatAt("speed", -1))
}
