package app

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audiomock "github.com/lucasvidela/visuales/internal/adapter/audio/mock"
	midimock "github.com/lucasvidela/visuales/internal/adapter/midi/mock"
	"github.com/lucasvidela/visuales/internal/adapter/repository/memory"
	"github.com/lucasvidela/visuales/internal/adapter/surface"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/logger"
	"github.com/lucasvidela/visuales/internal/preset"
	"github.com/lucasvidela/visuales/internal/testutil"
)

type testEnv struct {
	app     *App
	surface *surface.Offscreen
	repo    *memory.ConfigRepository
	audio   *audiomock.Source
	midi    *midimock.Source
}

func newTestApp(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		surface: surface.NewOffscreen(64, 48),
		repo:    memory.NewConfigRepository(test.NewApp().Preferences()),
		audio:   audiomock.New(),
		midi:    midimock.New(),
	}
	env.app = New(Options{
		Logger:      logger.NewTestLogger(),
		Surface:     env.surface,
		Catalog:     preset.Definitions(),
		Repository:  env.repo,
		AudioSource: env.audio,
		MIDISource:  env.midi,
		TargetFPS:   240,
	})
	return env
}

func TestApp_AvailablePresets(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	descs := env.app.AvailablePresets()

	require.NotEmpty(t, descs)
	ids := make([]string, 0, len(descs))
	for _, d := range descs {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, "spectrum")
	assert.Contains(t, ids, "plasma")
	assert.Contains(t, ids, "starfield")
	assert.Contains(t, ids, "geometria")
}

func TestApp_ActivateAndSwitch(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestApp(t)
	require.NoError(t, env.app.Start())
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("plasma"))
	current, ok := env.app.CurrentPreset()
	require.True(t, ok)
	assert.Equal(t, "plasma", current.ID)

	// Audio flows from the source to the frame loop.
	env.audio.Emit(domain.AudioData{Low: 0.8})

	// Frames commit to the surface.
	assert.Eventually(t, func() bool {
		return env.surface.Commits() > 3
	}, time.Second, 5*time.Millisecond)

	// Switching presets swaps the active slot atomically.
	require.True(t, env.app.ActivatePreset("starfield"))
	current, ok = env.app.CurrentPreset()
	require.True(t, ok)
	assert.Equal(t, "starfield", current.ID)
}

func TestApp_ActivateUnknownPreset(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("plasma"))
	assert.False(t, env.app.ActivatePreset("does-not-exist"))

	// The previous preset stays active.
	current, ok := env.app.CurrentPreset()
	require.True(t, ok)
	assert.Equal(t, "plasma", current.ID)
}

func TestApp_DeactivateCurrentPreset(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("spectrum"))
	env.app.DeactivateCurrentPreset()

	_, ok := env.app.CurrentPreset()
	assert.False(t, ok)

	// Deactivating again is a no-op.
	env.app.DeactivateCurrentPreset()
}

func TestApp_OpacityRoundTrip(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	env.app.SetOpacity(0.4)
	assert.Equal(t, 0.4, env.app.Opacity())

	// Out-of-range values clamp instead of erroring.
	env.app.SetOpacity(2.0)
	assert.Equal(t, 1.0, env.app.Opacity())
}

func TestApp_MIDIReachesPreset(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestApp(t)
	require.NoError(t, env.app.Start())
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("geometria"))

	// Events flow from the MIDI source through the runtime to the preset.
	env.midi.Emit(domain.MIDIEvent{Note: 60, Velocity: 127})

	// The kick shows up as a visible pulse within a few frames.
	assert.Eventually(t, func() bool {
		return env.surface.Commits() > 3
	}, time.Second, 5*time.Millisecond)
}

func TestApp_UpdatePresetConfig(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("plasma"))

	// Unknown paths are created, known ones replaced; neither errors.
	env.app.UpdatePresetConfig(domain.Config{"speed": 3.0})
	env.app.UpdatePresetConfig(domain.Config{"custom": domain.Config{"depth": 2}})
}

func TestApp_SessionPersistsAcrossInstances(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	prefs := test.NewApp().Preferences()
	repo := memory.NewConfigRepository(prefs)

	first := New(Options{
		Logger:     logger.NewTestLogger(),
		Surface:    surface.NewOffscreen(64, 48),
		Catalog:    preset.Definitions(),
		Repository: repo,
		TargetFPS:  240,
	})
	require.NoError(t, first.Start())

	require.True(t, first.ActivatePreset("starfield"))
	first.SetOpacity(0.7)
	first.UpdatePresetConfig(domain.Config{"speed": 2.0})
	first.Shutdown()

	// A fresh instance over the same store restores the session.
	second := New(Options{
		Logger:     logger.NewTestLogger(),
		Surface:    surface.NewOffscreen(64, 48),
		Catalog:    preset.Definitions(),
		Repository: repo,
		TargetFPS:  240,
	})
	require.NoError(t, second.Start())
	second.RestoreSession()

	assert.Equal(t, 0.7, second.Opacity())
	current, ok := second.CurrentPreset()
	require.True(t, ok)
	assert.Equal(t, "starfield", current.ID)

	second.Shutdown()
}

func TestApp_ReloadPresets(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestApp(t)
	require.NoError(t, env.app.Start())
	defer env.app.Shutdown()

	require.True(t, env.app.ActivatePreset("plasma"))
	require.NoError(t, env.app.ReloadPresets())

	// The catalog is rebuilt and the active preset restored.
	assert.NotEmpty(t, env.app.AvailablePresets())
	current, ok := env.app.CurrentPreset()
	require.True(t, ok)
	assert.Equal(t, "plasma", current.ID)
}

func TestApp_ShutdownStopsEverything(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestApp(t)
	require.NoError(t, env.app.Start())
	require.True(t, env.app.LoopRunning())
	assert.True(t, env.audio.IsRunning())

	env.app.Shutdown()

	assert.False(t, env.app.LoopRunning())
	assert.False(t, env.audio.IsRunning())
	assert.Equal(t, 1, env.audio.StopCalls)
}

func TestApp_EventsReachSubscribers(t *testing.T) {
	env := newTestApp(t)
	defer env.app.Shutdown()

	activated := make([]string, 0)
	subID := env.app.Subscribe(domain.EventPresetActivated, func(event domain.Event) {
		activated = append(activated, event.(domain.PresetActivatedEvent).Descriptor.ID)
	})

	require.True(t, env.app.ActivatePreset("spectrum"))
	assert.Equal(t, []string{"spectrum"}, activated)

	env.app.Unsubscribe(subID)
	require.True(t, env.app.ActivatePreset("plasma"))
	assert.Len(t, activated, 1)
}
