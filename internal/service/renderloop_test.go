package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasvidela/visuales/internal/adapter/eventbus"
	"github.com/lucasvidela/visuales/internal/adapter/surface"
	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/logger"
	"github.com/lucasvidela/visuales/internal/testutil"
)

func newLoopBus() *eventbus.SyncEventBus {
	bus := eventbus.NewSyncEventBus()
	bus.SetLogger(logger.NewTestLogger())
	return bus
}

func TestRenderLoop_StartStop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	preset := &fakePreset{id: "a"}
	rt, registry := newTestRuntime(t, preset)
	registry.Activate("a")
	surf := surface.NewOffscreen(64, 48)
	loop := NewRenderLoop(logger.NewTestLogger(), newLoopBus(), rt, surf, 120)

	require.NoError(t, loop.Start())
	assert.True(t, loop.IsRunning())

	// A second Start is rejected while running.
	assert.ErrorIs(t, loop.Start(), domain.ErrLoopRunning)

	// Let a few frames tick through.
	assert.Eventually(t, func() bool {
		return loop.Frames() >= 3
	}, time.Second, 5*time.Millisecond)

	loop.Stop()
	assert.False(t, loop.IsRunning())

	// Frames reached the preset and the surface.
	assert.GreaterOrEqual(t, preset.updateCalls, 3)
	assert.GreaterOrEqual(t, surf.Commits(), uint64(3))
}

func TestRenderLoop_StopIsIdempotent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	rt, _ := newTestRuntime(t)
	loop := NewRenderLoop(logger.NewTestLogger(), newLoopBus(), rt, surface.NewOffscreen(8, 8), 240)

	require.NoError(t, loop.Start())
	loop.Stop()
	loop.Stop() // no-op, no panic, no deadlock
	assert.False(t, loop.IsRunning())
}

func TestRenderLoop_RestartAfterStop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	rt, _ := newTestRuntime(t)
	loop := NewRenderLoop(logger.NewTestLogger(), newLoopBus(), rt, surface.NewOffscreen(8, 8), 240)

	require.NoError(t, loop.Start())
	assert.Eventually(t, func() bool {
		return loop.Frames() >= 20
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	// A restart begins a fresh frame count.
	require.NoError(t, loop.Start())
	assert.Eventually(t, func() bool {
		return loop.Frames() >= 2
	}, time.Second, 5*time.Millisecond)
	loop.Stop()
	assert.Less(t, loop.Frames(), uint64(20))
}

func TestRenderLoop_SurvivesFaultedPreset(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	preset := &fakePreset{id: "a", panicUpdate: true}
	rt, registry := newTestRuntime(t, preset)
	registry.Activate("a")
	loop := NewRenderLoop(logger.NewTestLogger(), newLoopBus(), rt, surface.NewOffscreen(8, 8), 240)

	require.NoError(t, loop.Start())

	// The first tick faults the preset; the loop keeps going regardless.
	assert.Eventually(t, func() bool {
		return loop.Frames() >= 5
	}, time.Second, 5*time.Millisecond)

	loop.Stop()
	assert.Nil(t, registry.Current())
	assert.Equal(t, 1, preset.updateCalls)
}

func TestRenderLoop_PublishesLifecycleEvents(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	rt, _ := newTestRuntime(t)
	bus := newLoopBus()

	var started []domain.RenderLoopStartedEvent
	bus.Subscribe(domain.EventRenderLoopStarted, func(event domain.Event) {
		started = append(started, event.(domain.RenderLoopStartedEvent))
	})
	var stopped []domain.RenderLoopStoppedEvent
	bus.Subscribe(domain.EventRenderLoopStopped, func(event domain.Event) {
		stopped = append(stopped, event.(domain.RenderLoopStoppedEvent))
	})

	loop := NewRenderLoop(logger.NewTestLogger(), bus, rt, surface.NewOffscreen(8, 8), 144)
	require.NoError(t, loop.Start())
	loop.Stop()

	require.Len(t, started, 1)
	assert.Equal(t, 144, started[0].TargetFPS)
	require.Len(t, stopped, 1)
	// A tick may land between the snapshot and goroutine exit.
	assert.LessOrEqual(t, stopped[0].Frames, loop.Frames())
}

func TestRenderLoop_ZeroFPSSelectsDefault(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	rt, _ := newTestRuntime(t)
	bus := newLoopBus()

	var started []domain.RenderLoopStartedEvent
	bus.Subscribe(domain.EventRenderLoopStarted, func(event domain.Event) {
		started = append(started, event.(domain.RenderLoopStartedEvent))
	})

	loop := NewRenderLoop(logger.NewTestLogger(), bus, rt, surface.NewOffscreen(8, 8), 0)
	require.NoError(t, loop.Start())
	loop.Stop()

	require.Len(t, started, 1)
	assert.Equal(t, DefaultTargetFPS, started[0].TargetFPS)
}
