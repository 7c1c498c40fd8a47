package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// DefaultTargetFPS is the frame rate used when none is configured.
const DefaultTargetFPS = 60

// RenderLoop is the single continuous scheduling loop driving the runtime.
// Each tick, in order: the next tick is already scheduled by the ticker,
// the runtime steps the active preset, and the surface commits the shared
// framebuffer for display.
//
// The loop has no termination condition in normal operation; it runs until
// Stop. A faulted preset degrades to an empty frame, never a dead loop.
type RenderLoop struct {
	// Dependencies (injected)
	logger  *slog.Logger
	bus     ports.EventBus
	runtime *Runtime
	surface ports.Surface

	// Configuration
	interval time.Duration
	fps      int

	// Concurrency control
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
	frames  uint64
}

// NewRenderLoop creates a render loop at the given target frame rate.
// targetFPS <= 0 selects DefaultTargetFPS.
func NewRenderLoop(
	logger *slog.Logger,
	bus ports.EventBus,
	runtime *Runtime,
	surface ports.Surface,
	targetFPS int,
) *RenderLoop {
	if targetFPS <= 0 {
		targetFPS = DefaultTargetFPS
	}
	return &RenderLoop{
		logger:   logger,
		bus:      bus,
		runtime:  runtime,
		surface:  surface,
		interval: time.Second / time.Duration(targetFPS),
		fps:      targetFPS,
	}
}

// Start begins ticking on a background goroutine.
// Returns domain.ErrLoopRunning when already started.
func (l *RenderLoop) Start() error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return domain.ErrLoopRunning
	}
	l.running = true
	l.stop = make(chan struct{})
	l.frames = 0 // fresh count per run
	l.wg.Add(1)
	l.mu.Unlock()

	l.logger.Info("render loop started", slog.Int("target_fps", l.fps))
	l.bus.Publish(domain.NewRenderLoopStartedEvent(l.fps))

	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-l.stop:
				return

			case now := <-ticker.C:
				l.tick(now)
			}
		}
	}()

	return nil
}

// tick runs one frame: step the active preset, then submit the surface.
func (l *RenderLoop) tick(now time.Time) {
	l.runtime.Step(now)
	l.surface.Commit()

	l.mu.Lock()
	l.frames++
	l.mu.Unlock()
}

// Stop halts the loop and waits for the goroutine to exit.
// Calling Stop on a stopped loop is a no-op.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	close(l.stop)
	frames := l.frames
	l.mu.Unlock()

	l.wg.Wait()

	l.logger.Info("render loop stopped", slog.Uint64("frames", frames))
	l.bus.Publish(domain.NewRenderLoopStoppedEvent(frames))
}

// IsRunning reports whether the loop is currently ticking.
func (l *RenderLoop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns the number of frames rendered since the most recent Start.
func (l *RenderLoop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
