// Package preset contains the built-in visual presets and their catalog.
// Each preset draws into the shared framebuffer owned by the surface and
// implements the ports.Preset lifecycle contract.
package preset

import (
	"sync"

	"github.com/lucasvidela/visuales/internal/domain"
	"github.com/lucasvidela/visuales/internal/ports"
)

// base carries the state every preset shares: the surface it draws on, the
// accumulated config tree and the lifecycle flags. Concrete presets embed it
// and call its helpers from their own lifecycle methods.
//
// The lifecycle flags exist to honor the contract even if a caller misuses
// the instance: Init at most once, no work after Dispose.
type base struct {
	surface ports.Surface
	cfg     domain.Config

	mu          sync.Mutex
	initialized bool
	disposed    bool
}

func newBase(surface ports.Surface, cfg domain.Config) base {
	if cfg == nil {
		cfg = domain.Config{}
	}
	return base{surface: surface, cfg: cfg}
}

// beginInit marks the preset initialized. Returns false when Init was already
// called or the preset is disposed, in which case the caller must not
// allocate again.
func (b *base) beginInit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized || b.disposed {
		return false
	}
	b.initialized = true
	return true
}

// alive reports whether the preset may still do work.
func (b *base) alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized && !b.disposed
}

// beginDispose marks the preset disposed. Returns false when already
// disposed, making Dispose idempotent for every embedder.
func (b *base) beginDispose() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return false
	}
	b.disposed = true
	return true
}

// merge folds a sparse delta into the accumulated config tree.
func (b *base) merge(delta domain.Config) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.Merge(delta)
}

// config returns a point-in-time snapshot of the accumulated tree.
func (b *base) config() domain.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Clone()
}

// floatAt reads a float value from the config tree with a fallback.
func (b *base) floatAt(path string, fallback float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.FloatAt(path, fallback)
}

// intAt reads an int value from the config tree with a fallback.
func (b *base) intAt(path string, fallback int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.IntAt(path, fallback)
}

// boolAt reads a bool value from the config tree with a fallback.
func (b *base) boolAt(path string, fallback bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.BoolAt(path, fallback)
}

// opacity resolves the effective opacity for a frame. A per-preset override
// in the config tree wins over the global value carried by the frame.
func (b *base) opacity(frame domain.Frame) float64 {
	return b.floatAt("opacity", frame.Opacity)
}
