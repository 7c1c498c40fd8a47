// Package surface provides rendering-surface implementations.
// The offscreen surface backs headless operation and tests; the Fyne-bound
// surface lives in the ui adapter.
package surface

import (
	"image"
	"sync/atomic"

	"github.com/lucasvidela/visuales/internal/ports"
)

// Offscreen is a Surface backed by a plain in-memory framebuffer with no
// display attached. Commit only counts submissions.
type Offscreen struct {
	width   int
	height  int
	img     *image.RGBA
	commits atomic.Uint64
}

// NewOffscreen creates an offscreen surface of the given size.
func NewOffscreen(width, height int) *Offscreen {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Offscreen{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Size returns the framebuffer dimensions in pixels.
func (s *Offscreen) Size() (width, height int) {
	return s.width, s.height
}

// Framebuffer returns the shared RGBA framebuffer.
func (s *Offscreen) Framebuffer() *image.RGBA {
	return s.img
}

// Commit records one submission.
func (s *Offscreen) Commit() {
	s.commits.Add(1)
}

// Commits returns the number of Commit calls so far.
func (s *Offscreen) Commits() uint64 {
	return s.commits.Load()
}

var _ ports.Surface = (*Offscreen)(nil)
