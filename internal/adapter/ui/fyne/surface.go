// Package fyneui provides the Fyne implementation of the rendering surface
// and the application window chrome.
package fyneui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/lucasvidela/visuales/internal/ports"
)

// RasterSurface is a Surface backed by a Fyne canvas.Raster. Presets draw
// into the shared framebuffer off the UI thread; Commit hands the pixels to
// Fyne on the UI thread.
//
// The framebuffer has a fixed logical size. The raster scales it to the
// widget's on-screen size, which keeps per-frame cost independent of window
// size.
type RasterSurface struct {
	width  int
	height int

	mu    sync.Mutex
	front *image.RGBA // what the raster shows
	back  *image.RGBA // what presets draw into

	raster *canvas.Raster
}

// NewRasterSurface creates a surface with the given logical resolution.
func NewRasterSurface(width, height int) *RasterSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &RasterSurface{
		width:  width,
		height: height,
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
		back:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	s.raster = canvas.NewRaster(s.generate)
	s.raster.ScaleMode = canvas.ImageScaleFastest
	return s
}

// Raster returns the canvas object to place into the window layout.
func (s *RasterSurface) Raster() *canvas.Raster {
	return s.raster
}

// generate is the raster generator; it always serves the front buffer.
func (s *RasterSurface) generate(_, _ int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.front
}

// Size returns the logical framebuffer dimensions in pixels.
func (s *RasterSurface) Size() (width, height int) {
	return s.width, s.height
}

// Framebuffer returns the back buffer presets draw into.
func (s *RasterSurface) Framebuffer() *image.RGBA {
	return s.back
}

// Commit swaps the buffers and asks Fyne to repaint on the UI thread.
// Called by the render loop goroutine once per frame.
func (s *RasterSurface) Commit() {
	s.mu.Lock()
	s.front, s.back = s.back, s.front
	copy(s.back.Pix, s.front.Pix)
	s.mu.Unlock()

	fyne.Do(func() {
		s.raster.Refresh()
	})
}

var _ ports.Surface = (*RasterSurface)(nil)
