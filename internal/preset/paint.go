package preset

import (
	"image"
	"image/color"
	"math"
)

// FrequencyAnalyzer provides methods for analyzing FFT data.
// Presets that only need the band energies read them from the frame; the
// analyzer is for presets that shape their output from the raw bins.
type FrequencyAnalyzer struct{}

// CalculateBarHeights converts FFT data to bar heights using logarithmic bin mapping.
// Logarithmic distribution gives low frequencies more visual weight, which
// matches how spectra are usually displayed.
func (FrequencyAnalyzer) CalculateBarHeights(fftData []float32, numBars int, maxHeight float64) []float32 {
	heights := make([]float32, numBars)

	if len(fftData) < 2 {
		return heights
	}

	b0 := 1 // Skip DC offset

	for x := 0; x < numBars; x++ {
		var b1 int
		if numBars > 1 {
			b1 = int(math.Pow(2, float64(x)*10.0/float64(numBars-1)))
		} else {
			b1 = len(fftData) - 1
		}

		if b1 >= len(fftData) {
			b1 = len(fftData) - 1
		}
		if b1 < b0 {
			b1 = b0
		}

		var peak float32
		for b := b0; b <= b1 && b < len(fftData); b++ {
			if fftData[b] > peak {
				peak = fftData[b]
			}
		}

		y := float32(math.Sqrt(float64(peak))) * 3.0 * float32(maxHeight)
		if y < 0 {
			y = 0
		}
		if y > float32(maxHeight) {
			y = float32(maxHeight)
		}

		heights[x] = y
		b0 = b1 + 1
	}

	return heights
}

// DrawingUtils provides common drawing operations on the shared framebuffer.
type DrawingUtils struct{}

// FillBackground fills the image with a solid color.
func (DrawingUtils) FillBackground(img *image.RGBA, col color.Color) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, col)
		}
	}
}

// DrawLine draws a 1px line between two points.
func (DrawingUtils) DrawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))

	if steps == 0 {
		if image.Pt(x1, y1).In(bounds) {
			img.Set(x1, y1, col)
		}
		return
	}

	xInc := float64(dx) / float64(steps)
	yInc := float64(dy) / float64(steps)

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= steps; i++ {
		px, py := int(x), int(y)
		if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
			img.Set(px, py, col)
		}
		x += xInc
		y += yInc
	}
}

// DrawThickLine draws a line with the specified thickness.
func (d DrawingUtils) DrawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)

	if length == 0 {
		return
	}

	// Perpendicular unit vector for thickness
	perpX := -dy / length
	perpY := dx / length

	for t := -thickness / 2; t <= thickness/2; t++ {
		offsetX := float64(t) * perpX
		offsetY := float64(t) * perpY
		d.DrawLine(img,
			int(x1+offsetX), int(y1+offsetY),
			int(x2+offsetX), int(y2+offsetY), col)
	}
}

// DrawPolygon draws a closed polygon outline with the given thickness.
func (d DrawingUtils) DrawPolygon(img *image.RGBA, points []image.Point, thickness int, col color.RGBA) {
	if len(points) < 3 {
		return
	}
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		d.DrawThickLine(img, float64(a.X), float64(a.Y), float64(b.X), float64(b.Y), thickness, col)
	}
}

// DrawFilledCircle draws a filled circle.
func (DrawingUtils) DrawFilledCircle(img *image.RGBA, cx, cy int, radius float64, col color.RGBA) {
	bounds := img.Bounds()
	r := int(radius)

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px, py := cx+dx, cy+dy
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// GetGradientColor returns a color from a red-yellow-green gradient based on position (0.0 to 1.0).
func (DrawingUtils) GetGradientColor(pos float64) color.RGBA {
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}

	var r, g uint8

	if pos < 0.5 {
		r = 255
		g = uint8(pos * 2 * 255)
	} else {
		r = uint8((1 - (pos-0.5)*2) * 255)
		g = 255
	}

	return color.RGBA{R: r, G: g, B: 0, A: 255}
}

// Scale multiplies a color's channels by an opacity factor in [0,1].
// The framebuffer is opaque; global opacity dims toward black instead of
// blending with the window beneath.
func Scale(col color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return col
	}
	if opacity < 0 {
		opacity = 0
	}
	return color.RGBA{
		R: uint8(float64(col.R) * opacity),
		G: uint8(float64(col.G) * opacity),
		B: uint8(float64(col.B) * opacity),
		A: col.A,
	}
}

// HSLToRGB converts HSL to RGB (h, s, l in 0-1 range).
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)

	return r, g, b
}

// hueToRGB is a helper for HSL to RGB conversion.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 0.5 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
