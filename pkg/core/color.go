package core

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit-per-channel RGB color
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}

	// ErrorColor marks pixels whose computation failed
	ErrorColor = Color{255, 0, 255}
)

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Scale multiplies every channel by k. Results above 255 saturate and
// results below 0 (or NaN) become 0; channels never wrap.
func (c Color) Scale(k float64) Color {
	return Color{
		R: scaleChannel(c.R, k),
		G: scaleChannel(c.G, k),
		B: scaleChannel(c.B, k),
	}
}

func scaleChannel(ch uint8, k float64) uint8 {
	v := float64(ch) * k
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(v)
}

// RGBA converts the color to an opaque image/color value
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorFromUnit converts channels in [0,1] to a Color, clamping out-of-range values
func ColorFromUnit(r, g, b float64) Color {
	return Color{
		R: scaleChannel(math.MaxUint8, r),
		G: scaleChannel(math.MaxUint8, g),
		B: scaleChannel(math.MaxUint8, b),
	}
}
