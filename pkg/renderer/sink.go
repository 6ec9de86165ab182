package renderer

import (
	"image"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PixelSink receives rendered pixels. Coordinates are image coordinates:
// x in [0, width), y in [0, height), row 0 at the top.
//
// Render calls SetPixel from several goroutines at once, never twice for the
// same coordinate, so implementations writing to disjoint memory need no locking.
type PixelSink interface {
	SetPixel(x, y int, c core.Color)
}

// SinkFunc adapts a function to the PixelSink interface
type SinkFunc func(x, y int, c core.Color)

// SetPixel calls f(x, y, c)
func (f SinkFunc) SetPixel(x, y int, c core.Color) {
	f(x, y, c)
}

// ImageSink writes pixels into an RGBA image
type ImageSink struct {
	Image *image.RGBA
}

// NewImageSink creates a sink backed by a new width x height image
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{Image: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel implements PixelSink
func (s *ImageSink) SetPixel(x, y int, c core.Color) {
	s.Image.SetRGBA(x, y, c.RGBA())
}
