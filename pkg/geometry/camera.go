package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Camera is a world-space eye position. It always looks toward +z.
type Camera struct {
	Position core.Vec3
}

// NewCamera creates a camera at the given position
func NewCamera(position core.Vec3) Camera {
	return Camera{Position: position}
}

// Viewport is the projection plane in front of the camera
type Viewport struct {
	Distance float64 // Distance from the camera to the plane
	Width    float64 // Width in world units
	Height   float64 // Height in world units
}

// DefaultViewport returns a 1x1 viewport one unit in front of the camera
func DefaultViewport() Viewport {
	return Viewport{Distance: 1, Width: 1, Height: 1}
}

// Validate checks that all viewport dimensions are positive and finite
func (v Viewport) Validate() error {
	for _, f := range []float64{v.Distance, v.Width, v.Height} {
		if !(f > 0) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: distance, width and height must be positive, got %+v", core.ErrInvalidViewport, v)
		}
	}
	return nil
}

// Projector maps canvas pixels onto viewport directions.
//
// Canvas offsets are centered and y-up: x in [-W/2, W/2), y in [-H/2, H/2).
// Sink coordinates are y-down with row 0 at the top; CanvasOffset converts
// between the two.
type Projector struct {
	viewport Viewport
	width    int
	height   int
	scaleX   float64
	scaleY   float64
}

// NewProjector creates a projector for a canvas of width x height pixels
func NewProjector(viewport Viewport, width, height int) (*Projector, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidCanvas, width, height)
	}
	if err := viewport.Validate(); err != nil {
		return nil, err
	}

	return &Projector{
		viewport: viewport,
		width:    width,
		height:   height,
		scaleX:   viewport.Width / float64(width),
		scaleY:   viewport.Height / float64(height),
	}, nil
}

// Width returns the canvas width in pixels
func (p *Projector) Width() int { return p.width }

// Height returns the canvas height in pixels
func (p *Projector) Height() int { return p.height }

// Viewport returns the viewport the projector was built with
func (p *Projector) Viewport() Viewport { return p.viewport }

// Direction returns the (unnormalized) ray direction through a centered canvas offset
func (p *Projector) Direction(cx, cy int) core.Vec3 {
	return core.NewVec3(
		float64(cx)*p.scaleX,
		float64(cy)*p.scaleY,
		p.viewport.Distance,
	)
}

// CanvasOffset converts a sink pixel (row 0 at the top) to a centered y-up offset
func (p *Projector) CanvasOffset(x, y int) (cx, cy int) {
	cx = x - p.width/2
	cy = (p.height - 1 - y) - p.height/2
	return cx, cy
}

// SinkCoords is the inverse of CanvasOffset
func (p *Projector) SinkCoords(cx, cy int) (x, y int) {
	x = cx + p.width/2
	y = p.height - 1 - (cy + p.height/2)
	return x, y
}

// Ray returns the primary ray from the camera through a sink pixel
func (p *Projector) Ray(camera Camera, x, y int) core.Ray {
	cx, cy := p.CanvasOffset(x, y)
	return core.NewRay(camera.Position, p.Direction(cx, cy))
}
