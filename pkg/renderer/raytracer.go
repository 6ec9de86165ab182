package renderer

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// NearClip is the smallest t accepted for primary rays. With unnormalized
// directions this is the viewport plane, so nothing between the camera and
// the plane is drawn.
const NearClip = 1.0

// Options contains rendering configuration
type Options struct {
	TileSize   int              // Size of each square tile in pixels
	NumWorkers int              // Number of parallel workers (0 = use CPU count)
	Shadows    bool             // Cast hard shadows from point and directional lights
	OnTile     func(TileResult) // Called after each tile completes; may be nil
	Logger     *slog.Logger     // nil = core.Logger()
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		TileSize:   64,
		NumWorkers: 0,
		Shadows:    false,
	}
}

// Raytracer turns a scene into pixel colors for a fixed canvas size
type Raytracer struct {
	projector *geometry.Projector
	options   Options
}

// NewRaytracer creates a raytracer for a width x height canvas. The canvas
// and viewport are validated here so the per-pixel path never sees them.
func NewRaytracer(width, height int, viewport geometry.Viewport, options Options) (*Raytracer, error) {
	projector, err := geometry.NewProjector(viewport, width, height)
	if err != nil {
		return nil, err
	}

	if options.TileSize <= 0 {
		options.TileSize = DefaultOptions().TileSize
	}
	if options.NumWorkers <= 0 {
		options.NumWorkers = runtime.NumCPU()
	}

	return &Raytracer{projector: projector, options: options}, nil
}

// Width returns the canvas width in pixels
func (rt *Raytracer) Width() int { return rt.projector.Width() }

// Height returns the canvas height in pixels
func (rt *Raytracer) Height() int { return rt.projector.Height() }

// Options returns the effective options after defaults were applied
func (rt *Raytracer) Options() Options { return rt.options }

func (rt *Raytracer) logger() *slog.Logger {
	if rt.options.Logger != nil {
		return rt.options.Logger
	}
	return core.Logger()
}

// PixelResult describes how a pixel's color was produced
type PixelResult struct {
	Hit         bool
	SphereIndex int // -1 on a miss
	T           float64
	Point       core.Vec3
	Normal      core.Vec3
	Factor      float64 // Illumination after clamping
	RawFactor   float64 // Illumination as computed
	Clamped     bool
}

// sceneOccluder answers shadow queries against a scene's spheres
type sceneOccluder struct {
	spheres []geometry.Sphere
}

func (o sceneOccluder) Occluded(origin, direction core.Vec3, tMax float64) bool {
	sphere, _ := geometry.ClosestIntersection(o.spheres, core.NewRay(origin, direction), lights.ShadowEpsilon, tMax)
	return sphere != nil
}

// occluderFor returns the shadow tester for a scene, or nil when shadows are off
func (rt *Raytracer) occluderFor(s *scene.Scene) lights.Occluder {
	if !rt.options.Shadows {
		return nil
	}
	return sceneOccluder{spheres: s.Spheres}
}

// TracePixel computes the color of the sink pixel (x, y), row 0 at the top
func (rt *Raytracer) TracePixel(s *scene.Scene, camera geometry.Camera, x, y int) (core.Color, PixelResult, error) {
	ray := rt.projector.Ray(camera, x, y)
	return rt.TraceRay(s, ray, rt.occluderFor(s))
}

// TraceRay computes the color seen along a primary ray. A miss returns the
// scene background. Errors are only returned for degenerate geometry; the
// returned color is then core.ErrorColor.
func (rt *Raytracer) TraceRay(s *scene.Scene, ray core.Ray, occluder lights.Occluder) (core.Color, PixelResult, error) {
	result := PixelResult{SphereIndex: -1}

	index, t := geometry.ClosestIndex(s.Spheres, ray, NearClip, math.Inf(1))
	if index < 0 {
		return s.Background, result, nil
	}
	sphere := &s.Spheres[index]

	result.Hit = true
	result.SphereIndex = index
	result.T = t
	result.Point = ray.At(t)

	normal, err := sphere.Normal(result.Point)
	if err != nil {
		return core.ErrorColor, result, fmt.Errorf("sphere %d normal: %w", index, err)
	}
	result.Normal = normal

	view := ray.Direction.Negate()
	if view.IsZero() {
		return core.ErrorColor, result, fmt.Errorf("view direction: %w", core.ErrDegenerateVector)
	}
	view = view.Normalize()

	result.RawFactor = lights.ComputeLighting(s.Lights, result.Point, normal, view, sphere.Specular, occluder)
	result.Factor, result.Clamped = lights.Clamp(result.RawFactor)

	return sphere.Color.Scale(result.Factor), result, nil
}
