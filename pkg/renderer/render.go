package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Render traces every canvas pixel exactly once and writes it to sink.
//
// The scene's spheres and lights are validated first; an invalid scene fails
// before any pixel is written. The scene's own camera, viewport and canvas
// defaults are ignored in favour of camera and the raytracer's projector. Per-pixel failures do not abort the render: the pixel is painted
// with core.ErrorColor and counted in the returned stats. Cancelling ctx
// stops the render between tiles and returns ctx.Err() along with the stats
// gathered so far.
func (rt *Raytracer) Render(ctx context.Context, s *scene.Scene, camera geometry.Camera, sink PixelSink) (RenderStats, error) {
	if s == nil {
		return RenderStats{}, fmt.Errorf("%w: nil scene", core.ErrInvalidScene)
	}
	if sink == nil {
		return RenderStats{}, fmt.Errorf("renderer: nil pixel sink")
	}
	if !camera.Position.IsFinite() {
		return RenderStats{}, fmt.Errorf("%w: camera position %v is not finite", core.ErrInvalidScene, camera.Position)
	}

	warnings, err := s.ValidateContent()
	if err != nil {
		return RenderStats{}, err
	}

	logger := rt.logger()
	for _, w := range warnings {
		logger.Warn("scene warning", "scene", s.Name, "warning", w)
	}

	tiles := NewTileGrid(rt.Width(), rt.Height(), rt.options.TileSize)
	pool := newWorkerPool(&tileRenderer{
		raytracer: rt,
		scene:     s,
		camera:    camera,
		sink:      sink,
	}, rt.options.NumWorkers)

	logger.Info("render started",
		"scene", s.Name,
		"width", rt.Width(),
		"height", rt.Height(),
		"spheres", len(s.Spheres),
		"lights", len(s.Lights),
		"tiles", len(tiles),
		"workers", pool.NumWorkers(),
		"shadows", rt.options.Shadows,
	)

	start := time.Now()
	var stats RenderStats
	runErr := pool.run(ctx, tiles, func(result TileResult) {
		stats.Merge(result.Stats)
		logger.Debug("tile finished", "tile", result.Tile.ID, "bounds", result.Tile.Bounds.String())
		if rt.options.OnTile != nil {
			rt.options.OnTile(result)
		}
	})
	stats.Duration = time.Since(start)

	if stats.Clamped > 0 {
		logger.Warn("illumination clamped into [0,1]", "scene", s.Name, "pixels", stats.Clamped)
	}
	if stats.Failed > 0 {
		logger.Warn("pixels failed to render", "scene", s.Name, "pixels", stats.Failed, "first_error", stats.FirstError)
	}

	if runErr != nil {
		logger.Info("render canceled", "scene", s.Name, "tiles", stats.Tiles, "of", len(tiles), "duration", stats.Duration)
		return stats, runErr
	}

	logger.Info("render finished",
		"scene", s.Name,
		"pixels", stats.TotalPixels,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"duration", stats.Duration,
	)
	return stats, nil
}

// RenderImage renders into a new RGBA image sized to the raytracer's canvas
func (rt *Raytracer) RenderImage(ctx context.Context, s *scene.Scene, camera geometry.Camera) (*image.RGBA, RenderStats, error) {
	sink := NewImageSink(rt.Width(), rt.Height())
	stats, err := rt.Render(ctx, s, camera, sink)
	if err != nil {
		return nil, stats, err
	}
	return sink.Image, stats, nil
}

// RenderScene renders a scene with its own camera, viewport and canvas size
func RenderScene(ctx context.Context, s *scene.Scene, options Options) (*image.RGBA, RenderStats, error) {
	if s == nil {
		return nil, RenderStats{}, fmt.Errorf("%w: nil scene", core.ErrInvalidScene)
	}
	if _, err := s.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	rt, err := NewRaytracer(s.Width, s.Height, s.Viewport, options)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return rt.RenderImage(ctx, s, s.Camera)
}
