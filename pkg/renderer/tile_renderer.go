package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Tile represents a rectangular region of the canvas rendered as one unit of work
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1) in sink coordinates
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil
	}

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, tilesX*tilesY)

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}

	return tiles
}

// tileRenderer renders the pixels of one tile into a sink
type tileRenderer struct {
	raytracer *Raytracer
	scene     *scene.Scene
	camera    geometry.Camera
	sink      PixelSink
}

// renderTile traces every pixel in the tile bounds. A failing pixel is painted
// with core.ErrorColor and counted; the rest of the tile carries on.
func (tr *tileRenderer) renderTile(tile Tile) RenderStats {
	var stats RenderStats
	occluder := tr.raytracer.occluderFor(tr.scene)

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			color, result, err := tr.tracePixel(x, y, occluder)
			if err != nil {
				color = core.ErrorColor
				err = fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			tr.sink.SetPixel(x, y, color)
			stats.record(result, err)
		}
	}

	stats.Tiles = 1
	return stats
}

// tracePixel isolates a single pixel so a panic in it cannot take down the render
func (tr *tileRenderer) tracePixel(x, y int, occluder lights.Occluder) (color core.Color, result PixelResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			color = core.ErrorColor
			result = PixelResult{SphereIndex: -1}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ray := tr.raytracer.projector.Ray(tr.camera, x, y)
	return tr.raytracer.TraceRay(tr.scene, ray, occluder)
}
