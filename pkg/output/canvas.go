package output

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/tiff"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Format is an image encoding supported by Canvas
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q (want .png, .bmp, .tif or .tiff)", filepath.Ext(path))
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Canvas is a pixel sink backed by an RGBA image. Concurrent SetPixel calls
// on distinct pixels are safe; everything else must be called after the
// render has finished.
type Canvas struct {
	img *image.RGBA
	ctx *gg.Context
}

var _ renderer.PixelSink = (*Canvas)(nil)

// NewCanvas creates a width x height canvas filled with opaque black
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidCanvas, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ctx := gg.NewContextForRGBA(img)
	ctx.SetColor(color.Black)
	ctx.Clear()
	return &Canvas{img: img, ctx: ctx}, nil
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int { return c.img.Bounds().Dx() }

// Height returns the canvas height in pixels
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Image returns the backing image
func (c *Canvas) Image() *image.RGBA { return c.img }

// SetPixel implements renderer.PixelSink. Out-of-range coordinates are ignored.
func (c *Canvas) SetPixel(x, y int, col core.Color) {
	c.img.SetRGBA(x, y, col.RGBA())
}

// DrawLabel writes text into the bottom-left corner over a dark band
func (c *Canvas) DrawLabel(text string, size float64) error {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 12
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse label font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	defer face.Close()

	c.ctx.SetFontFace(face)
	w, h := c.ctx.MeasureString(text)
	pad := size / 3
	height := float64(c.Height())

	c.ctx.SetRGBA(0, 0, 0, 0.6)
	c.ctx.DrawRectangle(0, height-h-2*pad, w+2*pad, h+2*pad)
	c.ctx.Fill()

	c.ctx.SetRGB(1, 1, 1)
	c.ctx.DrawString(text, pad, height-pad)
	return nil
}

// Encode writes the canvas to w in the given format
func (c *Canvas) Encode(w io.Writer, format Format) error {
	switch format {
	case PNG:
		return c.ctx.EncodePNG(w)
	case BMP:
		return bmp.Encode(w, c.img)
	case TIFF:
		return tiff.Encode(w, c.img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// Save writes the canvas to path, creating parent directories as needed.
// The format follows the file extension.
func (c *Canvas) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if format == PNG {
		if err := c.ctx.SavePNG(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.Encode(file, format); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
