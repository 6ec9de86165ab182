package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// countingSink records how often each pixel is written
type countingSink struct {
	mu     sync.Mutex
	counts map[image.Point]int
	colors map[image.Point]core.Color
}

func newCountingSink() *countingSink {
	return &countingSink{
		counts: make(map[image.Point]int),
		colors: make(map[image.Point]core.Color),
	}
}

func (s *countingSink) SetPixel(x, y int, c core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := image.Pt(x, y)
	s.counts[p]++
	s.colors[p] = c
}

func TestRender_EmptySceneIsBackground(t *testing.T) {
	s := scene.NewEmptyScene()
	s.Background = core.NewColor(1, 2, 3)
	rt := newTestRaytracer(t, 16, 8, Options{TileSize: 5, NumWorkers: 3})
	sink := newCountingSink()

	stats, err := rt.Render(context.Background(), s, s.Camera, sink)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(sink.counts) != 16*8 {
		t.Fatalf("Expected %d distinct pixels, got %d", 16*8, len(sink.counts))
	}
	for p, n := range sink.counts {
		if n != 1 {
			t.Errorf("Pixel %v written %d times", p, n)
		}
		if sink.colors[p] != s.Background {
			t.Errorf("Pixel %v: expected background, got %v", p, sink.colors[p])
		}
	}
	if stats.TotalPixels != 16*8 || stats.Misses != 16*8 || stats.Hits != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	// ceil(16/5) * ceil(8/5) = 4 * 2
	if stats.Tiles != 8 {
		t.Errorf("Expected 8 tiles, got %d", stats.Tiles)
	}
}

func TestRender_AmbientSceneCenterPixel(t *testing.T) {
	s := scene.NewAmbientScene()
	rt := newTestRaytracer(t, s.Width, s.Height, DefaultOptions())

	img, stats, err := rt.RenderImage(context.Background(), s, s.Camera)
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	// Center of a 256x256 canvas is offset (0,0), at sink row 127
	center := img.RGBAAt(128, 127)
	expected := s.Spheres[0].Color.Scale(0.5).RGBA()
	if center != expected {
		t.Errorf("Expected center pixel %v, got %v", expected, center)
	}

	corner := img.RGBAAt(0, 0)
	if corner != s.Background.RGBA() {
		t.Errorf("Expected corner pixel to be background, got %v", corner)
	}
	if stats.Hits == 0 || stats.Misses == 0 {
		t.Errorf("Expected both hits and misses, got %+v", stats)
	}
	if stats.Failed != 0 {
		t.Errorf("Expected no failed pixels, got %d", stats.Failed)
	}
}

func TestRender_Orientation(t *testing.T) {
	// A small sphere above the view axis must land in the top half of the image
	s := scene.NewScene("orientation")
	s.Background = core.Black
	s.AddSphere(core.NewVec3(0, 0.3, 2), 0.1, core.White, 0)
	s.AddLight(lights.NewAmbientLight(1))

	rt := newTestRaytracer(t, 40, 40, DefaultOptions())
	img, _, err := rt.RenderImage(context.Background(), s, geometry.NewCamera(core.Zero))
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	top, bottom := 0, 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if img.RGBAAt(x, y) == core.White.RGBA() {
				if y < 20 {
					top++
				} else {
					bottom++
				}
			}
		}
	}
	if top == 0 || bottom != 0 {
		t.Errorf("Expected sphere only in the top half, got top=%d bottom=%d", top, bottom)
	}
}

func TestRender_DeterministicAcrossWorkers(t *testing.T) {
	s := scene.NewDefaultScene()

	render := func(workers, tileSize int) *image.RGBA {
		rt := newTestRaytracer(t, 64, 48, Options{NumWorkers: workers, TileSize: tileSize, Shadows: true})
		img, _, err := rt.RenderImage(context.Background(), s, s.Camera)
		if err != nil {
			t.Fatalf("RenderImage(workers=%d) failed: %v", workers, err)
		}
		return img
	}

	serial := render(1, 64)
	parallel := render(8, 7)

	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Images differ at byte %d: %d vs %d", i, serial.Pix[i], parallel.Pix[i])
		}
	}
}

func TestRender_OnTileCallback(t *testing.T) {
	s := scene.NewEmptyScene()
	var seen []int
	rt := newTestRaytracer(t, 20, 20, Options{
		TileSize:   10,
		NumWorkers: 4,
		OnTile: func(result TileResult) {
			// Called from a single goroutine, no locking
			seen = append(seen, result.Tile.ID)
		},
	})

	if _, err := rt.Render(context.Background(), s, s.Camera, NewImageSink(20, 20)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 tile callbacks, got %d", len(seen))
	}
}

func TestRender_Canceled(t *testing.T) {
	s := scene.NewDefaultScene()
	rt := newTestRaytracer(t, 64, 64, Options{TileSize: 8, NumWorkers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := rt.Render(ctx, s, s.Camera, NewImageSink(64, 64))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if stats.Tiles >= 64 {
		t.Errorf("Expected the render to stop early, got %d tiles", stats.Tiles)
	}
}

func TestRender_InvalidSceneWritesNothing(t *testing.T) {
	s := scene.NewScene("bad")
	s.AddSphere(core.NewVec3(0, 0, 3), -1, core.White, 0)
	rt := newTestRaytracer(t, 4, 4, DefaultOptions())
	sink := newCountingSink()

	_, err := rt.Render(context.Background(), s, s.Camera, sink)
	if !errors.Is(err, core.ErrInvalidScene) {
		t.Fatalf("Expected ErrInvalidScene, got %v", err)
	}
	if len(sink.counts) != 0 {
		t.Errorf("Expected no pixels written, got %d", len(sink.counts))
	}
}

func TestRender_LiteralSceneWithoutDefaults(t *testing.T) {
	// Only content is set; viewport and canvas come from the raytracer
	s := &scene.Scene{
		Spheres: []geometry.Sphere{geometry.NewSphere(core.NewVec3(0, 0, 3), 1, core.NewColor(200, 100, 50), 0)},
		Lights:  []lights.Light{lights.NewAmbientLight(1)},
	}
	rt := newTestRaytracer(t, 10, 10, DefaultOptions())
	sink := newCountingSink()

	stats, err := rt.Render(context.Background(), s, geometry.NewCamera(core.Zero), sink)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.TotalPixels != 100 || len(sink.counts) != 100 {
		t.Errorf("Expected 100 pixels, got %+v (%d written)", stats, len(sink.counts))
	}
	if stats.Hits == 0 {
		t.Error("Expected the sphere to be hit")
	}
	// Center offset (0,0) is sink (5,4)
	if got := sink.colors[image.Pt(5, 4)]; got != core.NewColor(200, 100, 50) {
		t.Errorf("Expected full ambient color at the center, got %v", got)
	}
}

func TestRenderScene_RejectsInvalidDefaults(t *testing.T) {
	s := scene.NewEmptyScene()
	s.Width = 0
	if _, _, err := RenderScene(context.Background(), s, DefaultOptions()); !errors.Is(err, core.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene, got %v", err)
	}
}

func TestRender_SceneWarningsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	orig := core.Logger()
	core.SetLogger(logger)
	t.Cleanup(func() { core.SetLogger(orig) })

	s, err := scene.Parse([]byte(`{
  "name": "overbright",
  "width": 8,
  "height": 8,
  "lights": [{ "type": "ambient", "intensity": 1.5 }]
}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if strings.Contains(buf.String(), "scene warning") {
		t.Errorf("Expected no warnings while loading, got %q", buf.String())
	}

	options := DefaultOptions()
	options.Logger = logger
	if _, _, err := RenderScene(context.Background(), s, options); err != nil {
		t.Fatalf("RenderScene failed: %v", err)
	}
	if n := strings.Count(buf.String(), "scene warning"); n != 1 {
		t.Errorf("Expected the warning to be logged once, got %d:\n%s", n, buf.String())
	}
}

func TestRender_NilInputs(t *testing.T) {
	rt := newTestRaytracer(t, 4, 4, DefaultOptions())
	s := scene.NewEmptyScene()

	if _, err := rt.Render(context.Background(), nil, s.Camera, NewImageSink(4, 4)); !errors.Is(err, core.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene for nil scene, got %v", err)
	}
	if _, err := rt.Render(context.Background(), s, s.Camera, nil); err == nil {
		t.Error("Expected error for nil sink")
	}
}

func TestRenderTile_PixelFailureIsIsolated(t *testing.T) {
	// A zero-radius sphere on the view axis is hit exactly at its center,
	// where no normal exists. Validate rejects it, so drive the tile directly.
	s := scene.NewScene("degenerate")
	s.Background = core.Black
	s.AddSphere(core.NewVec3(0, 0, 3), 0, core.White, 0)
	s.AddLight(lights.NewAmbientLight(1))

	rt := newTestRaytracer(t, 4, 4, DefaultOptions())
	sink := NewImageSink(4, 4)
	tr := &tileRenderer{raytracer: rt, scene: s, camera: geometry.NewCamera(core.Zero), sink: sink}

	stats := tr.renderTile(NewTileGrid(4, 4, 4)[0])

	if stats.Failed != 1 {
		t.Fatalf("Expected exactly one failed pixel, got %+v", stats)
	}
	if !errors.Is(stats.FirstError, core.ErrDegenerateVector) {
		t.Errorf("Expected ErrDegenerateVector, got %v", stats.FirstError)
	}
	// Center pixel (offset 0,0) is sink (2,1)
	if got := sink.Image.RGBAAt(2, 1); got != core.ErrorColor.RGBA() {
		t.Errorf("Expected error color at the failed pixel, got %v", got)
	}
	if stats.TotalPixels != 16 || stats.Misses != 15 {
		t.Errorf("Expected the other 15 pixels to render as misses, got %+v", stats)
	}
}

func TestRenderScene_UsesSceneSettings(t *testing.T) {
	s := scene.NewEmptyScene()
	img, stats, err := RenderScene(context.Background(), s, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderScene failed: %v", err)
	}
	if img.Bounds().Dx() != s.Width || img.Bounds().Dy() != s.Height {
		t.Errorf("Expected %dx%d image, got %v", s.Width, s.Height, img.Bounds())
	}
	if stats.TotalPixels != s.Width*s.Height {
		t.Errorf("Expected %d pixels, got %d", s.Width*s.Height, stats.TotalPixels)
	}
}
