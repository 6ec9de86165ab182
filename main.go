package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Config holds the parsed command line
type Config struct {
	SceneName string
	Width     int // 0 = scene default
	Height    int // 0 = scene default
	Camera    *core.Vec3
	Output    string
	Workers   int
	TileSize  int
	Shadows   bool
	Label     string
	Verbose   bool
	Help      bool
}

func main() {
	config, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		showHelp()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if config.Help {
		showHelp()
		return
	}

	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	core.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, config, time.Now())
	if err != nil {
		logger.Error("render failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// parseFlags parses args into a Config
func parseFlags(args []string) (Config, error) {
	var config Config
	var camera string

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.StringVar(&config.SceneName, "scene", "default", "Built-in scene name or path to a .json scene file")
	fs.IntVar(&config.Width, "width", 0, "Canvas width in pixels (0 = scene default)")
	fs.IntVar(&config.Height, "height", 0, "Canvas height in pixels (0 = scene default)")
	fs.StringVar(&camera, "camera", "", "Camera position as x,y,z (default: scene camera)")
	fs.StringVar(&config.Output, "out", "", "Output file (.png, .bmp, .tif); default output/<scene>/render_<timestamp>.png")
	fs.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&config.TileSize, "tile", renderer.DefaultOptions().TileSize, "Tile size in pixels")
	fs.BoolVar(&config.Shadows, "shadows", false, "Cast hard shadows from point and directional lights")
	fs.StringVar(&config.Label, "label", "", "Text drawn in the bottom-left corner of the image")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&config.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if camera != "" {
		position, err := parseVec3(camera)
		if err != nil {
			return Config{}, fmt.Errorf("-camera: %w", err)
		}
		config.Camera = &position
	}
	if config.Width < 0 || config.Height < 0 {
		return Config{}, fmt.Errorf("%w: -width and -height must not be negative", core.ErrInvalidCanvas)
	}
	if config.TileSize <= 0 {
		return Config{}, errors.New("-tile must be positive")
	}

	return config, nil
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q: %w", part, err)
		}
		values[i] = v
	}

	v := core.NewVec3(values[0], values[1], values[2])
	if !v.IsFinite() {
		return core.Vec3{}, fmt.Errorf("components must be finite, got %q", s)
	}
	return v, nil
}

// createScene loads a built-in scene or a scene file
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.New("scene name is empty")
	}
	return scene.Load(name)
}

// outputPath returns the configured output file, or the default
// output/<scene>/render_<timestamp>.png
func outputPath(config Config, s *scene.Scene, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	name := s.Name
	if name == "" {
		name = "scene"
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.png", timestamp))
}

// run renders the configured scene and saves it, returning the file written
func run(ctx context.Context, config Config, now time.Time) (string, error) {
	logger := core.Logger()

	s, err := createScene(config.SceneName)
	if err != nil {
		return "", err
	}

	width, height := s.Width, s.Height
	if config.Width > 0 {
		width = config.Width
	}
	if config.Height > 0 {
		height = config.Height
	}
	camera := s.Camera
	if config.Camera != nil {
		camera = geometry.NewCamera(*config.Camera)
	}

	// Fail on a bad extension before spending time rendering
	filename := outputPath(config, s, now)
	if _, err := output.FormatFromPath(filename); err != nil {
		return "", err
	}

	rt, err := renderer.NewRaytracer(width, height, s.Viewport, renderer.Options{
		TileSize:   config.TileSize,
		NumWorkers: config.Workers,
		Shadows:    config.Shadows,
	})
	if err != nil {
		return "", err
	}

	canvas, err := output.NewCanvas(width, height)
	if err != nil {
		return "", err
	}

	stats, err := rt.Render(ctx, s, camera, canvas)
	if err != nil {
		return "", err
	}
	logger.Info("render stats",
		"pixels", stats.TotalPixels,
		"hits", stats.Hits,
		"clamped", stats.Clamped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)

	if err := canvas.DrawLabel(config.Label, 0); err != nil {
		return "", err
	}
	if err := canvas.Save(filename); err != nil {
		return "", err
	}
	return filename, nil
}

func showHelp() {
	fmt.Println("Phong Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -scene string     Built-in scene name or path to a .json scene file (default \"default\")")
	fmt.Println("  -width int        Canvas width in pixels (0 = scene default)")
	fmt.Println("  -height int       Canvas height in pixels (0 = scene default)")
	fmt.Println("  -camera x,y,z     Camera position (default: scene camera)")
	fmt.Println("  -out string       Output file (.png, .bmp, .tif)")
	fmt.Println("  -workers int      Number of parallel workers (0 = auto-detect CPU count)")
	fmt.Println("  -tile int         Tile size in pixels (default 64)")
	fmt.Println("  -shadows          Cast hard shadows")
	fmt.Println("  -label string     Text drawn in the bottom-left corner")
	fmt.Println("  -v                Verbose (debug) logging")
	fmt.Println("  -help             Show this help")
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, name := range scene.BuiltinNames() {
		fmt.Printf("  %s\n", name)
	}
	if files, err := scene.ListSceneFiles("scenes"); err == nil {
		for _, info := range files {
			fmt.Printf("  %s - %s\n", info.ID, info.Description)
		}
	}
	fmt.Println()
	fmt.Println("Output is saved to output/<scene>/render_<timestamp>.png unless -out is given")
}
