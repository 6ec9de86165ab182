package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"ambient scene", "ambient", false},
		{"empty scene", "empty", false},
		{"spheregrid scene", "spheregrid", false},

		// Scene files (by name and by path)
		{"scene file by name", "three-spheres", false},
		{"scene file by path", "scenes/night-sky.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid file path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.Width <= 0 || scene.Height <= 0 {
				t.Errorf("Scene canvas should be positive, got %dx%d", scene.Width, scene.Height)
			}
			if _, err := scene.Validate(); err != nil {
				t.Errorf("Scene '%s' should validate: %v", tt.sceneType, err)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	config, err := parseFlags([]string{"-scene", "ambient", "-width", "32", "-camera", "1, 2.5,-3", "-shadows", "-workers", "2"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if config.SceneName != "ambient" || config.Width != 32 || config.Height != 0 {
		t.Errorf("Unexpected config: %+v", config)
	}
	if config.Camera == nil || *config.Camera != core.NewVec3(1, 2.5, -3) {
		t.Errorf("Expected camera (1,2.5,-3), got %v", config.Camera)
	}
	if !config.Shadows || config.Workers != 2 {
		t.Errorf("Expected shadows with 2 workers, got %+v", config)
	}
	if config.TileSize != 64 {
		t.Errorf("Expected default tile size 64, got %d", config.TileSize)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"camera with two components", []string{"-camera", "1,2"}},
		{"camera not a number", []string{"-camera", "a,b,c"}},
		{"camera infinite", []string{"-camera", "Inf,0,0"}},
		{"negative width", []string{"-width", "-5"}},
		{"zero tile", []string{"-tile", "0"}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestOutputPath_Default(t *testing.T) {
	s, err := createScene("ambient")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	got := outputPath(Config{}, s, now)
	expected := filepath.Join("output", "ambient", "render_20240305_140709.png")
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	if got := outputPath(Config{Output: "x.bmp"}, s, now); got != "x.bmp" {
		t.Errorf("Expected explicit output to win, got %s", got)
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "render.png")
	config := Config{
		SceneName: "ambient",
		Width:     32,
		Height:    24,
		Output:    out,
		TileSize:  8,
		Label:     "ambient",
	}

	filename, err := run(context.Background(), config, time.Now())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if filename != out {
		t.Errorf("Expected %s, got %s", out, filename)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty image at %s: %v", out, err)
	}
}

func TestRun_BadExtension(t *testing.T) {
	config := Config{SceneName: "empty", Output: filepath.Join(t.TempDir(), "render.jpg"), TileSize: 8}
	if _, err := run(context.Background(), config, time.Now()); err == nil {
		t.Error("Expected error for unsupported output extension")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := Config{SceneName: "default", Output: filepath.Join(t.TempDir(), "render.png"), TileSize: 8}
	if _, err := run(ctx, config, time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
