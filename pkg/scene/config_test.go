package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

const testSceneJSON = `{
  "name": "test",
  "description": "unit test scene",
  "width": 64,
  "height": 48,
  "background": [10, 20, 30],
  "camera": [0, 1, -2],
  "viewport": { "distance": 2, "width": 0, "height": 0.75 },
  "spheres": [
    { "center": [0, 0, 3], "radius": 1, "color": [255, 0, 0], "specular": 500 },
    { "center": [0, -101, 3], "radius": 100, "color": [0, 255, 0] }
  ],
  "lights": [
    { "type": "ambient", "intensity": 0.2 },
    { "type": "point", "intensity": 0.6, "position": [2, 1, 0] },
    { "type": "directional", "intensity": 0.2, "direction": [0, 3, 4], "normalize": true }
  ]
}`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(testSceneJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Name != "test" || s.Description != "unit test scene" {
		t.Errorf("Unexpected metadata: %q %q", s.Name, s.Description)
	}
	if s.Width != 64 || s.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", s.Width, s.Height)
	}
	if s.Background != core.NewColor(10, 20, 30) {
		t.Errorf("Unexpected background %v", s.Background)
	}
	if s.Camera.Position != core.NewVec3(0, 1, -2) {
		t.Errorf("Unexpected camera %v", s.Camera.Position)
	}
	expectedViewport := geometry.Viewport{Distance: 2, Width: 1, Height: 0.75}
	if s.Viewport != expectedViewport {
		t.Errorf("Expected viewport %+v, got %+v", expectedViewport, s.Viewport)
	}

	if len(s.Spheres) != 2 {
		t.Fatalf("Expected 2 spheres, got %d", len(s.Spheres))
	}
	if s.Spheres[1].Specular != 0 {
		t.Errorf("Expected omitted specular to be 0, got %v", s.Spheres[1].Specular)
	}

	if len(s.Lights) != 3 {
		t.Fatalf("Expected 3 lights, got %d", len(s.Lights))
	}
	if s.Lights[1].Type != lights.Point || s.Lights[1].Position != core.NewVec3(2, 1, 0) {
		t.Errorf("Unexpected point light %+v", s.Lights[1])
	}
	if s.Lights[2].Direction.Subtract(core.NewVec3(0, 0.6, 0.8)).Length() > 1e-12 {
		t.Errorf("Expected normalized direction, got %v", s.Lights[2].Direction)
	}
}

func TestParse_Defaults(t *testing.T) {
	s, err := Parse([]byte(`{"name": "bare", "camera": [0, 0, 0], "spheres": [], "lights": []}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Background != core.White {
		t.Errorf("Expected white background, got %v", s.Background)
	}
	if s.Viewport != geometry.DefaultViewport() {
		t.Errorf("Expected default viewport, got %+v", s.Viewport)
	}
	if s.Width != 512 || s.Height != 512 {
		t.Errorf("Expected 512x512, got %dx%d", s.Width, s.Height)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		expectScene bool
	}{
		{"malformed", `{"name": `, false},
		{"unknown light", `{"camera":[0,0,0],"spheres":[],"lights":[{"type":"spot","intensity":1}]}`, false},
		{"negative radius", `{"camera":[0,0,0],"spheres":[{"center":[0,0,3],"radius":-1,"color":[1,2,3]}],"lights":[]}`, false},
		{"negative viewport", `{"camera":[0,0,0],"viewport":{"distance":-1},"spheres":[],"lights":[]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.json))
			if err == nil {
				t.Fatal("Expected error")
			}
			if s != nil {
				t.Errorf("Expected nil scene, got %+v", s)
			}
		})
	}

	_, err := Parse([]byte(tests[2].json))
	if !errors.Is(err, core.ErrInvalidScene) {
		t.Errorf("Expected ErrInvalidScene for negative radius, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my-scene.json")
	if err := os.WriteFile(path, []byte(`{"camera":[0,0,0],"spheres":[],"lights":[{"type":"ambient","intensity":0.5}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Name != "my-scene" {
		t.Errorf("Expected name from file stem, got %q", s.Name)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
