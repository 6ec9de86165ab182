package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Scene contains everything that exists for one render. It is treated as
// read-only once rendering starts; Camera, Viewport, Width and Height are the
// scene's recommended defaults and are not consulted by the tracer itself.
type Scene struct {
	Name        string
	Description string
	Spheres     []geometry.Sphere
	Lights      []lights.Light
	Background  core.Color
	Camera      geometry.Camera
	Viewport    geometry.Viewport
	Width       int
	Height      int
}

// NewScene creates an empty scene with a white background, a default viewport
// and a 512x512 canvas
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		Spheres:    make([]geometry.Sphere, 0),
		Lights:     make([]lights.Light, 0),
		Background: core.White,
		Camera:     geometry.NewCamera(core.Zero),
		Viewport:   geometry.DefaultViewport(),
		Width:      512,
		Height:     512,
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, color core.Color, specular float64) {
	s.Spheres = append(s.Spheres, geometry.NewSphere(center, radius, color, specular))
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// ValidateContent checks every sphere and light. It returns an error wrapping
// core.ErrInvalidScene for problems that make the scene unrenderable, and a
// list of warnings for problems that only degrade the image. The camera,
// viewport and canvas defaults are not checked.
func (s *Scene) ValidateContent() ([]string, error) {
	for i, sphere := range s.Spheres {
		if err := sphere.Validate(); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}
	return lights.Warnings(s.Lights), nil
}

// Validate checks the scene content and its viewport and canvas defaults
func (s *Scene) Validate() ([]string, error) {
	warnings, err := s.ValidateContent()
	if err != nil {
		return nil, err
	}
	if err := s.Viewport.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidScene, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: %w: %dx%d", core.ErrInvalidScene, core.ErrInvalidCanvas, s.Width, s.Height)
	}
	return warnings, nil
}

// builtins maps scene names to their constructors
var builtins = map[string]func() *Scene{
	"default":    NewDefaultScene,
	"ambient":    NewAmbientScene,
	"empty":      NewEmptyScene,
	"spheregrid": NewSphereGridScene,
}

// BuiltinNames returns the names of all built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltinScene creates a built-in scene by name
func NewBuiltinScene(name string) (*Scene, error) {
	constructor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %q", name)
	}
	return constructor(), nil
}
