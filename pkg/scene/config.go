package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Vec3Cfg is a vector written as [x, y, z]
type Vec3Cfg [3]float64

// Vec3 converts the array form to a core.Vec3
func (v Vec3Cfg) Vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// ColorCfg is a color written as [r, g, b] with 0-255 channels
type ColorCfg [3]uint8

// Color converts the array form to a core.Color
func (c ColorCfg) Color() core.Color { return core.NewColor(c[0], c[1], c[2]) }

// ViewportCfg mirrors geometry.Viewport; zero fields default to 1
type ViewportCfg struct {
	Distance float64 `json:"distance"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type SphereCfg struct {
	Center   Vec3Cfg  `json:"center"`
	Radius   float64  `json:"radius"`
	Color    ColorCfg `json:"color"`
	Specular float64  `json:"specular,omitempty"` // omitted or <= 0 means matte
}

type LightCfg struct {
	Type      string  `json:"type"` // "ambient", "point" or "directional"
	Intensity float64 `json:"intensity"`
	Position  Vec3Cfg `json:"position,omitempty"`
	Direction Vec3Cfg `json:"direction,omitempty"`
	Normalize bool    `json:"normalize,omitempty"` // normalize a directional light's direction on load
}

// Config is the on-disk JSON form of a scene
type Config struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	Background  *ColorCfg    `json:"background,omitempty"` // defaults to white
	Camera      Vec3Cfg      `json:"camera"`
	Viewport    *ViewportCfg `json:"viewport,omitempty"`
	Spheres     []SphereCfg  `json:"spheres"`
	Lights      []LightCfg   `json:"lights"`
}

// Build converts a light config to a light
func (lc LightCfg) Build() (lights.Light, error) {
	lightType, err := lights.ParseLightType(lc.Type)
	if err != nil {
		return lights.Light{}, err
	}

	switch lightType {
	case lights.Point:
		return lights.NewPointLight(lc.Intensity, lc.Position.Vec3()), nil
	case lights.Directional:
		direction := lc.Direction.Vec3()
		if lc.Normalize {
			direction = direction.Normalize()
		}
		return lights.NewDirectionalLight(lc.Intensity, direction), nil
	default:
		return lights.NewAmbientLight(lc.Intensity), nil
	}
}

// Build converts a scene config to a validated Scene
func (c Config) Build() (*Scene, error) {
	s := NewScene(c.Name)
	s.Description = c.Description
	s.Camera = geometry.NewCamera(c.Camera.Vec3())

	if c.Width > 0 {
		s.Width = c.Width
	}
	if c.Height > 0 {
		s.Height = c.Height
	}
	if c.Background != nil {
		s.Background = c.Background.Color()
	}
	if c.Viewport != nil {
		s.Viewport = geometry.Viewport{
			Distance: defaultOne(c.Viewport.Distance),
			Width:    defaultOne(c.Viewport.Width),
			Height:   defaultOne(c.Viewport.Height),
		}
	}

	for _, sc := range c.Spheres {
		s.AddSphere(sc.Center.Vec3(), sc.Radius, sc.Color.Color(), sc.Specular)
	}
	for i, lc := range c.Lights {
		light, err := lc.Build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	// Warnings are reported when the scene is rendered
	if _, err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func defaultOne(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

// Parse decodes a JSON scene
func Parse(data []byte) (*Scene, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return cfg.Build()
}

// LoadFile reads and decodes a JSON scene file. A missing name defaults to
// the file name without extension.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = fileStem(path)
	}

	s, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}

	core.Logger().Debug("loaded scene file", "path", path, "spheres", len(s.Spheres), "lights", len(s.Lights))
	return s, nil
}
