package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// LightType identifies one of the three light variants
type LightType int

const (
	Ambient LightType = iota
	Point
	Directional
)

// String returns the lower-case name used in scene files
func (t LightType) String() string {
	switch t {
	case Ambient:
		return "ambient"
	case Point:
		return "point"
	case Directional:
		return "directional"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// ParseLightType is the inverse of LightType.String
func ParseLightType(s string) (LightType, error) {
	switch s {
	case "ambient":
		return Ambient, nil
	case "point":
		return Point, nil
	case "directional":
		return Directional, nil
	default:
		return 0, fmt.Errorf("%w: unknown light type %q", core.ErrInvalidScene, s)
	}
}

// Light is a closed union over ambient, point and directional lights.
// Position is only meaningful for Point and Direction only for Directional.
type Light struct {
	Type      LightType
	Intensity float64
	Position  core.Vec3
	Direction core.Vec3 // Expected to be unit length
}

// NewAmbientLight creates a light that illuminates every point equally
func NewAmbientLight(intensity float64) Light {
	return Light{Type: Ambient, Intensity: intensity}
}

// NewPointLight creates a light emitting from a position
func NewPointLight(intensity float64, position core.Vec3) Light {
	return Light{Type: Point, Intensity: intensity, Position: position}
}

// NewDirectionalLight creates a light arriving from a fixed direction
func NewDirectionalLight(intensity float64, direction core.Vec3) Light {
	return Light{Type: Directional, Intensity: intensity, Direction: direction}
}

// Validate rejects unknown variants and non-finite parameters.
// Intensities outside [0,1] are allowed; see Warnings.
func (l Light) Validate() error {
	switch l.Type {
	case Ambient, Point, Directional:
	default:
		return fmt.Errorf("%w: unknown light type %d", core.ErrInvalidScene, int(l.Type))
	}
	if math.IsNaN(l.Intensity) || math.IsInf(l.Intensity, 0) {
		return fmt.Errorf("%w: %s light intensity is not finite", core.ErrInvalidScene, l.Type)
	}
	if !l.Position.IsFinite() || !l.Direction.IsFinite() {
		return fmt.Errorf("%w: %s light has non-finite vectors", core.ErrInvalidScene, l.Type)
	}
	if l.Type == Directional && l.Direction.IsZero() {
		return fmt.Errorf("%w: directional light: %w", core.ErrInvalidScene, core.ErrDegenerateVector)
	}
	return nil
}

// Warnings returns non-fatal problems with a light set. An intensity outside
// [0,1] is allowed but usually pushes the illumination factor out of range,
// which the renderer then clamps.
func Warnings(lights []Light) []string {
	var warnings []string
	for i, l := range lights {
		if l.Intensity < 0 || l.Intensity > 1 {
			warnings = append(warnings, fmt.Sprintf("light %d (%s) intensity %.3f is outside [0,1]", i, l.Type, l.Intensity))
		}
	}
	return warnings
}
