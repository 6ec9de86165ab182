package lights

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ShadowEpsilon is the near limit of shadow rays, keeping a surface from shadowing itself
const ShadowEpsilon = 0.001

// Occluder answers shadow queries. Occluded reports whether anything lies on
// the ray from origin along direction with ShadowEpsilon <= t < tMax.
type Occluder interface {
	Occluded(origin, direction core.Vec3, tMax float64) bool
}

// ComputeLighting returns the illumination factor at point.
//
// normal and view must be unit length; view points from the surface back
// toward the eye. specular <= 0 disables highlights. occluder may be nil,
// in which case no shadows are cast.
//
// The sum of all contributions is divided by the number of lights rather
// than returned as is. This averaging is kept for parity with the reference
// renders and makes a lone ambient light of 0.5 yield exactly 0.5.
func ComputeLighting(lights []Light, point, normal, view core.Vec3, specular float64, occluder Occluder) float64 {
	if len(lights) == 0 {
		return 0
	}

	intensity := 0.0
	for _, light := range lights {
		intensity += contribution(light, point, normal, view, specular, occluder)
	}

	return intensity / float64(len(lights))
}

// contribution returns the diffuse plus specular intensity of a single light
func contribution(light Light, point, normal, view core.Vec3, specular float64, occluder Occluder) float64 {
	var toLight core.Vec3
	var shadowMax float64

	switch light.Type {
	case Ambient:
		return light.Intensity
	case Point:
		toLight = light.Position.Subtract(point)
		shadowMax = 1
	case Directional:
		toLight = light.Direction
		shadowMax = math.Inf(1)
	default:
		return 0
	}

	if occluder != nil && occluder.Occluded(point, toLight, shadowMax) {
		return 0
	}

	// Point lights are normalized here; directional lights are used as authored
	l := toLight
	if light.Type == Point {
		l = toLight.Normalize()
	}

	result := 0.0

	// Diffuse
	nDotL := normal.Dot(l)
	if nDotL > 0 {
		result += light.Intensity * nDotL / (normal.Length() * l.Length())
	}

	// Specular
	if specular > 0 {
		r := normal.Multiply(2 * nDotL).Subtract(l)
		rDotV := r.Dot(view)
		if rDotV > 0 {
			result += light.Intensity * math.Pow(rDotV/(r.Length()*view.Length()), specular)
		}
	}

	return result
}

// Clamp limits an illumination factor to [0,1] and reports whether it had to.
// NaN is treated as out of range and clamps to 0.
func Clamp(factor float64) (float64, bool) {
	switch {
	case math.IsNaN(factor) || factor < 0:
		return 0, true
	case factor > 1:
		return 1, true
	}
	return factor, false
}
