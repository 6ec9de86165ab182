package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Sphere represents a sphere shape with a flat base color
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Color    core.Color
	Specular float64 // Phong exponent; values <= 0 disable the highlight
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, color core.Color, specular float64) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Color:    color,
		Specular: specular,
	}
}

// Validate checks that the sphere has a finite center and a positive finite radius
func (s Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: sphere center %v is not finite", core.ErrInvalidScene, s.Center)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: sphere radius must be positive, got %v", core.ErrInvalidScene, s.Radius)
	}
	return nil
}

// Normal returns the outward unit normal at a point on the sphere surface
func (s Sphere) Normal(point core.Vec3) (core.Vec3, error) {
	outward := point.Subtract(s.Center)
	if outward.IsZero() {
		return core.Zero, core.ErrDegenerateVector
	}
	return outward.Normalize(), nil
}

// IntersectRaySphere solves |O + tD - C|² = r² for t and returns both roots.
// The roots are not ordered. A miss, or a zero-length direction, returns
// +Inf for both.
func IntersectRaySphere(origin, direction core.Vec3, sphere Sphere) (float64, float64) {
	// Vector from sphere center to ray origin
	co := origin.Subtract(sphere.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := direction.Dot(direction)
	b := 2 * co.Dot(direction)
	c := co.Dot(co) - sphere.Radius*sphere.Radius

	if a == 0 {
		return math.Inf(1), math.Inf(1)
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return math.Inf(1), math.Inf(1)
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b + sqrtD) / (2 * a)
	t2 := (-b - sqrtD) / (2 * a)
	return t1, t2
}
