package geometry

import "github.com/df07/go-phong-raytracer/pkg/core"

// ClosestIntersection returns the sphere hit nearest to the ray origin with
// tMin <= t < tMax, along with its t. It returns nil when nothing is hit.
//
// Roots are accepted only when strictly closer than the best so far, so on an
// exact tie the sphere that comes first in the slice wins.
func ClosestIntersection(spheres []Sphere, ray core.Ray, tMin, tMax float64) (*Sphere, float64) {
	i, t := ClosestIndex(spheres, ray, tMin, tMax)
	if i < 0 {
		return nil, t
	}
	return &spheres[i], t
}

// ClosestIndex is ClosestIntersection reporting the slice index, or -1 on a miss
func ClosestIndex(spheres []Sphere, ray core.Ray, tMin, tMax float64) (int, float64) {
	closest := -1
	closestT := tMax

	for i := range spheres {
		t1, t2 := IntersectRaySphere(ray.Origin, ray.Direction, spheres[i])
		if t1 >= tMin && t1 < closestT {
			closestT = t1
			closest = i
		}
		if t2 >= tMin && t2 < closestT {
			closestT = t2
			closest = i
		}
	}

	return closest, closestT
}
