package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// NewDefaultScene creates the reference scene: red, blue and green spheres
// resting on a huge yellow sphere, lit by ambient, point and directional lights
func NewDefaultScene() *Scene {
	s := NewScene("default")
	s.Description = "Three spheres on a yellow ground with ambient, point and directional light"

	s.AddSphere(core.NewVec3(0, -1, 3), 1, core.NewColor(255, 0, 0), 500)
	s.AddSphere(core.NewVec3(2, 0, 4), 1, core.NewColor(0, 0, 255), 500)
	s.AddSphere(core.NewVec3(-2, 0, 4), 1, core.NewColor(0, 255, 0), 10)

	// Ground
	s.AddSphere(core.NewVec3(0, -5001, 0), 5000, core.NewColor(255, 255, 0), 1000)

	s.AddLight(lights.NewAmbientLight(0.2))
	s.AddLight(lights.NewPointLight(0.6, core.NewVec3(2, 1, 0)))
	s.AddLight(lights.NewDirectionalLight(0.2, core.NewVec3(1, 4, 4).Normalize()))

	return s
}

// NewAmbientScene creates a single sphere lit only by ambient light,
// which renders as a flat disc at half brightness
func NewAmbientScene() *Scene {
	s := NewScene("ambient")
	s.Description = "One sphere under ambient light only"
	s.Width, s.Height = 256, 256

	s.AddSphere(core.NewVec3(0, 0, 3), 1, core.NewColor(200, 120, 40), 100)
	s.AddLight(lights.NewAmbientLight(0.5))

	return s
}

// NewEmptyScene creates a scene with no spheres; every pixel is background
func NewEmptyScene() *Scene {
	s := NewScene("empty")
	s.Description = "No geometry, background only"
	s.Width, s.Height = 128, 128
	s.AddLight(lights.NewAmbientLight(1))
	return s
}
