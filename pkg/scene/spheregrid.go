package scene

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// oklchToRGB converts OKLCH color values to an 8-bit color
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB; ColorFromUnit clamps to [0, 1]
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.ColorFromUnit(r, g, blue)
}

// NewSphereGridScene creates a scene with a 10x10 grid of spheres on a gray ground
func NewSphereGridScene() *Scene {
	s := NewScene("spheregrid")
	s.Description = "10x10 grid of OKLCH-colored spheres"
	s.Camera = geometry.NewCamera(core.NewVec3(0, 1.5, 0))
	s.Viewport = geometry.Viewport{Distance: 1, Width: 16.0 / 9.0, Height: 1}
	s.Width, s.Height = 640, 360

	// Ground
	s.AddSphere(core.NewVec3(0, -5000, 0), 5000, core.NewColor(128, 128, 128), -1)

	gridSize := 10
	spacing := 1.0
	sphereRadius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - float64(gridSize-1)*spacing/2
			z := 4 + float64(j)*spacing
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)

			// Alternate between glossy and matte
			specular := 50.0
			if (i+j)%2 == 1 {
				specular = -1
			}

			s.AddSphere(position, sphereRadius, oklchToRGB(baseLightness, chroma, hue), specular)
		}
	}

	s.AddLight(lights.NewAmbientLight(0.3))
	s.AddLight(lights.NewPointLight(0.9, core.NewVec3(-3, 6, 2)))
	s.AddLight(lights.NewDirectionalLight(0.5, core.NewVec3(1, 3, -2).Normalize()))

	return s
}
