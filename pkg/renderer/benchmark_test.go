package renderer

import (
	"context"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func BenchmarkRender_DefaultScene(b *testing.B) {
	s := scene.NewDefaultScene()
	rt, err := NewRaytracer(256, 256, s.Viewport, DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	sink := NewImageSink(256, 256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.Render(context.Background(), s, s.Camera, sink); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender_SphereGridShadows(b *testing.B) {
	s := scene.NewSphereGridScene()
	options := DefaultOptions()
	options.Shadows = true
	rt, err := NewRaytracer(s.Width, s.Height, s.Viewport, options)
	if err != nil {
		b.Fatal(err)
	}
	sink := NewImageSink(s.Width, s.Height)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.Render(context.Background(), s, s.Camera, sink); err != nil {
			b.Fatal(err)
		}
	}
}
