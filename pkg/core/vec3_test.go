package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_DotLengthDistance(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Dot(b); got != 12 {
		t.Errorf("Expected dot 12, got %f", got)
	}

	if got := NewVec3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Expected length 5, got %f", got)
	}

	if got := NewVec3(1, 1, 1).Distance(NewVec3(1, 1, 4)); got != 3 {
		t.Errorf("Expected distance 3, got %f", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{"axis aligned", NewVec3(0, 0, 5), NewVec3(0, 0, 1)},
		{"diagonal", NewVec3(3, 0, 4), NewVec3(0.6, 0, 0.8)},
		{"negative", NewVec3(0, -2, 0), NewVec3(0, -1, 0)},
		{"zero vector stays zero", Zero, Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Normalize()

			const tolerance = 1e-12
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
			if !result.IsFinite() {
				t.Errorf("Expected finite result, got %v", result)
			}
		})
	}
}

func TestVec3_IsZeroAndFinite(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Expected Zero to be zero")
	}
	if NewVec3(0, 1e-300, 0).IsZero() {
		t.Error("Expected tiny vector to be non-zero")
	}
	if NewVec3(math.Inf(1), 0, 0).IsFinite() {
		t.Error("Expected infinite component to be reported")
	}
	if NewVec3(0, math.NaN(), 0).IsFinite() {
		t.Error("Expected NaN component to be reported")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 2))
	if got := ray.At(2); got != NewVec3(0, 0, -1) {
		t.Errorf("Expected (0,0,-1), got %v", got)
	}
}
