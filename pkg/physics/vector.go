// pkg/physics/vector.go

// Package physics provides the rigid-body simulation the vehicle drives:
// vector helpers on mgl64, sphere bodies, static boxes and a stepping world.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// RotateAroundVertical returns v rotated by angle radians about Up.
// The vertical component passes through unchanged.
func RotateAroundVertical(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	if angle == 0 {
		return v
	}
	return mgl64.QuatRotate(angle, Up).Rotate(v)
}

// HorizontalLength returns the magnitude of v projected onto the ground plane.
func HorizontalLength(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ApproxEqual reports whether a and b agree component-wise within tol.
func ApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
