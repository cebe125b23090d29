// pkg/vehicle/camera.go
package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Positioner is anything a camera can follow.
type Positioner interface {
	Position() mgl64.Vec3
}

// FollowBinding locks a camera onto a target. It is bound once; the host
// camera reads Focus every frame.
type FollowBinding struct {
	// Alpha and Beta are the arc-rotate longitude and latitude in radians.
	Alpha  float64
	Beta   float64
	Radius float64

	target Positioner
}

// NewFollowBinding creates an unbound binding with the given orbit.
func NewFollowBinding(alpha, beta, radius float64) *FollowBinding {
	return &FollowBinding{Alpha: alpha, Beta: beta, Radius: radius}
}

// Bind sets the followed target.
func (f *FollowBinding) Bind(target Positioner) {
	f.target = target
}

// Bound reports whether a target is set.
func (f *FollowBinding) Bound() bool {
	return f.target != nil
}

// Focus returns the target position, or false when unbound.
func (f *FollowBinding) Focus() (mgl64.Vec3, bool) {
	if f.target == nil {
		return mgl64.Vec3{}, false
	}
	return f.target.Position(), true
}

// Eye returns the camera position on its orbit around the focus.
func (f *FollowBinding) Eye() mgl64.Vec3 {
	focus, _ := f.Focus()
	offset := mgl64.Vec3{
		f.Radius * math.Cos(f.Alpha) * math.Sin(f.Beta),
		f.Radius * math.Cos(f.Beta),
		f.Radius * math.Sin(f.Alpha) * math.Sin(f.Beta),
	}
	return focus.Add(offset)
}
