// pkg/physics/collision.go
package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Box is a static axis-aligned box, used for the playfield ground.
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Material
}

// NewBox creates a box from its full size.
func NewBox(center, size mgl64.Vec3, mat Material) Box {
	return Box{Center: center, HalfExtents: size.Mul(0.5), Material: mat}
}

// Top returns the y coordinate of the box's upper face.
func (b Box) Top() float64 {
	return b.Center.Y() + b.HalfExtents.Y()
}

// ClosestPoint returns the point of the box nearest to p.
func (b Box) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range p {
		out[i] = Clamp(p[i], b.Center[i]-b.HalfExtents[i], b.Center[i]+b.HalfExtents[i])
	}
	return out
}

// ContainsXZ reports whether p lies over the box footprint.
func (b Box) ContainsXZ(p mgl64.Vec3) bool {
	return p.X() >= b.Center.X()-b.HalfExtents.X() &&
		p.X() <= b.Center.X()+b.HalfExtents.X() &&
		p.Z() >= b.Center.Z()-b.HalfExtents.Z() &&
		p.Z() <= b.Center.Z()+b.HalfExtents.Z()
}

// CollisionResult contains information about a sphere/box contact.
// Normal points from the box toward the sphere.
type CollisionResult struct {
	Collided     bool
	Normal       mgl64.Vec3
	Penetration  float64
	ContactPoint mgl64.Vec3
}

// CheckSphereBox tests a sphere against a box.
func CheckSphereBox(center mgl64.Vec3, radius float64, box Box) CollisionResult {
	closest := box.ClosestPoint(center)
	delta := center.Sub(closest)
	distance := delta.Len()

	if distance > radius {
		return CollisionResult{Collided: false}
	}

	// Center inside the box: push out through the top face.
	if distance == 0 {
		return CollisionResult{
			Collided:     true,
			Normal:       Up,
			Penetration:  box.Top() - center.Y() + radius,
			ContactPoint: mgl64.Vec3{center.X(), box.Top(), center.Z()},
		}
	}

	return CollisionResult{
		Collided:     true,
		Normal:       delta.Mul(1 / distance),
		Penetration:  radius - distance,
		ContactPoint: closest,
	}
}
