// pkg/physics/body.go
package physics

import (
	"math"
	"reflect"

	"github.com/go-gl/mathgl/mgl64"
)

// RigidBody is the handle the vehicle controller drives. Implementations are
// owned by the physics world; callers keep non-owning references.
type RigidBody interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(v mgl64.Vec3)
	// ApplyForce accumulates a world-space force at a world-space point
	// until the next Step.
	ApplyForce(force, point mgl64.Vec3)
}

// IsNil reports whether body is missing: a nil interface, or a typed nil
// pointer such as a destroyed *SphereBody.
func IsNil(body RigidBody) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Material describes surface response. Contact values are the product of
// both materials, so a zero on either side disables that effect.
type Material struct {
	Mass        float64 `json:"mass" yaml:"mass"`
	Restitution float64 `json:"restitution" yaml:"restitution"`
	Friction    float64 `json:"friction" yaml:"friction"`
}

// SphereBody is a dynamic sphere. A zero mass makes it immovable.
type SphereBody struct {
	Material
	Radius         float64
	LinearDamping  float64
	AngularDamping float64
	Orientation    mgl64.Quat

	position mgl64.Vec3
	linVel   mgl64.Vec3
	angVel   mgl64.Vec3
	force    mgl64.Vec3
	torque   mgl64.Vec3
}

// NewSphereBody creates a sphere at position with identity orientation.
func NewSphereBody(position mgl64.Vec3, radius float64, mat Material) *SphereBody {
	return &SphereBody{
		Material:    mat,
		Radius:      radius,
		Orientation: mgl64.QuatIdent(),
		position:    position,
	}
}

// Position returns the center of the sphere.
func (b *SphereBody) Position() mgl64.Vec3 { return b.position }

// SetPosition teleports the body without touching its velocity.
func (b *SphereBody) SetPosition(p mgl64.Vec3) { b.position = p }

// LinearVelocity returns the velocity in units per second.
func (b *SphereBody) LinearVelocity() mgl64.Vec3 { return b.linVel }

// SetLinearVelocity overwrites the linear velocity.
func (b *SphereBody) SetLinearVelocity(v mgl64.Vec3) { b.linVel = v }

// AngularVelocity returns the spin in radians per second.
func (b *SphereBody) AngularVelocity() mgl64.Vec3 { return b.angVel }

// SetAngularVelocity overwrites the spin.
func (b *SphereBody) SetAngularVelocity(v mgl64.Vec3) { b.angVel = v }

// ApplyForce implements RigidBody. An off-center point also adds torque.
func (b *SphereBody) ApplyForce(force, point mgl64.Vec3) {
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(point.Sub(b.position).Cross(force))
}

// Force returns the force accumulated since the last step.
func (b *SphereBody) Force() mgl64.Vec3 { return b.force }

// Speed returns the magnitude of the linear velocity.
func (b *SphereBody) Speed() float64 { return b.linVel.Len() }

// IsStatic reports whether the body ignores forces and gravity.
func (b *SphereBody) IsStatic() bool { return b.Mass <= 0 }

func (b *SphereBody) inverseMass() float64 {
	if b.IsStatic() {
		return 0
	}
	return 1 / b.Mass
}

// inverseInertia is for a solid sphere, I = 2/5 m r^2.
func (b *SphereBody) inverseInertia() float64 {
	if b.IsStatic() || b.Radius <= 0 {
		return 0
	}
	return 1 / (0.4 * b.Mass * b.Radius * b.Radius)
}

func (b *SphereBody) clearForces() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// applyDamping scales velocities by (1-d)^dt, which keeps the decay
// independent of step size.
func (b *SphereBody) applyDamping(dt float64) {
	if b.LinearDamping > 0 {
		b.linVel = b.linVel.Mul(math.Pow(1-b.LinearDamping, dt))
	}
	if b.AngularDamping > 0 {
		b.angVel = b.angVel.Mul(math.Pow(1-b.AngularDamping, dt))
	}
}

// integrateOrientation advances Orientation by the angular velocity.
func (b *SphereBody) integrateOrientation(dt float64) {
	w := b.angVel
	if w.Len() == 0 {
		return
	}
	spin := mgl64.Quat{W: 0, V: w}.Mul(b.Orientation).Scale(0.5 * dt)
	b.Orientation = b.Orientation.Add(spin).Normalize()
}
