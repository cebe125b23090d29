// pkg/physics/world.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// restitutionThreshold is the approach speed below which contacts do not
// bounce, so resting bodies settle instead of jittering.
const restitutionThreshold = 1.0

// World owns dynamic spheres and static boxes and advances them together.
type World struct {
	Gravity mgl64.Vec3

	bodies []*SphereBody
	static []Box
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity mgl64.Vec3) *World {
	return &World{Gravity: gravity}
}

// AddBody registers a dynamic body.
func (w *World) AddBody(b *SphereBody) {
	w.bodies = append(w.bodies, b)
}

// AddStatic registers an immovable box.
func (w *World) AddStatic(b Box) {
	w.static = append(w.static, b)
}

// Bodies returns the registered dynamic bodies.
func (w *World) Bodies() []*SphereBody {
	return w.bodies
}

// Statics returns the registered static boxes.
func (w *World) Statics() []Box {
	return w.static
}

// Step advances the world by dt seconds: forces and gravity, contacts,
// damping, then positions. Accumulated forces are cleared afterwards.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if b.IsStatic() {
			b.clearForces()
			continue
		}
		accel := w.Gravity.Add(b.force.Mul(b.inverseMass()))
		b.linVel = b.linVel.Add(accel.Mul(dt))
		b.angVel = b.angVel.Add(b.torque.Mul(b.inverseInertia() * dt))

		for _, box := range w.static {
			resolveContact(b, box)
		}

		b.applyDamping(dt)
		b.position = b.position.Add(b.linVel.Mul(dt))
		b.integrateOrientation(dt)
		b.clearForces()
	}
}

// resolveContact applies a normal impulse with restitution and a Coulomb
// friction impulse at the contact point, then removes penetration.
func resolveContact(b *SphereBody, box Box) {
	hit := CheckSphereBox(b.position, b.Radius, box)
	if !hit.Collided {
		return
	}
	n := hit.Normal

	// Positional correction.
	if hit.Penetration > 0 {
		b.position = b.position.Add(n.Mul(hit.Penetration))
	}

	vn := b.linVel.Dot(n)
	if vn >= 0 {
		return
	}

	restitution := b.Restitution * box.Restitution
	if -vn < restitutionThreshold {
		restitution = 0
	}
	jn := -(1 + restitution) * vn * b.Mass
	b.linVel = b.linVel.Add(n.Mul(jn * b.inverseMass()))

	friction := b.Friction * box.Friction
	if friction <= 0 {
		return
	}

	// Contact point velocity includes the spin of the sphere surface.
	arm := n.Mul(-b.Radius)
	vc := b.linVel.Add(b.angVel.Cross(arm))
	vt := vc.Sub(n.Mul(vc.Dot(n)))
	slip := vt.Len()
	if slip == 0 {
		return
	}
	dir := vt.Mul(-1 / slip)

	// Effective tangential mass of a solid sphere at its surface: 2m/7.
	jt := math.Min(slip*b.Mass*2/7, friction*jn)
	impulse := dir.Mul(jt)
	b.linVel = b.linVel.Add(impulse.Mul(b.inverseMass()))
	b.angVel = b.angVel.Add(arm.Cross(impulse).Mul(b.inverseInertia()))
}
