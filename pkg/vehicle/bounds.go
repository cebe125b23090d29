// pkg/vehicle/bounds.go
package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/physics"
)

// BoundsStatus is the state of the fall-recovery machine.
type BoundsStatus int

const (
	InBounds BoundsStatus = iota
	Fallen
)

// String returns the status name.
func (s BoundsStatus) String() string {
	if s == Fallen {
		return "fallen"
	}
	return "in_bounds"
}

// BoundsMonitor returns a body to the spawn point once it drops below
// Threshold. Velocity is kept unless ResetVelocity is set.
type BoundsMonitor struct {
	Threshold     float64
	Spawn         mgl64.Vec3
	ResetVelocity bool

	respawns int
}

// NewBoundsMonitor creates a monitor with the given floor and spawn point.
func NewBoundsMonitor(threshold float64, spawn mgl64.Vec3) *BoundsMonitor {
	return &BoundsMonitor{Threshold: threshold, Spawn: spawn}
}

// Status classifies the body's current height.
func (m *BoundsMonitor) Status(body physics.RigidBody) BoundsStatus {
	if !physics.IsNil(body) && body.Position().Y() < m.Threshold {
		return Fallen
	}
	return InBounds
}

// Check resets a fallen body and reports whether it did. The transition
// back to InBounds is immediate.
func (m *BoundsMonitor) Check(body physics.RigidBody) bool {
	if m.Status(body) != Fallen {
		return false
	}
	body.SetPosition(m.Spawn)
	if m.ResetVelocity {
		body.SetLinearVelocity(mgl64.Vec3{})
		body.SetAngularVelocity(mgl64.Vec3{})
	}
	m.respawns++
	return true
}

// Respawns returns how many resets have happened.
func (m *BoundsMonitor) Respawns() int {
	return m.respawns
}
