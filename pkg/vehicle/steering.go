// pkg/vehicle/steering.go
package vehicle

import (
	"github.com/opd-ai/go-roller/pkg/input"
	"github.com/opd-ai/go-roller/pkg/physics"
)

// Steering turns the vehicle for one tick and returns the applied yaw
// change in radians.
type Steering interface {
	Name() string
	Steer(body physics.RigidBody, proxy VisualProxy, state input.State, dt float64) float64
}

// RotateSign is +1 for right, -1 for left and 0 when both or neither are
// held.
func RotateSign(state input.State) float64 {
	sign := 0.0
	if state.TurnLeft {
		sign--
	}
	if state.TurnRight {
		sign++
	}
	return sign
}

// TurnLimit scales steering authority with speed: zero inside the dead
// zone, rising linearly to one at MaxSpeedForTurnScaling.
func TurnLimit(speed float64, p SteeringParameters) float64 {
	if p.MaxSpeedForTurnScaling <= 0 {
		return 0
	}
	if speed < p.DeadZoneSpeed {
		speed = 0
	}
	return physics.Clamp(speed, 0, p.MaxSpeedForTurnScaling) / p.MaxSpeedForTurnScaling
}

// TurnDelta is the yaw change for one tick at the given speed.
func TurnDelta(state input.State, speed float64, p SteeringParameters, dt float64) float64 {
	return RotateSign(state) * p.TurnRateCoefficient * TurnLimit(speed, p) * p.tickScale(dt)
}

// KinematicSteering is the kinematic steering override: it re-rotates the
// body's existing linear and angular velocity instead of applying torque,
// so the car turns without skidding.
type KinematicSteering struct {
	Params SteeringParameters
}

// Name implements Steering.
func (s KinematicSteering) Name() string {
	return "kinematic"
}

// Steer implements Steering.
func (s KinematicSteering) Steer(body physics.RigidBody, proxy VisualProxy, state input.State, dt float64) float64 {
	linear := body.LinearVelocity()
	delta := TurnDelta(state, linear.Len(), s.Params, dt)
	if delta == 0 {
		return 0
	}

	body.SetLinearVelocity(physics.RotateAroundVertical(linear, delta))
	body.SetAngularVelocity(physics.RotateAroundVertical(body.AngularVelocity(), delta))
	proxy.SetYaw(proxy.Yaw() + delta)
	return delta
}
