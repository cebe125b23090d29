// pkg/vehicle/controller.go
package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/input"
	"github.com/opd-ai/go-roller/pkg/physics"
)

// TickResult reports what the controller did in one tick.
type TickResult struct {
	Applied   bool
	Speed     float64
	TurnLimit float64
	TurnDelta float64
	Force     mgl64.Vec3
}

// Controller converts input state into steering and propulsion commands.
type Controller struct {
	Params   SteeringParameters
	Steering Steering

	last TickResult
}

// NewController creates a controller using kinematic steering.
func NewController(params SteeringParameters) *Controller {
	return &Controller{
		Params:   params,
		Steering: KinematicSteering{Params: params},
	}
}

// PropulsionForce returns the world-space force for the held controls.
// Accelerate pushes along the proxy's forward axis, reverse along the
// backward axis; holding both or neither yields zero.
func PropulsionForce(state input.State, proxy VisualProxy, p SteeringParameters, dt float64) mgl64.Vec3 {
	if state.Accelerate == state.Reverse {
		return mgl64.Vec3{}
	}
	local := LocalForward
	if state.Reverse {
		local = LocalBackward
	}
	return Direction(proxy, local).Mul(p.MaxPropulsionForce * p.tickScale(dt))
}

// Tick runs steering then propulsion. A missing body or proxy makes the
// tick a no-op. The force is applied at the body position, so it produces
// no torque.
func (c *Controller) Tick(dt float64, body physics.RigidBody, proxy VisualProxy, state input.State) TickResult {
	if physics.IsNil(body) || proxyMissing(proxy) {
		c.last = TickResult{}
		return c.last
	}

	speed := body.LinearVelocity().Len()
	res := TickResult{
		Applied:   true,
		Speed:     speed,
		TurnLimit: TurnLimit(speed, c.Params),
	}

	steering := c.Steering
	if steering == nil {
		steering = KinematicSteering{Params: c.Params}
	}
	res.TurnDelta = steering.Steer(body, proxy, state, dt)

	res.Force = PropulsionForce(state, proxy, c.Params, dt)
	body.ApplyForce(res.Force, body.Position())

	c.last = res
	return res
}

// Last returns the result of the most recent tick.
func (c *Controller) Last() TickResult {
	return c.last
}
