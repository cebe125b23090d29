// pkg/vehicle/proxy.go
package vehicle

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/physics"
)

// Local axes of the car model. Forward is -X.
var (
	LocalForward  = mgl64.Vec3{-1, 0, 0}
	LocalBackward = mgl64.Vec3{1, 0, 0}
)

// VisualProxy is the non-physical mesh that renders the vehicle.
type VisualProxy interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	// Yaw is the rotation about the vertical axis, in radians.
	Yaw() float64
	SetYaw(yaw float64)
}

// Proxy is an in-memory VisualProxy that hosts read when drawing.
type Proxy struct {
	position mgl64.Vec3
	yaw      float64
}

// NewProxy creates a proxy at position facing the model's forward axis.
func NewProxy(position mgl64.Vec3) *Proxy {
	return &Proxy{position: position}
}

// Position returns where the proxy is drawn.
func (p *Proxy) Position() mgl64.Vec3 { return p.position }

// SetPosition moves the proxy.
func (p *Proxy) SetPosition(pos mgl64.Vec3) { p.position = pos }

// Yaw returns the proxy heading in radians.
func (p *Proxy) Yaw() float64 { return p.yaw }

// SetYaw sets the proxy heading in radians.
func (p *Proxy) SetYaw(yaw float64) { p.yaw = yaw }

// proxyMissing reports a nil proxy, including a typed nil pointer.
func proxyMissing(proxy VisualProxy) bool {
	if proxy == nil {
		return true
	}
	v := reflect.ValueOf(proxy)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Direction transforms a local axis into world space using the proxy yaw.
func Direction(proxy VisualProxy, local mgl64.Vec3) mgl64.Vec3 {
	return physics.RotateAroundVertical(local, proxy.Yaw())
}

// Heading returns the world-space forward unit vector.
func Heading(proxy VisualProxy) mgl64.Vec3 {
	return Direction(proxy, LocalForward)
}

// Synchronize copies the body position onto the proxy. Orientation is
// driven by the steering step, not read back from the body. It reports
// whether anything was copied.
func Synchronize(body physics.RigidBody, proxy VisualProxy) bool {
	if physics.IsNil(body) || proxyMissing(proxy) {
		return false
	}
	proxy.SetPosition(body.Position())
	return true
}
