// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/vehicle"
)

// Camera button names.
const (
	ButtonZoomIn    = "zoomIn"
	ButtonZoomOut   = "zoomOut"
	ButtonResetZoom = "resetZoom"
)

// CameraSystem is a top-down view that follows a FollowBinding. World X
// maps to screen X and world Z to screen Y.
type CameraSystem struct {
	binding *vehicle.FollowBinding
	buttons ButtonReader

	// Drawables laid out after each move.
	renderer *EngoRenderer
	snapshot func() engine.Snapshot

	// Camera properties
	zoom          float32
	minZoom       float32
	maxZoom       float32
	pixelsPerUnit float32

	// Smooth following
	followSpeed float32
	smoothing   bool

	width, height float32

	// Current camera state
	currentPos mgl64.Vec3
	positioned bool
}

// NewCameraSystem creates a camera locked onto binding. The viewport is
// width by height pixels.
func NewCameraSystem(binding *vehicle.FollowBinding, pixelsPerUnit, width, height float32) *CameraSystem {
	return &CameraSystem{
		binding:       binding,
		buttons:       engoButtons{},
		zoom:          1.0,
		minZoom:       0.1,
		maxZoom:       3.0,
		pixelsPerUnit: pixelsPerUnit,
		followSpeed:   2.0,
		width:         width,
		height:        height,
	}
}

// Priority runs the camera after the vehicle has moved.
func (cs *CameraSystem) Priority() int { return 10 }

// Add satisfies the ecs.System interface
func (cs *CameraSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Attach makes the camera lay out r from snapshot after every move.
func (cs *CameraSystem) Attach(r *EngoRenderer, snapshot func() engine.Snapshot) {
	cs.renderer = r
	cs.snapshot = snapshot
}

// Update updates the camera position and zoom
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.Follow(dt)

	if cs.renderer != nil && cs.snapshot != nil {
		cs.renderer.Sync(cs.snapshot(), cs)
	}
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	if cs.buttons.Down(ButtonZoomIn) {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if cs.buttons.Down(ButtonZoomOut) {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if cs.buttons.JustPressed(ButtonResetZoom) {
		cs.SetZoom(1.0)
	}
}

// Follow moves the view toward the binding's focus. The first focus, or
// any focus with smoothing off, is taken immediately.
func (cs *CameraSystem) Follow(dt float32) {
	focus, ok := cs.binding.Focus()
	if !ok {
		return
	}
	if !cs.smoothing || !cs.positioned {
		cs.currentPos = focus
		cs.positioned = true
		return
	}
	step := float64(cs.followSpeed * dt)
	if step > 1 {
		step = 1
	}
	cs.currentPos = cs.currentPos.Add(focus.Sub(cs.currentPos).Mul(step))
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

// clampZoom ensures zoom is within valid bounds
func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// SetFollowSpeed sets the camera follow speed
func (cs *CameraSystem) SetFollowSpeed(speed float32) {
	cs.followSpeed = speed
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// SetViewport updates the screen size in pixels.
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.width, cs.height = width, height
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() mgl64.Vec3 {
	return cs.currentPos
}

// Scale returns screen pixels per world unit at the current zoom.
func (cs *CameraSystem) Scale() float32 {
	return cs.pixelsPerUnit * cs.zoom
}

// WorldToScreen projects a world position onto the screen.
func (cs *CameraSystem) WorldToScreen(p mgl64.Vec3) engo.Point {
	s := cs.Scale()
	return engo.Point{
		X: float32(p.X()-cs.currentPos.X())*s + cs.width/2,
		Y: float32(p.Z()-cs.currentPos.Z())*s + cs.height/2,
	}
}

// ScreenToWorld converts a screen point back to the ground plane at the
// camera's height.
func (cs *CameraSystem) ScreenToWorld(pt engo.Point) mgl64.Vec3 {
	s := cs.Scale()
	return mgl64.Vec3{
		float64((pt.X-cs.width/2)/s) + cs.currentPos.X(),
		cs.currentPos.Y(),
		float64((pt.Y-cs.height/2)/s) + cs.currentPos.Z(),
	}
}

// SetupCameraControls sets up camera control key bindings
func SetupCameraControls() {
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyZ)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyX)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
}
