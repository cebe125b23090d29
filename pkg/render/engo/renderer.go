// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/physics"
)

// drawEntity is one drawable in the render system.
type drawEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer draws the playfield top-down: the ground slab, the sphere
// and a heading marker for the visual proxy.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	assets       *AssetManager

	ground drawEntity
	ball   drawEntity
	car    drawEntity

	groundBox physics.Box
	radius    float64
}

// NewEngoRenderer creates a renderer for the given ground and sphere radius.
func NewEngoRenderer(assets *AssetManager, ground physics.Box, radius float64) *EngoRenderer {
	r := &EngoRenderer{
		assets:    assets,
		groundBox: ground,
		radius:    radius,
	}
	r.ground = newDrawEntity(common.Rectangle{}, color.RGBA{70, 110, 70, 255})
	r.ball = newDrawEntity(common.Circle{}, color.RGBA{200, 60, 60, 255})
	r.car = newDrawEntity(common.Rectangle{}, color.RGBA{240, 240, 240, 255})
	return r
}

func newDrawEntity(d common.Drawable, c color.Color) drawEntity {
	return drawEntity{
		BasicEntity:     ecs.NewBasic(),
		RenderComponent: common.RenderComponent{Drawable: d, Color: c},
	}
}

// Initialize swaps in loaded sprites and registers the entities with rs.
func (r *EngoRenderer) Initialize(rs *common.RenderSystem) {
	r.renderSystem = rs
	if r.assets != nil {
		if s := r.assets.GetSprite(SpriteBall); s != nil {
			r.ball.Drawable = s
		}
		if s := r.assets.GetSprite(SpriteCar); s != nil {
			r.car.Drawable = s
		}
	}
	for z, e := range []*drawEntity{&r.ground, &r.ball, &r.car} {
		e.SetZIndex(float32(z))
		rs.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	}
}

// Sync lays out every entity for the snapshot as seen by cam.
func (r *EngoRenderer) Sync(snap engine.Snapshot, cam *CameraSystem) {
	scale := cam.Scale()

	size := r.groundBox.HalfExtents.Mul(2)
	r.ground.Width = float32(size.X()) * scale
	r.ground.Height = float32(size.Z()) * scale
	r.ground.Position = cam.WorldToScreen(r.groundBox.Center.Sub(r.groundBox.HalfExtents))

	d := float32(2*r.radius) * scale
	r.ball.Width, r.ball.Height = d, d
	r.ball.SetCenter(cam.WorldToScreen(snap.Position))

	// SetCenter accounts for rotation, so rotate first.
	r.car.Width, r.car.Height = d*0.8, d*0.8
	r.car.Rotation = HeadingDegrees(snap.Heading)
	r.car.SetCenter(cam.WorldToScreen(snap.Position))
}

// HeadingDegrees converts a world heading into an engo rotation. Screen Y
// is world Z, so positive angles turn clockwise on screen.
func HeadingDegrees(heading mgl64.Vec3) float32 {
	return float32(math.Atan2(heading.Z(), heading.X()) * 180 / math.Pi)
}

// Remove unregisters the entities.
func (r *EngoRenderer) Remove() {
	if r.renderSystem == nil {
		return
	}
	for _, e := range []*drawEntity{&r.ground, &r.ball, &r.car} {
		r.renderSystem.Remove(e.BasicEntity)
	}
}
