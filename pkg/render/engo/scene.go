// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-roller/pkg/engine"
)

// VehicleSystem runs one simulation frame per engo update, so the driver
// acts as the before-render hook and the world steps right after it.
type VehicleSystem struct {
	sim *engine.Simulation
}

// NewVehicleSystem creates a system driving sim.
func NewVehicleSystem(sim *engine.Simulation) *VehicleSystem {
	return &VehicleSystem{sim: sim}
}

// Priority runs the vehicle after input and before the camera.
func (vs *VehicleSystem) Priority() int { return 20 }

// Add satisfies the ecs.System interface
func (vs *VehicleSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (vs *VehicleSystem) Remove(basic ecs.BasicEntity) {}

// Update advances the simulation by dt.
func (vs *VehicleSystem) Update(dt float32) {
	// Tick failures are logged and published by the driver.
	_, _ = vs.sim.Frame(context.Background(), float64(dt))
}

// GameScene is the windowed host scene.
type GameScene struct {
	sim *engine.Simulation

	world    *ecs.World
	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	vehicle  *VehicleSystem
	hud      *HUDSystem
}

// NewGameScene creates a new game scene
func NewGameScene(sim *engine.Simulation) *GameScene {
	return &GameScene{
		sim:    sim,
		assets: NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	ctx := context.Background()
	if err := PreloadFont(); err != nil {
		scene.sim.Logger.Warn(ctx, "Debug overlay font unavailable", "error", err.Error())
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	ctx := context.Background()
	world, ok := u.(*ecs.World)
	if !ok {
		scene.sim.Logger.Warn(ctx, "Unexpected updater, creating a private world")
		world = &ecs.World{}
	}
	scene.world = world
	common.SetBackground(color.RGBA{20, 20, 30, 255})

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	if err := scene.assets.LoadAssets(); err != nil {
		scene.sim.Logger.Warn(ctx, "Falling back to plain shapes", "error", err.Error())
	}

	SetupInputBindings()
	SetupCameraControls()
	scene.buildSystems()

	scene.renderer.Initialize(renderSystem)
	scene.hud.Attach(renderSystem, scene.assets.GetFont())

	world.AddSystem(scene.input)
	world.AddSystem(scene.vehicle)
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	engo.Mailbox.Listen(engo.WindowResizeMessage{}.Type(), scene.handleResize)

	scene.sim.Start(ctx)
}

// buildSystems creates the host systems from the simulation config. It
// does not touch GL, so it also serves tests.
func (scene *GameScene) buildSystems() {
	cfg := scene.sim.Config
	scene.camera = NewCameraSystem(scene.sim.Camera, float32(cfg.Camera.PixelsPerUnit),
		float32(cfg.Display.Width), float32(cfg.Display.Height))
	scene.camera.SetZoomLimits(float32(cfg.Camera.MinZoom), float32(cfg.Camera.MaxZoom))
	scene.camera.SetFollowSpeed(float32(cfg.Camera.FollowSpeed))
	scene.camera.EnableSmoothing(cfg.Camera.Smoothing)
	scene.renderer = NewEngoRenderer(scene.assets, scene.sim.Ground, cfg.Vehicle.Radius)
	scene.input = NewInputSystem(scene.sim.Input, scene.sim.ToggleDebug)
	scene.hud = NewHUDSystem(scene.sim.Snapshot)

	scene.camera.Attach(scene.renderer, scene.sim.Snapshot)
	scene.vehicle = NewVehicleSystem(scene.sim)
}

// handleResize keeps the camera centred when the window changes size.
func (scene *GameScene) handleResize(m engo.Message) {
	var w, h int
	switch msg := m.(type) {
	case engo.WindowResizeMessage:
		w, h = msg.NewWidth, msg.NewHeight
	case *engo.WindowResizeMessage:
		w, h = msg.NewWidth, msg.NewHeight
	default:
		return
	}
	if scene.camera == nil || w <= 0 || h <= 0 {
		return
	}
	scene.camera.SetViewport(float32(w), float32(h))
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	if scene.renderer != nil {
		scene.renderer.Remove()
	}
	scene.sim.Stop(context.Background())
}

// Run opens a window and blocks until it is closed.
func Run(sim *engine.Simulation) {
	d := sim.Config.Display
	engo.Run(engo.RunOptions{
		Title:          d.Title,
		Width:          d.Width,
		Height:         d.Height,
		Fullscreen:     d.Fullscreen,
		StandardInputs: false,
		FPSLimit:       sim.Config.Physics.TickRate,
	}, NewGameScene(sim))
}

var _ engo.Scene = (*GameScene)(nil)
