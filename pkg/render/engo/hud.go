// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/input"
)

// HUDSystem draws the debug overlay in the top-left corner while debug
// mode is on.
type HUDSystem struct {
	snapshot func() engine.Snapshot
	font     *common.Font
	text     *drawEntity

	hudColor color.Color
	lines    []string
}

// NewHUDSystem creates a HUD reading state from snapshot.
func NewHUDSystem(snapshot func() engine.Snapshot) *HUDSystem {
	return &HUDSystem{
		snapshot: snapshot,
		hudColor: color.RGBA{255, 255, 255, 255},
	}
}

// Priority draws the overlay text after the scene has been laid out.
func (hud *HUDSystem) Priority() int { return 0 }

// Attach creates the text entity in rs. Without a font the HUD only keeps
// its lines up to date.
func (hud *HUDSystem) Attach(rs *common.RenderSystem, font *common.Font) {
	hud.font = font
	if font == nil || rs == nil {
		return
	}
	e := newDrawEntity(common.Text{Font: font}, hud.hudColor)
	e.SetShader(common.HUDShader)
	e.SetZIndex(100)
	e.Position = engo.Point{X: 10, Y: 10}
	e.Hidden = true
	hud.text = &e
	rs.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the overlay text.
func (hud *HUDSystem) Update(dt float32) {
	snap := hud.snapshot()
	if !snap.Debug {
		hud.lines = hud.lines[:0]
		if hud.text != nil {
			hud.text.Hidden = true
		}
		return
	}

	hud.lines = DebugLines(snap)
	if hud.text != nil {
		hud.text.Drawable = common.Text{
			Font:        hud.font,
			Text:        strings.Join(hud.lines, "\n"),
			LineSpacing: 0.2,
		}
		hud.text.Hidden = false
	}
}

// Lines returns the text currently shown, empty while hidden.
func (hud *HUDSystem) Lines() []string {
	return hud.lines
}

// DebugLines formats the overlay for a snapshot.
func DebugLines(snap engine.Snapshot) []string {
	return []string{
		fmt.Sprintf("frame %d", snap.Frame),
		fmt.Sprintf("pos %.2f %.2f %.2f", snap.Position.X(), snap.Position.Y(), snap.Position.Z()),
		fmt.Sprintf("speed %.2f  turn %.2f", snap.Speed, snap.TurnLimit),
		fmt.Sprintf("yaw %.3f", snap.Yaw),
		fmt.Sprintf("respawns %d", snap.Respawns),
		"keys " + heldKeys(snap.Input),
	}
}

func heldKeys(s input.State) string {
	var held []string
	for _, a := range []input.Action{
		input.ActionAccelerate, input.ActionReverse,
		input.ActionTurnLeft, input.ActionTurnRight, input.ActionJump,
	} {
		if s.Get(a) {
			held = append(held, a.String())
		}
	}
	if len(held) == 0 {
		return "-"
	}
	return strings.Join(held, " ")
}
