// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-roller/pkg/input"
)

// Button names registered by SetupInputBindings.
const (
	ButtonAccelerate = "accelerate"
	ButtonReverse    = "reverse"
	ButtonTurnLeft   = "turnLeft"
	ButtonTurnRight  = "turnRight"
	ButtonJump       = "jump"
	ButtonDebug      = "debug"
	ButtonQuit       = "quit"
)

// actionButtons maps engo buttons onto vehicle controls.
var actionButtons = []struct {
	name   string
	action input.Action
}{
	{ButtonAccelerate, input.ActionAccelerate},
	{ButtonReverse, input.ActionReverse},
	{ButtonTurnLeft, input.ActionTurnLeft},
	{ButtonTurnRight, input.ActionTurnRight},
	{ButtonJump, input.ActionJump},
}

// ButtonReader reads named button state. The default reads engo.Input.
type ButtonReader interface {
	Down(name string) bool
	JustPressed(name string) bool
}

type engoButtons struct{}

func (engoButtons) Down(name string) bool { return engo.Input.Button(name).Down() }

func (engoButtons) JustPressed(name string) bool { return engo.Input.Button(name).JustPressed() }

// InputSystem copies button state into the input tracker every frame and
// handles the debug and quit keys.
type InputSystem struct {
	tracker *input.Tracker
	buttons ButtonReader

	onDebug func() bool
	onQuit  func()
}

// NewInputSystem creates an input system feeding tracker. onDebug runs when
// the debug key is pressed; quitting calls engo.Exit.
func NewInputSystem(tracker *input.Tracker, onDebug func() bool) *InputSystem {
	return &InputSystem{
		tracker: tracker,
		buttons: engoButtons{},
		onDebug: onDebug,
		onQuit:  engo.Exit,
	}
}

// Priority runs input before the vehicle system.
func (is *InputSystem) Priority() int { return 30 }

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update polls the buttons. The tracker only reports transitions, so
// setting every flag each frame is cheap.
func (is *InputSystem) Update(dt float32) {
	for _, b := range actionButtons {
		is.tracker.SetAction(b.action, is.buttons.Down(b.name))
	}

	if is.buttons.JustPressed(ButtonDebug) && is.onDebug != nil {
		is.onDebug()
	}
	if is.buttons.JustPressed(ButtonQuit) && is.onQuit != nil {
		is.onQuit()
	}
}

// SetupInputBindings registers the driving keys: arrows and WASD, space
// for jump, F1 for the debug overlay and Escape to quit.
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonAccelerate, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonReverse, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(ButtonTurnLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonTurnRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonJump, engo.KeySpace)

	engo.Input.RegisterButton(ButtonDebug, engo.KeyF1)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape)
}
