// pkg/input/state.go

// Package input tracks the keyboard state the vehicle controller reads
// each tick.
package input

import (
	"strings"
	"sync"
)

// Action is a control the vehicle responds to.
type Action int

const (
	ActionNone Action = iota
	ActionAccelerate
	ActionReverse
	ActionTurnLeft
	ActionTurnRight
	ActionJump
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAccelerate:
		return "accelerate"
	case ActionReverse:
		return "reverse"
	case ActionTurnLeft:
		return "turnLeft"
	case ActionTurnRight:
		return "turnRight"
	case ActionJump:
		return "jump"
	default:
		return "none"
	}
}

// State is a snapshot of the held controls.
type State struct {
	TurnLeft   bool
	TurnRight  bool
	Accelerate bool
	Reverse    bool
	Jump       bool
}

// Set updates the flag for action.
func (s *State) Set(a Action, down bool) {
	switch a {
	case ActionAccelerate:
		s.Accelerate = down
	case ActionReverse:
		s.Reverse = down
	case ActionTurnLeft:
		s.TurnLeft = down
	case ActionTurnRight:
		s.TurnRight = down
	case ActionJump:
		s.Jump = down
	}
}

// Get returns the flag for action.
func (s State) Get(a Action) bool {
	switch a {
	case ActionAccelerate:
		return s.Accelerate
	case ActionReverse:
		return s.Reverse
	case ActionTurnLeft:
		return s.TurnLeft
	case ActionTurnRight:
		return s.TurnRight
	case ActionJump:
		return s.Jump
	default:
		return false
	}
}

// Any reports whether any control is held.
func (s State) Any() bool {
	return s.TurnLeft || s.TurnRight || s.Accelerate || s.Reverse || s.Jump
}

// Bindings maps normalized key codes to actions.
type Bindings map[string]Action

// DefaultBindings uses KeyboardEvent.code names; bare letters are aliases.
func DefaultBindings() Bindings {
	return Bindings{
		"ArrowUp":    ActionAccelerate,
		"KeyW":       ActionAccelerate,
		"W":          ActionAccelerate,
		"ArrowDown":  ActionReverse,
		"KeyS":       ActionReverse,
		"S":          ActionReverse,
		"ArrowLeft":  ActionTurnLeft,
		"KeyA":       ActionTurnLeft,
		"A":          ActionTurnLeft,
		"ArrowRight": ActionTurnRight,
		"KeyD":       ActionTurnRight,
		"D":          ActionTurnRight,
		"Space":      ActionJump,
	}
}

// Lookup resolves a key code. Single letters match case-insensitively.
func (b Bindings) Lookup(code string) Action {
	if a, ok := b[code]; ok {
		return a
	}
	if len(code) == 1 {
		if a, ok := b[strings.ToUpper(code)]; ok {
			return a
		}
	}
	return ActionNone
}

// ChangeFunc is called after a key event changed a flag.
type ChangeFunc func(action Action, down bool, state State)

// Tracker turns key-down/key-up events into a State. Events may arrive
// on a different goroutine than the one taking snapshots.
type Tracker struct {
	mu       sync.Mutex
	state    State
	bindings Bindings
	onChange ChangeFunc
}

// NewTracker creates a tracker. Nil bindings select DefaultBindings.
func NewTracker(bindings Bindings) *Tracker {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Tracker{bindings: bindings}
}

// OnChange registers a callback for flag transitions.
func (t *Tracker) OnChange(fn ChangeFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// OnKeyDown marks the bound action held. Repeats while held are no-ops.
func (t *Tracker) OnKeyDown(code string) {
	t.update(code, true)
}

// OnKeyUp releases the bound action.
func (t *Tracker) OnKeyUp(code string) {
	t.update(code, false)
}

// SetAction sets a flag directly, for hosts that poll buttons by action.
func (t *Tracker) SetAction(a Action, down bool) {
	if a == ActionNone {
		return
	}
	t.mu.Lock()
	changed := t.state.Get(a) != down
	t.state.Set(a, down)
	state, fn := t.state, t.onChange
	t.mu.Unlock()

	if changed && fn != nil {
		fn(a, down, state)
	}
}

func (t *Tracker) update(code string, down bool) {
	t.SetAction(t.bindings.Lookup(code), down)
}

// Reset releases every control.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = State{}
}

// Snapshot returns the latest committed state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
