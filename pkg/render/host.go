// pkg/render/host.go
package render

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-roller/pkg/engine"
)

// DefaultKeyHold is how long a key counts as held after its last press.
const DefaultKeyHold = 500 * time.Millisecond

// KeyCode maps a terminal key event onto the key code strings the input
// tracker binds. Unknown keys map to "".
func KeyCode(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp"
	case tcell.KeyDown:
		return "ArrowDown"
	case tcell.KeyLeft:
		return "ArrowLeft"
	case tcell.KeyRight:
		return "ArrowRight"
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return "Space"
		}
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			return "Key" + string(unicode.ToUpper(r))
		}
	}
	return ""
}

// isQuit reports whether ev asks to leave the terminal host.
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// TerminalHost runs the simulation in a terminal. Terminals report key
// presses and auto-repeats but no releases, so a key is released once no
// press has arrived for KeyHold.
type TerminalHost struct {
	sim      *engine.Simulation
	screen   tcell.Screen
	renderer *TerminalRenderer

	KeyHold time.Duration
	held    map[string]time.Time
	now     func() time.Time
}

// NewTerminalHost creates a host drawing sim on screen. A nil screen opens
// the real terminal when Run starts.
func NewTerminalHost(sim *engine.Simulation, screen tcell.Screen) *TerminalHost {
	hold := time.Duration(sim.Config.Display.KeyHoldMillis) * time.Millisecond
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	r := NewTerminalRenderer(80, 24, 1)
	r.SetGround(sim.Ground)
	return &TerminalHost{
		sim:      sim,
		screen:   screen,
		renderer: r,
		KeyHold:  hold,
		held:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Run draws frames at the configured tick rate until ctx is done or the
// user quits. The screen is restored before Run returns.
func (h *TerminalHost) Run(ctx context.Context) error {
	if h.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		h.screen = s
	}
	if err := h.screen.Init(); err != nil {
		return err
	}
	defer h.screen.Fini()
	h.screen.HideCursor()
	h.renderer.Resize(h.screen.Size())

	dt := h.sim.Config.TickDuration()
	if dt <= 0 {
		return errors.New("tick rate must be positive")
	}

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go h.pollEvents(events, done)

	h.sim.Start(ctx)
	defer h.sim.Stop(context.WithoutCancel(ctx))

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.releaseExpired()
			_, _ = h.sim.Frame(ctx, dt)
			h.renderer.Render(h.sim.Snapshot())
			h.renderer.Present(h.screen)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized.
func (h *TerminalHost) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent applies one terminal event and returns false to quit.
func (h *TerminalHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == '?' {
			h.sim.ToggleDebug()
			return true
		}
		if code := KeyCode(ev); code != "" {
			h.press(code)
		}
	case *tcell.EventResize:
		if h.screen != nil {
			h.screen.Sync()
		}
		h.renderer.Resize(ev.Size())
	}
	return true
}

// press marks code held until KeyHold after now.
func (h *TerminalHost) press(code string) {
	h.held[code] = h.now().Add(h.KeyHold)
	h.sim.Input.OnKeyDown(code)
}

// releaseExpired releases keys whose hold window has passed.
func (h *TerminalHost) releaseExpired() {
	now := h.now()
	for code, until := range h.held {
		if now.After(until) {
			delete(h.held, code)
			h.sim.Input.OnKeyUp(code)
		}
	}
}
