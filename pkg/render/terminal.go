// pkg/render/terminal.go
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/physics"
)

// cellAspect compensates for terminal cells being about twice as tall as
// they are wide.
const cellAspect = 2.0

// Glyphs used by the terminal view.
const (
	glyphGround = '.'
	glyphBall   = 'O'
)

// TerminalRenderer draws a top-down view into a rune buffer: world X runs
// right and world Z runs down.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64 // world units per row
	centerPos mgl64.Vec3
	ground    *physics.Box
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	r := &TerminalRenderer{scale: scale}
	r.Resize(width, height)
	return r
}

// Resize reallocates the buffer. Negative sizes are treated as zero.
func (r *TerminalRenderer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	r.width, r.height = width, height
	r.buffer = make([][]rune, height)
	for i := range r.buffer {
		r.buffer[i] = make([]rune, width)
	}
	r.Clear()
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos mgl64.Vec3) {
	r.centerPos = pos
}

// SetGround sets the slab drawn under the vehicle.
func (r *TerminalRenderer) SetGround(box physics.Box) {
	r.ground = &box
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos mgl64.Vec3) (int, int) {
	screenX := int(math.Floor((pos.X()-r.centerPos.X())/r.scale*cellAspect + float64(r.width)/2))
	screenY := int(math.Floor((pos.Z()-r.centerPos.Z())/r.scale + float64(r.height)/2))
	return screenX, screenY
}

// screenToWorld returns the world point at the center of a cell.
func (r *TerminalRenderer) screenToWorld(x, y int) mgl64.Vec3 {
	wx := (float64(x)+0.5-float64(r.width)/2)*r.scale/cellAspect + r.centerPos.X()
	wz := (float64(y)+0.5-float64(r.height)/2)*r.scale + r.centerPos.Z()
	return mgl64.Vec3{wx, r.centerPos.Y(), wz}
}

// Clear blanks the buffer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

func (r *TerminalRenderer) set(x, y int, ch rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = ch
	}
}

// Render implements Renderer. The view is centered on the camera focus.
func (r *TerminalRenderer) Render(snap engine.Snapshot) {
	r.Clear()
	r.SetCenter(snap.Focus)
	r.renderGround()
	r.renderVehicle(snap.Position, snap.Heading)
	r.renderStatus(snap)
}

// renderGround fills every cell whose center lies over the ground.
func (r *TerminalRenderer) renderGround() {
	if r.ground == nil {
		return
	}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if r.ground.ContainsXZ(r.screenToWorld(x, y)) {
				r.buffer[y][x] = glyphGround
			}
		}
	}
}

// renderVehicle draws the ball with a heading glyph next to it.
func (r *TerminalRenderer) renderVehicle(pos, heading mgl64.Vec3) {
	x, y := r.worldToScreen(pos)
	r.set(x, y, glyphBall)

	if physics.HorizontalLength(heading) == 0 {
		return
	}
	angle := math.Atan2(heading.Z(), heading.X())
	dx := int(math.Round(math.Cos(angle)))
	dy := int(math.Round(math.Sin(angle)))
	r.set(x+dx, y+dy, HeadingGlyph(heading))
}

// HeadingGlyph picks one of eight arrow-like runes for a heading, with
// world Z pointing down the screen.
func HeadingGlyph(heading mgl64.Vec3) rune {
	glyphs := [8]rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}
	angle := math.Atan2(heading.Z(), heading.X())
	sector := int(math.Round(angle/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return glyphs[sector]
}

// renderStatus writes the status line and, in debug mode, the overlay.
func (r *TerminalRenderer) renderStatus(snap engine.Snapshot) {
	if r.height == 0 {
		return
	}
	r.renderText(0, r.height-1, "arrows/wasd drive  ? debug  q quit")
	if !snap.Debug {
		return
	}
	lines := []string{
		fmt.Sprintf("frame %d", snap.Frame),
		fmt.Sprintf("pos %.2f %.2f %.2f", snap.Position.X(), snap.Position.Y(), snap.Position.Z()),
		fmt.Sprintf("speed %.2f turn %.2f", snap.Speed, snap.TurnLimit),
		fmt.Sprintf("respawns %d", snap.Respawns),
	}
	for i, line := range lines {
		r.renderText(0, i, line)
	}
}

func (r *TerminalRenderer) renderText(x, y int, text string) {
	for i, ch := range []rune(text) {
		r.set(x+i, y, ch)
	}
}

// Cell returns the rune at x, y, or zero outside the buffer.
func (r *TerminalRenderer) Cell(x, y int) rune {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0
	}
	return r.buffer[y][x]
}

// Lines returns the buffer as strings.
func (r *TerminalRenderer) Lines() []string {
	out := make([]string, len(r.buffer))
	for i, row := range r.buffer {
		out[i] = string(row)
	}
	return out
}

// Present copies the buffer to screen and shows it.
func (r *TerminalRenderer) Present(screen tcell.Screen) {
	style := tcell.StyleDefault
	groundStyle := style.Foreground(tcell.ColorGreen)
	ballStyle := style.Foreground(tcell.ColorRed).Bold(true)

	for y, row := range r.buffer {
		for x, ch := range row {
			s := style
			switch ch {
			case glyphGround:
				s = groundStyle
			case glyphBall:
				s = ballStyle
			}
			screen.SetContent(x, y, ch, nil, s)
		}
	}
	screen.Show()
}
