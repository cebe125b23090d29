package render

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/physics"
)

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		scale  float64
	}{
		{"small renderer", 10, 5, 1.0},
		{"medium renderer", 80, 24, 10.0},
		{"negative size", -3, -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(tt.width, tt.height, tt.scale)

			wantW, wantH := max(tt.width, 0), max(tt.height, 0)
			if renderer.width != wantW || renderer.height != wantH {
				t.Errorf("expected %dx%d, got %dx%d", wantW, wantH, renderer.width, renderer.height)
			}
			if len(renderer.buffer) != wantH {
				t.Errorf("expected buffer height %d, got %d", wantH, len(renderer.buffer))
			}
			for i, row := range renderer.buffer {
				if len(row) != wantW {
					t.Errorf("row %d: expected width %d, got %d", i, wantW, len(row))
				}
				if strings.Trim(string(row), " ") != "" {
					t.Errorf("row %d: expected blank, got %q", i, string(row))
				}
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	r := NewTerminalRenderer(40, 20, 1)
	r.SetCenter(mgl64.Vec3{10, 0, 10})

	tests := []struct {
		name  string
		world mgl64.Vec3
		x, y  int
	}{
		{"center", mgl64.Vec3{10, 5, 10}, 20, 10},
		{"one unit right is two columns", mgl64.Vec3{11, 0, 10}, 22, 10},
		{"plus z is down", mgl64.Vec3{10, 0, 13}, 20, 13},
		{"minus x is left", mgl64.Vec3{5, 0, 10}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := r.worldToScreen(tt.world)
			if x != tt.x || y != tt.y {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.x, tt.y, x, y)
			}
		})
	}
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		heading mgl64.Vec3
		want    rune
	}{
		{mgl64.Vec3{1, 0, 0}, '>'},
		{mgl64.Vec3{-1, 0, 0}, '<'},
		{mgl64.Vec3{0, 0, 1}, 'v'},
		{mgl64.Vec3{0, 0, -1}, '^'},
		{mgl64.Vec3{1, 0, 1}, '\\'},
		{mgl64.Vec3{-1, 0, 1}, '/'},
		{mgl64.Vec3{1, 0, -1}, '/'},
		{mgl64.Vec3{-1, 0, -1}, '\\'},
	}

	for _, tt := range tests {
		if got := HeadingGlyph(tt.heading); got != tt.want {
			t.Errorf("HeadingGlyph(%v) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

func TestTerminalRenderer_Render(t *testing.T) {
	r := NewTerminalRenderer(40, 20, 1)
	r.SetGround(physics.NewBox(mgl64.Vec3{0, -5, 0}, mgl64.Vec3{6, 0.02, 6}, physics.Material{}))

	snap := engine.Snapshot{
		Position: mgl64.Vec3{0, 1, 0},
		Heading:  mgl64.Vec3{-1, 0, 0},
		Focus:    mgl64.Vec3{0, 1, 0},
	}
	r.Render(snap)

	if got := r.Cell(20, 10); got != glyphBall {
		t.Errorf("Expected ball at view center, got %q", got)
	}
	if got := r.Cell(19, 10); got != '<' {
		t.Errorf("Expected heading glyph left of the ball, got %q", got)
	}
	if got := r.Cell(20, 8); got != glyphGround {
		t.Errorf("Expected ground near the ball, got %q", got)
	}
	if got := r.Cell(0, 0); got != ' ' {
		t.Errorf("Expected empty space off the ground, got %q", got)
	}
	if got := r.Cell(99, 99); got != 0 {
		t.Errorf("Expected zero rune outside the buffer, got %q", got)
	}

	lines := r.Lines()
	if !strings.HasPrefix(lines[len(lines)-1], "arrows/wasd") {
		t.Errorf("Expected status line at the bottom, got %q", lines[len(lines)-1])
	}
	if strings.HasPrefix(lines[0], "frame") {
		t.Error("Expected no debug overlay while debug is off")
	}
}

func TestTerminalRenderer_DebugOverlay(t *testing.T) {
	r := NewTerminalRenderer(40, 20, 1)
	r.Render(engine.Snapshot{Debug: true, Frame: 42, Respawns: 3})

	lines := r.Lines()
	if !strings.HasPrefix(lines[0], "frame 42") {
		t.Errorf("Expected frame line, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "respawns 3") {
		t.Errorf("Expected respawn line, got %q", lines[3])
	}
}

func TestNullRenderer_Render(t *testing.T) {
	r := NewNullRenderer(nil)
	r.Render(engine.Snapshot{Frame: 1})
	r.Render(engine.Snapshot{Frame: 2})

	if r.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", r.Frames())
	}

	var _ Renderer = r
	var _ Renderer = NewTerminalRenderer(1, 1, 1)
}
