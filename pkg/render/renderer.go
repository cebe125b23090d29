// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-roller/pkg/engine"
	"github.com/opd-ai/go-roller/pkg/logging"
)

// Renderer draws one simulation snapshot.
type Renderer interface {
	Render(snap engine.Snapshot)
}

// NullRenderer is the headless Renderer. It logs each frame at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging. A nil
// logger writes to stdout.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Render implements Renderer.
func (d *NullRenderer) Render(snap engine.Snapshot) {
	d.frames++
	d.logger.Debug(context.Background(), "Frame rendered",
		"frame", snap.Frame,
		"x", snap.Position.X(),
		"y", snap.Position.Y(),
		"z", snap.Position.Z(),
		"speed", snap.Speed,
		"respawns", snap.Respawns,
	)
}

// Frames returns how many snapshots were rendered.
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}
