// pkg/engine/driver.go
package engine

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/event"
	"github.com/opd-ai/go-roller/pkg/input"
	"github.com/opd-ai/go-roller/pkg/logging"
	"github.com/opd-ai/go-roller/pkg/physics"
	"github.com/opd-ai/go-roller/pkg/vehicle"
)

// Tick runs one control step: steering and propulsion, proxy sync, then the
// bounds check. It reports the controller result and whether the body was
// respawned. Nil collaborators skip their stage.
func Tick(
	dt float64,
	body physics.RigidBody,
	proxy vehicle.VisualProxy,
	state input.State,
	ctrl *vehicle.Controller,
	monitor *vehicle.BoundsMonitor,
) (vehicle.TickResult, bool) {
	var res vehicle.TickResult
	if ctrl != nil {
		res = ctrl.Tick(dt, body, proxy, state)
	}
	vehicle.Synchronize(body, proxy)

	respawned := false
	if monitor != nil && !physics.IsNil(body) {
		respawned = monitor.Check(body)
	}
	return res, respawned
}

// FrameResult describes one completed driver tick.
type FrameResult struct {
	Frame     uint64
	Control   vehicle.TickResult
	Respawned bool
}

// Driver owns the per-frame hook for a single vehicle.
type Driver struct {
	Body       physics.RigidBody
	Proxy      vehicle.VisualProxy
	Controller *vehicle.Controller
	Monitor    *vehicle.BoundsMonitor
	EventBus   *event.Bus
	Logger     *logging.Logger

	frame    uint64
	failures uint64
}

// NewDriver creates a driver. A nil bus or logger is replaced by a private
// one so the driver is usable on its own.
func NewDriver(body physics.RigidBody, proxy vehicle.VisualProxy, ctrl *vehicle.Controller,
	monitor *vehicle.BoundsMonitor, bus *event.Bus, logger *logging.Logger,
) *Driver {
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Driver{
		Body:       body,
		Proxy:      proxy,
		Controller: ctrl,
		Monitor:    monitor,
		EventBus:   bus,
		Logger:     logger,
	}
}

// Tick runs the control step for one frame. A panic inside the step is
// recovered, logged and published as TickFailed; the next frame runs
// normally.
func (d *Driver) Tick(ctx context.Context, dt float64, state input.State) (res FrameResult, err error) {
	d.frame++
	res.Frame = d.frame
	ctx = logging.WithFrame(ctx, res.Frame)

	defer func() {
		if r := recover(); r != nil {
			d.failures++
			err = fmt.Errorf("tick %d panicked: %v", res.Frame, r)
			d.Logger.Error(ctx, "Vehicle tick failed", err)
			d.EventBus.Publish(event.NewTickFailedEvent(d, res.Frame, fmt.Sprint(r)))
		}
	}()

	var fall mgl64.Vec3
	if !physics.IsNil(d.Body) {
		fall = d.Body.Position()
	}

	res.Control, res.Respawned = Tick(dt, d.Body, d.Proxy, state, d.Controller, d.Monitor)

	if res.Respawned {
		respawns := d.Monitor.Respawns()
		d.Logger.Info(ctx, "Vehicle respawned",
			"fall_y", fall.Y(),
			"respawns", respawns,
		)
		d.EventBus.Publish(event.NewRespawnEvent(d, fall, d.Monitor.Spawn, respawns))
	}

	d.Logger.Debug(ctx, "Vehicle tick",
		"speed", res.Control.Speed,
		"turn_limit", res.Control.TurnLimit,
		"turn_delta", res.Control.TurnDelta,
	)
	return res, nil
}

// Frames returns how many ticks have been attempted.
func (d *Driver) Frames() uint64 {
	return d.frame
}

// Failures returns how many ticks panicked.
func (d *Driver) Failures() uint64 {
	return d.failures
}
