// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/config"
	"github.com/opd-ai/go-roller/pkg/event"
	"github.com/opd-ai/go-roller/pkg/input"
	"github.com/opd-ai/go-roller/pkg/logging"
	"github.com/opd-ai/go-roller/pkg/physics"
	"github.com/opd-ai/go-roller/pkg/vehicle"
)

// Status is the lifecycle state of a Simulation.
type Status int

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusStopped
)

// ErrStopped is returned by Run when the simulation was already stopped.
var ErrStopped = errors.New("simulation stopped")

// Snapshot is a read-only view of the simulation for hosts to draw.
type Snapshot struct {
	Frame     uint64
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Yaw       float64
	Heading   mgl64.Vec3
	Speed     float64
	TurnLimit float64
	Respawns  int
	Focus     mgl64.Vec3
	Eye       mgl64.Vec3
	Input     input.State
	Debug     bool
}

// Simulation wires the physics world, one vehicle, its driver and the
// input tracker together. Frame is safe to call from one goroutine while
// others read Snapshot or feed the tracker.
type Simulation struct {
	Config   *config.Config
	World    *physics.World
	Body     *physics.SphereBody
	Ground   physics.Box
	Proxy    *vehicle.Proxy
	Input    *input.Tracker
	Camera   *vehicle.FollowBinding
	Driver   *Driver
	EventBus *event.Bus
	Logger   *logging.Logger
	// RunID tags every log line of this simulation.
	RunID string

	mu      sync.Mutex
	status  Status
	debug   bool
	onFrame func(Snapshot)
}

// NewSimulation builds the scene described by cfg. A nil cfg uses the
// defaults and a nil logger discards output.
func NewSimulation(cfg *config.Config, logger *logging.Logger) *Simulation {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Simulation{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		Logger:   logger,
		RunID:    logging.NewRunID(),
	}
	s.initWorld()
	s.initVehicle()
	s.initInput()
	return s
}

// initWorld creates gravity and the static ground slab.
func (s *Simulation) initWorld() {
	pf := s.Config.Playfield
	s.World = physics.NewWorld(s.Config.Physics.Gravity)
	s.Ground = physics.NewBox(pf.GroundCenter, pf.GroundSize, pf.GroundMaterial)
	s.World.AddStatic(s.Ground)
}

// initVehicle creates the sphere body, its proxy, the controller stack and
// the follow camera.
func (s *Simulation) initVehicle() {
	vc := s.Config.Vehicle
	pf := s.Config.Playfield

	s.Body = physics.NewSphereBody(pf.Spawn, vc.Radius, vc.Material)
	s.Body.LinearDamping = vc.LinearDamping
	s.Body.AngularDamping = vc.AngularDamping
	s.World.AddBody(s.Body)

	s.Proxy = vehicle.NewProxy(pf.Spawn)

	monitor := vehicle.NewBoundsMonitor(pf.FallThreshold, pf.Spawn)
	monitor.ResetVelocity = pf.ResetVelocityOnRespawn

	s.Driver = NewDriver(s.Body, s.Proxy, vehicle.NewController(vc.Steering), monitor, s.EventBus, s.Logger)

	cam := s.Config.Camera
	s.Camera = vehicle.NewFollowBinding(cam.Alpha, cam.Beta, cam.Radius)
	s.Camera.Bind(s.Proxy)
}

// initInput creates the tracker and forwards flag transitions to the bus.
func (s *Simulation) initInput() {
	s.Input = input.NewTracker(nil)
	s.Input.OnChange(func(a input.Action, down bool, _ input.State) {
		s.EventBus.Publish(event.NewInputEvent(s, a.String(), down))
	})
}

// Start marks the simulation running and publishes SimulationStarted.
func (s *Simulation) Start(ctx context.Context) {
	s.mu.Lock()
	s.status = StatusRunning
	s.mu.Unlock()

	ctx = s.logContext(ctx)
	s.Logger.Info(ctx, "Simulation started",
		"tick_rate", s.Config.Physics.TickRate,
		"scale_by_dt", s.Config.Vehicle.Steering.ScaleByDeltaTime,
	)
	s.EventBus.Publish(&event.BaseEvent{EventType: event.SimulationStarted, Source: s})
}

// Stop marks the simulation stopped and publishes SimulationStopped once.
func (s *Simulation) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.status == StatusStopped {
		s.mu.Unlock()
		return
	}
	s.status = StatusStopped
	frames := s.Driver.Frames()
	s.mu.Unlock()

	ctx = s.logContext(ctx)
	s.Logger.Info(ctx, "Simulation stopped", "frames", frames, "respawns", s.Driver.Monitor.Respawns())
	s.EventBus.Publish(&event.BaseEvent{EventType: event.SimulationStopped, Source: s})
}

// logContext tags ctx with the run ID unless the caller already set one.
func (s *Simulation) logContext(ctx context.Context) context.Context {
	if logging.RunID(ctx) != "" {
		return ctx
	}
	return logging.WithRunID(ctx, s.RunID)
}

// OnFrame registers a callback that Run calls with a snapshot after every
// frame. Headless renderers hook in here.
func (s *Simulation) OnFrame(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// Status returns the lifecycle state.
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Frame runs the driver for the current input snapshot and then steps the
// physics world. dt is capped at the configured maximum; non-positive
// values skip the frame.
func (s *Simulation) Frame(ctx context.Context, dt float64) (FrameResult, error) {
	if dt <= 0 {
		return FrameResult{}, nil
	}
	if maxDt := s.Config.Physics.MaxDeltaTime; maxDt > 0 && dt > maxDt {
		dt = maxDt
	}

	state := s.Input.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Driver.Tick(s.logContext(ctx), dt, state)
	s.World.Step(dt)
	return res, err
}

// Run drives frames at the configured tick rate until ctx is cancelled or
// maxFrames frames have run. Zero maxFrames means no limit. Tick failures
// are logged by the driver and do not end the loop.
func (s *Simulation) Run(ctx context.Context, maxFrames uint64) error {
	if s.Status() == StatusStopped {
		return ErrStopped
	}
	dt := s.Config.TickDuration()
	if dt <= 0 {
		return errors.New("tick rate must be positive")
	}

	s.Start(ctx)
	defer s.Stop(context.WithoutCancel(ctx))

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	var frames uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, _ := s.Frame(ctx, dt)
			if fn := s.frameHook(); fn != nil {
				fn(s.Snapshot())
			}
			frames++
			if maxFrames > 0 && frames >= maxFrames {
				s.Logger.Debug(ctx, "Frame limit reached", "frame", res.Frame)
				return nil
			}
		}
	}
}

func (s *Simulation) frameHook() func(Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onFrame
}

// ToggleDebug flips the debug overlay flag and publishes DebugToggled.
func (s *Simulation) ToggleDebug() bool {
	s.mu.Lock()
	s.debug = !s.debug
	on := s.debug
	s.mu.Unlock()

	s.EventBus.Publish(&event.BaseEvent{EventType: event.DebugToggled, Source: s})
	return on
}

// Snapshot returns the current state for drawing.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.Driver.Controller.Last()
	focus, _ := s.Camera.Focus()
	return Snapshot{
		Frame:     s.Driver.Frames(),
		Position:  s.Body.Position(),
		Velocity:  s.Body.LinearVelocity(),
		Yaw:       s.Proxy.Yaw(),
		Heading:   vehicle.Heading(s.Proxy),
		Speed:     s.Body.Speed(),
		TurnLimit: last.TurnLimit,
		Respawns:  s.Driver.Monitor.Respawns(),
		Focus:     focus,
		Eye:       s.Camera.Eye(),
		Input:     s.Input.Snapshot(),
		Debug:     s.debug,
	}
}
