// pkg/vehicle/vehicle_test.go
package vehicle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-roller/pkg/input"
	"github.com/opd-ai/go-roller/pkg/physics"
)

const epsilon = 1e-9

// recordingBody is a RigidBody that remembers the last applied force.
type recordingBody struct {
	pos, lin, ang mgl64.Vec3
	force, point  mgl64.Vec3
	forceCalls    int
}

func (b *recordingBody) Position() mgl64.Vec3            { return b.pos }
func (b *recordingBody) SetPosition(p mgl64.Vec3)        { b.pos = p }
func (b *recordingBody) LinearVelocity() mgl64.Vec3      { return b.lin }
func (b *recordingBody) SetLinearVelocity(v mgl64.Vec3)  { b.lin = v }
func (b *recordingBody) AngularVelocity() mgl64.Vec3     { return b.ang }
func (b *recordingBody) SetAngularVelocity(v mgl64.Vec3) { b.ang = v }
func (b *recordingBody) ApplyForce(force, point mgl64.Vec3) {
	b.force, b.point = force, point
	b.forceCalls++
}

func TestTurnLimit(t *testing.T) {
	p := DefaultSteeringParameters()
	tests := []struct {
		speed    float64
		expected float64
	}{
		{0, 0},
		{0.5, 0},
		{0.999, 0},
		{1, 1.0 / 6},
		{3, 0.5},
		{6, 1},
		{10, 1},
		{1000, 1},
	}

	for _, tt := range tests {
		if got := TurnLimit(tt.speed, p); math.Abs(got-tt.expected) > epsilon {
			t.Errorf("TurnLimit(%f) = %f, expected %f", tt.speed, got, tt.expected)
		}
	}
}

func TestTurnLimit_InvalidSaturation(t *testing.T) {
	p := DefaultSteeringParameters()
	p.MaxSpeedForTurnScaling = 0
	if got := TurnLimit(5, p); got != 0 {
		t.Errorf("expected zero authority without a saturation speed, got %f", got)
	}
}

func TestRotateSign(t *testing.T) {
	tests := []struct {
		name     string
		state    input.State
		expected float64
	}{
		{"neither", input.State{}, 0},
		{"left", input.State{TurnLeft: true}, -1},
		{"right", input.State{TurnRight: true}, 1},
		{"both_cancel", input.State{TurnLeft: true, TurnRight: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RotateSign(tt.state); got != tt.expected {
				t.Errorf("RotateSign() = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestTurnDelta_AtSpeedThree(t *testing.T) {
	state := input.State{TurnRight: true, Accelerate: true}
	got := TurnDelta(state, 3, DefaultSteeringParameters(), 1.0/60)
	if math.Abs(got-0.025) > epsilon {
		t.Errorf("TurnDelta() = %f, expected 0.025", got)
	}
}

func TestKinematicSteering_RotatesMomentum(t *testing.T) {
	body := &recordingBody{
		lin: mgl64.Vec3{3, 0, 0},
		ang: mgl64.Vec3{0, 0, 2},
	}
	proxy := NewProxy(mgl64.Vec3{})
	steer := KinematicSteering{Params: DefaultSteeringParameters()}

	delta := steer.Steer(body, proxy, input.State{TurnRight: true}, 1.0/60)

	if math.Abs(delta-0.025) > epsilon {
		t.Fatalf("delta = %f, expected 0.025", delta)
	}
	wantLin := physics.RotateAroundVertical(mgl64.Vec3{3, 0, 0}, 0.025)
	if !physics.ApproxEqual(body.lin, wantLin, epsilon) {
		t.Errorf("linear velocity = %v, expected %v", body.lin, wantLin)
	}
	wantAng := physics.RotateAroundVertical(mgl64.Vec3{0, 0, 2}, 0.025)
	if !physics.ApproxEqual(body.ang, wantAng, epsilon) {
		t.Errorf("angular velocity = %v, expected %v", body.ang, wantAng)
	}
	if math.Abs(body.lin.Len()-3) > epsilon {
		t.Errorf("speed changed to %f", body.lin.Len())
	}
	if math.Abs(proxy.Yaw()-0.025) > epsilon {
		t.Errorf("proxy yaw = %f, expected 0.025", proxy.Yaw())
	}
}

func TestKinematicSteering_BothTurnsCancel(t *testing.T) {
	body := &recordingBody{lin: mgl64.Vec3{5, 0, 1}, ang: mgl64.Vec3{1, 0, 0}}
	proxy := NewProxy(mgl64.Vec3{})
	steer := KinematicSteering{Params: DefaultSteeringParameters()}

	delta := steer.Steer(body, proxy, input.State{TurnLeft: true, TurnRight: true}, 0)

	if delta != 0 {
		t.Errorf("delta = %f, expected 0", delta)
	}
	if body.lin != (mgl64.Vec3{5, 0, 1}) || body.ang != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("velocities changed: lin=%v ang=%v", body.lin, body.ang)
	}
	if proxy.Yaw() != 0 {
		t.Errorf("yaw changed to %f", proxy.Yaw())
	}
}

func TestKinematicSteering_StationaryCannotTurn(t *testing.T) {
	body := &recordingBody{lin: mgl64.Vec3{0.5, 0, 0}}
	proxy := NewProxy(mgl64.Vec3{})
	steer := KinematicSteering{Params: DefaultSteeringParameters()}

	if delta := steer.Steer(body, proxy, input.State{TurnLeft: true}, 0); delta != 0 {
		t.Errorf("expected no turn inside the dead zone, got %f", delta)
	}
}

func TestPropulsionForce(t *testing.T) {
	p := DefaultSteeringParameters()
	tests := []struct {
		name     string
		state    input.State
		yaw      float64
		expected mgl64.Vec3
	}{
		{"accelerate_faces_negative_x", input.State{Accelerate: true}, 0, mgl64.Vec3{-40, 0, 0}},
		{"reverse_faces_positive_x", input.State{Reverse: true}, 0, mgl64.Vec3{40, 0, 0}},
		{"both_cancel", input.State{Accelerate: true, Reverse: true}, 0, mgl64.Vec3{}},
		{"neither", input.State{TurnLeft: true}, 0, mgl64.Vec3{}},
		{"accelerate_after_quarter_turn", input.State{Accelerate: true}, math.Pi / 2, mgl64.Vec3{0, 0, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := NewProxy(mgl64.Vec3{})
			proxy.SetYaw(tt.yaw)
			got := PropulsionForce(tt.state, proxy, p, 1.0/60)
			if !physics.ApproxEqual(got, tt.expected, 1e-9) {
				t.Errorf("PropulsionForce() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestDeltaTimeScaling(t *testing.T) {
	fixed := DefaultSteeringParameters()
	scaled := fixed
	scaled.ScaleByDeltaTime = true

	state := input.State{Accelerate: true, TurnRight: true}
	proxy := NewProxy(mgl64.Vec3{})

	t.Run("fixed_ignores_dt", func(t *testing.T) {
		a := PropulsionForce(state, proxy, fixed, 1.0/30)
		b := PropulsionForce(state, proxy, fixed, 1.0/120)
		if a != b {
			t.Errorf("fixed force depends on dt: %v vs %v", a, b)
		}
		if TurnDelta(state, 6, fixed, 1.0/30) != TurnDelta(state, 6, fixed, 1.0/120) {
			t.Error("fixed turn depends on dt")
		}
	})

	t.Run("scaled_matches_reference_rate", func(t *testing.T) {
		got := PropulsionForce(state, proxy, scaled, 1.0/60)
		if !physics.ApproxEqual(got, mgl64.Vec3{-40, 0, 0}, 1e-9) {
			t.Errorf("force at reference rate = %v", got)
		}
	})

	t.Run("scaled_doubles_at_half_rate", func(t *testing.T) {
		got := PropulsionForce(state, proxy, scaled, 1.0/30)
		if !physics.ApproxEqual(got, mgl64.Vec3{-80, 0, 0}, 1e-9) {
			t.Errorf("force at 30Hz = %v, expected -80 along x", got)
		}
		if d := TurnDelta(state, 6, scaled, 1.0/30); math.Abs(d-0.1) > epsilon {
			t.Errorf("turn at 30Hz = %f, expected 0.1", d)
		}
	})
}

func TestController_Tick(t *testing.T) {
	body := &recordingBody{pos: mgl64.Vec3{1, 2, 3}, lin: mgl64.Vec3{3, 0, 0}}
	proxy := NewProxy(mgl64.Vec3{})
	ctrl := NewController(DefaultSteeringParameters())

	res := ctrl.Tick(1.0/60, body, proxy, input.State{Accelerate: true, TurnRight: true})

	if !res.Applied {
		t.Fatal("expected tick to apply")
	}
	if math.Abs(res.TurnDelta-0.025) > epsilon || math.Abs(res.TurnLimit-0.5) > epsilon {
		t.Errorf("unexpected turn result %+v", res)
	}
	if body.forceCalls != 1 {
		t.Fatalf("expected one force application, got %d", body.forceCalls)
	}
	if body.point != body.pos {
		t.Errorf("force applied at %v, expected body position %v", body.point, body.pos)
	}
	// Forward is computed after the yaw update.
	want := physics.RotateAroundVertical(mgl64.Vec3{-40, 0, 0}, 0.025)
	if !physics.ApproxEqual(body.force, want, 1e-9) {
		t.Errorf("force = %v, expected %v", body.force, want)
	}
	if ctrl.Last() != res {
		t.Error("Last() does not match returned result")
	}
}

func TestController_BothPropulsionCancel(t *testing.T) {
	body := &recordingBody{}
	ctrl := NewController(DefaultSteeringParameters())

	ctrl.Tick(1.0/60, body, NewProxy(mgl64.Vec3{}), input.State{Accelerate: true, Reverse: true})

	if body.force != (mgl64.Vec3{}) {
		t.Errorf("force = %v, expected zero", body.force)
	}
}

func TestController_MissingCollaborators(t *testing.T) {
	ctrl := NewController(DefaultSteeringParameters())
	state := input.State{Accelerate: true}

	if res := ctrl.Tick(1.0/60, nil, NewProxy(mgl64.Vec3{}), state); res.Applied {
		t.Error("expected nil body to be a no-op")
	}
	body := &recordingBody{}
	if res := ctrl.Tick(1.0/60, body, nil, state); res.Applied {
		t.Error("expected nil proxy to be a no-op")
	}
	if body.forceCalls != 0 {
		t.Error("expected no force without a proxy")
	}

	var destroyed *physics.SphereBody
	if res := ctrl.Tick(1.0/60, destroyed, NewProxy(mgl64.Vec3{}), state); res.Applied {
		t.Error("expected destroyed body to be a no-op")
	}
	var noProxy *Proxy
	if res := ctrl.Tick(1.0/60, body, noProxy, state); res.Applied {
		t.Error("expected nil *Proxy to be a no-op")
	}
}

func TestSynchronize(t *testing.T) {
	body := &recordingBody{pos: mgl64.Vec3{4, -1, 2}}
	proxy := NewProxy(mgl64.Vec3{})
	proxy.SetYaw(0.3)

	if !Synchronize(body, proxy) {
		t.Fatal("expected sync to copy")
	}
	first := *proxy
	Synchronize(body, proxy)
	if *proxy != first {
		t.Errorf("second sync changed proxy: %+v -> %+v", first, *proxy)
	}
	if proxy.Position() != body.pos {
		t.Errorf("proxy position = %v, expected %v", proxy.Position(), body.pos)
	}
	if proxy.Yaw() != 0.3 {
		t.Errorf("sync must not touch yaw, got %f", proxy.Yaw())
	}
	if Synchronize(nil, proxy) || Synchronize(body, nil) {
		t.Error("expected missing collaborators to skip")
	}
	var destroyed *physics.SphereBody
	var noProxy *Proxy
	if Synchronize(destroyed, proxy) || Synchronize(body, noProxy) {
		t.Error("expected typed nil collaborators to skip")
	}
}

func TestBoundsMonitor(t *testing.T) {
	spawn := mgl64.Vec3{0, 5, 0}

	t.Run("fallen_body_respawns", func(t *testing.T) {
		m := NewBoundsMonitor(-5, spawn)
		body := &recordingBody{pos: mgl64.Vec3{3, -6, 2}, lin: mgl64.Vec3{1, -8, 0}}

		if m.Status(body) != Fallen {
			t.Fatal("expected Fallen")
		}
		if !m.Check(body) {
			t.Fatal("expected respawn")
		}
		if body.pos != spawn {
			t.Errorf("position = %v, expected %v", body.pos, spawn)
		}
		if body.lin != (mgl64.Vec3{1, -8, 0}) {
			t.Errorf("velocity should be kept, got %v", body.lin)
		}
		if m.Status(body) != InBounds {
			t.Error("expected InBounds right after respawn")
		}
		if m.Respawns() != 1 {
			t.Errorf("Respawns() = %d", m.Respawns())
		}
	})

	t.Run("reset_velocity_option", func(t *testing.T) {
		m := NewBoundsMonitor(-5, spawn)
		m.ResetVelocity = true
		body := &recordingBody{pos: mgl64.Vec3{0, -6, 0}, lin: mgl64.Vec3{1, -8, 0}, ang: mgl64.Vec3{2, 0, 0}}

		m.Check(body)
		if body.lin != (mgl64.Vec3{}) || body.ang != (mgl64.Vec3{}) {
			t.Errorf("expected velocities cleared, got lin=%v ang=%v", body.lin, body.ang)
		}
	})

	t.Run("above_threshold_untouched", func(t *testing.T) {
		m := NewBoundsMonitor(-5, spawn)
		body := &recordingBody{pos: mgl64.Vec3{0, -4.9, 0}}
		if m.Check(body) {
			t.Error("unexpected respawn")
		}
		if body.pos != (mgl64.Vec3{0, -4.9, 0}) {
			t.Errorf("position changed to %v", body.pos)
		}
	})

	t.Run("nil_body", func(t *testing.T) {
		m := NewBoundsMonitor(-5, spawn)
		if m.Check(nil) {
			t.Error("nil body must not respawn")
		}
		var destroyed *physics.SphereBody
		if m.Check(destroyed) || m.Status(destroyed) != InBounds {
			t.Error("destroyed body must not respawn")
		}
	})
}

func TestBoundsStatus_String(t *testing.T) {
	if InBounds.String() != "in_bounds" || Fallen.String() != "fallen" {
		t.Errorf("unexpected names %q %q", InBounds, Fallen)
	}
}

func TestFollowBinding(t *testing.T) {
	f := NewFollowBinding(0, math.Pi/3, 10)
	if _, ok := f.Focus(); ok || f.Bound() {
		t.Fatal("expected unbound binding")
	}

	proxy := NewProxy(mgl64.Vec3{1, 0, 1})
	f.Bind(proxy)

	focus, ok := f.Focus()
	if !ok || focus != (mgl64.Vec3{1, 0, 1}) {
		t.Errorf("Focus() = %v, %v", focus, ok)
	}

	proxy.SetPosition(mgl64.Vec3{-4, 2, 0})
	if focus, _ := f.Focus(); focus != (mgl64.Vec3{-4, 2, 0}) {
		t.Errorf("binding did not follow target, got %v", focus)
	}

	eye := f.Eye()
	want := mgl64.Vec3{-4 + 10*math.Sin(math.Pi/3), 2 + 10*math.Cos(math.Pi/3), 0}
	if !physics.ApproxEqual(eye, want, 1e-9) {
		t.Errorf("Eye() = %v, expected %v", eye, want)
	}
}

func TestHeading(t *testing.T) {
	proxy := NewProxy(mgl64.Vec3{})
	if !physics.ApproxEqual(Heading(proxy), mgl64.Vec3{-1, 0, 0}, epsilon) {
		t.Errorf("Heading() = %v", Heading(proxy))
	}
	proxy.SetYaw(math.Pi)
	if !physics.ApproxEqual(Heading(proxy), mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("Heading() after half turn = %v", Heading(proxy))
	}
}
