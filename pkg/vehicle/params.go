// pkg/vehicle/params.go

// Package vehicle implements the per-tick control loop of a sphere-based
// car: turn-limited steering, propulsion, visual proxy sync and respawn.
package vehicle

// SteeringParameters are the tuning constants of the control loop.
type SteeringParameters struct {
	// MaxPropulsionForce is the force applied while accelerate or reverse
	// is held.
	MaxPropulsionForce float64 `json:"maxPropulsionForce" yaml:"maxPropulsionForce"`
	// MaxSpeedForTurnScaling is the speed at which turning authority
	// saturates.
	MaxSpeedForTurnScaling float64 `json:"maxSpeedForTurnScaling" yaml:"maxSpeedForTurnScaling"`
	// TurnRateCoefficient is the yaw change in radians per tick at full
	// authority.
	TurnRateCoefficient float64 `json:"turnRateCoefficient" yaml:"turnRateCoefficient"`
	// DeadZoneSpeed is the speed below which the vehicle cannot turn.
	DeadZoneSpeed float64 `json:"deadZoneSpeed" yaml:"deadZoneSpeed"`
	// ScaleByDeltaTime multiplies per-tick turn and force by
	// dt*ReferenceTickRate. Off means fixed per-tick magnitudes, so
	// handling depends on the frame rate.
	ScaleByDeltaTime  bool    `json:"scaleByDeltaTime" yaml:"scaleByDeltaTime"`
	ReferenceTickRate float64 `json:"referenceTickRate" yaml:"referenceTickRate"`
}

// DefaultSteeringParameters returns the stock handling.
func DefaultSteeringParameters() SteeringParameters {
	return SteeringParameters{
		MaxPropulsionForce:     40,
		MaxSpeedForTurnScaling: 6,
		TurnRateCoefficient:    0.05,
		DeadZoneSpeed:          1,
		ScaleByDeltaTime:       false,
		ReferenceTickRate:      60,
	}
}

// tickScale is the multiplier applied to per-tick magnitudes.
func (p SteeringParameters) tickScale(dt float64) float64 {
	if !p.ScaleByDeltaTime || dt <= 0 || p.ReferenceTickRate <= 0 {
		return 1
	}
	return dt * p.ReferenceTickRate
}
