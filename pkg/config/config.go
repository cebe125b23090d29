// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-roller/pkg/logging"
	"github.com/opd-ai/go-roller/pkg/physics"
	"github.com/opd-ai/go-roller/pkg/vehicle"
)

// Renderer names accepted by DisplayConfig.Renderer.
const (
	RendererEngo     = "engo"
	RendererTerminal = "terminal"
	RendererHeadless = "headless"
)

// Config contains configuration for a simulation run
type Config struct {
	Physics   PhysicsConfig   `json:"physics" yaml:"physics"`
	Vehicle   VehicleConfig   `json:"vehicle" yaml:"vehicle"`
	Playfield PlayfieldConfig `json:"playfield" yaml:"playfield"`
	Camera    CameraConfig    `json:"camera" yaml:"camera"`
	Display   DisplayConfig   `json:"display" yaml:"display"`
}

// PhysicsConfig contains world-level physics settings
type PhysicsConfig struct {
	Gravity  mgl64.Vec3 `json:"gravity" yaml:"gravity"`
	TickRate int        `json:"tickRate" yaml:"tickRate"`
	// MaxDeltaTime caps a single step so a stalled frame does not tunnel
	// the body through the ground.
	MaxDeltaTime float64 `json:"maxDeltaTime" yaml:"maxDeltaTime"`
}

// VehicleConfig contains the sphere body and its handling
type VehicleConfig struct {
	Radius         float64                    `json:"radius" yaml:"radius"`
	Material       physics.Material           `json:"material" yaml:"material"`
	LinearDamping  float64                    `json:"linearDamping" yaml:"linearDamping"`
	AngularDamping float64                    `json:"angularDamping" yaml:"angularDamping"`
	Steering       vehicle.SteeringParameters `json:"steering" yaml:"steering"`
}

// PlayfieldConfig contains the ground box and fall recovery settings
type PlayfieldConfig struct {
	GroundCenter   mgl64.Vec3       `json:"groundCenter" yaml:"groundCenter"`
	GroundSize     mgl64.Vec3       `json:"groundSize" yaml:"groundSize"`
	GroundMaterial physics.Material `json:"groundMaterial" yaml:"groundMaterial"`
	FallThreshold  float64          `json:"fallThreshold" yaml:"fallThreshold"`
	Spawn          mgl64.Vec3       `json:"spawn" yaml:"spawn"`
	// ResetVelocityOnRespawn also zeroes velocity when the body is
	// returned to Spawn. Off keeps pre-fall momentum.
	ResetVelocityOnRespawn bool `json:"resetVelocityOnRespawn" yaml:"resetVelocityOnRespawn"`
}

// CameraConfig contains the follow camera orbit
type CameraConfig struct {
	Alpha  float64 `json:"alpha" yaml:"alpha"`
	Beta   float64 `json:"beta" yaml:"beta"`
	Radius float64 `json:"radius" yaml:"radius"`
	// PixelsPerUnit is the zoom used by the top-down hosts.
	PixelsPerUnit float64 `json:"pixelsPerUnit" yaml:"pixelsPerUnit"`
	// Smoothing makes the windowed camera ease toward the vehicle at
	// FollowSpeed instead of snapping to it.
	Smoothing   bool    `json:"smoothing" yaml:"smoothing"`
	FollowSpeed float64 `json:"followSpeed" yaml:"followSpeed"`
	MinZoom     float64 `json:"minZoom" yaml:"minZoom"`
	MaxZoom     float64 `json:"maxZoom" yaml:"maxZoom"`
}

// DisplayConfig contains host settings
type DisplayConfig struct {
	Renderer   string `json:"renderer" yaml:"renderer"`
	Title      string `json:"title" yaml:"title"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	Fullscreen bool   `json:"fullscreen" yaml:"fullscreen"`
	Audio      bool   `json:"audio" yaml:"audio"`
	// KeyHoldMillis is how long the terminal host treats a key as held
	// after its last repeat, since terminals report no key release.
	KeyHoldMillis int `json:"keyHoldMillis" yaml:"keyHoldMillis"`
}

// LoadConfig loads a configuration from a JSON or YAML file. Fields missing
// from the file keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, logging.WrapError(err, "failed to open config file %s", path)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, logging.WrapError(err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, logging.WrapError(err, "failed to parse config file %s", path)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file, as YAML when the extension
// asks for it and JSON otherwise.
func SaveConfig(config *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return logging.WrapError(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return logging.WrapError(err, "failed to write config file %s", path)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Gravity:      mgl64.Vec3{0, -9.81, 0},
			TickRate:     60,
			MaxDeltaTime: 0.1,
		},
		Vehicle: VehicleConfig{
			Radius: 0.5,
			Material: physics.Material{
				Mass:        1,
				Restitution: 0.9,
				Friction:    0.5,
			},
			LinearDamping:  0.45,
			AngularDamping: 0.7,
			Steering:       vehicle.DefaultSteeringParameters(),
		},
		Playfield: PlayfieldConfig{
			GroundCenter: mgl64.Vec3{0, -5, 0},
			GroundSize:   mgl64.Vec3{50, 0.02, 50},
			GroundMaterial: physics.Material{
				Mass:        0,
				Restitution: 0,
				Friction:    0.2,
			},
			FallThreshold: -5,
			Spawn:         mgl64.Vec3{0, 5, 0},
		},
		Camera: CameraConfig{
			Alpha:         0,
			Beta:          math.Pi / 3,
			Radius:        10,
			PixelsPerUnit: 12,
			FollowSpeed:   2,
			MinZoom:       0.1,
			MaxZoom:       3,
		},
		Display: DisplayConfig{
			Renderer:      RendererEngo,
			Title:         "Go Roller",
			Width:         1024,
			Height:        768,
			Audio:         true,
			KeyHoldMillis: 500,
		},
	}
}

// TickDuration returns the fixed frame interval in seconds.
func (c *Config) TickDuration() float64 {
	if c.Physics.TickRate <= 0 {
		return 0
	}
	return 1 / float64(c.Physics.TickRate)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Physics.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("physics.tickRate must be positive, got %d", c.Physics.TickRate))
	}
	if c.Physics.MaxDeltaTime < 0 {
		errs = append(errs, fmt.Errorf("physics.maxDeltaTime must not be negative, got %f", c.Physics.MaxDeltaTime))
	}
	if c.Vehicle.Radius <= 0 {
		errs = append(errs, fmt.Errorf("vehicle.radius must be positive, got %f", c.Vehicle.Radius))
	}
	if c.Vehicle.Material.Mass <= 0 {
		errs = append(errs, fmt.Errorf("vehicle.material.mass must be positive, got %f", c.Vehicle.Material.Mass))
	}
	for name, d := range map[string]float64{
		"vehicle.linearDamping":  c.Vehicle.LinearDamping,
		"vehicle.angularDamping": c.Vehicle.AngularDamping,
	} {
		if d < 0 || d >= 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0,1), got %f", name, d))
		}
	}
	s := c.Vehicle.Steering
	if s.MaxSpeedForTurnScaling <= 0 {
		errs = append(errs, fmt.Errorf("vehicle.steering.maxSpeedForTurnScaling must be positive, got %f", s.MaxSpeedForTurnScaling))
	}
	if s.DeadZoneSpeed < 0 || s.DeadZoneSpeed > s.MaxSpeedForTurnScaling {
		errs = append(errs, fmt.Errorf("vehicle.steering.deadZoneSpeed must be in [0,%f], got %f", s.MaxSpeedForTurnScaling, s.DeadZoneSpeed))
	}
	if s.ScaleByDeltaTime && s.ReferenceTickRate <= 0 {
		errs = append(errs, errors.New("vehicle.steering.referenceTickRate must be positive when scaleByDeltaTime is set"))
	}
	if c.Playfield.Spawn.Y() <= c.Playfield.FallThreshold {
		errs = append(errs, fmt.Errorf("playfield.spawn must be above fallThreshold %f", c.Playfield.FallThreshold))
	}
	for i, v := range c.Playfield.GroundSize {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("playfield.groundSize[%d] must be positive, got %f", i, v))
		}
	}
	if c.Camera.Smoothing && c.Camera.FollowSpeed <= 0 {
		errs = append(errs, fmt.Errorf("camera.followSpeed must be positive when smoothing is set, got %f", c.Camera.FollowSpeed))
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		errs = append(errs, fmt.Errorf("camera.minZoom/maxZoom must satisfy 0 < min <= max, got %f/%f", c.Camera.MinZoom, c.Camera.MaxZoom))
	}
	switch c.Display.Renderer {
	case RendererEngo, RendererTerminal, RendererHeadless:
	default:
		errs = append(errs, fmt.Errorf("display.renderer %q is not one of engo, terminal, headless", c.Display.Renderer))
	}

	return errors.Join(errs...)
}
