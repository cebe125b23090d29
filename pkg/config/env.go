// pkg/config/env.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnvironmentOverrides.
const (
	EnvTickRate        = "ROLLER_TICK_RATE"
	EnvRenderer        = "ROLLER_RENDERER"
	EnvScaleByDelta    = "ROLLER_SCALE_BY_DT"
	EnvResetVelocity   = "ROLLER_RESET_VELOCITY"
	EnvPropulsionForce = "ROLLER_PROPULSION_FORCE"
	EnvAudio           = "ROLLER_AUDIO"
	EnvKeyHold         = "ROLLER_KEY_HOLD"
)

// ApplyEnvironmentOverrides overlays environment variables on config and
// validates the result. Unparseable values keep the current setting.
func ApplyEnvironmentOverrides(config *Config) error {
	config.Physics.TickRate = getEnvAsIntOrDefault(EnvTickRate, config.Physics.TickRate)
	config.Display.Renderer = getEnvOrDefault(EnvRenderer, config.Display.Renderer)
	config.Display.Audio = getEnvAsBoolOrDefault(EnvAudio, config.Display.Audio)

	steering := &config.Vehicle.Steering
	steering.ScaleByDeltaTime = getEnvAsBoolOrDefault(EnvScaleByDelta, steering.ScaleByDeltaTime)
	steering.MaxPropulsionForce = getEnvAsFloatOrDefault(EnvPropulsionForce, steering.MaxPropulsionForce)

	config.Playfield.ResetVelocityOnRespawn = getEnvAsBoolOrDefault(EnvResetVelocity, config.Playfield.ResetVelocityOnRespawn)

	hold := time.Duration(config.Display.KeyHoldMillis) * time.Millisecond
	config.Display.KeyHoldMillis = int(getEnvAsDurationOrDefault(EnvKeyHold, hold) / time.Millisecond)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
