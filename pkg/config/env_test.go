package config

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvironmentOverrides(t *testing.T) {
	envVars := []string{
		EnvTickRate, EnvRenderer, EnvScaleByDelta, EnvResetVelocity,
		EnvPropulsionForce, EnvAudio, EnvKeyHold,
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}

	t.Setenv(EnvTickRate, "120")
	t.Setenv(EnvRenderer, RendererHeadless)
	t.Setenv(EnvScaleByDelta, "true")
	t.Setenv(EnvResetVelocity, "1")
	t.Setenv(EnvPropulsionForce, "25.5")
	t.Setenv(EnvAudio, "false")
	t.Setenv(EnvKeyHold, "300ms")

	config := DefaultConfig()
	if err := ApplyEnvironmentOverrides(config); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}

	if config.Physics.TickRate != 120 {
		t.Errorf("Expected TickRate 120, got %d", config.Physics.TickRate)
	}
	if config.Display.Renderer != RendererHeadless {
		t.Errorf("Expected headless, got %q", config.Display.Renderer)
	}
	if !config.Vehicle.Steering.ScaleByDeltaTime {
		t.Error("Expected ScaleByDeltaTime")
	}
	if !config.Playfield.ResetVelocityOnRespawn {
		t.Error("Expected ResetVelocityOnRespawn")
	}
	if config.Vehicle.Steering.MaxPropulsionForce != 25.5 {
		t.Errorf("Expected force 25.5, got %f", config.Vehicle.Steering.MaxPropulsionForce)
	}
	if config.Display.Audio {
		t.Error("Expected audio disabled")
	}
	if config.Display.KeyHoldMillis != 300 {
		t.Errorf("Expected key hold 300ms, got %d", config.Display.KeyHoldMillis)
	}
}

func TestApplyEnvironmentOverrides_InvalidResult(t *testing.T) {
	t.Setenv(EnvRenderer, "opengl")

	if err := ApplyEnvironmentOverrides(DefaultConfig()); err == nil {
		t.Error("Expected validation error for unknown renderer")
	}
}

func TestGetEnvHelperFunctions(t *testing.T) {
	t.Setenv("TEST_STRING", "test_value")
	if result := getEnvOrDefault("TEST_STRING", "default"); result != "test_value" {
		t.Errorf("getEnvOrDefault: expected 'test_value', got '%s'", result)
	}
	os.Unsetenv("ROLLER_NONEXISTENT")
	if result := getEnvOrDefault("ROLLER_NONEXISTENT", "default"); result != "default" {
		t.Errorf("getEnvOrDefault: expected 'default', got '%s'", result)
	}

	t.Setenv("TEST_INT", "42")
	if result := getEnvAsIntOrDefault("TEST_INT", 10); result != 42 {
		t.Errorf("getEnvAsIntOrDefault: expected 42, got %d", result)
	}
	t.Setenv("TEST_INT", "invalid")
	if result := getEnvAsIntOrDefault("TEST_INT", 10); result != 10 {
		t.Errorf("getEnvAsIntOrDefault with invalid value: expected 10, got %d", result)
	}

	t.Setenv("TEST_BOOL", "true")
	if result := getEnvAsBoolOrDefault("TEST_BOOL", false); result != true {
		t.Errorf("getEnvAsBoolOrDefault: expected true, got %v", result)
	}
	t.Setenv("TEST_BOOL", "invalid")
	if result := getEnvAsBoolOrDefault("TEST_BOOL", false); result != false {
		t.Errorf("getEnvAsBoolOrDefault with invalid value: expected false, got %v", result)
	}

	t.Setenv("TEST_FLOAT", "3.14")
	if result := getEnvAsFloatOrDefault("TEST_FLOAT", 1.0); result != 3.14 {
		t.Errorf("getEnvAsFloatOrDefault: expected 3.14, got %f", result)
	}
	t.Setenv("TEST_FLOAT", "invalid")
	if result := getEnvAsFloatOrDefault("TEST_FLOAT", 1.0); result != 1.0 {
		t.Errorf("getEnvAsFloatOrDefault with invalid value: expected 1.0, got %f", result)
	}

	t.Setenv("TEST_DURATION", "5s")
	if result := getEnvAsDurationOrDefault("TEST_DURATION", time.Second); result != 5*time.Second {
		t.Errorf("getEnvAsDurationOrDefault: expected 5s, got %v", result)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if result := getEnvAsDurationOrDefault("TEST_DURATION", time.Second); result != time.Second {
		t.Errorf("getEnvAsDurationOrDefault with invalid value: expected 1s, got %v", result)
	}
}
