// Package config provides centralized configuration for the simulation
// core and its ambient telemetry surface.
//
// The simulation package reads BallRadius, Gravity, MaxSpeed, StepLenNanos
// and ChambersPerRow from SimulationConfig. It keeps its own constants for
// the chamber height (wrap and view assembly) and the collision damping
// coefficient: ChamberHeight here only sets the initial ball layout, and
// DampingCoefficient is not read by the engine.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimulationConfig holds the fixed constants the engine and chamber
// programs both depend on (spec.md §6).
type SimulationConfig struct {
	BallRadius         float64 // BALL_RADIUS
	ChamberHeight      float64 // local y-axis extent of a chamber
	Gravity            float64 // G, applied to velocity.y per tick
	MaxSpeed           float64 // MAX_SPEED, enforced after every integration
	StepLenNanos       int64   // STEP_LEN_NS, fixed tick duration
	DampingCoefficient float64 // restitution loss on every collision
	ChambersPerRow     int     // CHAMBERS_PER_ROW
}

// DefaultSimulation returns the reference constants from spec.md §6.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		BallRadius:         0.025,
		ChamberHeight:      0.7,
		Gravity:            -9.832,
		MaxSpeed:           2.5,
		StepLenNanos:       1_666_666,
		DampingCoefficient: 0.15,
		ChambersPerRow:     2,
	}
}

// SimulationFromEnv returns simulation configuration with environment
// variable overrides.
func SimulationFromEnv() SimulationConfig {
	cfg := DefaultSimulation()

	if r := getEnvFloat("BALL_RADIUS", -1); r >= 0 {
		cfg.BallRadius = r
	}
	if h := getEnvFloat("CHAMBER_HEIGHT", -1); h >= 0 {
		cfg.ChamberHeight = h
	}
	if g := getEnvFloat("GRAVITY", 0); g != 0 {
		cfg.Gravity = g
	}
	if ms := getEnvFloat("MAX_SPEED", -1); ms >= 0 {
		cfg.MaxSpeed = ms
	}
	if step := getEnvInt64("STEP_LEN_NS", 0); step > 0 {
		cfg.StepLenNanos = step
	}
	if d := getEnvFloat("DAMPING_COEFFICIENT", -1); d >= 0 {
		cfg.DampingCoefficient = d
	}
	if row := getEnvInt("CHAMBERS_PER_ROW", 0); row > 0 {
		cfg.ChambersPerRow = row
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls the hard caps a deployment enforces to bound
// memory and rejects growth past them rather than allocating unbounded.
type ResourceLimits struct {
	MaxChambers int
	MaxBalls    int
}

// DefaultLimits returns production-safe default limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxChambers: 64,
		MaxBalls:    256,
	}
}

// LimitsFromEnv returns resource limits with environment variable
// overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if mc := getEnvInt("MAX_CHAMBERS", 0); mc > 0 {
		cfg.MaxChambers = mc
	}
	if mb := getEnvInt("MAX_BALLS", 0); mb > 0 {
		cfg.MaxBalls = mb
	}

	return cfg
}

// =============================================================================
// TELEMETRY CONFIGURATION
// =============================================================================

// TelemetryConfig holds the debug/observability HTTP surface settings.
type TelemetryConfig struct {
	Port         int
	EventLogPath string
}

// DefaultTelemetry returns default telemetry configuration.
func DefaultTelemetry() TelemetryConfig {
	return TelemetryConfig{
		Port:         9090,
		EventLogPath: "",
	}
}

// TelemetryFromEnv returns telemetry configuration with environment
// variable overrides.
func TelemetryFromEnv() TelemetryConfig {
	cfg := DefaultTelemetry()

	if p := getEnvInt("TELEMETRY_PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation SimulationConfig
	Limits     ResourceLimits
	Telemetry  TelemetryConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Simulation: SimulationFromEnv(),
		Limits:     LimitsFromEnv(),
		Telemetry:  TelemetryFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
