// Package config provides YAML-based configuration loading for the engine
// runtime and for individual game scenarios.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// Duration wraps time.Duration so YAML files can say "16.666ms" or "1s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string such as "16666us" or "1s".
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration in its canonical string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// EngineConfig contains the runtime parameters of the simulation core.
type EngineConfig struct {
	Display    DisplayConfig    `yaml:"display"`
	Simulation SimulationConfig `yaml:"simulation"`
	Input      InputConfig      `yaml:"input"`
}

// DisplayConfig defines the logical canvas and presentation flags.
type DisplayConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	VSync        bool `yaml:"vsync"`
	DebugOverlay bool `yaml:"debug_overlay"`
}

// SimulationConfig defines the fixed-timestep parameters.
type SimulationConfig struct {
	FixedDT          Duration `yaml:"fixed_dt"`
	MaxStepsPerTick  int      `yaml:"max_steps_per_tick"`
	SolverIterations int      `yaml:"solver_iterations"`
	Seed             int64    `yaml:"seed"`
}

// InputConfig defines the event queue parameters.
type InputConfig struct {
	QueueCapacity int `yaml:"queue_capacity"`
}

// Validate rejects configurations that cannot drive a stable simulation.
func (c EngineConfig) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size %dx%d must be positive", c.Display.Width, c.Display.Height)
	}
	if c.Simulation.FixedDT.Duration <= 0 {
		return fmt.Errorf("fixed_dt %v must be positive", c.Simulation.FixedDT.Duration)
	}
	if c.Simulation.MaxStepsPerTick <= 0 {
		return fmt.Errorf("max_steps_per_tick %d must be positive", c.Simulation.MaxStepsPerTick)
	}
	if c.Simulation.SolverIterations <= 0 {
		return fmt.Errorf("solver_iterations %d must be positive", c.Simulation.SolverIterations)
	}
	if c.Input.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity %d must be positive", c.Input.QueueCapacity)
	}
	return nil
}

// ToRuntime converts the file representation into the runtime configuration
// consumed by the engine.
func (c EngineConfig) ToRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		Width:            c.Display.Width,
		Height:           c.Display.Height,
		FixedDT:          c.Simulation.FixedDT.Duration,
		MaxStepsPerTick:  c.Simulation.MaxStepsPerTick,
		SolverIterations: c.Simulation.SolverIterations,
		InputQueueCap:    c.Input.QueueCapacity,
		DebugOverlay:     c.Display.DebugOverlay,
		VSync:            c.Display.VSync,
		Seed:             c.Simulation.Seed,
	}
}

// PongConfig contains all configuration for the Pong scenario.
type PongConfig struct {
	Physics  PongPhysics  `yaml:"physics"`
	Paddles  PongPaddles  `yaml:"paddles"`
	Gameplay PongGameplay `yaml:"gameplay"`
}

// PongPhysics defines ball and paddle motion parameters.
type PongPhysics struct {
	BallRadius   float64 `yaml:"ball_radius"`
	BallSpeed    float64 `yaml:"ball_speed"`
	MaxBallSpeed float64 `yaml:"max_ball_speed"`
	PaddleSpeed  float64 `yaml:"paddle_speed"`
}

// PongPaddles defines paddle geometry.
type PongPaddles struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Offset float64 `yaml:"offset"` // Distance from the court edge
}

// PongGameplay defines scoring rules.
type PongGameplay struct {
	WinScore   int `yaml:"win_score"`
	ServeDelay int `yaml:"serve_delay"` // Fixed steps between score and serve
}
