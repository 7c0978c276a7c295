package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultEngineConfig returns the default runtime configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Display: DisplayConfig{
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Simulation: SimulationConfig{
			FixedDT:          Duration{time.Second / 60},
			MaxStepsPerTick:  5,
			SolverIterations: 8,
		},
		Input: InputConfig{
			QueueCapacity: 1024,
		},
	}
}

// DefaultPongConfig returns the default Pong configuration.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Physics: PongPhysics{
			BallRadius:   8,
			BallSpeed:    240,
			MaxBallSpeed: 600,
			PaddleSpeed:  300,
		},
		Paddles: PongPaddles{
			Width:  12,
			Height: 80,
			Offset: 40,
		},
		Gameplay: PongGameplay{
			WinScore:   5,
			ServeDelay: 60,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "engine":
		return defaultEngineYAML
	case "pong":
		return defaultPongYAML
	default:
		return nil
	}
}
