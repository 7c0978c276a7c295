package core

import "time"

// RuntimeConfig contains configuration passed to the engine at initialization.
// Scenarios use this to adapt to the playfield size and for deterministic
// simulation.
type RuntimeConfig struct {
	Width            int           // Playfield width in world units
	Height           int           // Playfield height in world units
	FixedDT          time.Duration // Simulation step size (default 1/60s)
	MaxStepsPerTick  int           // Step cap per real-time tick (default 5)
	SolverIterations int           // Physics impulse solver iterations (default 8)
	InputQueueCap    int           // Input event queue capacity (default 1024)
	DebugOverlay     bool          // Emit debug overlay render commands
	VSync            bool          // Hint for the platform presenter only
	Seed             int64         // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:            800,
		Height:           600,
		FixedDT:          time.Second / 60,
		MaxStepsPerTick:  5,
		SolverIterations: 8,
		InputQueueCap:    1024,
		DebugOverlay:     false,
		VSync:            true,
		Seed:             0, // 0 means use current time in platform layer
	}
}
