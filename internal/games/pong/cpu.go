package pong

import (
	"github.com/vovakirdan/arcade-engine/internal/aiprofile"
	"github.com/vovakirdan/arcade-engine/internal/core"
	"github.com/vovakirdan/arcade-engine/internal/engine"
	"github.com/vovakirdan/arcade-engine/internal/physics"
	"github.com/vovakirdan/arcade-engine/internal/replay"
)

// cpuController drives the right paddle from aiprofile weights. It is fully
// deterministic: reaction delay is counted in fixed steps and aim noise is
// drawn from the engine RNG.
type cpuController struct {
	weights aiprofile.Weights

	target   float64 // Y the paddle is steering toward
	cooldown int     // steps left before the target may update
	lastDir  int     // sign of the ball's X velocity last step
}

func newCPUController(w aiprofile.Weights) cpuController {
	return cpuController{weights: w, lastDir: 0}
}

// track returns the paddle's Y velocity for this step.
func (c *cpuController) track(ball, paddle *physics.Body, rng *engine.RNG, dt float64) float64 {
	dir := 0
	if ball.Vel.X > 0 {
		dir = 1
	} else if ball.Vel.X < 0 {
		dir = -1
	}

	// A direction change restarts the reaction delay; until it expires the
	// paddle keeps steering toward the stale target.
	if dir != c.lastDir {
		c.lastDir = dir
		c.cooldown = c.weights.ReactionTime
	}
	if c.cooldown > 0 {
		c.cooldown--
	} else if dir > 0 {
		// Ball is approaching: retarget with deterministic aim noise.
		jitter := (rng.Float64() - 0.5) * 2 * c.weights.Jitter
		c.target = ball.Pos.Y + jitter
	} else {
		// Ball is leaving: drift back to center.
		c.target = ball.Pos.Y*0.2 + c.target*0.8
	}

	diff := c.target - paddle.Pos.Y
	v := diff * c.weights.TrackingGain / dt
	return core.ClampF(v, -c.weights.MaxSpeed, c.weights.MaxSpeed)
}

// probe contributes controller state to the engine's step hash.
func (c *cpuController) probe(h *replay.Hasher) {
	h.WriteFloat(c.target)
	h.WriteInt64(int64(c.cooldown))
	h.WriteInt64(int64(c.lastDir))
}
