package physics

import (
	"fmt"
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// gpuFloatsPerBody is the flattened buffer stride: x, y, vx, vy, invMass.
const gpuFloatsPerBody = 5

// gpuBackend offloads integration to a platform-provided compute dispatcher.
// The collision pipeline still runs on the CPU in sequential order, so the
// parallel compute stays internal to the step and the caller observes a
// deterministic-order result. Values cross the boundary as float32, which is
// why cross-backend equivalence is a tolerance, not bit identity.
type gpuBackend struct {
	d   Dispatcher
	buf []float32
}

func (*gpuBackend) Tier() Tier {
	return TierGPUCompute
}

func (g *gpuBackend) Step(w *World, dt time.Duration, gravity core.Vec2, iterations int) error {
	if g.d == nil {
		return ErrBackendUnavailable
	}

	n := len(w.bodies)
	need := n * gpuFloatsPerBody
	if cap(g.buf) < need {
		g.buf = make([]float32, need)
	}
	g.buf = g.buf[:need]

	for i := range w.bodies {
		b := &w.bodies[i]
		o := i * gpuFloatsPerBody
		g.buf[o+0] = float32(b.Pos.X)
		g.buf[o+1] = float32(b.Pos.Y)
		g.buf[o+2] = float32(b.Vel.X)
		g.buf[o+3] = float32(b.Vel.Y)
		g.buf[o+4] = float32(b.InvMass)
	}

	h := float32(dt.Seconds())
	if err := g.d.DispatchIntegrate(g.buf, h, float32(gravity.X), float32(gravity.Y)); err != nil {
		return fmt.Errorf("physics: gpu integrate: %v: %w", err, ErrBackendUnavailable)
	}

	for i := range w.bodies {
		b := &w.bodies[i]
		o := i * gpuFloatsPerBody
		b.Pos.X = float64(g.buf[o+0])
		b.Pos.Y = float64(g.buf[o+1])
		b.Vel.X = float64(g.buf[o+2])
		b.Vel.Y = float64(g.buf[o+3])
	}

	return solveStep(w, iterations)
}
