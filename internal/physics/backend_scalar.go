package physics

import (
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// scalarBackend is the portable fallback: plain per-body loops, semi-implicit
// Euler integration. It defines the reference results the other tiers are
// tested against.
type scalarBackend struct{}

func (*scalarBackend) Tier() Tier {
	return TierScalar
}

func (*scalarBackend) Step(w *World, dt time.Duration, gravity core.Vec2, iterations int) error {
	h := dt.Seconds()
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.InvMass != 0 {
			b.Vel = b.Vel.Add(gravity.Scale(h))
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(h))
	}
	return solveStep(w, iterations)
}
