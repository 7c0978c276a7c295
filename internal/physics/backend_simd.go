package physics

import (
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// simdLanes is the number of float64 lanes in a 128-bit vector register.
const simdLanes = 2

// simdBackend batches integration into fixed-width lanes so the compiler can
// vectorize the inner loops on amd64/arm64. Lane math is identical per
// element, so results match the scalar tier up to floating-point reassociation;
// the collision pipeline is shared and sequential.
type simdBackend struct{}

func (*simdBackend) Tier() Tier {
	return TierSIMD128
}

func (*simdBackend) Step(w *World, dt time.Duration, gravity core.Vec2, iterations int) error {
	h := dt.Seconds()
	bodies := w.bodies

	var px, py, vx, vy, im [simdLanes]float64

	n := len(bodies)
	full := n - n%simdLanes
	for base := 0; base < full; base += simdLanes {
		for l := 0; l < simdLanes; l++ {
			b := &bodies[base+l]
			px[l], py[l] = b.Pos.X, b.Pos.Y
			vx[l], vy[l] = b.Vel.X, b.Vel.Y
			if b.InvMass != 0 {
				im[l] = 1
			} else {
				im[l] = 0
			}
		}
		for l := 0; l < simdLanes; l++ {
			vx[l] += gravity.X * h * im[l]
			vy[l] += gravity.Y * h * im[l]
		}
		for l := 0; l < simdLanes; l++ {
			px[l] += vx[l] * h
			py[l] += vy[l] * h
		}
		for l := 0; l < simdLanes; l++ {
			b := &bodies[base+l]
			b.Pos.X, b.Pos.Y = px[l], py[l]
			b.Vel.X, b.Vel.Y = vx[l], vy[l]
		}
	}

	// Remainder bodies take the scalar path.
	for i := full; i < n; i++ {
		b := &bodies[i]
		if b.InvMass != 0 {
			b.Vel = b.Vel.Add(gravity.Scale(h))
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(h))
	}

	return solveStep(w, iterations)
}
