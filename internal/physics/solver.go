package physics

import (
	"math"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// contact is a narrow-phase collision between two bodies. The normal points
// from A toward B.
type contact struct {
	a, b        int32
	normal      core.Vec2
	penetration float64
}

// Positional correction constants (Baumgarte-style split correction).
const (
	correctionPercent = 0.8
	penetrationSlop   = 0.01
)

// narrowPhase runs shape-exact intersection tests on the broad-phase
// candidates, in candidate order.
func narrowPhase(bodies []Body, pairs [][2]int32) []contact {
	var contacts []contact
	for _, p := range pairs {
		a, b := &bodies[p[0]], &bodies[p[1]]
		if a.InvMass == 0 && b.InvMass == 0 {
			continue
		}
		if c, ok := collide(a, b); ok {
			c.a, c.b = p[0], p[1]
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// collide performs the shape-exact test for one pair.
func collide(a, b *Body) (contact, bool) {
	switch {
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeCircle:
		return circleCircle(a, b)
	case a.Shape.Kind == ShapeCircle && b.Shape.Kind == ShapeBox:
		c, ok := circleBox(a, b)
		return c, ok
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeCircle:
		c, ok := circleBox(b, a)
		if ok {
			c.normal = c.normal.Scale(-1)
		}
		return c, ok
	default:
		return boxBox(a, b)
	}
}

func circleCircle(a, b *Body) (contact, bool) {
	delta := b.Pos.Sub(a.Pos)
	r := a.Shape.Radius + b.Shape.Radius
	dist := delta.Len()
	if dist >= r {
		return contact{}, false
	}
	normal := core.Vec2{X: 1} // coincident centers: pick a stable axis
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	return contact{normal: normal, penetration: r - dist}, true
}

// circleBox tests a circle (first argument) against a box; the returned
// normal points from the circle toward the box.
func circleBox(circle, box *Body) (contact, bool) {
	closest := core.Vec2{
		X: core.ClampF(circle.Pos.X, box.Pos.X-box.Shape.HalfW, box.Pos.X+box.Shape.HalfW),
		Y: core.ClampF(circle.Pos.Y, box.Pos.Y-box.Shape.HalfH, box.Pos.Y+box.Shape.HalfH),
	}
	delta := closest.Sub(circle.Pos)
	dist := delta.Len()
	r := circle.Shape.Radius
	if dist >= r {
		return contact{}, false
	}
	if dist > 0 {
		return contact{normal: delta.Scale(1 / dist), penetration: r - dist}, true
	}
	// Circle center inside the box: push out along the shallowest axis.
	dx := box.Shape.HalfW - math.Abs(circle.Pos.X-box.Pos.X)
	dy := box.Shape.HalfH - math.Abs(circle.Pos.Y-box.Pos.Y)
	if dx < dy {
		n := core.Vec2{X: 1}
		if circle.Pos.X < box.Pos.X {
			n.X = -1
		}
		return contact{normal: n, penetration: dx + r}, true
	}
	n := core.Vec2{Y: 1}
	if circle.Pos.Y < box.Pos.Y {
		n.Y = -1
	}
	return contact{normal: n, penetration: dy + r}, true
}

func boxBox(a, b *Body) (contact, bool) {
	dx := b.Pos.X - a.Pos.X
	px := a.Shape.HalfW + b.Shape.HalfW - math.Abs(dx)
	if px <= 0 {
		return contact{}, false
	}
	dy := b.Pos.Y - a.Pos.Y
	py := a.Shape.HalfH + b.Shape.HalfH - math.Abs(dy)
	if py <= 0 {
		return contact{}, false
	}
	if px < py {
		n := core.Vec2{X: 1}
		if dx < 0 {
			n.X = -1
		}
		return contact{normal: n, penetration: px}, true
	}
	n := core.Vec2{Y: 1}
	if dy < 0 {
		n.Y = -1
	}
	return contact{normal: n, penetration: py}, true
}

// resolveContacts runs the iterative impulse solver over the contact set a
// fixed number of times, then applies positional correction. Contacts are
// processed in slice order every iteration, keeping the reduction order
// sequential and deterministic for the caller.
func resolveContacts(bodies []Body, contacts []contact, iterations int) {
	if iterations <= 0 {
		iterations = 1
	}
	for it := 0; it < iterations; it++ {
		for ci := range contacts {
			c := &contacts[ci]
			a, b := &bodies[c.a], &bodies[c.b]
			invSum := a.InvMass + b.InvMass
			if invSum == 0 {
				continue
			}

			rv := b.Vel.Sub(a.Vel)
			velAlongNormal := rv.Dot(c.normal)
			if velAlongNormal > 0 {
				continue // already separating
			}

			e := math.Min(a.Restitution, b.Restitution)
			j := -(1 + e) * velAlongNormal / invSum
			impulse := c.normal.Scale(j)
			a.Vel = a.Vel.Sub(impulse.Scale(a.InvMass))
			b.Vel = b.Vel.Add(impulse.Scale(b.InvMass))

			// Coulomb friction along the contact tangent.
			rv = b.Vel.Sub(a.Vel)
			tangent := rv.Sub(c.normal.Scale(rv.Dot(c.normal)))
			tl := tangent.Len()
			if tl == 0 {
				continue
			}
			tangent = tangent.Scale(1 / tl)
			jt := -rv.Dot(tangent) / invSum
			mu := math.Sqrt(a.Friction * b.Friction)
			jt = core.ClampF(jt, -j*mu, j*mu)
			frictionImpulse := tangent.Scale(jt)
			a.Vel = a.Vel.Sub(frictionImpulse.Scale(a.InvMass))
			b.Vel = b.Vel.Add(frictionImpulse.Scale(b.InvMass))
		}
	}

	for ci := range contacts {
		c := &contacts[ci]
		a, b := &bodies[c.a], &bodies[c.b]
		invSum := a.InvMass + b.InvMass
		if invSum == 0 {
			continue
		}
		depth := math.Max(c.penetration-penetrationSlop, 0)
		correction := c.normal.Scale(depth / invSum * correctionPercent)
		a.Pos = a.Pos.Sub(correction.Scale(a.InvMass))
		b.Pos = b.Pos.Add(correction.Scale(b.InvMass))
	}
}

// solveStep runs the shared collision pipeline: broad phase, narrow phase,
// impulse resolution, and the mandatory finite-state check.
func solveStep(w *World, iterations int) error {
	pairs := broadPhasePairs(w.bodies)
	contacts := narrowPhase(w.bodies, pairs)
	resolveContacts(w.bodies, contacts, iterations)
	return w.CheckFinite()
}
