// Package physics implements the tiered rigid-body simulation: a world of
// bodies advanced one fixed step at a time by one of three interchangeable
// backends (GPU compute, SIMD, scalar).
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// ErrDivergence is returned when a step produces a non-finite position or
// velocity. It is fatal: the world is left at its pre-step state and the
// simulation must halt.
var ErrDivergence = errors.New("physics: solver produced non-finite state")

// ShapeKind discriminates collider shapes.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape is a collider attached to a body. Boxes are axis-aligned.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // circle only
	HalfW  float64 // box only
	HalfH  float64 // box only
}

// CircleShape creates a circle collider with the given radius.
func CircleShape(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// BoxShape creates an axis-aligned box collider with the given full extents.
func BoxShape(w, h float64) Shape {
	return Shape{Kind: ShapeBox, HalfW: w / 2, HalfH: h / 2}
}

// Extent returns the shape's largest dimension, used to derive the
// broad-phase cell size.
func (s Shape) Extent() float64 {
	if s.Kind == ShapeCircle {
		return 2 * s.Radius
	}
	return 2 * math.Max(s.HalfW, s.HalfH)
}

// aabb returns the shape's bounding box centered at pos.
func (s Shape) aabb(pos core.Vec2) core.Rect {
	if s.Kind == ShapeCircle {
		return core.NewRect(pos.X-s.Radius, pos.Y-s.Radius, 2*s.Radius, 2*s.Radius)
	}
	return core.NewRect(pos.X-s.HalfW, pos.Y-s.HalfH, 2*s.HalfW, 2*s.HalfH)
}

// Body is a rigid body owned by the World. The ECS side holds read-mirrors of
// position and velocity; Owner carries the owning entity's packed handle so
// the back-reference stays index-based and ownership one-directional.
type Body struct {
	Pos         core.Vec2
	Vel         core.Vec2
	InvMass     float64 // 0 marks a static or kinematic body
	Restitution float64
	Friction    float64
	Shape       Shape
	Owner       uint64
}

// BodyID identifies a body within its World.
type BodyID int

// World is the simulation state operated on by the active backend. It
// advances by exactly one fixed step per Step call and is exclusively owned
// by the game loop goroutine.
type World struct {
	bodies []Body
}

// NewWorld creates an empty physics world.
func NewWorld() *World {
	return &World{}
}

// AddBody inserts a body and returns its identifier. Identifiers are dense
// and stable; bodies are never removed mid-run, only zeroed out.
func (w *World) AddBody(b Body) BodyID {
	w.bodies = append(w.bodies, b)
	return BodyID(len(w.bodies) - 1)
}

// Body returns a borrowed pointer to the identified body.
func (w *World) Body(id BodyID) *Body {
	return &w.bodies[id]
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// Bodies returns the backing body slice, borrowed. Backends mutate it in
// place; everyone else should treat it as read-only.
func (w *World) Bodies() []Body {
	return w.bodies
}

// Clone returns a deep copy of the world. The engine snapshots the world
// before each step so a failing backend can be retried on a lower tier
// without altering replay-visible history.
func (w *World) Clone() *World {
	c := &World{bodies: make([]Body, len(w.bodies))}
	copy(c.bodies, w.bodies)
	return c
}

// Restore overwrites this world's state with a previously taken clone.
func (w *World) Restore(from *World) {
	w.bodies = w.bodies[:0]
	w.bodies = append(w.bodies, from.bodies...)
}

// CheckFinite verifies that every body holds finite state, returning a fatal
// ErrDivergence describing the first offending body otherwise.
func (w *World) CheckFinite() error {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Pos.Finite() || !b.Vel.Finite() {
			return fmt.Errorf("physics: body %d pos=%v vel=%v: %w", i, b.Pos, b.Vel, ErrDivergence)
		}
	}
	return nil
}
