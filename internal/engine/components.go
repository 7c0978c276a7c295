package engine

import (
	"github.com/vovakirdan/arcade-engine/internal/core"
	"github.com/vovakirdan/arcade-engine/internal/physics"
)

// Position is the ECS read-mirror of a physics body's position, refreshed
// once per fixed step for gameplay systems to read. For entities without a
// body it is plain owned data.
type Position struct {
	Pos core.Vec2
}

// Velocity is the ECS read-mirror of a physics body's velocity.
type Velocity struct {
	Vel core.Vec2
}

// BodyRef links an entity to its physics body by index. The body carries the
// entity's packed handle in Owner, so the entity/body relationship stays
// index-based in both directions and ownership one-directional: the physics
// world owns bodies, the store holds mirrors.
type BodyRef struct {
	ID physics.BodyID
}
