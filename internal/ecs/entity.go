// Package ecs implements the entity store: recyclable entity identifiers,
// typed dense component columns, and snapshot-consistent iteration.
//
// Component data is plain data owned exclusively by the Store; systems borrow
// it through pointers that are only valid for the duration of one system call.
package ecs

// Entity is an opaque identifier for an object in the Store. It combines a
// 32-bit index with a 32-bit generation so that recycled indexes are never
// confused with the entity that previously occupied them.
type Entity struct {
	// Index is the recyclable slot identifier.
	Index uint32
	// Generation is bumped each time a slot is reused, invalidating any
	// stale references to the despawned entity.
	Generation uint32
}

// Handle packs the entity into a single uint64, suitable for embedding as a
// back-reference in external structures (for example a physics body).
func (e Entity) Handle() uint64 {
	return uint64(e.Index)<<32 | uint64(e.Generation)
}

// FromHandle unpacks an entity previously packed with Handle.
func FromHandle(h uint64) Entity {
	return Entity{Index: uint32(h >> 32), Generation: uint32(h)}
}

// IsZero reports whether the entity is the zero value, which is never a live
// entity (generations start at 1).
func (e Entity) IsZero() bool {
	return e.Generation == 0
}
