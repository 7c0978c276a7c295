package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrStaleEntity is returned when an operation references an entity whose
// generation no longer matches the live generation at its index, i.e. the
// entity was despawned (and possibly its slot reused).
var ErrStaleEntity = errors.New("ecs: stale entity reference")

// column is the type-erased interface over typed dense component storage.
type column interface {
	removeRow(row uint32) bool
	hasRow(row uint32) bool
	growTo(n int)
}

// Store owns all entities and their component data.
//
// The Store is not safe for concurrent use; the engine mutates it from a
// single goroutine per game instance. Structural mutations requested while an
// iteration is in progress are buffered and applied when the outermost view
// is closed, so views always observe a snapshot-consistent world.
type Store struct {
	generations []uint32
	alive       []bool
	free        []uint32
	liveCount   int

	// Component type identifiers are assigned once, at first registration,
	// and index directly into cols afterwards.
	typeIDs map[reflect.Type]int
	cols    []column

	iterDepth int
	deferred  []func(*Store)
}

// NewStore creates an empty entity store.
func NewStore() *Store {
	return &Store{
		typeIDs: make(map[reflect.Type]int, 16),
	}
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return s.liveCount
}

// Spawn creates a new entity and returns its identifier. Slot indexes are
// recycled LIFO; the generation of a recycled slot was already bumped at
// despawn time, so the returned identifier never aliases a despawned one.
func (s *Store) Spawn() Entity {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.generations))
		s.generations = append(s.generations, 1)
		s.alive = append(s.alive, false)
		for _, c := range s.cols {
			c.growTo(len(s.generations))
		}
	}
	s.alive[idx] = true
	s.liveCount++
	return Entity{Index: idx, Generation: s.generations[idx]}
}

// Despawn destroys an entity and detaches all of its components. It fails
// with ErrStaleEntity if the reference is no longer live. While an iteration
// is in progress the despawn is deferred until the outermost view closes;
// the stale check still happens immediately.
func (s *Store) Despawn(e Entity) error {
	if !s.AliveEntity(e) {
		return fmt.Errorf("ecs: despawn %d/%d: %w", e.Index, e.Generation, ErrStaleEntity)
	}
	if s.iterDepth > 0 {
		// Stale at apply time means an earlier buffered despawn won; see endIter.
		s.deferred = append(s.deferred, func(s *Store) { _ = s.Despawn(e) })
		return nil
	}
	for _, c := range s.cols {
		c.removeRow(e.Index)
	}
	s.alive[e.Index] = false
	s.generations[e.Index]++
	s.free = append(s.free, e.Index)
	s.liveCount--
	return nil
}

// AliveEntity reports whether the given reference denotes a live entity.
func (s *Store) AliveEntity(e Entity) bool {
	return int(e.Index) < len(s.generations) &&
		s.alive[e.Index] &&
		s.generations[e.Index] == e.Generation
}

// Resolve returns the live entity at the given index, if any. It is used to
// follow index-based back-references from external systems.
func (s *Store) Resolve(idx uint32) (Entity, bool) {
	if int(idx) >= len(s.generations) || !s.alive[idx] {
		return Entity{}, false
	}
	return Entity{Index: idx, Generation: s.generations[idx]}, true
}

// beginIter marks the start of a view. Nested views are allowed.
func (s *Store) beginIter() {
	s.iterDepth++
}

// endIter marks the end of a view and, when the outermost view closes,
// applies all buffered structural mutations in request order. A buffered
// mutation invalidated by an earlier one in the same batch (a second despawn
// of the same entity, or an add to an entity despawned moments before)
// degrades to a no-op: the requester saw a live entity at queue time, so the
// conflict is a consequence of batching, not a caller error.
func (s *Store) endIter() {
	s.iterDepth--
	if s.iterDepth > 0 {
		return
	}
	pending := s.deferred
	s.deferred = nil
	for _, fn := range pending {
		fn(s)
	}
}
