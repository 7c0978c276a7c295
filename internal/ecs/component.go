package ecs

import (
	"fmt"
	"reflect"
)

// columnOf stores one component type in a dense array with a sparse
// index-by-entity lookup. Removal swaps with the last element, so dense order
// is stable only between structural mutations; views rely on the Store's
// deferred-mutation buffer for snapshot consistency.
type columnOf[T any] struct {
	values []T
	rows   []uint32 // rows[i] = entity index owning values[i]
	sparse []int32  // entity index -> dense position, -1 if absent
}

func (c *columnOf[T]) growTo(n int) {
	for len(c.sparse) < n {
		c.sparse = append(c.sparse, -1)
	}
}

func (c *columnOf[T]) hasRow(row uint32) bool {
	return int(row) < len(c.sparse) && c.sparse[row] >= 0
}

func (c *columnOf[T]) removeRow(row uint32) bool {
	if !c.hasRow(row) {
		return false
	}
	pos := c.sparse[row]
	last := len(c.values) - 1
	movedRow := c.rows[last]
	c.values[pos] = c.values[last]
	c.rows[pos] = movedRow
	c.sparse[movedRow] = pos
	c.values = c.values[:last]
	c.rows = c.rows[:last]
	c.sparse[row] = -1
	return true
}

// colFor returns the typed column for T, registering it on first use.
// Registration assigns the component type identifier exactly once.
func colFor[T any](s *Store, create bool) *columnOf[T] {
	t := reflect.TypeFor[T]()
	if id, ok := s.typeIDs[t]; ok {
		return s.cols[id].(*columnOf[T])
	}
	if !create {
		return nil
	}
	c := &columnOf[T]{}
	c.growTo(len(s.generations))
	s.typeIDs[t] = len(s.cols)
	s.cols = append(s.cols, c)
	return c
}

// Add attaches a component value to an entity, replacing any previous value
// of the same type. It fails with ErrStaleEntity on a dead reference. While
// an iteration is in progress the attach is deferred.
func Add[T any](s *Store, e Entity, v T) error {
	if !s.AliveEntity(e) {
		return fmt.Errorf("ecs: add %T to %d/%d: %w", v, e.Index, e.Generation, ErrStaleEntity)
	}
	if s.iterDepth > 0 {
		s.deferred = append(s.deferred, func(s *Store) { _ = Add(s, e, v) })
		return nil
	}
	c := colFor[T](s, true)
	if pos := c.sparse[e.Index]; pos >= 0 {
		c.values[pos] = v
		return nil
	}
	c.sparse[e.Index] = int32(len(c.values))
	c.values = append(c.values, v)
	c.rows = append(c.rows, e.Index)
	return nil
}

// Get returns a borrowed pointer to the entity's component of type T. The
// pointer is only valid until the next structural mutation of the store.
func Get[T any](s *Store, e Entity) (*T, bool) {
	if !s.AliveEntity(e) {
		return nil, false
	}
	c := colFor[T](s, false)
	if c == nil || !c.hasRow(e.Index) {
		return nil, false
	}
	return &c.values[c.sparse[e.Index]], true
}

// Has reports whether the entity carries a component of type T.
func Has[T any](s *Store, e Entity) bool {
	if !s.AliveEntity(e) {
		return false
	}
	c := colFor[T](s, false)
	return c != nil && c.hasRow(e.Index)
}

// Remove detaches and returns the entity's component of type T. The returned
// value is the component at call time; while an iteration is in progress the
// actual detach is deferred.
func Remove[T any](s *Store, e Entity) (T, bool) {
	var zero T
	if !s.AliveEntity(e) {
		return zero, false
	}
	c := colFor[T](s, false)
	if c == nil || !c.hasRow(e.Index) {
		return zero, false
	}
	v := c.values[c.sparse[e.Index]]
	if s.iterDepth > 0 {
		s.deferred = append(s.deferred, func(s *Store) { _, _ = Remove[T](s, e) })
		return v, true
	}
	c.removeRow(e.Index)
	return v, true
}
