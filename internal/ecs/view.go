package ecs

// View1 iterates all entities carrying component A. The view observes the
// store as it was at creation: entities spawned afterwards are not visited
// and structural mutations requested during iteration are deferred until the
// view closes.
//
// Usage:
//
//	v := Query1[Position](store)
//	for v.Next() {
//		pos := v.Get()
//		...
//	}
//
// A view that is fully consumed closes itself; call Close when breaking out
// early.
type View1[A any] struct {
	s      *Store
	a      *columnOf[A]
	n      int
	i      int
	closed bool
}

// Query1 opens a view over all entities carrying component A.
func Query1[A any](s *Store) *View1[A] {
	v := &View1[A]{s: s, a: colFor[A](s, true), i: -1}
	v.n = len(v.a.values)
	s.beginIter()
	return v
}

// Next advances to the next matching entity, closing the view when the
// sequence is exhausted.
func (v *View1[A]) Next() bool {
	if v.closed {
		return false
	}
	for v.i++; v.i < v.n; v.i++ {
		if v.s.alive[v.a.rows[v.i]] {
			return true
		}
	}
	v.Close()
	return false
}

// Entity returns the entity at the current position.
func (v *View1[A]) Entity() Entity {
	row := v.a.rows[v.i]
	return Entity{Index: row, Generation: v.s.generations[row]}
}

// Get returns a borrowed pointer to the current entity's A component.
func (v *View1[A]) Get() *A {
	return &v.a.values[v.i]
}

// Close releases the view. Idempotent.
func (v *View1[A]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.s.endIter()
}

// View2 iterates all entities carrying both A and B, in the dense order of
// the A column. Same snapshot semantics as View1.
type View2[A, B any] struct {
	s      *Store
	a      *columnOf[A]
	b      *columnOf[B]
	n      int
	i      int
	closed bool
}

// Query2 opens a view over all entities carrying components A and B.
func Query2[A, B any](s *Store) *View2[A, B] {
	v := &View2[A, B]{s: s, a: colFor[A](s, true), b: colFor[B](s, true), i: -1}
	v.n = len(v.a.values)
	s.beginIter()
	return v
}

// Next advances to the next matching entity, closing the view when the
// sequence is exhausted.
func (v *View2[A, B]) Next() bool {
	if v.closed {
		return false
	}
	for v.i++; v.i < v.n; v.i++ {
		row := v.a.rows[v.i]
		if v.s.alive[row] && v.b.hasRow(row) {
			return true
		}
	}
	v.Close()
	return false
}

// Entity returns the entity at the current position.
func (v *View2[A, B]) Entity() Entity {
	row := v.a.rows[v.i]
	return Entity{Index: row, Generation: v.s.generations[row]}
}

// Get returns borrowed pointers to the current entity's A and B components.
func (v *View2[A, B]) Get() (*A, *B) {
	row := v.a.rows[v.i]
	return &v.a.values[v.i], &v.b.values[v.b.sparse[row]]
}

// Close releases the view. Idempotent.
func (v *View2[A, B]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.s.endIter()
}

// View3 iterates all entities carrying A, B and C, in the dense order of the
// A column. Same snapshot semantics as View1.
type View3[A, B, C any] struct {
	s      *Store
	a      *columnOf[A]
	b      *columnOf[B]
	c      *columnOf[C]
	n      int
	i      int
	closed bool
}

// Query3 opens a view over all entities carrying components A, B and C.
func Query3[A, B, C any](s *Store) *View3[A, B, C] {
	v := &View3[A, B, C]{
		s: s,
		a: colFor[A](s, true),
		b: colFor[B](s, true),
		c: colFor[C](s, true),
		i: -1,
	}
	v.n = len(v.a.values)
	s.beginIter()
	return v
}

// Next advances to the next matching entity, closing the view when the
// sequence is exhausted.
func (v *View3[A, B, C]) Next() bool {
	if v.closed {
		return false
	}
	for v.i++; v.i < v.n; v.i++ {
		row := v.a.rows[v.i]
		if v.s.alive[row] && v.b.hasRow(row) && v.c.hasRow(row) {
			return true
		}
	}
	v.Close()
	return false
}

// Entity returns the entity at the current position.
func (v *View3[A, B, C]) Entity() Entity {
	row := v.a.rows[v.i]
	return Entity{Index: row, Generation: v.s.generations[row]}
}

// Get returns borrowed pointers to the current entity's components.
func (v *View3[A, B, C]) Get() (*A, *B, *C) {
	row := v.a.rows[v.i]
	return &v.a.values[v.i], &v.b.values[v.b.sparse[row]], &v.c.values[v.c.sparse[row]]
}

// Close releases the view. Idempotent.
func (v *View3[A, B, C]) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.s.endIter()
}
