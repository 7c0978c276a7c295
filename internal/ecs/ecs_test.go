package ecs

import (
	"errors"
	"testing"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type tag struct{ ID int }

func TestSpawnDespawnGenerations(t *testing.T) {
	s := NewStore()

	e1 := s.Spawn()
	if !s.AliveEntity(e1) {
		t.Fatal("freshly spawned entity should be alive")
	}

	if err := s.Despawn(e1); err != nil {
		t.Fatalf("despawn failed: %v", err)
	}
	if s.AliveEntity(e1) {
		t.Fatal("despawned entity should not be alive")
	}

	// Despawning again must fail with a stale reference.
	if err := s.Despawn(e1); !errors.Is(err, ErrStaleEntity) {
		t.Fatalf("expected ErrStaleEntity, got %v", err)
	}

	// Respawning reuses the index but bumps the generation, so the old
	// reference must never match the new entity.
	e2 := s.Spawn()
	if e2.Index != e1.Index {
		t.Fatalf("expected index reuse: got %d, want %d", e2.Index, e1.Index)
	}
	if e2.Generation == e1.Generation {
		t.Fatal("recycled slot must have a new generation")
	}
	if s.AliveEntity(e1) {
		t.Fatal("stale reference matches live entity after reuse")
	}
}

func TestEntityIdentitySafety(t *testing.T) {
	s := NewStore()

	// Churn a single slot many times; no two identifiers may collide.
	seen := make(map[Entity]bool)
	for i := 0; i < 1000; i++ {
		e := s.Spawn()
		if seen[e] {
			t.Fatalf("entity identifier %v issued twice", e)
		}
		seen[e] = true
		if err := s.Despawn(e); err != nil {
			t.Fatalf("despawn failed: %v", err)
		}
	}
}

func TestComponentLifecycle(t *testing.T) {
	s := NewStore()
	e := s.Spawn()

	if err := Add(s, e, position{X: 1, Y: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	p, ok := Get[position](s, e)
	if !ok {
		t.Fatal("expected position component")
	}
	if p.X != 1 || p.Y != 2 {
		t.Fatalf("unexpected component value: %+v", p)
	}

	// Mutation through the borrowed pointer must be visible.
	p.X = 42
	p2, _ := Get[position](s, e)
	if p2.X != 42 {
		t.Fatal("mutation through pointer not visible")
	}

	// Replacing overwrites in place.
	if err := Add(s, e, position{X: 7}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	p3, _ := Get[position](s, e)
	if p3.X != 7 {
		t.Fatalf("expected replaced value, got %+v", p3)
	}

	v, ok := Remove[position](s, e)
	if !ok || v.X != 7 {
		t.Fatalf("remove returned %+v, %v", v, ok)
	}
	if Has[position](s, e) {
		t.Fatal("component still present after remove")
	}
	if _, ok := Remove[position](s, e); ok {
		t.Fatal("second remove should report absence")
	}
}

func TestStaleReferenceAccess(t *testing.T) {
	s := NewStore()
	e := s.Spawn()
	if err := Add(s, e, position{X: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := s.Despawn(e); err != nil {
		t.Fatalf("despawn failed: %v", err)
	}

	if err := Add(s, e, position{X: 2}); !errors.Is(err, ErrStaleEntity) {
		t.Fatalf("expected ErrStaleEntity, got %v", err)
	}
	if _, ok := Get[position](s, e); ok {
		t.Fatal("get on a stale reference must fail")
	}

	// The recycled slot must not inherit the old component.
	e2 := s.Spawn()
	if Has[position](s, e2) {
		t.Fatal("recycled slot inherited component data")
	}
}

func TestQueryIteration(t *testing.T) {
	s := NewStore()

	var both []Entity
	for i := 0; i < 10; i++ {
		e := s.Spawn()
		if err := Add(s, e, position{X: float64(i)}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if i%2 == 0 {
			if err := Add(s, e, velocity{X: 1}); err != nil {
				t.Fatalf("add failed: %v", err)
			}
			both = append(both, e)
		}
	}

	count := 0
	v := Query2[position, velocity](s)
	for v.Next() {
		pos, vel := v.Get()
		if vel.X != 1 {
			t.Fatalf("unexpected velocity %+v", vel)
		}
		if int(pos.X)%2 != 0 {
			t.Fatalf("entity without velocity visited: %+v", pos)
		}
		count++
	}
	if count != len(both) {
		t.Fatalf("visited %d entities, want %d", count, len(both))
	}

	// Views are restartable: a fresh query yields the same sequence.
	count = 0
	v = Query2[position, velocity](s)
	for v.Next() {
		count++
	}
	if count != len(both) {
		t.Fatalf("restarted view visited %d entities, want %d", count, len(both))
	}
}

func TestDeferredMutationDuringIteration(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		e := s.Spawn()
		if err := Add(s, e, tag{ID: i}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	// Despawn every visited entity mid-iteration. The view must still visit
	// all five; the despawns apply after the view closes.
	visited := 0
	v := Query1[tag](s)
	for v.Next() {
		visited++
		if err := s.Despawn(v.Entity()); err != nil {
			t.Fatalf("despawn during iteration failed: %v", err)
		}
	}
	if visited != 5 {
		t.Fatalf("visited %d entities, want 5", visited)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store after deferred despawns, got %d live", s.Len())
	}

	// Entities spawned during iteration are not visited by the open view.
	for i := 0; i < 3; i++ {
		e := s.Spawn()
		if err := Add(s, e, tag{ID: i}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	visited = 0
	v = Query1[tag](s)
	for v.Next() {
		visited++
		e := s.Spawn()
		if err := Add(s, e, tag{ID: 99}); err != nil {
			t.Fatalf("add during iteration failed: %v", err)
		}
		if err := s.Despawn(e); err != nil {
			t.Fatalf("despawn of fresh entity failed: %v", err)
		}
	}
	if visited != 3 {
		t.Fatalf("open view visited %d entities, want 3", visited)
	}
}

func TestConflictingDeferredMutations(t *testing.T) {
	s := NewStore()
	e := s.Spawn()
	if err := Add(s, e, tag{ID: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Queue two despawns of the same entity and a trailing add within one
	// iteration. The first despawn wins at apply time; the rest degrade to
	// no-ops and the store stays consistent.
	v := Query1[tag](s)
	for v.Next() {
		if err := s.Despawn(e); err != nil {
			t.Fatalf("first deferred despawn failed: %v", err)
		}
		if err := s.Despawn(e); err != nil {
			t.Fatalf("second deferred despawn failed at queue time: %v", err)
		}
		if err := Add(s, e, tag{ID: 2}); err != nil {
			t.Fatalf("deferred add failed at queue time: %v", err)
		}
	}

	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d live entities", s.Len())
	}
	if s.AliveEntity(e) {
		t.Fatal("entity survived conflicting despawns")
	}

	// The slot is reusable and carries nothing over.
	e2 := s.Spawn()
	if Has[tag](s, e2) {
		t.Fatal("recycled slot inherited data from a no-op deferred add")
	}
}

func TestHandleRoundTrip(t *testing.T) {
	s := NewStore()
	e := s.Spawn()
	if got := FromHandle(e.Handle()); got != e {
		t.Fatalf("handle round trip: got %+v, want %+v", got, e)
	}
	if (Entity{}).IsZero() != true {
		t.Fatal("zero entity must report IsZero")
	}
	if e.IsZero() {
		t.Fatal("live entity must not report IsZero")
	}
}
