package physics

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

const fixedDT = time.Second / 60

// buildArena creates a small deterministic scene: four static walls and a
// handful of dynamic balls with distinct velocities.
func buildArena() *World {
	w := NewWorld()

	// Walls enclosing a 800x600 playfield.
	w.AddBody(Body{Pos: core.Vec2{X: 400, Y: -10}, Shape: BoxShape(800, 20)})
	w.AddBody(Body{Pos: core.Vec2{X: 400, Y: 610}, Shape: BoxShape(800, 20)})
	w.AddBody(Body{Pos: core.Vec2{X: -10, Y: 300}, Shape: BoxShape(20, 600)})
	w.AddBody(Body{Pos: core.Vec2{X: 810, Y: 300}, Shape: BoxShape(20, 600)})

	for i := 0; i < 8; i++ {
		fi := float64(i)
		w.AddBody(Body{
			Pos:         core.Vec2{X: 100 + 70*fi, Y: 150 + 30*fi},
			Vel:         core.Vec2{X: 120 - 25*fi, Y: -80 + 19*fi},
			InvMass:     1,
			Restitution: 0.9,
			Friction:    0.2,
			Shape:       CircleShape(10),
		})
	}
	return w
}

func runSteps(t *testing.T, w *World, b Backend, steps int) {
	t.Helper()
	gravity := core.Vec2{Y: 98}
	for i := 0; i < steps; i++ {
		if err := b.Step(w, fixedDT, gravity, 8); err != nil {
			t.Fatalf("%s step %d failed: %v", b.Tier(), i, err)
		}
	}
}

func TestCrossBackendEquivalence(t *testing.T) {
	const steps = 1000
	const tolerance = 1e-4

	scalarWorld := buildArena()
	simdWorld := buildArena()

	runSteps(t, scalarWorld, &scalarBackend{}, steps)
	runSteps(t, simdWorld, &simdBackend{}, steps)

	for i := range scalarWorld.Bodies() {
		a := scalarWorld.Body(BodyID(i))
		b := simdWorld.Body(BodyID(i))
		if math.Abs(a.Pos.X-b.Pos.X) > tolerance || math.Abs(a.Pos.Y-b.Pos.Y) > tolerance {
			t.Fatalf("body %d diverged after %d steps: scalar=%v simd=%v", i, steps, a.Pos, b.Pos)
		}
	}
}

func TestBackendDeterminism(t *testing.T) {
	// Two independent runs of the same backend must be bit-identical.
	for _, b := range []Backend{&scalarBackend{}, &simdBackend{}} {
		w1 := buildArena()
		w2 := buildArena()
		runSteps(t, w1, b, 500)
		runSteps(t, w2, b, 500)
		for i := range w1.Bodies() {
			if *w1.Body(BodyID(i)) != *w2.Body(BodyID(i)) {
				t.Fatalf("%s: body %d differs between identical runs", b.Tier(), i)
			}
		}
	}
}

func TestNoNaNPropagation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := &scalarBackend{}
	gravity := core.Vec2{Y: 98}

	for iter := 0; iter < 10000; iter++ {
		w := NewWorld()
		n := 2 + rng.Intn(4)
		for i := 0; i < n; i++ {
			mass := 0.1 + rng.Float64()*10
			shape := CircleShape(0.5 + rng.Float64()*20)
			if rng.Intn(2) == 0 {
				shape = BoxShape(1+rng.Float64()*40, 1+rng.Float64()*40)
			}
			w.AddBody(Body{
				Pos:         core.Vec2{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000},
				Vel:         core.Vec2{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000},
				InvMass:     1 / mass,
				Restitution: rng.Float64(),
				Friction:    rng.Float64(),
				Shape:       shape,
			})
		}
		if err := b.Step(w, fixedDT, gravity, 8); err != nil {
			t.Fatalf("iteration %d: finite input produced %v", iter, err)
		}
	}
}

func TestDivergenceDetected(t *testing.T) {
	w := NewWorld()
	w.AddBody(Body{Pos: core.Vec2{X: math.NaN()}, InvMass: 1, Shape: CircleShape(1)})
	b := &scalarBackend{}
	err := b.Step(w, fixedDT, core.Vec2{}, 8)
	if !errors.Is(err, ErrDivergence) {
		t.Fatalf("expected ErrDivergence, got %v", err)
	}
}

func TestBroadPhaseFindsNeighbors(t *testing.T) {
	w := NewWorld()
	// Two overlapping circles and one far away.
	w.AddBody(Body{Pos: core.Vec2{X: 0, Y: 0}, InvMass: 1, Shape: CircleShape(5)})
	w.AddBody(Body{Pos: core.Vec2{X: 6, Y: 0}, InvMass: 1, Shape: CircleShape(5)})
	w.AddBody(Body{Pos: core.Vec2{X: 500, Y: 500}, InvMass: 1, Shape: CircleShape(5)})

	pairs := broadPhasePairs(w.Bodies())
	if len(pairs) != 1 || pairs[0] != [2]int32{0, 1} {
		t.Fatalf("unexpected candidate pairs: %v", pairs)
	}
}

func TestBroadPhaseBoundaryStraddle(t *testing.T) {
	w := NewWorld()
	// Bodies whose AABBs straddle a cell boundary must still be paired.
	w.AddBody(Body{Pos: core.Vec2{X: 9.5, Y: 0}, InvMass: 1, Shape: CircleShape(1)})
	w.AddBody(Body{Pos: core.Vec2{X: 10.5, Y: 0}, InvMass: 1, Shape: CircleShape(1)})

	pairs := broadPhasePairs(w.Bodies())
	if len(pairs) != 1 {
		t.Fatalf("straddling bodies not paired: %v", pairs)
	}
}

func TestRestitutionBounce(t *testing.T) {
	w := NewWorld()
	w.AddBody(Body{Pos: core.Vec2{X: 0, Y: 10}, Restitution: 1.0, Shape: BoxShape(100, 20)}) // floor
	ball := w.AddBody(Body{
		Pos:         core.Vec2{X: 0, Y: -5},
		Vel:         core.Vec2{Y: 50},
		InvMass:     1,
		Restitution: 1.0,
		Shape:       CircleShape(5),
	})

	b := &scalarBackend{}
	for i := 0; i < 10; i++ {
		if err := b.Step(w, fixedDT, core.Vec2{}, 8); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if w.Body(ball).Vel.Y >= 0 {
		t.Fatalf("ball did not bounce: vel=%v", w.Body(ball).Vel)
	}
}

// failingDispatcher simulates a lost GPU context.
type failingDispatcher struct{}

func (failingDispatcher) DispatchIntegrate([]float32, float32, float32, float32) error {
	return errors.New("device lost")
}

// cpuDispatcher runs the integration kernel on the CPU in float32, standing
// in for the WebGPU compute pass in native tests.
type cpuDispatcher struct{}

func (cpuDispatcher) DispatchIntegrate(data []float32, dt, gx, gy float32) error {
	for o := 0; o+gpuFloatsPerBody <= len(data); o += gpuFloatsPerBody {
		if data[o+4] != 0 {
			data[o+2] += gx * dt
			data[o+3] += gy * dt
		}
		data[o+0] += data[o+2] * dt
		data[o+1] += data[o+3] * dt
	}
	return nil
}

func TestGPUBackendUnavailable(t *testing.T) {
	w := buildArena()
	g := &gpuBackend{d: failingDispatcher{}}
	err := g.Step(w, fixedDT, core.Vec2{Y: 98}, 8)
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	// The dispatcher's own failure reason must survive the wrap.
	if !strings.Contains(err.Error(), "device lost") {
		t.Fatalf("dispatcher error dropped from: %v", err)
	}

	none := &gpuBackend{}
	if err := none.Step(w, fixedDT, core.Vec2{}, 8); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable without dispatcher, got %v", err)
	}
}

func TestGPUBackendEquivalence(t *testing.T) {
	// float32 round-tripping legitimately reorders rounding; a short run must
	// still stay close to the scalar reference.
	const steps = 100
	const tolerance = 1e-2

	scalarWorld := buildArena()
	gpuWorld := buildArena()

	runSteps(t, scalarWorld, &scalarBackend{}, steps)
	runSteps(t, gpuWorld, &gpuBackend{d: cpuDispatcher{}}, steps)

	for i := range scalarWorld.Bodies() {
		a := scalarWorld.Body(BodyID(i))
		b := gpuWorld.Body(BodyID(i))
		if math.Abs(a.Pos.X-b.Pos.X) > tolerance || math.Abs(a.Pos.Y-b.Pos.Y) > tolerance {
			t.Fatalf("body %d diverged: scalar=%v gpu=%v", i, a.Pos, b.Pos)
		}
	}
}

func TestSelectAndDowngrade(t *testing.T) {
	if got := Select(Capabilities{}); got.Tier() != TierScalar {
		t.Fatalf("empty capabilities selected %v", got.Tier())
	}
	if got := Select(Capabilities{SIMD128: true}); got.Tier() != TierSIMD128 {
		t.Fatalf("simd capabilities selected %v", got.Tier())
	}
	// GPU flag without a dispatcher must fail soft to the next tier.
	if got := Select(Capabilities{GPU: true, SIMD128: true}); got.Tier() != TierSIMD128 {
		t.Fatalf("gpu without dispatcher selected %v", got.Tier())
	}
	caps := Capabilities{GPU: true, SIMD128: true, Dispatcher: cpuDispatcher{}}
	got := Select(caps)
	if got.Tier() != TierGPUCompute {
		t.Fatalf("full capabilities selected %v", got.Tier())
	}

	lower, ok := Downgrade(got, caps)
	if !ok || lower.Tier() != TierSIMD128 {
		t.Fatalf("downgrade from gpu gave %v, %v", lower, ok)
	}
	floor, ok := Downgrade(lower, caps)
	if !ok || floor.Tier() != TierScalar {
		t.Fatalf("downgrade from simd gave %v, %v", floor, ok)
	}
	if _, ok := Downgrade(floor, caps); ok {
		t.Fatal("scalar tier must be the floor")
	}
}
