// Package engine implements the game loop driver: it owns the entity store,
// the physics world and backend, the fixed-timestep scheduler, the input
// queue and the deterministic RNG, and advances them as one unit.
//
// The whole simulation core runs on a single goroutine per engine instance.
// All engine state lives in this explicit context; there are no package-level
// singletons.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-engine/internal/clock"
	"github.com/vovakirdan/arcade-engine/internal/core"
	"github.com/vovakirdan/arcade-engine/internal/ecs"
	"github.com/vovakirdan/arcade-engine/internal/input"
	"github.com/vovakirdan/arcade-engine/internal/physics"
	"github.com/vovakirdan/arcade-engine/internal/render"
	"github.com/vovakirdan/arcade-engine/internal/replay"
)

// Control is the per-tick signal returned to the platform loop. Exit is the
// only cancellation mechanism: a fixed step either completes or the run has
// failed fatally.
type Control int

const (
	Continue Control = iota
	Exit
)

// System is one simulation system, invoked once per fixed step. Systems run
// in a fixed declared order: input-reactive, then behavior, then rules, with
// the physics advance and ECS mirroring between the first two. A returned
// error is fatal.
type System func(ctx *Context) error

// RenderFunc emits drawing commands once per rendered frame, after all due
// fixed steps. alpha is the leftover accumulator fraction, for interpolation
// only; it must never feed back into simulation state.
type RenderFunc func(ctx *Context, alpha float64, frame *render.Frame)

// StateProbe contributes scenario-owned state (scores, phase flags) to the
// engine's per-step state hash.
type StateProbe func(h *replay.Hasher)

// Context is the view of the engine handed to systems for one fixed step.
type Context struct {
	Store  *ecs.Store
	World  *physics.World
	RNG    *RNG
	Events []input.Event // this step's input batch, timestamp-ordered
	DT     time.Duration
	Step   uint64
	Cfg    core.RuntimeConfig

	engine *Engine
}

// Exit requests loop teardown after the current tick completes.
func (c *Context) Exit() {
	c.engine.exitRequested = true
}

// Diag records a degraded-mode event from scenario code.
func (c *Context) Diag() *Diagnostics {
	return c.engine.diag
}

// Engine is the top-level composition of the simulation core.
type Engine struct {
	cfg    core.RuntimeConfig
	logger *log.Logger

	store   *ecs.Store
	world   *physics.World
	caps    physics.Capabilities
	backend physics.Backend
	sched   *clock.Scheduler
	queue   *input.Queue
	rng     *RNG
	diag    *Diagnostics

	gravity core.Vec2

	inputSystems    []System
	behaviorSystems []System
	ruleSystems     []System
	renderers       []RenderFunc
	probes          []StateProbe

	recorder *replay.Recorder

	step          uint64
	exitRequested bool
	fatal         error
}

// New creates an engine from the given configuration. Backend selection runs
// exactly once here; the chosen backend is stored and only replaced on forced
// downgrade. A nil logger is allowed.
func New(cfg core.RuntimeConfig, logger *log.Logger) *Engine {
	def := core.DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.FixedDT <= 0 {
		cfg.FixedDT = def.FixedDT
	}
	if cfg.MaxStepsPerTick <= 0 {
		cfg.MaxStepsPerTick = def.MaxStepsPerTick
	}
	if cfg.SolverIterations <= 0 {
		cfg.SolverIterations = def.SolverIterations
	}
	if cfg.InputQueueCap <= 0 {
		cfg.InputQueueCap = def.InputQueueCap
	}

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		store:  ecs.NewStore(),
		world:  physics.NewWorld(),
		sched:  clock.NewScheduler(cfg.FixedDT, cfg.MaxStepsPerTick),
		rng:    NewRNG(uint64(cfg.Seed)),
	}
	e.diag = NewDiagnostics(logger)
	e.queue = input.NewQueue(cfg.InputQueueCap, func(ev input.Event) {
		e.diag.Record(DiagInputQueueOverflow, e.step,
			fmt.Sprintf("dropped %s at ts=%d", ev.Kind, ev.Timestamp))
	})

	e.caps = physics.Detect()
	e.backend = physics.Select(e.caps)
	if logger != nil {
		logger.Info("physics backend selected", "tier", e.backend.Tier())
	}
	return e
}

// SetCapabilities overrides probed capabilities and reselects the backend.
// Used by the platform layer to install a GPU dispatcher, and by tests.
func (e *Engine) SetCapabilities(caps physics.Capabilities) {
	e.caps = caps
	e.backend = physics.Select(caps)
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() core.RuntimeConfig {
	return e.cfg
}

// Store returns the entity store.
func (e *Engine) Store() *ecs.Store {
	return e.store
}

// World returns the physics world.
func (e *Engine) World() *physics.World {
	return e.world
}

// RNG returns the deterministic random source.
func (e *Engine) RNG() *RNG {
	return e.rng
}

// Diagnostics returns the degraded-mode telemetry stream.
func (e *Engine) Diagnostics() *Diagnostics {
	return e.diag
}

// BackendTier reports the currently active physics tier.
func (e *Engine) BackendTier() physics.Tier {
	return e.backend.Tier()
}

// Step reports how many fixed steps have run.
func (e *Engine) Step() uint64 {
	return e.step
}

// SetGravity sets the global gravity vector applied by the physics backend.
func (e *Engine) SetGravity(g core.Vec2) {
	e.gravity = g
}

// OnInput registers an input-reactive system.
func (e *Engine) OnInput(s System) {
	e.inputSystems = append(e.inputSystems, s)
}

// OnBehavior registers a behavior (AI) system, run after the physics mirror.
func (e *Engine) OnBehavior(s System) {
	e.behaviorSystems = append(e.behaviorSystems, s)
}

// OnRules registers a score/win-condition system, run last in each step.
func (e *Engine) OnRules(s System) {
	e.ruleSystems = append(e.ruleSystems, s)
}

// OnRender registers a variable-rate render command emitter.
func (e *Engine) OnRender(r RenderFunc) {
	e.renderers = append(e.renderers, r)
}

// AddStateProbe registers scenario state with the per-step hash.
func (e *Engine) AddStateProbe(p StateProbe) {
	e.probes = append(e.probes, p)
}

// SpawnWithBody spawns an entity backed by a physics body, wiring the
// index-based references in both directions and attaching the mirror
// components.
func (e *Engine) SpawnWithBody(b physics.Body) (ecs.Entity, physics.BodyID) {
	ent := e.store.Spawn()
	b.Owner = ent.Handle()
	id := e.world.AddBody(b)
	_ = ecs.Add(e.store, ent, Position{Pos: b.Pos})
	_ = ecs.Add(e.store, ent, Velocity{Vel: b.Vel})
	_ = ecs.Add(e.store, ent, BodyRef{ID: id})
	return ent, id
}

// PushInput enqueues a platform input event. Non-blocking; on overflow the
// oldest event is dropped and recorded as a diagnostic.
func (e *Engine) PushInput(ev input.Event) {
	e.queue.Push(ev)
}

// StartRecording begins capturing a replay trace from the engine's seed.
// Must be called before the first step so the trace reproduces the whole run.
func (e *Engine) StartRecording() error {
	if e.step != 0 {
		return fmt.Errorf("engine: recording must start at step 0, not %d", e.step)
	}
	e.recorder = replay.NewRecorder(uint64(e.cfg.Seed))
	return nil
}

// StopRecording seals and returns the recorded trace.
func (e *Engine) StopRecording() *replay.Trace {
	if e.recorder == nil {
		return nil
	}
	t := e.recorder.End()
	e.recorder = nil
	return t
}

// Tick advances the engine by one real-time frame: drain due input, run all
// elapsed fixed steps, then emit one render frame using the leftover
// accumulator fraction for interpolation. Fatal errors freeze the world at
// its last-known-good state and are returned to the caller; no panics escape
// the simulation core.
func (e *Engine) Tick(frameDT time.Duration) (Control, render.Frame, error) {
	if e.fatal != nil {
		return Exit, nil, e.fatal
	}

	res, err := e.sched.Advance(frameDT, func(dt time.Duration) error {
		return e.stepOnce(nil, false, dt)
	})
	if err != nil {
		e.fatal = err
		return Exit, nil, err
	}
	if res.Capped {
		e.diag.Record(DiagFrameBudgetExceeded, e.step,
			fmt.Sprintf("discarded %v of accumulated time", res.Discarded))
	}
	if e.exitRequested {
		return Exit, nil, nil
	}
	return Continue, e.renderFrame(), nil
}

// stepOnce advances the simulation by exactly one fixed step. For live ticks
// the input batch is drained from the queue using the step's time window; the
// replay path supplies the recorded batch instead.
func (e *Engine) stepOnce(forced []input.Event, replaying bool, dt time.Duration) error {
	var events []input.Event
	if replaying {
		events = forced
	} else {
		deadline := (time.Duration(e.step+1) * e.cfg.FixedDT).Milliseconds()
		events = e.queue.DrainThrough(deadline)
	}

	ctx := &Context{
		Store:  e.store,
		World:  e.world,
		RNG:    e.rng,
		Events: events,
		DT:     dt,
		Step:   e.step,
		Cfg:    e.cfg,
		engine: e,
	}

	for _, s := range e.inputSystems {
		if err := s(ctx); err != nil {
			return err
		}
	}

	if err := e.advancePhysics(dt); err != nil {
		return err
	}
	e.mirrorPhysics()

	for _, s := range e.behaviorSystems {
		if err := s(ctx); err != nil {
			return err
		}
	}
	for _, s := range e.ruleSystems {
		if err := s(ctx); err != nil {
			return err
		}
	}

	e.step++

	if e.recorder != nil {
		if err := e.recorder.RecordStep(events, e.StateHash()); err != nil {
			return err
		}
	}
	return nil
}

// advancePhysics runs one backend step. When the backend reports itself
// unavailable the step is retried from the pre-step snapshot on the next
// lower tier, so replay-visible history is unchanged; the downgrade is
// recorded as a non-fatal diagnostic. Divergence is fatal: the pre-step
// state is restored and the error propagates.
func (e *Engine) advancePhysics(dt time.Duration) error {
	snapshot := e.world.Clone()

	err := e.backend.Step(e.world, dt, e.gravity, e.cfg.SolverIterations)
	for err != nil && errors.Is(err, physics.ErrBackendUnavailable) {
		lower, ok := physics.Downgrade(e.backend, e.caps)
		if !ok {
			e.world.Restore(snapshot)
			return fmt.Errorf("engine: no backend below %s: %w", e.backend.Tier(), err)
		}
		e.world.Restore(snapshot)
		e.diag.Record(DiagBackendDowngraded, e.step,
			fmt.Sprintf("%s -> %s", e.backend.Tier(), lower.Tier()))
		e.backend = lower
		err = e.backend.Step(e.world, dt, e.gravity, e.cfg.SolverIterations)
	}
	if err != nil {
		e.world.Restore(snapshot)
		return fmt.Errorf("engine: step %d: %w", e.step, err)
	}
	return nil
}

// mirrorPhysics copies body positions and velocities into the owning
// entities' ECS components, once per step, in view order.
func (e *Engine) mirrorPhysics() {
	v := ecs.Query3[BodyRef, Position, Velocity](e.store)
	for v.Next() {
		ref, pos, vel := v.Get()
		b := e.world.Body(ref.ID)
		pos.Pos = b.Pos
		vel.Vel = b.Vel
	}
}

// StateHash computes the deterministic hash of the current world state:
// step count, RNG stream position, quantized body state in index order, and
// all registered scenario probes. Quantization tolerates legitimate
// cross-backend rounding without masking real divergence.
func (e *Engine) StateHash() uint64 {
	h := replay.NewHasher()
	h.WriteUint64(e.step)
	h.WriteUint64(e.rng.State())
	for _, b := range e.world.Bodies() {
		h.WriteFloat(b.Pos.X)
		h.WriteFloat(b.Pos.Y)
		h.WriteFloat(b.Vel.X)
		h.WriteFloat(b.Vel.Y)
		h.WriteUint64(b.Owner)
	}
	for _, p := range e.probes {
		p(h)
	}
	return h.Sum()
}

// ReplayStep advances one fixed step using a recorded input batch and
// returns the resulting state hash. Used by the replay verifier.
func (e *Engine) ReplayStep(events []input.Event) (uint64, error) {
	if err := e.stepOnce(events, true, e.cfg.FixedDT); err != nil {
		e.fatal = err
		return 0, err
	}
	return e.StateHash(), nil
}

// renderFrame runs the variable-rate emitters once.
func (e *Engine) renderFrame() render.Frame {
	frame := render.Frame{render.Clear{Color: render.ColorBlack}}
	ctx := &Context{
		Store:  e.store,
		World:  e.world,
		RNG:    e.rng,
		DT:     e.cfg.FixedDT,
		Step:   e.step,
		Cfg:    e.cfg,
		engine: e,
	}
	alpha := e.sched.Alpha()
	for _, r := range e.renderers {
		r(ctx, alpha, &frame)
	}
	if e.cfg.DebugOverlay {
		frame = append(frame, render.Text{
			X: 4, Y: 12, Size: 10, Color: render.ColorGray,
			S: fmt.Sprintf("step=%d backend=%s alpha=%.2f", e.step, e.backend.Tier(), alpha),
		})
	}
	return frame
}
