// Package pong implements a ball-and-paddle scenario with a CPU opponent.
// The player controls the left paddle, the CPU controls the right paddle.
// All state advances through the engine's fixed steps; the scenario itself
// holds only scores, phase, and the CPU controller.
package pong

import (
	"github.com/vovakirdan/arcade-engine/internal/aiprofile"
	"github.com/vovakirdan/arcade-engine/internal/config"
	"github.com/vovakirdan/arcade-engine/internal/core"
	"github.com/vovakirdan/arcade-engine/internal/engine"
	"github.com/vovakirdan/arcade-engine/internal/input"
	"github.com/vovakirdan/arcade-engine/internal/physics"
	"github.com/vovakirdan/arcade-engine/internal/registry"
	"github.com/vovakirdan/arcade-engine/internal/replay"
)

// Player key codes, matching the platform's key event mapping.
const (
	KeyW = 'W'
	KeyS = 'S'
)

// Phase is the scenario's state machine.
type Phase int

const (
	// Serving holds the ball at center for ServeDelay steps.
	Serving Phase = iota
	// Playing is normal rally play.
	Playing
	// Over means a side reached the win score; the simulation keeps
	// stepping but the ball stays frozen.
	Over
)

// Scenario implements registry.Scenario.
type Scenario struct {
	cfg     config.PongConfig
	weights aiprofile.Weights

	ball    physics.BodyID
	player  physics.BodyID
	cpuBody physics.BodyID

	score1 int // player (left)
	score2 int // CPU (right)
	winner int // 1 or 2, set when phase == Over

	phase      Phase
	serveDelay int
	server     int // side that receives the next serve

	cpu cpuController
}

// New creates the scenario with the given tuning. Weights drive the CPU
// paddle; see aiprofile.
func New(cfg config.PongConfig, weights aiprofile.Weights) *Scenario {
	return &Scenario{cfg: cfg, weights: weights}
}

// NewDefault builds the scenario from embedded defaults and the built-in
// normal difficulty tier.
func NewDefault() *Scenario {
	w, _ := aiprofile.Default().Tier("normal")
	return New(config.DefaultPongConfig(), w)
}

// SetWeights replaces the CPU tuning. Must be called before Install.
func (s *Scenario) SetWeights(w aiprofile.Weights) {
	s.weights = w
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "pong"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Pong"
}

// Scores returns the player and CPU scores.
func (s *Scenario) Scores() (int, int) {
	return s.score1, s.score2
}

// CurrentPhase returns the current phase of the match.
func (s *Scenario) CurrentPhase() Phase {
	return s.phase
}

// Winner returns 1 or 2 once the match is over, else 0.
func (s *Scenario) Winner() int {
	return s.winner
}

// Install wires the court, the ball, both paddles and all systems into the
// engine. Called once before the first tick.
func (s *Scenario) Install(e *engine.Engine) error {
	w := float64(e.Config().Width)
	h := float64(e.Config().Height)

	// Top and bottom walls. Left and right edges stay open: crossing them
	// is a goal, handled by the rules system.
	e.SpawnWithBody(physics.Body{
		Pos:         core.Vec2{X: w / 2, Y: -10},
		Restitution: 1,
		Shape:       physics.BoxShape(w, 20),
	})
	e.SpawnWithBody(physics.Body{
		Pos:         core.Vec2{X: w / 2, Y: h + 10},
		Restitution: 1,
		Shape:       physics.BoxShape(w, 20),
	})

	_, s.ball = e.SpawnWithBody(physics.Body{
		Pos:         core.Vec2{X: w / 2, Y: h / 2},
		InvMass:     1,
		Restitution: 1,
		Shape:       physics.CircleShape(s.cfg.Physics.BallRadius),
	})

	// Paddles are kinematic: zero inverse mass, moved by setting velocity.
	_, s.player = e.SpawnWithBody(physics.Body{
		Pos:         core.Vec2{X: s.cfg.Paddles.Offset, Y: h / 2},
		Restitution: 1,
		Shape:       physics.BoxShape(s.cfg.Paddles.Width, s.cfg.Paddles.Height),
	})
	_, s.cpuBody = e.SpawnWithBody(physics.Body{
		Pos:         core.Vec2{X: w - s.cfg.Paddles.Offset, Y: h / 2},
		Restitution: 1,
		Shape:       physics.BoxShape(s.cfg.Paddles.Width, s.cfg.Paddles.Height),
	})

	s.phase = Serving
	s.serveDelay = s.cfg.Gameplay.ServeDelay
	s.server = 1
	s.cpu = newCPUController(s.weights)

	e.OnInput(s.readPlayerInput)
	e.OnBehavior(s.driveCPU)
	e.OnRules(s.applyRules)
	e.OnRender(s.emitFrame)
	e.AddStateProbe(s.probe)
	return nil
}

// readPlayerInput maps key events onto the player paddle's velocity.
func (s *Scenario) readPlayerInput(ctx *engine.Context) error {
	b := ctx.World.Body(s.player)
	for _, ev := range ctx.Events {
		switch ev.Kind {
		case input.KeyDown:
			switch ev.Code {
			case KeyW:
				b.Vel.Y = -s.cfg.Physics.PaddleSpeed
			case KeyS:
				b.Vel.Y = s.cfg.Physics.PaddleSpeed
			}
		case input.KeyUp:
			if ev.Code == KeyW || ev.Code == KeyS {
				b.Vel.Y = 0
			}
		}
	}
	return nil
}

// driveCPU advances the CPU controller and applies its output to the right
// paddle.
func (s *Scenario) driveCPU(ctx *engine.Context) error {
	if s.phase == Over {
		ctx.World.Body(s.cpuBody).Vel.Y = 0
		return nil
	}
	ball := ctx.World.Body(s.ball)
	paddle := ctx.World.Body(s.cpuBody)
	paddle.Vel.Y = s.cpu.track(ball, paddle, ctx.RNG, ctx.DT.Seconds())
	return nil
}

// applyRules runs after physics each step: serve countdown, paddle bounds,
// ball speed clamp, goals and the win condition.
func (s *Scenario) applyRules(ctx *engine.Context) error {
	w := float64(ctx.Cfg.Width)
	h := float64(ctx.Cfg.Height)
	ball := ctx.World.Body(s.ball)

	s.clampPaddle(ctx.World.Body(s.player), h)
	s.clampPaddle(ctx.World.Body(s.cpuBody), h)

	switch s.phase {
	case Serving:
		ball.Pos = core.Vec2{X: w / 2, Y: h / 2}
		ball.Vel = core.Vec2{}
		s.serveDelay--
		if s.serveDelay <= 0 {
			s.serve(ctx, ball)
			s.phase = Playing
		}

	case Playing:
		s.clampBallSpeed(ball)
		if ball.Pos.X < 0 {
			s.goalAgainst(1, ball, w, h)
		} else if ball.Pos.X > w {
			s.goalAgainst(2, ball, w, h)
		}

	case Over:
		ball.Pos = core.Vec2{X: w / 2, Y: h / 2}
		ball.Vel = core.Vec2{}
	}
	return nil
}

// serve launches the ball toward the serving side at a deterministic,
// seed-dependent angle.
func (s *Scenario) serve(ctx *engine.Context, ball *physics.Body) {
	speed := s.cfg.Physics.BallSpeed
	dir := 1.0
	if s.server == 1 {
		dir = -1.0
	}
	// Vertical component in [-0.3, 0.3] of the serve speed.
	angle := (ctx.RNG.Float64() - 0.5) * 0.6
	ball.Vel = core.Vec2{X: dir * speed, Y: speed * angle}
}

// goalAgainst scores a point against the given side and resets for the next
// serve, or ends the match at the win score.
func (s *Scenario) goalAgainst(side int, ball *physics.Body, w, h float64) {
	if side == 1 {
		s.score2++
	} else {
		s.score1++
	}
	ball.Pos = core.Vec2{X: w / 2, Y: h / 2}
	ball.Vel = core.Vec2{}

	winScore := s.cfg.Gameplay.WinScore
	switch {
	case s.score1 >= winScore:
		s.phase = Over
		s.winner = 1
	case s.score2 >= winScore:
		s.phase = Over
		s.winner = 2
	default:
		s.phase = Serving
		s.serveDelay = s.cfg.Gameplay.ServeDelay
		s.server = side
	}
}

// clampPaddle keeps a kinematic paddle inside the court, stopping it at the
// walls.
func (s *Scenario) clampPaddle(b *physics.Body, h float64) {
	half := s.cfg.Paddles.Height / 2
	if b.Pos.Y < half {
		b.Pos.Y = half
		b.Vel.Y = 0
	}
	if b.Pos.Y > h-half {
		b.Pos.Y = h - half
		b.Vel.Y = 0
	}
}

// clampBallSpeed caps rally speed so restitution cannot run away.
func (s *Scenario) clampBallSpeed(b *physics.Body) {
	maxSpeed := s.cfg.Physics.MaxBallSpeed
	if sp := b.Vel.Len(); sp > maxSpeed {
		b.Vel = b.Vel.Scale(maxSpeed / sp)
	}
}

// probe feeds the scenario's own state into the engine's per-step hash so
// replay verification covers scores and phase, not just physics.
func (s *Scenario) probe(h *replay.Hasher) {
	h.WriteInt64(int64(s.score1))
	h.WriteInt64(int64(s.score2))
	h.WriteInt64(int64(s.phase))
	h.WriteInt64(int64(s.serveDelay))
	h.WriteInt64(int64(s.server))
	h.WriteInt64(int64(s.winner))
	s.cpu.probe(h)
}

// Register the scenario with the registry
func init() {
	registry.Register("pong", func() registry.Scenario {
		return NewDefault()
	})
}
