package pong

import (
	"testing"

	"github.com/vovakirdan/arcade-engine/internal/aiprofile"
	"github.com/vovakirdan/arcade-engine/internal/config"
	"github.com/vovakirdan/arcade-engine/internal/core"
	"github.com/vovakirdan/arcade-engine/internal/engine"
	"github.com/vovakirdan/arcade-engine/internal/input"
	"github.com/vovakirdan/arcade-engine/internal/registry"
)

func newMatch(t *testing.T, seed int64) (*engine.Engine, *Scenario) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = seed
	e := engine.New(cfg, nil)
	s := NewDefault()
	if err := s.Install(e); err != nil {
		t.Fatalf("install: %v", err)
	}
	return e, s
}

// stepN runs n fixed steps by ticking exactly one fixed dt at a time.
func stepN(t *testing.T, e *engine.Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, _, err := e.Tick(e.Config().FixedDT); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestMatchDeterminism(t *testing.T) {
	// Two independent runs with the same seed and the same scripted input
	// must agree on every piece of observable state.
	script := func(e *engine.Engine) {
		for i := 0; i < 480; i += 6 {
			code := int(KeyW)
			if i%12 == 0 {
				code = KeyS
			}
			ts := int64(i) * 16
			e.PushInput(input.Event{Kind: input.KeyDown, Timestamp: ts, Code: code})
			e.PushInput(input.Event{Kind: input.KeyUp, Timestamp: ts + 8, Code: code})
		}
	}

	e1, s1 := newMatch(t, 12345)
	script(e1)
	stepN(t, e1, 480)

	e2, s2 := newMatch(t, 12345)
	script(e2)
	stepN(t, e2, 480)

	if e1.StateHash() != e2.StateHash() {
		t.Errorf("determinism failed: hashes differ. Run1=%d, Run2=%d", e1.StateHash(), e2.StateHash())
	}
	p1, c1 := s1.Scores()
	p2, c2 := s2.Scores()
	if p1 != p2 || c1 != c2 {
		t.Errorf("determinism failed: scores differ. Run1=%d-%d, Run2=%d-%d", p1, c1, p2, c2)
	}
	if s1.CurrentPhase() != s2.CurrentPhase() {
		t.Errorf("determinism failed: phases differ. Run1=%v, Run2=%v", s1.CurrentPhase(), s2.CurrentPhase())
	}
}

func TestNoInputScenarioStaysValid(t *testing.T) {
	// 300 steps with no input: every step must leave the ball inside the
	// court and both paddles within bounds.
	e, s := newMatch(t, 42)

	w := float64(e.Config().Width)
	h := float64(e.Config().Height)
	ph := s.cfg.Paddles.Height

	for i := 0; i < 300; i++ {
		if _, _, err := e.Tick(e.Config().FixedDT); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}

		ball := e.World().Body(s.ball)
		if ball.Pos.X < 0 || ball.Pos.X > w || ball.Pos.Y < 0 || ball.Pos.Y > h {
			t.Fatalf("step %d: ball out of court at %v", i, ball.Pos)
		}
		for _, id := range []struct {
			name string
			pos  float64
		}{
			{"player", e.World().Body(s.player).Pos.Y},
			{"cpu", e.World().Body(s.cpuBody).Pos.Y},
		} {
			if id.pos < ph/2-1e-9 || id.pos > h-ph/2+1e-9 {
				t.Fatalf("step %d: %s paddle out of bounds at y=%v", i, id.name, id.pos)
			}
		}
	}

	// Rerun and confirm the final state reproduces exactly.
	e2, _ := newMatch(t, 42)
	stepN(t, e2, 300)
	if e.StateHash() != e2.StateHash() {
		t.Fatal("no-input scenario not reproducible")
	}
}

func TestServeWaitsForDelay(t *testing.T) {
	e, s := newMatch(t, 7)
	delay := s.cfg.Gameplay.ServeDelay

	stepN(t, e, delay-1)
	if s.CurrentPhase() != Serving {
		t.Fatalf("phase %v before serve delay elapsed", s.CurrentPhase())
	}
	if v := e.World().Body(s.ball).Vel; v.Len() != 0 {
		t.Fatalf("ball moving during serve: %v", v)
	}

	stepN(t, e, 1)
	if s.CurrentPhase() != Playing {
		t.Fatalf("phase %v after serve delay", s.CurrentPhase())
	}
	if v := e.World().Body(s.ball).Vel; v.Len() == 0 {
		t.Fatal("ball not launched after serve delay")
	}
}

func TestPlayerPaddleRespondsToKeys(t *testing.T) {
	e, s := newMatch(t, 7)

	e.PushInput(input.Event{Kind: input.KeyDown, Timestamp: 0, Code: KeyW})
	stepN(t, e, 30)

	before := e.World().Body(s.player).Pos.Y
	if before >= 300 {
		t.Fatalf("paddle did not move up: y=%v", before)
	}

	e.PushInput(input.Event{Kind: input.KeyUp, Timestamp: 30 * 17, Code: KeyW})
	stepN(t, e, 1)
	held := e.World().Body(s.player).Pos.Y
	stepN(t, e, 10)
	if after := e.World().Body(s.player).Pos.Y; after != held {
		t.Fatalf("paddle kept moving after key release: %v -> %v", held, after)
	}
}

func TestMatchEndsAtWinScore(t *testing.T) {
	// A one-point match with a CPU that cannot move ends on the first goal.
	cfg := config.DefaultPongConfig()
	cfg.Gameplay.WinScore = 1
	cfg.Gameplay.ServeDelay = 1
	frozen := aiprofile.Weights{ReactionTime: 600, TrackingGain: 0, MaxSpeed: 0, Jitter: 0}

	rt := core.DefaultConfig()
	rt.Seed = 9
	e := engine.New(rt, nil)
	s := New(cfg, frozen)
	if err := s.Install(e); err != nil {
		t.Fatalf("install: %v", err)
	}

	for i := 0; i < 5000; i++ {
		if _, _, err := e.Tick(e.Config().FixedDT); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if s.CurrentPhase() == Over {
			break
		}
	}
	if s.CurrentPhase() != Over {
		t.Fatal("match never ended")
	}
	if s.Winner() != 1 && s.Winner() != 2 {
		t.Fatalf("no winner recorded: %d", s.Winner())
	}
	p, c := s.Scores()
	if p != 1 && c != 1 {
		t.Fatalf("winning score missing: %d-%d", p, c)
	}

	// The frozen match keeps simulating without error.
	stepN(t, e, 60)
	if v := e.World().Body(s.ball).Vel; v.Len() != 0 {
		t.Fatalf("ball moving after match end: %v", v)
	}
}

func TestScenarioIsRegistered(t *testing.T) {
	if !registry.Exists("pong") {
		t.Fatal("pong not registered")
	}
	sc, err := registry.Create("pong")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sc.ID() != "pong" || sc.Title() != "Pong" {
		t.Fatalf("metadata wrong: %s / %s", sc.ID(), sc.Title())
	}
}
