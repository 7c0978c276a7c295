package main

import (
	"testing"

	"github.com/vovakirdan/arcade-engine/internal/input"
	"github.com/vovakirdan/arcade-engine/internal/replay"
)

// setTierFlags pins the engine-shaping flags for one test and restores them
// afterwards.
func setTierFlags(t *testing.T, seed int64, difficulty string) {
	t.Helper()
	prevSeed, prevDiff := flagSeed, flagDifficulty
	prevProf, prevCfg := flagProfile, flagConfig
	flagSeed, flagDifficulty, flagProfile, flagConfig = seed, difficulty, "", ""
	t.Cleanup(func() {
		flagSeed, flagDifficulty, flagProfile, flagConfig = prevSeed, prevDiff, prevProf, prevCfg
	})
}

func TestReplayAcceptsOpponentFlags(t *testing.T) {
	// Every flag that shapes the rebuilt engine during run must also exist on
	// replay, otherwise traces recorded with it can never verify.
	for _, name := range []string{"difficulty", "profile", "scenario"} {
		if replayCmd.Flags().Lookup(name) == nil {
			t.Fatalf("replay command is missing the --%s flag", name)
		}
	}
}

func TestNonDefaultTierRoundTrip(t *testing.T) {
	logger := newLogger()

	setTierFlags(t, 42, "hard")
	rec, _, err := buildEngine("pong", logger)
	if err != nil {
		t.Fatalf("build recording engine: %v", err)
	}
	if err := rec.StartRecording(); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	if _, err := driveSteps(rec, 240); err != nil {
		t.Fatalf("recorded run failed: %v", err)
	}
	trace := rec.StopRecording()

	// Rebuilt with the tier it was recorded under, the trace must reproduce.
	ver, _, err := buildEngine("pong", logger)
	if err != nil {
		t.Fatalf("build verifying engine: %v", err)
	}
	res, err := replay.Verify(trace, func(step int, events []input.Event) (uint64, error) {
		return ver.ReplayStep(events)
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !res.HashesMatch {
		t.Fatalf("same-tier replay diverged at step %d", res.MismatchStep)
	}

	// A different tier is a different opponent; verification must notice.
	setTierFlags(t, 42, "normal")
	other, _, err := buildEngine("pong", logger)
	if err != nil {
		t.Fatalf("build mismatched engine: %v", err)
	}
	res, err = replay.Verify(trace, func(step int, events []input.Event) (uint64, error) {
		return other.ReplayStep(events)
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if res.HashesMatch {
		t.Fatal("replay under a different tier reproduced the trace")
	}
}
