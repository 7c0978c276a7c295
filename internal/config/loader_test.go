package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddedEngineDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := LoadEngine("")
	if err != nil {
		t.Fatalf("load default engine config: %v", err)
	}
	if cfg != DefaultEngineConfig() {
		t.Fatalf("embedded defaults drifted from hardcoded: %+v vs %+v",
			cfg, DefaultEngineConfig())
	}
}

func TestLoadEngineCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	body := `
display:
  width: 1024
  height: 768
simulation:
  fixed_dt: 8333333ns
  max_steps_per_tick: 10
  solver_iterations: 4
  seed: 99
input:
  queue_capacity: 64
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("load custom config: %v", err)
	}
	if cfg.Display.Width != 1024 || cfg.Display.Height != 768 {
		t.Fatalf("display not loaded: %+v", cfg.Display)
	}
	if cfg.Simulation.FixedDT.Duration != 8333333*time.Nanosecond {
		t.Fatalf("fixed_dt = %v, want 8333333ns", cfg.Simulation.FixedDT.Duration)
	}
	if cfg.Simulation.Seed != 99 {
		t.Fatalf("seed = %d, want 99", cfg.Simulation.Seed)
	}

	rt := cfg.ToRuntime()
	if rt.Width != 1024 || rt.FixedDT != 8333333*time.Nanosecond || rt.InputQueueCap != 64 {
		t.Fatalf("runtime conversion wrong: %+v", rt)
	}
}

func TestLoadEngineRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	body := `
display:
  width: 0
  height: 600
simulation:
  fixed_dt: 16666666ns
  max_steps_per_tick: 5
  solver_iterations: 8
input:
  queue_capacity: 1024
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEngine(path); err == nil {
		t.Fatal("zero display width accepted")
	}
}

func TestLoadEngineMissingCustomPath(t *testing.T) {
	if _, err := LoadEngine("/nonexistent/engine.yaml"); err == nil {
		t.Fatal("missing custom path accepted")
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := Duration{time.Second / 60}
	out, err := d.MarshalYAML()
	if err != nil {
		t.Fatal(err)
	}
	if out != "16.666666ms" {
		t.Fatalf("marshal = %q", out)
	}

	var back Duration
	err = back.UnmarshalYAML(func(v interface{}) error {
		*(v.(*string)) = "16.666666ms"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if back.Duration != d.Duration {
		t.Fatalf("round trip lost precision: %v vs %v", back.Duration, d.Duration)
	}
}

func TestLoadPongDefaults(t *testing.T) {
	cfg, err := LoadPong("")
	if err != nil {
		t.Fatalf("load default pong config: %v", err)
	}
	if cfg != DefaultPongConfig() {
		t.Fatalf("embedded pong defaults drifted: %+v vs %+v", cfg, DefaultPongConfig())
	}
	if cfg.Gameplay.WinScore != 5 {
		t.Fatalf("win_score = %d", cfg.Gameplay.WinScore)
	}
}
