package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-engine/internal/aiprofile"
	"github.com/vovakirdan/arcade-engine/internal/config"
	"github.com/vovakirdan/arcade-engine/internal/engine"
	"github.com/vovakirdan/arcade-engine/internal/registry"
	"github.com/vovakirdan/arcade-engine/internal/replay"
)

var (
	flagSteps      int
	flagRecord     string
	flagOut        string
	flagDifficulty string
	flagProfile    string
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario headless for a number of fixed steps",
	Long: `Run a scenario without a renderer, advancing the simulation one fixed
step per tick. Optionally record a replay trace to the database or to a file.

The --difficulty flag selects a tier from the AI profile; --profile loads a
profile YAML instead of the built-in one.

Examples:
  engine run pong
  engine run pong --steps 3600 --seed 42
  engine run pong --record nightly --db ./traces.db
  engine run pong --out trace.json --difficulty hard
  engine run pong --profile tournament.yaml --difficulty hard`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagSteps, "steps", 3600, "Number of fixed steps to simulate")
	runCmd.Flags().StringVar(&flagRecord, "record", "", "Record a trace into the database under this name")
	runCmd.Flags().StringVar(&flagOut, "out", "", "Write the recorded trace to this JSON file")
	runCmd.Flags().StringVar(&flagDifficulty, "difficulty", "normal", "AI difficulty tier (easy, normal, hard)")
	runCmd.Flags().StringVar(&flagProfile, "profile", "", "Path to an AI profile YAML")
}

// tunable is implemented by scenarios whose opponent accepts profile weights.
type tunable interface {
	SetWeights(aiprofile.Weights)
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger()
	scenarioID := args[0]

	e, _, err := buildEngine(scenarioID, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recording := flagRecord != "" || flagOut != ""
	if recording {
		if err := e.StartRecording(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	steps, err := driveSteps(e, flagSteps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed at step %d: %v\n", e.Step(), err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	logger.Info("run complete",
		"scenario", scenarioID,
		"steps", steps,
		"elapsed", elapsed,
		"backend", e.BackendTier(),
		"hash", fmt.Sprintf("%016x", e.StateHash()),
	)
	for _, d := range e.Diagnostics().Events() {
		logger.Warn("diagnostic", "kind", d.Kind, "step", d.Step, "detail", d.Detail)
	}

	if !recording {
		return
	}
	trace := e.StopRecording()
	if flagOut != "" {
		data, err := replay.Encode(trace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding trace: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(flagOut, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trace: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trace written to %s\n", flagOut)
	}
	if flagRecord != "" {
		store, err := replay.OpenStore(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening trace database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		id, err := store.SaveTrace(flagRecord, trace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving trace: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trace %q saved with id %d\n", flagRecord, id)
	}
}

// buildEngine assembles an engine with the requested scenario installed.
// The seed resolution order is: explicit --seed, config file, time-based.
func buildEngine(scenarioID string, logger *log.Logger) (*engine.Engine, registry.Scenario, error) {
	if !registry.Exists(scenarioID) {
		return nil, nil, fmt.Errorf("unknown scenario %q, run 'engine list'", scenarioID)
	}

	fileCfg, err := config.LoadEngine(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	cfg := fileCfg.ToRuntime()
	cfg.Seed = resolveSeed(cfg.Seed)

	scenario, err := registry.Create(scenarioID)
	if err != nil {
		return nil, nil, err
	}
	if tun, ok := scenario.(tunable); ok {
		weights, err := loadWeights(flagProfile, flagDifficulty)
		if err != nil {
			return nil, nil, err
		}
		tun.SetWeights(weights)
	}

	e := engine.New(cfg, logger)
	if err := scenario.Install(e); err != nil {
		return nil, nil, fmt.Errorf("install %s: %w", scenarioID, err)
	}
	logger.Info("engine ready", "scenario", scenarioID, "seed", cfg.Seed, "backend", e.BackendTier())
	return e, scenario, nil
}

// resolveSeed applies the --seed flag over the config value, falling back to
// wall clock when both are zero so two casual runs differ.
func resolveSeed(configSeed int64) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if configSeed != 0 {
		return configSeed
	}
	return time.Now().UnixNano()
}

// loadWeights picks a difficulty tier from the given profile, or from the
// built-in one when no path is set.
func loadWeights(path, tier string) (aiprofile.Weights, error) {
	profile := aiprofile.Default()
	if path != "" {
		loaded, err := aiprofile.Load(path)
		if err != nil {
			return aiprofile.Weights{}, err
		}
		profile = loaded
	}
	w, ok := profile.Tier(tier)
	if !ok {
		return aiprofile.Weights{}, fmt.Errorf("profile %q has no tier %q", profile.Name, tier)
	}
	return w, nil
}

// driveSteps ticks the engine one fixed dt at a time until the requested
// step count or an exit signal.
func driveSteps(e *engine.Engine, steps int) (int, error) {
	dt := e.Config().FixedDT
	for i := 0; i < steps; i++ {
		ctl, _, err := e.Tick(dt)
		if err != nil {
			return i, err
		}
		if ctl == engine.Exit {
			return i + 1, nil
		}
	}
	return steps, nil
}
