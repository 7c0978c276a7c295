package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var (
	flagBenchSteps   int
	flagBenchProfile bool
)

var benchCmd = &cobra.Command{
	Use:   "bench [scenario]",
	Short: "Measure simulation throughput",
	Long: `Run a scenario as fast as possible and report steps per second. With
--profile a CPU profile is written to the current directory.

Examples:
  engine bench
  engine bench pong --steps 100000
  engine bench pong --profile`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagBenchSteps, "steps", 100000, "Number of fixed steps to simulate")
	benchCmd.Flags().BoolVar(&flagBenchProfile, "profile", false, "Write a CPU profile")
}

func runBench(cmd *cobra.Command, args []string) {
	logger := newLogger()
	scenarioID := "pong"
	if len(args) == 1 {
		scenarioID = args[0]
	}

	e, _, err := buildEngine(scenarioID, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagBenchProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	start := time.Now()
	steps, err := driveSteps(e, flagBenchSteps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed at step %d: %v\n", e.Step(), err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	perSec := float64(steps) / elapsed.Seconds()
	fmt.Printf("%d steps in %v (%.0f steps/s, %.2fx realtime at 60 Hz)\n",
		steps, elapsed.Round(time.Millisecond), perSec, perSec/60)
}
