// engine is a deterministic 2D game engine runner with replay verification.
//
// Usage:
//
//	engine list                - List available scenarios
//	engine run <scenario>      - Run a scenario headless for N steps
//	engine replay <trace>      - Verify a recorded trace against a fresh run
//	engine traces              - List traces stored in the database
//	engine schema              - Print the AI profile JSON schema
//	engine bench               - Measure simulation throughput
//
// Global flags:
//
//	--seed <value>   - RNG seed for reproducible runs (0 = time-based)
//	--config <path>  - Engine config YAML (default: search path + embedded)
//	--db <path>      - Trace database path (default: ~/.arcade-engine/traces.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	// Import scenarios to register them
	_ "github.com/vovakirdan/arcade-engine/internal/games/pong"
)

var (
	// Global flags
	flagSeed   int64
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Deterministic 2D game engine with replay verification",
	Long: `engine runs fixed-timestep game scenarios headless, records replay
traces, and verifies that recorded runs reproduce bit-for-bit.

Available commands:
  list     - Show all available scenarios
  run      - Run a scenario for a number of steps
  replay   - Verify a recorded trace
  traces   - View stored traces
  schema   - Print the AI profile JSON schema
  bench    - Measure simulation throughput

Examples:
  engine list
  engine run pong --steps 3600 --seed 42 --record nightly
  engine replay trace.json
  engine traces
  engine bench --steps 100000 --profile`,
}

// newLogger builds the process logger. Timestamps are only useful on an
// interactive terminal; under redirection the collector adds its own.
func newLogger() *log.Logger {
	opts := log.Options{Prefix: "engine"}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		opts.ReportTimestamp = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade-engine/traces.db", "Path to trace database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(tracesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(benchCmd)
}
