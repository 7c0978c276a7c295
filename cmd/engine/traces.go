package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-engine/internal/replay"
)

var flagDeleteTrace int64

var tracesCmd = &cobra.Command{
	Use:   "traces",
	Short: "List traces stored in the database",
	Long: `Display all replay traces in the trace database, newest first.

Examples:
  engine traces
  engine traces --db ./traces.db
  engine traces --delete 3`,
	Run: runTraces,
}

func init() {
	tracesCmd.Flags().Int64Var(&flagDeleteTrace, "delete", 0, "Delete the trace with this id")
}

func runTraces(cmd *cobra.Command, args []string) {
	store, err := replay.OpenStore(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trace database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagDeleteTrace != 0 {
		if err := store.DeleteTrace(flagDeleteTrace); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting trace: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trace %d deleted.\n", flagDeleteTrace)
		return
	}

	traces, err := store.ListTraces()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing traces: %v\n", err)
		os.Exit(1)
	}

	if len(traces) == 0 {
		fmt.Println("No traces recorded yet.")
		fmt.Println()
		fmt.Println("Run 'engine run pong --record <name>' to record one.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-20s  %-20s  %-6s  %-16s  %s\n", "ID", "Name", "Seed", "Steps", "Hash", "Date")
	fmt.Printf("  %-4s  %-20s  %-20s  %-6s  %-16s  %s\n", "--", "----", "----", "-----", "----", "----")

	// Print traces
	for _, t := range traces {
		dateStr := t.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-20s  %-20d  %-6d  %016x  %s\n",
			t.ID, t.Name, t.Seed, t.StepCount, t.FinalHash, dateStr)
	}

	fmt.Println()
	fmt.Println("Run 'engine replay --id <id>' to verify a trace.")
}
