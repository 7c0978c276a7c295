package replay

import (
	"fmt"

	"github.com/vovakirdan/arcade-engine/internal/input"
)

// StepHashFunc re-runs one fixed step of a rebuilt engine, applying the given
// recorded input batch, and returns the resulting state hash.
type StepHashFunc func(step int, events []input.Event) (uint64, error)

// Result is the outcome of verifying a trace against a replayed run.
type Result struct {
	HashesMatch  bool
	MismatchStep int32 // earliest diverging step index, -1 when none
}

// Verify replays a trace step by step through stepFn (which must drive an
// engine rebuilt from the same seed) and compares per-step hashes, reporting
// the earliest diverging step to aid debugging. A trace that fails validation
// is an error, not a mismatch.
func Verify(t *Trace, stepFn StepHashFunc) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}
	for i, rec := range t.Steps {
		got, err := stepFn(i, rec.Events)
		if err != nil {
			return Result{}, fmt.Errorf("replay: verify step %d: %w", i, err)
		}
		if got != rec.Hash {
			return Result{HashesMatch: false, MismatchStep: int32(i)}, nil
		}
	}
	return Result{HashesMatch: true, MismatchStep: -1}, nil
}
