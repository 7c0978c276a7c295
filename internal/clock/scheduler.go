// Package clock implements the fixed-timestep scheduler. Wall-clock frame
// time is accumulated and paid out in whole steps of a constant size, so the
// simulation advances identically regardless of real frame pacing.
package clock

import (
	"fmt"
	"time"
)

// StepFunc advances the simulation by exactly one fixed step.
type StepFunc func(dt time.Duration) error

// Result reports what a single Advance call did.
type Result struct {
	Steps     int           // Whole fixed steps executed
	Capped    bool          // True if the per-tick step cap was hit
	Discarded time.Duration // Accumulated time thrown away because of the cap
}

// Scheduler turns variable wall-clock frame times into a stream of fixed
// simulation steps. Durations are used throughout so accumulation is exact:
// N frames of dt nanoseconds decompose into the same step sequence as one
// frame of N*dt nanoseconds.
type Scheduler struct {
	fixedDT  time.Duration
	maxSteps int
	acc      time.Duration
}

// NewScheduler creates a scheduler with the given step size and per-tick step
// cap. A cap <= 0 panics: an uncapped scheduler can spiral under severe lag.
func NewScheduler(fixedDT time.Duration, maxSteps int) *Scheduler {
	if fixedDT <= 0 {
		panic(fmt.Sprintf("clock: invalid fixed step %v", fixedDT))
	}
	if maxSteps <= 0 {
		panic(fmt.Sprintf("clock: invalid step cap %d", maxSteps))
	}
	return &Scheduler{fixedDT: fixedDT, maxSteps: maxSteps}
}

// FixedDT returns the fixed step size.
func (s *Scheduler) FixedDT() time.Duration {
	return s.fixedDT
}

// Advance adds frameDT to the accumulator and runs whole fixed steps until
// less than one step of time remains, or the step cap is reached. Time beyond
// the cap is discarded, not queued; the caller reports that as a non-fatal
// frame budget warning. The sub-step remainder is preserved for render
// interpolation and never influences simulation state.
//
// If step returns an error, Advance stops immediately and returns it; the
// remaining accumulated time stays queued for the next call.
func (s *Scheduler) Advance(frameDT time.Duration, step StepFunc) (Result, error) {
	if frameDT < 0 {
		frameDT = 0
	}
	s.acc += frameDT

	var res Result
	for s.acc >= s.fixedDT {
		if res.Steps >= s.maxSteps {
			res.Capped = true
			res.Discarded = s.acc - s.acc%s.fixedDT
			s.acc %= s.fixedDT
			break
		}
		if err := step(s.fixedDT); err != nil {
			return res, err
		}
		s.acc -= s.fixedDT
		res.Steps++
	}
	return res, nil
}

// Alpha returns the fraction [0,1) of a fixed step left in the accumulator,
// for use by render interpolation only.
func (s *Scheduler) Alpha() float64 {
	return float64(s.acc) / float64(s.fixedDT)
}
