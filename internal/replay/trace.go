package replay

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/arcade-engine/internal/input"
)

// ErrSealed is returned when recording into a trace that has already ended.
var ErrSealed = errors.New("replay: trace is sealed")

// StepRecord captures everything consumed by one fixed step: the input batch
// applied during the step and the state hash observed after it.
type StepRecord struct {
	Events []input.Event `json:"events,omitempty"`
	Hash   uint64        `json:"hash"`
}

// Trace is the minimal record needed to reproduce a run: the seed, the
// ordered input log, and the step count. Per-step hashes let the verifier
// report the earliest diverging step. Once sealed it is write-once,
// read-many.
type Trace struct {
	Seed      uint64       `json:"seed"`
	StepCount uint32       `json:"step_count"`
	FinalHash uint64       `json:"final_hash"`
	Steps     []StepRecord `json:"steps"`
}

// Recorder builds a Trace incrementally, one call per fixed step.
type Recorder struct {
	trace  Trace
	sealed bool
}

// NewRecorder starts recording a run from the given seed.
func NewRecorder(seed uint64) *Recorder {
	return &Recorder{trace: Trace{Seed: seed}}
}

// RecordStep appends one fixed step's input batch and resulting state hash.
// The event slice is copied; the caller may reuse it.
func (r *Recorder) RecordStep(events []input.Event, hash uint64) error {
	if r.sealed {
		return ErrSealed
	}
	rec := StepRecord{Hash: hash}
	if len(events) > 0 {
		rec.Events = append([]input.Event(nil), events...)
	}
	r.trace.Steps = append(r.trace.Steps, rec)
	return nil
}

// End seals the recorder and returns the completed trace. The final hash is
// the hash of the last recorded step (or a mix of the seed for an empty run).
func (r *Recorder) End() *Trace {
	if !r.sealed {
		r.sealed = true
		r.trace.StepCount = uint32(len(r.trace.Steps))
		if n := len(r.trace.Steps); n > 0 {
			r.trace.FinalHash = r.trace.Steps[n-1].Hash
		} else {
			h := NewHasher()
			h.WriteUint64(r.trace.Seed)
			r.trace.FinalHash = h.Sum()
		}
	}
	return &r.trace
}

// Validate checks internal consistency, catching malformed or truncated
// traces before they reach the simulation.
func (t *Trace) Validate() error {
	if int(t.StepCount) != len(t.Steps) {
		return fmt.Errorf("replay: step count %d does not match %d recorded steps", t.StepCount, len(t.Steps))
	}
	if n := len(t.Steps); n > 0 && t.Steps[n-1].Hash != t.FinalHash {
		return fmt.Errorf("replay: final hash %#x does not match last step hash %#x", t.FinalHash, t.Steps[n-1].Hash)
	}
	// Events must be non-decreasing within a step's batch. Across steps a
	// late (clock-skewed) event may legitimately carry an older timestamp.
	for i, s := range t.Steps {
		var last int64 = -1 << 62
		for _, ev := range s.Events {
			if ev.Timestamp < last {
				return fmt.Errorf("replay: step %d has event timestamp %d before %d", i, ev.Timestamp, last)
			}
			last = ev.Timestamp
		}
	}
	return nil
}
