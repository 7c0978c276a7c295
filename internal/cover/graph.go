// Package cover implements the coverage harness used to validate the engine
// natively: per-worker hit counters merged in a single flush, a static block
// adjacency graph that classifies recording anomalies, and a work-stealing
// runner that executes test cases over superblock-grouped units.
package cover

import "fmt"

// BlockID identifies one instrumented basic block.
type BlockID uint32

// Severity splits violations into fatal and log-and-continue tiers.
type Severity int

const (
	// Stop violations invalidate the whole collection run.
	Stop Severity = iota
	// Warn violations taint affected data but collection continues.
	Warn
)

func (s Severity) String() string {
	switch s {
	case Stop:
		return "stop"
	case Warn:
		return "warn"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ViolationKind names what went wrong during recording.
type ViolationKind int

const (
	// ImpossibleEdge means a transition was recorded between two blocks the
	// static graph says can never be adjacent.
	ImpossibleEdge ViolationKind = iota
	// UninstrumentedBlock means a hit was recorded on a block outside the
	// instrumented set.
	UninstrumentedBlock
	// CounterOverflow means a block's counter saturated; its count is a
	// lower bound from then on.
	CounterOverflow
)

func (k ViolationKind) String() string {
	switch k {
	case ImpossibleEdge:
		return "impossible edge"
	case UninstrumentedBlock:
		return "uninstrumented block"
	case CounterOverflow:
		return "counter overflow"
	default:
		return fmt.Sprintf("violation(%d)", int(k))
	}
}

// Violation reports a recording anomaly. Stop violations are returned as
// errors from Hit; Warn violations are accumulated and surfaced at flush.
type Violation struct {
	Severity Severity
	Kind     ViolationKind
	From, To BlockID
}

func (v *Violation) Error() string {
	switch v.Kind {
	case ImpossibleEdge:
		return fmt.Sprintf("cover: %s: %d -> %d", v.Kind, v.From, v.To)
	default:
		return fmt.Sprintf("cover: %s: block %d", v.Kind, v.To)
	}
}

// Graph is the static control-flow adjacency over instrumented blocks. It is
// built once, before any counters record against it, and is read-only from
// then on, so workers consult it without locking.
type Graph struct {
	blocks       int
	instrumented []bool
	edges        map[uint64]struct{}
}

// NewGraph creates a graph over blocks IDs in [0, blocks).
func NewGraph(blocks int) *Graph {
	if blocks <= 0 {
		panic(fmt.Sprintf("cover: graph needs at least one block, got %d", blocks))
	}
	return &Graph{
		blocks:       blocks,
		instrumented: make([]bool, blocks),
		edges:        make(map[uint64]struct{}),
	}
}

// Blocks returns the size of the block ID space.
func (g *Graph) Blocks() int {
	return g.blocks
}

// Instrument marks a block as part of the instrumented set.
func (g *Graph) Instrument(b BlockID) {
	g.instrumented[b] = true
}

// Instrumented reports whether hits on the block are legal.
func (g *Graph) Instrumented(b BlockID) bool {
	return int(b) < g.blocks && g.instrumented[b]
}

// AddEdge declares that control flow may pass from one block to another.
// Both endpoints are instrumented implicitly.
func (g *Graph) AddEdge(from, to BlockID) {
	g.Instrument(from)
	g.Instrument(to)
	g.edges[edgeKey(from, to)] = struct{}{}
}

// Allows reports whether a from->to transition is consistent with the graph.
func (g *Graph) Allows(from, to BlockID) bool {
	_, ok := g.edges[edgeKey(from, to)]
	return ok
}

func edgeKey(from, to BlockID) uint64 {
	return uint64(from)<<32 | uint64(to)
}
