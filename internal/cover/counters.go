package cover

import (
	"math"
	"sync"
)

// counterMax is the saturation ceiling for a single block counter.
const counterMax = math.MaxUint32

// Counters is one worker's unsynchronized hit buffer. Every worker owns
// exactly one Counters value and records into it without any per-increment
// synchronization; the only cross-worker contact is Flush, which merges into
// a shared Totals under a single lock.
type Counters struct {
	graph   *Graph
	hits    []uint64
	tainted []bool
	warns   []Violation

	prev    BlockID
	hasPrev bool
}

// NewCounters creates an empty buffer validating against the given graph.
func NewCounters(g *Graph) *Counters {
	return &Counters{
		graph:   g,
		hits:    make([]uint64, g.Blocks()),
		tainted: make([]bool, g.Blocks()),
	}
}

// Hit records one execution of a block. A hit on an uninstrumented block, or
// a transition the graph forbids, is a Stop violation returned as the error.
// Counter overflow saturates, taints the block and logs a Warn violation;
// recording continues.
func (c *Counters) Hit(b BlockID) error {
	return c.Add(b, 1)
}

// Add records n executions of a block at once, validating a single
// transition from the previously recorded block.
func (c *Counters) Add(b BlockID, n uint64) error {
	if !c.graph.Instrumented(b) {
		c.hasPrev = false
		return &Violation{Severity: Stop, Kind: UninstrumentedBlock, To: b}
	}
	if c.hasPrev && !c.graph.Allows(c.prev, b) {
		c.hasPrev = false
		return &Violation{Severity: Stop, Kind: ImpossibleEdge, From: c.prev, To: b}
	}
	c.prev = b
	c.hasPrev = true

	if c.hits[b] >= counterMax {
		if !c.tainted[b] {
			c.tainted[b] = true
			c.warns = append(c.warns, Violation{Severity: Warn, Kind: CounterOverflow, To: b})
		}
		return nil
	}
	if n > counterMax-c.hits[b] {
		c.hits[b] = counterMax
		c.tainted[b] = true
		c.warns = append(c.warns, Violation{Severity: Warn, Kind: CounterOverflow, To: b})
		return nil
	}
	c.hits[b] += n
	return nil
}

// ResetPath forgets the previous block so the next hit starts a fresh
// control-flow path. Called between independent test cases.
func (c *Counters) ResetPath() {
	c.hasPrev = false
}

// Flush merges the buffer into the shared totals and clears it. This is the
// single synchronization point of the whole counter design.
func (c *Counters) Flush(t *Totals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for b, n := range c.hits {
		if n == 0 && !c.tainted[b] {
			continue
		}
		if t.hits[b] > counterMax-n {
			t.hits[b] = counterMax
			t.tainted[b] = true
		} else {
			t.hits[b] += n
		}
		if c.tainted[b] {
			t.tainted[b] = true
		}
		c.hits[b] = 0
		c.tainted[b] = false
	}
	t.warns = append(t.warns, c.warns...)
	c.warns = c.warns[:0]
	c.hasPrev = false
}

// Totals is the shared merge target for all workers' counters.
type Totals struct {
	mu      sync.Mutex
	hits    []uint64
	tainted []bool
	warns   []Violation
}

// NewTotals creates totals sized to the graph's block space.
func NewTotals(g *Graph) *Totals {
	return &Totals{
		hits:    make([]uint64, g.Blocks()),
		tainted: make([]bool, g.Blocks()),
	}
}

// Hits returns the merged hit count for a block.
func (t *Totals) Hits(b BlockID) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits[b]
}

// Tainted reports whether a block's count saturated and is a lower bound.
func (t *Totals) Tainted(b BlockID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tainted[b]
}

// Covered returns how many instrumented blocks were hit at least once.
func (t *Totals) Covered(g *Graph) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for b, hits := range t.hits {
		if hits > 0 && g.Instrumented(BlockID(b)) {
			n++
		}
	}
	return n
}

// Warnings returns the accumulated Warn-tier violations.
func (t *Totals) Warnings() []Violation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Violation, len(t.warns))
	copy(out, t.warns)
	return out
}
