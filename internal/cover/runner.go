package cover

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Case is one independent test case. Run records coverage through the
// worker-owned counters it is handed; Blocks lists the instrumented blocks
// the case targets, used only to group cases into superblock units.
type Case struct {
	Name   string
	Blocks []BlockID
	Run    func(c *Counters) error
}

// Failure describes one failed case.
type Failure struct {
	Case string
	Err  error
}

// Report is the outcome of one Execute call.
type Report struct {
	Totals *Totals
	Passed int
	Failed int
	// Fatal holds Stop-tier violations; any entry invalidates the run.
	Fatal    []Failure
	Failures []Failure
}

// Runner executes test cases across worker goroutines. Cases are grouped
// into units by superblock, each worker owns a deque of units, and idle
// workers steal from the opposite end of other workers' deques.
type Runner struct {
	graph   *Graph
	workers int
	target  int
	max     int
}

// NewRunner creates a runner with the given worker count; workers <= 0 uses
// GOMAXPROCS.
func NewRunner(g *Graph, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{graph: g, workers: workers, target: DefaultTargetSize, max: DefaultMaxSize}
}

// SetSuperblockSizes overrides the unit grouping granularity.
func (r *Runner) SetSuperblockSizes(target, max int) {
	r.target = target
	r.max = max
}

// unit is one schedulable chunk: the cases targeting a single superblock.
type unit struct {
	cases []Case
}

// deque is a mutex-guarded double-ended work queue. The owner pops from the
// tail for locality; thieves steal from the head.
type deque struct {
	mu    sync.Mutex
	units []unit
}

func (d *deque) popTail() (unit, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.units) == 0 {
		return unit{}, false
	}
	u := d.units[len(d.units)-1]
	d.units = d.units[:len(d.units)-1]
	return u, true
}

func (d *deque) stealHead() (unit, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.units) == 0 {
		return unit{}, false
	}
	u := d.units[0]
	d.units = d.units[1:]
	return u, true
}

// Execute runs all cases and merges their coverage. It returns an error only
// when the harness itself cannot proceed; individual case failures and Stop
// violations are reported through the Report.
func (r *Runner) Execute(cases []Case) (*Report, error) {
	units, err := r.group(cases)
	if err != nil {
		return nil, err
	}

	report := &Report{Totals: NewTotals(r.graph)}
	var reportMu sync.Mutex

	deques := make([]*deque, r.workers)
	for i := range deques {
		deques[i] = &deque{}
	}
	for i, u := range units {
		d := deques[i%r.workers]
		d.units = append(d.units, u)
	}

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func(self int) {
			defer wg.Done()
			counters := NewCounters(r.graph)
			for {
				u, ok := deques[self].popTail()
				if !ok {
					u, ok = r.steal(deques, self)
				}
				if !ok {
					break
				}
				for _, tc := range u.cases {
					counters.ResetPath()
					err := tc.Run(counters)

					reportMu.Lock()
					switch {
					case err == nil:
						report.Passed++
					default:
						report.Failed++
						f := Failure{Case: tc.Name, Err: err}
						if v, isViolation := err.(*Violation); isViolation && v.Severity == Stop {
							report.Fatal = append(report.Fatal, f)
						} else {
							report.Failures = append(report.Failures, f)
						}
					}
					reportMu.Unlock()
				}
			}
			counters.Flush(report.Totals)
		}(w)
	}
	wg.Wait()

	sortFailures(report.Fatal)
	sortFailures(report.Failures)
	return report, nil
}

// steal scans the other workers' deques once, starting after self.
func (r *Runner) steal(deques []*deque, self int) (unit, bool) {
	for i := 1; i < len(deques); i++ {
		victim := (self + i) % len(deques)
		if u, ok := deques[victim].stealHead(); ok {
			return u, true
		}
	}
	return unit{}, false
}

// group buckets cases into units by the superblock of their first target
// block. Cases with no declared blocks share a catch-all unit.
func (r *Runner) group(cases []Case) ([]unit, error) {
	var all []BlockID
	for _, c := range cases {
		all = append(all, c.Blocks...)
	}
	supers, err := Pack(all, r.target, r.max)
	if err != nil {
		return nil, err
	}

	blockToSuper := make(map[BlockID]int)
	for _, sb := range supers {
		for _, b := range sb.Blocks {
			blockToSuper[b] = sb.ID
		}
	}

	bySuper := make(map[int][]Case)
	const unassigned = -1
	for _, c := range cases {
		id := unassigned
		if len(c.Blocks) > 0 {
			var ok bool
			id, ok = blockToSuper[c.Blocks[0]]
			if !ok {
				return nil, fmt.Errorf("cover: case %q targets unpacked block %d", c.Name, c.Blocks[0])
			}
		}
		bySuper[id] = append(bySuper[id], c)
	}

	ids := make([]int, 0, len(bySuper))
	for id := range bySuper {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	units := make([]unit, 0, len(ids))
	for _, id := range ids {
		units = append(units, unit{cases: bySuper[id]})
	}
	return units, nil
}

func sortFailures(fs []Failure) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Case < fs[j].Case })
}
