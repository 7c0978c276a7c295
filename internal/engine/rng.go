package engine

// RNG is the engine's deterministic random source. A plain 64-bit LCG keeps
// the state a single inspectable word, so it participates in state hashing
// and replay; gameplay code must draw randomness from here, never from
// package-global sources.
type RNG struct {
	state uint64
}

// NewRNG creates an RNG from a seed. Seed 0 is remapped so the stream never
// degenerates.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = 1
	}
	return &RNG{state: seed}
}

// Next generates the next random uint64.
func (r *RNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// IntN returns a random int in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// State exposes the current stream position for state hashing.
func (r *RNG) State() uint64 {
	return r.state
}
