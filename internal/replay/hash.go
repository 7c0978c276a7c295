// Package replay implements deterministic run recording and verification:
// a trace of (seed, per-step input, per-step state hash) is enough to
// reproduce a run and locate the earliest diverging step.
package replay

import "math"

// Quantum is the quantization grid for hashed floating-point state. Hashing
// rounded values tolerates legitimate cross-backend rounding differences
// while still catching real divergence; positions that differ by more than
// half a quantum hash differently.
const Quantum = 1e-3

// Hasher accumulates a deterministic 64-bit state hash. It is an FNV-style
// mix with a murmur finalizer; stable across platforms and releases, no
// dependency on Go's randomized map iteration or hash seeds.
type Hasher struct {
	h uint64
}

// NewHasher returns a Hasher seeded with the FNV offset basis.
func NewHasher() *Hasher {
	return &Hasher{h: 14695981039346656037}
}

// WriteUint64 mixes a raw 64-bit value.
func (s *Hasher) WriteUint64(v uint64) {
	s.h ^= v
	s.h *= 1099511628211
}

// WriteInt64 mixes a signed value.
func (s *Hasher) WriteInt64(v int64) {
	s.WriteUint64(uint64(v))
}

// WriteFloat mixes a float64 after quantizing it to the hash grid. Non-finite
// values map to distinct sentinels so divergent state never hashes like
// healthy state.
func (s *Hasher) WriteFloat(v float64) {
	switch {
	case math.IsNaN(v):
		s.WriteUint64(0x7ff8_dead_dead_dead)
	case math.IsInf(v, 1):
		s.WriteUint64(0x7ff0_0000_0000_0001)
	case math.IsInf(v, -1):
		s.WriteUint64(0xfff0_0000_0000_0001)
	default:
		s.WriteInt64(int64(math.Round(v / Quantum)))
	}
}

// WriteString mixes a string byte by byte.
func (s *Hasher) WriteString(v string) {
	for i := 0; i < len(v); i++ {
		s.WriteUint64(uint64(v[i]))
	}
	s.WriteUint64(uint64(len(v)))
}

// Sum returns the finalized hash. The finalizer avalanche keeps nearby
// quantized states well distributed.
func (s *Hasher) Sum() uint64 {
	x := s.h
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
