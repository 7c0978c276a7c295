package physics

import (
	"errors"
	"time"

	"github.com/vovakirdan/arcade-engine/internal/core"
)

// ErrBackendUnavailable is returned when a backend can no longer run (for
// example a lost GPU context). The engine downgrades to the next tier and
// continues; it is not fatal.
var ErrBackendUnavailable = errors.New("physics: backend unavailable")

// Tier identifies one of the interchangeable simulation backends, ranked by
// throughput capability.
type Tier int

const (
	TierScalar Tier = iota
	TierSIMD128
	TierGPUCompute
)

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierGPUCompute:
		return "gpu-compute"
	case TierSIMD128:
		return "simd128"
	case TierScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Backend advances a world by exactly one fixed step. All backends implement
// the same contract and must produce equivalent results within tolerance;
// whatever parallelism a backend uses internally, it presents a sequential,
// deterministic-order result to the caller.
type Backend interface {
	Tier() Tier
	Step(w *World, dt time.Duration, gravity core.Vec2, iterations int) error
}

// Dispatcher abstracts the platform's GPU compute path. The wasm platform
// layer installs one backed by a WebGPU compute pass; native builds have
// none, so the GPU tier fails soft at selection time.
//
// Body layout is 5 float32 values per body: x, y, vx, vy, invMass.
type Dispatcher interface {
	DispatchIntegrate(data []float32, dt, gx, gy float32) error
}

// Capabilities describes what the current platform can run. Probing happens
// once at startup; see Detect.
type Capabilities struct {
	GPU        bool
	SIMD128    bool
	Dispatcher Dispatcher
}

// Select picks the highest usable tier: GPU compute when a dispatcher is
// installed, then SIMD, then the scalar fallback. The choice is stored by the
// engine and never re-dispatched per call, except on forced downgrade.
func Select(caps Capabilities) Backend {
	if caps.GPU && caps.Dispatcher != nil {
		return &gpuBackend{d: caps.Dispatcher}
	}
	if caps.SIMD128 {
		return &simdBackend{}
	}
	return &scalarBackend{}
}

// Downgrade returns the next lower tier's backend, or false when already at
// the scalar floor.
func Downgrade(b Backend, caps Capabilities) (Backend, bool) {
	switch b.Tier() {
	case TierGPUCompute:
		if caps.SIMD128 {
			return &simdBackend{}, true
		}
		return &scalarBackend{}, true
	case TierSIMD128:
		return &scalarBackend{}, true
	default:
		return nil, false
	}
}
