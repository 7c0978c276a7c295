//go:build js && wasm

package physics

import "syscall/js"

// Detect probes platform capabilities once at startup. In the browser the
// GPU tier is reachable when WebGPU is exposed; the platform layer must still
// install a Dispatcher before Select will choose it. Go's wasm target does
// not emit 128-bit SIMD, so that tier is off here.
func Detect() Capabilities {
	caps := Capabilities{}
	nav := js.Global().Get("navigator")
	if nav.Truthy() && nav.Get("gpu").Truthy() {
		caps.GPU = true
	}
	return caps
}
