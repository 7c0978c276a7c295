//go:build !js

package physics

import "runtime"

// Detect probes platform capabilities once at startup. Native builds have no
// GPU compute path; 128-bit SIMD is assumed on architectures where the Go
// compiler vectorizes fixed-width lane loops.
func Detect() Capabilities {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return Capabilities{SIMD128: true}
	default:
		return Capabilities{}
	}
}
