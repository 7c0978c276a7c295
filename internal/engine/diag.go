package engine

import "github.com/charmbracelet/log"

// DiagKind classifies a recoverable, degraded-mode condition. These never
// interrupt the loop; they are recorded here and surfaced through the logger.
type DiagKind int

const (
	DiagBackendDowngraded DiagKind = iota
	DiagFrameBudgetExceeded
	DiagInputQueueOverflow
)

// String returns a human-readable name for the diagnostic kind.
func (k DiagKind) String() string {
	switch k {
	case DiagBackendDowngraded:
		return "BackendDowngraded"
	case DiagFrameBudgetExceeded:
		return "FrameBudgetExceeded"
	case DiagInputQueueOverflow:
		return "InputQueueOverflow"
	default:
		return "Unknown"
	}
}

// DiagEvent is one recorded degraded-mode occurrence.
type DiagEvent struct {
	Kind   DiagKind
	Step   uint64
	Detail string
}

// maxDiagEvents bounds the in-memory diagnostic ring.
const maxDiagEvents = 256

// Diagnostics is the engine's in-memory telemetry stream for recoverable
// conditions. The ring keeps the most recent events; counters never reset.
type Diagnostics struct {
	logger *log.Logger
	events []DiagEvent
	counts map[DiagKind]uint64
}

// NewDiagnostics creates an empty diagnostics stream. A nil logger disables
// log output but still records events.
func NewDiagnostics(logger *log.Logger) *Diagnostics {
	return &Diagnostics{logger: logger, counts: make(map[DiagKind]uint64)}
}

// Record appends a degraded-mode event and logs it as a warning.
func (d *Diagnostics) Record(kind DiagKind, step uint64, detail string) {
	if len(d.events) == maxDiagEvents {
		copy(d.events, d.events[1:])
		d.events = d.events[:maxDiagEvents-1]
	}
	d.events = append(d.events, DiagEvent{Kind: kind, Step: step, Detail: detail})
	d.counts[kind]++
	if d.logger != nil {
		d.logger.Warn(kind.String(), "step", step, "detail", detail)
	}
}

// Events returns a copy of the retained event ring, oldest first.
func (d *Diagnostics) Events() []DiagEvent {
	return append([]DiagEvent(nil), d.events...)
}

// Count returns how many times a kind has been recorded over the whole run.
func (d *Diagnostics) Count(kind DiagKind) uint64 {
	return d.counts[kind]
}
