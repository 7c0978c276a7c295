// Package input implements the timestamped event queue that decouples
// asynchronous input arrival from the synchronous fixed-step simulation.
package input

import "sort"

// Kind identifies the source device action of an event.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	MouseDown
	MouseUp
	MouseMove
	TouchStart
	TouchMove
	TouchEnd
)

// String returns a human-readable name for the event kind.
func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case MouseDown:
		return "MouseDown"
	case MouseUp:
		return "MouseUp"
	case MouseMove:
		return "MouseMove"
	case TouchStart:
		return "TouchStart"
	case TouchMove:
		return "TouchMove"
	case TouchEnd:
		return "TouchEnd"
	default:
		return "Unknown"
	}
}

// Event is a discrete input record produced by the platform layer.
// Timestamp is in milliseconds since the engine epoch and must be
// monotonically non-decreasing per source.
type Event struct {
	Kind      Kind    `json:"kind"`
	Timestamp int64   `json:"ts"`
	Code      int     `json:"code,omitempty"` // Key or button code
	X         float64 `json:"x,omitempty"`    // Pointer position
	Y         float64 `json:"y,omitempty"`
}

// DropFunc is invoked once per event discarded on overflow.
type DropFunc func(Event)

// Queue is a single-producer, single-consumer ordered event buffer with a
// fixed capacity. Push never blocks: when full, the oldest event is dropped
// and the drop callback fires once per discarded event.
type Queue struct {
	buf     []Event
	head    int
	size    int
	dropped uint64
	onDrop  DropFunc
}

// NewQueue creates a queue with the given capacity (minimum 1).
func NewQueue(capacity int, onDrop DropFunc) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{buf: make([]Event, capacity), onDrop: onDrop}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return q.size
}

// Dropped returns the total number of events discarded on overflow.
func (q *Queue) Dropped() uint64 {
	return q.dropped
}

// Push appends an event, dropping the oldest one when the queue is full.
func (q *Queue) Push(ev Event) {
	if q.size == len(q.buf) {
		old := q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.dropped++
		if q.onDrop != nil {
			q.onDrop(old)
		}
	}
	q.buf[(q.head+q.size)%len(q.buf)] = ev
	q.size++
}

// DrainThrough removes and returns all events with Timestamp < deadline,
// ordered by non-decreasing timestamp with arrival order breaking ties.
// Events at or past the deadline stay queued for a later step, so an event
// whose timestamp missed its own step window is still delivered in the next
// one rather than discarded. No event is ever delivered twice.
func (q *Queue) DrainThrough(deadline int64) []Event {
	if q.size == 0 {
		return nil
	}

	var due []Event
	kept := 0
	for i := 0; i < q.size; i++ {
		ev := q.buf[(q.head+i)%len(q.buf)]
		if ev.Timestamp < deadline {
			due = append(due, ev)
		} else {
			q.buf[(q.head+kept)%len(q.buf)] = ev
			kept++
		}
	}
	q.size = kept

	// Arrival order is already FIFO; a stable sort orders by timestamp while
	// preserving it for ties.
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Timestamp < due[j].Timestamp
	})
	return due
}
