// Package eventlog records firing traces from simulator sessions and
// renders them to CSV or JSONL for downstream analysis.
package eventlog

import (
	"sync"
	"time"
)

// FiringEvent is one recorded firing: which transition fired at which
// step, and the marking after the firing.
type FiringEvent struct {
	Step       int       `json:"step"`
	Transition int       `json:"transition"`
	Marking    []int16   `json:"marking"`
	At         time.Time `json:"at"`
}

// TraceRecorder collects firing events from a session. It samples every
// Nth firing and keeps at most maxEvents entries (oldest dropped), so a
// multi-million step run cannot exhaust memory. It satisfies the
// session.Recorder interface.
type TraceRecorder struct {
	mu        sync.Mutex
	events    []FiringEvent
	sampleN   int
	maxEvents int
}

// NewTraceRecorder creates a recorder sampling every sampleN-th firing
// and retaining at most maxEvents entries. sampleN below 1 records every
// firing; maxEvents of 0 is unlimited.
func NewTraceRecorder(sampleN, maxEvents int) *TraceRecorder {
	if sampleN < 1 {
		sampleN = 1
	}
	return &TraceRecorder{sampleN: sampleN, maxEvents: maxEvents}
}

// Record implements the session recorder hook.
func (r *TraceRecorder) Record(step, transition int, marking []int16) {
	if step%r.sampleN != 0 {
		return
	}

	m := make([]int16, len(marking))
	copy(m, marking)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, FiringEvent{
		Step:       step,
		Transition: transition,
		Marking:    m,
		At:         time.Now(),
	})
	if r.maxEvents > 0 && len(r.events) > r.maxEvents {
		r.events = r.events[len(r.events)-r.maxEvents:]
	}
}

// Events returns a copy of the recorded trace.
func (r *TraceRecorder) Events() []FiringEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]FiringEvent, len(r.events))
	copy(events, r.events)
	return events
}

// Len returns the number of retained events.
func (r *TraceRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops all recorded events.
func (r *TraceRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
