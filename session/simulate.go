package session

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/pnetlab/go-pnet/pnet"
)

const (
	// overflowThreshold marks a run as deadlocked once any place exceeds
	// this count. It heuristically bounds i16 arithmetic on unbounded nets
	// the caller has not yet analyzed structurally; bounded nets with a
	// legitimately larger peak deadlock prematurely.
	overflowThreshold = 30000

	// overflowCheckEvery is how often the guard is evaluated, in steps.
	overflowCheckEvery = 2000
)

// simulate runs the firing loop until the wall-clock budget is spent,
// the net deadlocks, or a marking approaches overflow. The caller holds
// the session lock.
func (s *Session) simulate(budget time.Duration) Result {
	heat := make([]int, s.net.Transitions())
	var enabled []int
	last := 0
	steps := 0
	start := time.Now()

	for time.Since(start) < budget {
		enabled = s.updateEnabled(enabled, last)

		if len(enabled) == 0 {
			s.deadlocked = true
			s.log.Debug().
				Int("steps", steps).
				Stringer("marking", s.state).
				Msg("no enabled transitions, simulation deadlocked")
			return s.snapshot(heat, steps, true)
		}

		fired := enabled[rand.IntN(len(enabled))]
		heat[fired]++
		steps++
		s.fire(fired, steps)
		last = fired

		if steps%overflowCheckEvery == 0 && s.state.Max() > overflowThreshold {
			s.deadlocked = true
			s.log.Warn().
				Stringer("marking", s.state).
				Msg("marking close to integer overflow, marking session deadlocked")
			return s.snapshot(heat, steps, true)
		}
	}

	s.log.Debug().
		Int("steps", steps).
		Dur("elapsed", time.Since(start)).
		Msg("simulation window complete")
	return s.snapshot(heat, steps, false)
}

// simulateStep performs exactly one full-scan firing. The overflow guard
// runs before the firing so a near-overflow stored marking cannot grow.
func (s *Session) simulateStep() Result {
	heat := make([]int, s.net.Transitions())

	if s.state.Max() > overflowThreshold {
		s.deadlocked = true
		s.log.Warn().
			Stringer("marking", s.state).
			Msg("marking close to integer overflow, marking session deadlocked")
		return s.snapshot(heat, 0, true)
	}

	enabled := s.updateEnabled(nil, 0)
	if len(enabled) == 0 {
		s.deadlocked = true
		s.log.Debug().
			Stringer("marking", s.state).
			Msg("no enabled transitions, simulation deadlocked")
		return s.snapshot(heat, 0, true)
	}

	fired := enabled[rand.IntN(len(enabled))]
	heat[fired] = 1
	s.fire(fired, 1)
	return s.snapshot(heat, 1, false)
}

func (s *Session) updateEnabled(prev []int, last int) []int {
	return pnet.UpdateEnabled(s.state, s.net.In, prev, s.updates, last)
}

// fire applies the transition's effect and feeds the recorder if one is
// attached. Detached recorders cost a single nil check per firing.
func (s *Session) fire(t, step int) {
	pnet.FireInPlace(s.state, s.net.Effect, t)
	if s.recorder != nil {
		s.recorder.Record(step, t, s.state)
	}
}

// snapshot copies the live state into a response. Heat counts accumulate
// in int during the loop and saturate into the i16 response range.
func (s *Session) snapshot(heat []int, steps int, deadlocked bool) Result {
	firings := make([]int16, len(heat))
	for i, h := range heat {
		if h > math.MaxInt16 {
			h = math.MaxInt16
		}
		firings[i] = int16(h)
	}
	return Result{
		Marking:    s.state.Copy(),
		Firings:    firings,
		Steps:      steps,
		Deadlocked: deadlocked,
	}
}
