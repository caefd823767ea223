// Package session maintains simulator sessions for P/T nets. A session
// holds the live marking, the net matrices and the firing-update index,
// and is driven by many short budgeted calls: start replaces the session,
// continue resumes it from the exact prior state. Deadlock is sticky
// until the next start.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pnetlab/go-pnet/pnet"
)

// ErrNoSession is returned by Continue when no simulation was ever
// started on this session.
var ErrNoSession = errors.New("session: no simulation started")

// Result is the outcome of one budgeted simulation call. Firings counts
// how often each transition fired during this call only, saturated to
// the i16 range; Steps is the exact total.
type Result struct {
	Marking    []int16
	Firings    []int16
	Steps      int
	Deadlocked bool
}

// Recorder receives one event per firing when attached to a session.
// Implementations must be cheap; they are called inside the firing loop.
type Recorder interface {
	Record(step int, transition int, marking []int16)
}

// Session is a simulator session. All operations hold the session lock
// for their full duration, including the firing loop, so a Continue
// always observes the state persisted by the previous completed call.
type Session struct {
	mu         sync.Mutex
	state      pnet.Marking
	net        pnet.Net
	updates    pnet.FiringUpdates
	deadlocked bool
	started    bool
	recorder   Recorder
	log        zerolog.Logger
}

// New creates an idle session.
func New() *Session {
	return &Session{log: zerolog.Nop()}
}

// WithLogger attaches a logger; the default discards everything.
func (s *Session) WithLogger(log zerolog.Logger) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
	return s
}

// SetRecorder attaches a firing recorder, or detaches it when nil.
func (s *Session) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Start replaces the session with a fresh net and runs the firing loop
// for the given wall-clock budget.
func (s *Session) Start(marking []int16, inputs, outputs [][]int16, budget time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if empty, result := s.replace(marking, inputs, outputs); empty {
		return result, nil
	}
	s.log.Debug().Msg("starting new simulation")
	return s.simulate(budget), nil
}

// StartStep replaces the session with a fresh net and performs exactly
// one firing.
func (s *Session) StartStep(marking []int16, inputs, outputs [][]int16) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if empty, result := s.replace(marking, inputs, outputs); empty {
		return result, nil
	}
	s.log.Debug().Msg("starting new single-step simulation")
	return s.simulateStep(), nil
}

// Continue resumes the stored session for another budget window. A
// deadlocked session stays deadlocked and returns immediately with an
// empty firing vector.
func (s *Session) Continue(budget time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return Result{}, ErrNoSession
	}
	if s.deadlocked {
		s.log.Debug().Msg("continue requested but session is deadlocked")
		return Result{
			Marking:    s.state.Copy(),
			Firings:    []int16{},
			Deadlocked: true,
		}, nil
	}
	s.log.Debug().Msg("continuing simulation")
	return s.simulate(budget), nil
}

// Deadlocked reports the sticky deadlock flag.
func (s *Session) Deadlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadlocked
}

// Marking returns a copy of the stored marking.
func (s *Session) Marking() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Copy()
}

// replace installs a fresh net. For empty nets (no transitions or no
// places) the session is stored immediately deadlocked so later Continue
// calls behave consistently, and the marking is echoed back.
func (s *Session) replace(marking []int16, inputs, outputs [][]int16) (bool, Result) {
	net := pnet.NewNet(inputs, outputs)
	s.started = true

	if net.Empty() {
		s.net = net
		s.updates = pnet.FiringUpdates{}
		s.state = pnet.Marking(marking).Copy()
		s.deadlocked = true
		s.log.Debug().Msg("empty net, session starts deadlocked")
		return true, Result{
			Marking:    pnet.Marking(marking).Copy(),
			Firings:    []int16{},
			Deadlocked: true,
		}
	}

	s.net = net
	s.updates = pnet.NewFiringUpdates(net.In, net.Out)
	s.state = pnet.Marking(marking).Copy()
	s.deadlocked = false
	return false, Result{}
}

var defaultSession = New()

// Default returns the process-wide session used by the contractual
// simulation operations.
func Default() *Session { return defaultSession }
