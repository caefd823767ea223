// Package workbench exposes the analysis core consumed by the command
// dispatcher: budgeted simulation over a process-wide session and
// reachability-based property checking. Inputs are the initial marking
// plus rectangular input/output arc-weight matrices; outputs are value
// objects ready for serialization.
package workbench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pnetlab/go-pnet/reachability"
	"github.com/pnetlab/go-pnet/session"
	"github.com/pnetlab/go-pnet/store"
	"github.com/pnetlab/go-pnet/visualization"
	"github.com/pnetlab/go-pnet/watch"
)

// SimulationResponse is the outcome of one simulation call. Firings
// counts per-transition firings within the call, one-hot for a single
// step.
type SimulationResponse struct {
	Marking    []int16 `json:"marking"`
	Firings    []int16 `json:"firings"`
	Deadlocked bool    `json:"deadlocked"`
}

// RGResponse is the outcome of a property check. Bounded carries the
// k-bound for bounded nets and -1 for unbounded ones.
type RGResponse struct {
	States      uint    `json:"states"`
	Edges       uint    `json:"edges"`
	Reversible  bool    `json:"reversible"`
	Liveness    bool    `json:"liveness"`
	Bounded     int16   `json:"bounded"`
	BoundedVec  []int16 `json:"bounded_vec"`
	HasDeadlock bool    `json:"has_deadlock"`
	DotGraph    string  `json:"dot_graph"`
	Message     string  `json:"message"`
}

// Unbounded is the conclusive response for nets whose coverability check
// tripped during construction.
func Unbounded() RGResponse {
	return RGResponse{
		Bounded:    -1,
		BoundedVec: []int16{},
		Message:    "Graph is unbounded",
	}
}

// Workbench wires the simulator session and the analysis pipeline.
type Workbench struct {
	id      string
	session *session.Session
	cache   *ResultCache
	rules   *watch.Set
	history *store.Store
	log     zerolog.Logger

	maxTokens int16
	fullCover bool
}

// New creates a workbench over the process-wide default session.
func New() *Workbench {
	return &Workbench{
		id:        uuid.New().String(),
		session:   session.Default(),
		log:       zerolog.Nop(),
		maxTokens: reachability.DefaultMaxTokens,
	}
}

// WithSession runs simulations on the given session instead of the
// process-wide one.
func (w *Workbench) WithSession(s *session.Session) *Workbench {
	w.session = s
	return w
}

// WithLogger attaches a logger; the default discards everything.
func (w *Workbench) WithLogger(log zerolog.Logger) *Workbench {
	w.log = log
	return w
}

// WithResultCache memoizes CheckProperties responses keyed by the input
// net.
func (w *Workbench) WithResultCache(c *ResultCache) *Workbench {
	w.cache = c
	return w
}

// WithWatch evaluates the rule set after every simulation call, outside
// the firing loop.
func (w *Workbench) WithWatch(rules *watch.Set) *Workbench {
	w.rules = rules
	return w
}

// WithHistory records one run row per simulation call and one analysis
// row per property check. Recording failures are logged, never surfaced.
func (w *Workbench) WithHistory(h *store.Store) *Workbench {
	w.history = h
	return w
}

// WithMaxTokens sets the pseudo-coverability cutoff used by
// CheckProperties.
func (w *Workbench) WithMaxTokens(max int16) *Workbench {
	w.maxTokens = max
	return w
}

// WithFullCoverability switches CheckProperties to the exact ancestor
// coverability test.
func (w *Workbench) WithFullCoverability(full bool) *Workbench {
	w.fullCover = full
	return w
}

// StartSimulation replaces the session and simulates for the given
// update-time budget in milliseconds.
func (w *Workbench) StartSimulation(marking []int16, inputs, outputs [][]int16, updateTimeMs int) (SimulationResponse, error) {
	start := time.Now()
	result, err := w.session.Start(marking, inputs, outputs, time.Duration(updateTimeMs)*time.Millisecond)
	if err != nil {
		return SimulationResponse{}, err
	}
	return w.afterSimulation("start", result, time.Since(start)), nil
}

// StartSimulationStep replaces the session and performs exactly one
// firing.
func (w *Workbench) StartSimulationStep(marking []int16, inputs, outputs [][]int16) (SimulationResponse, error) {
	start := time.Now()
	result, err := w.session.StartStep(marking, inputs, outputs)
	if err != nil {
		return SimulationResponse{}, err
	}
	return w.afterSimulation("step", result, time.Since(start)), nil
}

// ContinueSimulation resumes the stored session for another budget
// window in milliseconds.
func (w *Workbench) ContinueSimulation(updateTimeMs int) (SimulationResponse, error) {
	start := time.Now()
	result, err := w.session.Continue(time.Duration(updateTimeMs) * time.Millisecond)
	if err != nil {
		return SimulationResponse{}, err
	}
	return w.afterSimulation("continue", result, time.Since(start)), nil
}

// afterSimulation runs the post-call hooks and assembles the response.
func (w *Workbench) afterSimulation(kind string, result session.Result, elapsed time.Duration) SimulationResponse {
	if w.rules != nil {
		fired := w.rules.Evaluate(watch.Snapshot{
			Marking:    result.Marking,
			Steps:      result.Steps,
			Deadlocked: result.Deadlocked,
		})
		if len(fired) > 0 {
			w.log.Info().Strs("rules", fired).Msg("watch rules fired")
		}
	}
	if w.history != nil {
		_, err := w.history.RecordRun(store.Run{
			SessionID:  w.id,
			Kind:       kind,
			Steps:      result.Steps,
			Deadlocked: result.Deadlocked,
			DurationMs: elapsed.Milliseconds(),
		})
		if err != nil {
			w.log.Warn().Err(err).Msg("recording run failed")
		}
	}
	return SimulationResponse{
		Marking:    result.Marking,
		Firings:    result.Firings,
		Deadlocked: result.Deadlocked,
	}
}

// CheckProperties builds the reachability graph, analyzes its structural
// properties and renders the DOT document. Unbounded nets produce the
// conclusive Unbounded response, not an error.
func (w *Workbench) CheckProperties(marking []int16, inputs, outputs [][]int16) RGResponse {
	if w.cache != nil {
		if cached, ok := w.cache.Get(marking, inputs, outputs); ok {
			return cached
		}
	}

	start := time.Now()
	result, err := reachability.NewBuilder(marking, inputs, outputs).
		WithMaxTokens(w.maxTokens).
		WithFullCoverability(w.fullCover).
		WithLogger(w.log).
		Build()
	rgElapsed := time.Since(start)

	if err != nil {
		w.log.Info().Msg("net is unbounded")
		response := Unbounded()
		if w.cache != nil {
			w.cache.Put(marking, inputs, outputs, response)
		}
		w.recordAnalysis(response, rgElapsed)
		return response
	}

	propsStart := time.Now()
	props := reachability.AnalyzePropertiesLogged(result, len(inputs), w.log)
	propsElapsed := time.Since(propsStart)
	total := time.Since(start)

	w.log.Info().
		Int("states", result.Graph.NodeCount()).
		Int("edges", result.Graph.EdgeCount()).
		Dur("rg", rgElapsed).
		Dur("properties", propsElapsed).
		Msg("property check complete")

	response := RGResponse{
		States:      uint(result.Graph.NodeCount()),
		Edges:       uint(result.Graph.EdgeCount()),
		Reversible:  props.Reversible,
		Liveness:    props.Liveness,
		Bounded:     props.KBound,
		BoundedVec:  props.BoundVector,
		HasDeadlock: props.HasDeadlock,
		DotGraph:    visualization.DOT(result.Graph),
		Message: fmt.Sprintf("Total: %dms, RG %dms, Properties %dms",
			total.Milliseconds(), rgElapsed.Milliseconds(), propsElapsed.Milliseconds()),
	}
	if w.cache != nil {
		w.cache.Put(marking, inputs, outputs, response)
	}
	w.recordAnalysis(response, total)
	return response
}

func (w *Workbench) recordAnalysis(response RGResponse, elapsed time.Duration) {
	if w.history == nil {
		return
	}
	_, err := w.history.RecordAnalysis(store.Analysis{
		States:     int(response.States),
		Edges:      int(response.Edges),
		Bounded:    int(response.Bounded),
		Liveness:   response.Liveness,
		Reversible: response.Reversible,
		Deadlock:   response.HasDeadlock,
		DurationMs: elapsed.Milliseconds(),
	})
	if err != nil {
		w.log.Warn().Err(err).Msg("recording analysis failed")
	}
}
