package reachability

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pnetlab/go-pnet/pnet"
)

// ErrUnbounded is returned when the coverability check trips during
// construction: the net's reachable marking set is (or is assumed to be)
// infinite.
var ErrUnbounded = errors.New("reachability: net is unbounded")

// DefaultMaxTokens is the pseudo-coverability cutoff: a freshly discovered
// marking with any component above this value aborts construction as
// unbounded. Bounded nets whose reachable set genuinely exceeds the cutoff
// are falsely reported unbounded; raise it via WithMaxTokens if needed.
const DefaultMaxTokens = 2048

// Builder explores the state space of a net from an initial marking.
type Builder struct {
	net       pnet.Net
	initial   pnet.Marking
	maxTokens int16
	fullCover bool
	log       zerolog.Logger
}

// NewBuilder creates a builder for the given net and initial marking.
func NewBuilder(marking []int16, inputs, outputs [][]int16) *Builder {
	return &Builder{
		net:       pnet.NewNet(inputs, outputs),
		initial:   pnet.Marking(marking).Copy(),
		maxTokens: DefaultMaxTokens,
		log:       zerolog.Nop(),
	}
}

// WithMaxTokens sets the pseudo-coverability cutoff.
func (b *Builder) WithMaxTokens(max int16) *Builder {
	b.maxTokens = max
	return b
}

// WithFullCoverability switches from the pseudo cutoff to the exact
// ancestor test: a new marking that strictly covers any of its ancestors
// proves unboundedness. Correct for all P/T nets, but each new node costs
// a backward traversal.
func (b *Builder) WithFullCoverability(full bool) *Builder {
	b.fullCover = full
	return b
}

// WithLogger attaches a logger; the default discards everything.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// Result is a constructed reachability graph plus the deadlock flag
// raised when any explored marking enabled no transition.
type Result struct {
	Graph       *Graph
	HasDeadlock bool
	Elapsed     time.Duration
}

// Build explores markings depth-first until the frontier is exhausted or
// a coverability check trips. Returns ErrUnbounded in the latter case.
func (b *Builder) Build() (*Result, error) {
	start := time.Now()

	graph := NewGraph()
	index := make(map[string]int) // marking key -> node, construction only
	hasDeadlock := false

	root := graph.AddNode(b.initial)
	index[b.initial.Key()] = root
	stack := []int{root}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m := graph.Marking(cur)
		enabled := pnet.FindEnabled(m, b.net.In)
		if len(enabled) == 0 {
			hasDeadlock = true
		}

		for _, t := range enabled {
			next := pnet.Fire(m, b.net.Effect, t)
			if existing, ok := index[next.Key()]; ok {
				graph.AddEdge(cur, existing, t)
				continue
			}

			node := graph.AddNode(next)
			graph.AddEdge(cur, node, t)
			index[next.Key()] = node
			stack = append(stack, node)

			if b.isCovering(graph, node) {
				b.log.Warn().
					Int("states", graph.NodeCount()).
					Stringer("marking", next).
					Msg("coverability check tripped, aborting")
				return nil, ErrUnbounded
			}
		}
	}

	elapsed := time.Since(start)
	b.log.Debug().
		Int("states", graph.NodeCount()).
		Int("edges", graph.EdgeCount()).
		Dur("elapsed", elapsed).
		Bool("deadlock", hasDeadlock).
		Msg("reachability graph complete")

	return &Result{Graph: graph, HasDeadlock: hasDeadlock, Elapsed: elapsed}, nil
}
