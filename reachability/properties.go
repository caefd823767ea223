package reachability

import (
	"time"

	"github.com/rs/zerolog"
)

// Properties is the structural property tuple derived from a constructed
// reachability graph.
type Properties struct {
	Liveness    bool
	Reversible  bool
	BoundVector []int16
	KBound      int16
	HasDeadlock bool
}

// Condensation collapses each SCC of the reachability graph into a single
// node. It keeps one edge per distinct ordered SCC pair and, per SCC, the
// set of transition labels appearing on intra-SCC edges.
type Condensation struct {
	nodeToSCC []int
	edges     map[[2]int]struct{}
	hasOut    []bool
	allFire   []bool // intra-SCC edges carry all T distinct labels
}

// NewCondensation builds the condensation of g for the given SCC
// partition and total transition count.
func NewCondensation(g *Graph, sccs [][]int, transitions int) *Condensation {
	c := &Condensation{
		nodeToSCC: make([]int, g.NodeCount()),
		edges:     make(map[[2]int]struct{}),
		hasOut:    make([]bool, len(sccs)),
		allFire:   make([]bool, len(sccs)),
	}
	for i, scc := range sccs {
		for _, node := range scc {
			c.nodeToSCC[node] = i
		}
	}

	labels := make([]map[int]struct{}, len(sccs))
	for _, e := range g.Edges() {
		src := c.nodeToSCC[e.From]
		dst := c.nodeToSCC[e.To]
		if src != dst {
			if _, seen := c.edges[[2]int{src, dst}]; !seen {
				c.edges[[2]int{src, dst}] = struct{}{}
				c.hasOut[src] = true
			}
			continue
		}
		if labels[src] == nil {
			labels[src] = make(map[int]struct{})
		}
		labels[src][e.Transition] = struct{}{}
	}

	for i := range sccs {
		c.allFire[i] = len(labels[i]) == transitions
	}
	return c
}

// NodeCount returns the number of SCCs.
func (c *Condensation) NodeCount() int { return len(c.hasOut) }

// EdgeCount returns the number of distinct inter-SCC edges.
func (c *Condensation) EdgeCount() int { return len(c.edges) }

// Terminal reports whether SCC i has no outgoing condensation edge.
func (c *Condensation) Terminal(i int) bool { return !c.hasOut[i] }

// AllTransitionsFire reports whether SCC i's internal edges carry every
// transition label of the net.
func (c *Condensation) AllTransitionsFire(i int) bool { return c.allFire[i] }

// Live reports liveness: every terminal SCC must fire all transitions
// internally.
func (c *Condensation) Live() bool {
	for i := range c.hasOut {
		if c.Terminal(i) && !c.AllTransitionsFire(i) {
			return false
		}
	}
	return true
}

// AnalyzeProperties reduces a construction result to the property tuple.
// The bound vector is always computed; liveness and reversibility are
// skipped (reported false) when construction saw a deadlock, since a net
// with an unrecoverable dead marking can be neither.
func AnalyzeProperties(r *Result, transitions int) Properties {
	return analyzeProperties(r, transitions, zerolog.Nop())
}

// AnalyzePropertiesLogged is AnalyzeProperties with condensation-size
// logging.
func AnalyzePropertiesLogged(r *Result, transitions int, log zerolog.Logger) Properties {
	return analyzeProperties(r, transitions, log)
}

func analyzeProperties(r *Result, transitions int, log zerolog.Logger) Properties {
	bounds := r.Graph.BoundVector()
	var k int16 = -1
	for _, v := range bounds {
		if v > k {
			k = v
		}
	}

	if r.HasDeadlock {
		log.Debug().Msg("deadlock during graph construction, skipping SCC analysis")
		return Properties{
			BoundVector: bounds,
			KBound:      k,
			HasDeadlock: true,
		}
	}

	start := time.Now()
	sccs := r.Graph.SCCs()
	cond := NewCondensation(r.Graph, sccs, transitions)
	log.Debug().
		Int("sccs", cond.NodeCount()).
		Int("edges", cond.EdgeCount()).
		Dur("elapsed", time.Since(start)).
		Msg("condensation graph built")

	return Properties{
		Liveness:    cond.Live(),
		Reversible:  len(sccs) == 1 && r.Graph.EdgeCount() > 0,
		BoundVector: bounds,
		KBound:      k,
		HasDeadlock: false,
	}
}
