// Package reachability builds the reachability graph of a P/T net and
// derives its structural properties: boundedness, per-place bounds,
// deadlock, liveness and reversibility.
package reachability

import (
	"github.com/pnetlab/go-pnet/pnet"
)

// Graph is the reachability graph: nodes own a marking, directed edges
// carry the index of the transition fired. Each distinct marking appears
// as exactly one node.
type Graph struct {
	markings []pnet.Marking
	edges    []Edge
	out      [][]int // node -> outgoing edge indices
	in       [][]int // node -> incoming edge indices
}

// Edge is a single firing: From --Transition--> To.
type Edge struct {
	From       int
	To         int
	Transition int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node owning the given marking and returns its index.
func (g *Graph) AddNode(m pnet.Marking) int {
	g.markings = append(g.markings, m)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return len(g.markings) - 1
}

// AddEdge appends an edge labeled with the fired transition.
func (g *Graph) AddEdge(from, to, transition int) {
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Transition: transition})
	g.out[from] = append(g.out[from], idx)
	g.in[to] = append(g.in[to], idx)
}

// NodeCount returns the number of states.
func (g *Graph) NodeCount() int { return len(g.markings) }

// EdgeCount returns the number of firings recorded as edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Marking returns the marking owned by node n.
func (g *Graph) Marking(n int) pnet.Marking { return g.markings[n] }

// Edges returns all edges in insertion order. The slice aliases graph
// storage and must not be mutated.
func (g *Graph) Edges() []Edge { return g.edges }

// Successors returns the target nodes of n's outgoing edges.
func (g *Graph) Successors(n int) []int {
	result := make([]int, len(g.out[n]))
	for i, e := range g.out[n] {
		result[i] = g.edges[e].To
	}
	return result
}

// Predecessors returns the source nodes of n's incoming edges.
func (g *Graph) Predecessors(n int) []int {
	result := make([]int, len(g.in[n]))
	for i, e := range g.in[n] {
		result[i] = g.edges[e].From
	}
	return result
}

// BoundVector returns the componentwise maximum over all node markings.
func (g *Graph) BoundVector() []int16 {
	if len(g.markings) == 0 {
		return nil
	}
	bounds := make([]int16, len(g.markings[0]))
	for i := range bounds {
		bounds[i] = -1
	}
	for _, m := range g.markings {
		for p, v := range m {
			if v > bounds[p] {
				bounds[p] = v
			}
		}
	}
	return bounds
}
