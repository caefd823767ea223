// Package visualization renders reachability graphs for inspection.
package visualization

import (
	"fmt"
	"strings"

	"github.com/pnetlab/go-pnet/reachability"
)

// DOT renders the reachability graph as a DOT document. Nodes are the
// graph's state indices labeled with their marking vector literal; edges
// are labeled with the fired transition index prefixed with "t".
func DOT(g *reachability.Graph) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for n := 0; n < g.NodeCount(); n++ {
		fmt.Fprintf(&b, "    %d [ label = \"%s\" ]\n", n, g.Marking(n))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "    %d -> %d [ label = \"t%d\" ]\n", e.From, e.To, e.Transition)
	}
	b.WriteString("}\n")
	return b.String()
}
