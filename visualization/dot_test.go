package visualization

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/pnetlab/go-pnet/reachability"
)

func TestDOTStructure(t *testing.T) {
	result, err := reachability.NewBuilder(
		[]int16{1},
		[][]int16{{1}},
		[][]int16{{0}},
	).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	dot := DOT(result.Graph)

	if !strings.HasPrefix(dot, "digraph {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a DOT document:\n%s", dot)
	}
	for _, want := range []string{
		`0 [ label = "[1]" ]`,
		`1 [ label = "[0]" ]`,
		`0 -> 1 [ label = "t0" ]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

// One node entry per marking, one edge entry per firing, and the label
// sets round-trip back to the graph contents.
func TestDOTRoundTrip(t *testing.T) {
	result, err := reachability.NewBuilder(
		[]int16{0, 1},
		[][]int16{{0, 1}, {1, 0}},
		[][]int16{{1, 0}, {0, 1}},
	).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	g := result.Graph

	dot := DOT(g)

	nodeRe := regexp.MustCompile(`(?m)^\s+(\d+) \[ label = "(\[[^"]*\])" \]$`)
	edgeRe := regexp.MustCompile(`(?m)^\s+(\d+) -> (\d+) \[ label = "t(\d+)" \]$`)

	nodes := nodeRe.FindAllStringSubmatch(dot, -1)
	if len(nodes) != g.NodeCount() {
		t.Fatalf("expected %d node entries, got %d", g.NodeCount(), len(nodes))
	}
	parsedLabels := make(map[string]bool)
	for _, m := range nodes {
		parsedLabels[m[2]] = true
	}
	for n := 0; n < g.NodeCount(); n++ {
		if !parsedLabels[g.Marking(n).String()] {
			t.Errorf("marking %s missing from DOT output", g.Marking(n))
		}
	}

	edges := edgeRe.FindAllStringSubmatch(dot, -1)
	if len(edges) != g.EdgeCount() {
		t.Fatalf("expected %d edge entries, got %d", g.EdgeCount(), len(edges))
	}
	parsedEdgeLabels := make(map[string]int)
	for _, m := range edges {
		parsedEdgeLabels["t"+m[3]]++
	}
	wantEdgeLabels := make(map[string]int)
	for _, e := range g.Edges() {
		wantEdgeLabels["t"+strconv.Itoa(e.Transition)]++
	}
	for label, count := range wantEdgeLabels {
		if parsedEdgeLabels[label] != count {
			t.Errorf("edge label %s: expected %d, got %d", label, count, parsedEdgeLabels[label])
		}
	}
}
