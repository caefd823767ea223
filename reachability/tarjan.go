package reachability

// SCCs computes the strongly connected components of the graph with an
// iterative Tarjan traversal. Components are returned in the order Tarjan
// completes them (reverse topological order of the condensation).
func (g *Graph) SCCs() [][]int {
	n := g.NodeCount()
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var (
		counter int
		stack   []int
		sccs    [][]int
	)

	type frame struct {
		node int
		next int // next outgoing edge offset to examine
	}

	for v := 0; v < n; v++ {
		if index[v] != -1 {
			continue
		}

		work := []frame{{node: v}}
		for len(work) > 0 {
			f := &work[len(work)-1]
			u := f.node

			if f.next == 0 {
				index[u] = counter
				lowlink[u] = counter
				counter++
				stack = append(stack, u)
				onStack[u] = true
			}

			descended := false
			for f.next < len(g.out[u]) {
				w := g.edges[g.out[u][f.next]].To
				f.next++
				if index[w] == -1 {
					work = append(work, frame{node: w})
					descended = true
					break
				}
				if onStack[w] && index[w] < lowlink[u] {
					lowlink[u] = index[w]
				}
			}
			if descended {
				continue
			}

			if lowlink[u] == index[u] {
				var scc []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == u {
						break
					}
				}
				sccs = append(sccs, scc)
			}

			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[u] < lowlink[parent] {
					lowlink[parent] = lowlink[u]
				}
			}
		}
	}

	return sccs
}
