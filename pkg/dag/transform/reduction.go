package transform

import "github.com/matzehuels/stackorder/pkg/dag"

// TransitiveReduction removes redundant edges from the graph and returns
// how many were removed.
//
// An edge (u, v) is redundant when u reaches v through at least one
// intermediate node: with A→B, B→C and A→C, the edge A→C is removed. The
// reduced graph has exactly the same valid orderings as the original, so
// renderers use it to draw only direct dependencies.
//
// Reachability is computed by DFS from every node, so the cost is
// O(V·E) time and O(V²) space. The graph should be acyclic; on a cycle
// every edge of the cycle is reachable around it and may be removed.
func TransitiveReduction(g *dag.Graph) int {
	nodes := g.NodeIDs()
	if len(nodes) == 0 {
		return 0
	}

	index := make(map[dag.NodeID]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachability := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, intermediate := range adjacency[src] {
			if intermediate != dst && reachability[intermediate][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	var dfs func(source, current int)
	dfs = func(source, current int) {
		if reachable[source][current] {
			return
		}
		reachable[source][current] = true
		for _, next := range adjacency[current] {
			dfs(source, next)
		}
	}

	for i := range reachable {
		dfs(i, i)
	}
	return reachable
}
