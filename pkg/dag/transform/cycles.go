package transform

import "github.com/matzehuels/stackorder/pkg/dag"

// BreakCycles removes back-edges from the graph until it is acyclic and
// returns the removed edges in the order they were found.
//
// BreakCycles uses depth-first search with white/gray/black coloring. An
// edge pointing at a gray node (one still on the DFS stack) closes a cycle
// and is removed.
//
// # Determinism
//
// The DFS starts from all source nodes, then from any remaining unvisited
// nodes, both in insertion order, and follows children in the order they
// were added. The same graph therefore always loses the same edges.
//
// # Edge Selection
//
// The choice is deterministic but not guaranteed to be minimal. Callers
// that need to keep a particular edge should list its source earlier.
//
// # Performance
//
// Time complexity is O(V + E). Space complexity is O(V) for the color map
// and recursion stack.
func BreakCycles(g *dag.Graph) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[dag.NodeID]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node dag.NodeID)
	dfs = func(node dag.NodeID) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
