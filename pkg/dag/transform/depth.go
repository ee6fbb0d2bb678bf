package transform

import "github.com/matzehuels/stackorder/pkg/dag"

// AssignDepths returns the longest-path depth of every node: sources are at
// depth 0 and every other node sits one below its deepest parent.
//
// AssignDepths uses Kahn's algorithm:
//  1. Queue all source nodes (in-degree 0) at depth 0, in insertion order
//  2. For each dequeued node, push its children to at least depth + 1
//  3. Decrement in-degree counters; enqueue children reaching zero
//  4. Repeat until the queue is empty
//
// Nodes on a cycle never reach zero in-degree and are absent from the
// result. Run [BreakCycles] first when every node needs a depth.
//
// Time complexity is O(V + E).
func AssignDepths(g *dag.Graph) map[dag.NodeID]int {
	nodes := g.Nodes()
	inDegree := make(map[dag.NodeID]int, len(nodes))
	depths := make(map[dag.NodeID]int, len(nodes))
	queue := make([]dag.NodeID, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
			depths[n.ID] = 0
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if d := depths[curr] + 1; d > depths[child] {
				depths[child] = d
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for id, d := range inDegree {
		if d > 0 {
			delete(depths, id)
		}
	}
	return depths
}
