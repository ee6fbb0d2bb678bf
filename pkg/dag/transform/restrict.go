package transform

import "github.com/matzehuels/stackorder/pkg/dag"

// Restrict returns the subgraph of g induced by nodes: the listed nodes
// (deduplicated, in the order given, with their metadata) and every edge
// of g whose endpoints are both listed. IDs that are not nodes of g are
// skipped. g is not modified.
func Restrict(g *dag.Graph, nodes []dag.NodeID) *dag.Graph {
	sub := dag.New(g.Meta())
	for _, id := range dag.Dedup(nodes) {
		if n, ok := g.Node(id); ok {
			_ = sub.AddNode(dag.Node{ID: n.ID, Meta: n.Meta})
		}
	}
	for _, id := range sub.NodeIDs() {
		for _, child := range g.Children(id) {
			if sub.HasNode(child) {
				_ = sub.AddEdge(dag.Edge{From: id, To: child})
			}
		}
	}
	return sub
}

// RestrictAdjacency is [Restrict] for plain adjacency lists. Working-set
// nodes without an entry in adj still become nodes of the result.
func RestrictAdjacency(adj dag.Adjacency, nodes []dag.NodeID) *dag.Graph {
	sub := dag.New(nil)
	for _, id := range dag.Dedup(nodes) {
		_ = sub.AddNode(dag.Node{ID: id})
	}
	for _, id := range sub.NodeIDs() {
		for _, child := range adj[id] {
			if sub.HasNode(child) {
				_ = sub.AddEdge(dag.Edge{From: id, To: child})
			}
		}
	}
	return sub
}
