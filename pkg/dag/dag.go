package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. Graph nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeID identifies a node. IDs are opaque to this package: a conversation
// branch, a context chunk or a package name are all just strings here.
type NodeID = string

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil once they have passed through [New] or
// [Graph.AddNode].
type Metadata map[string]any

// Node is a vertex in the graph.
type Node struct {
	ID   NodeID   // Unique identifier (also used as display label)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge is a directed parent → child connection.
type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Graph is a directed graph with insertion-ordered nodes and adjacency
// indexes in both directions. It does not reject cycles: ordering code
// reports them when they matter.
//
// The zero value is not usable - use [New] or [FromAdjacency].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[NodeID]*Node
	order    []NodeID // insertion order of nodes
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[NodeID][]NodeID
	incoming map[NodeID][]NodeID
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[NodeID]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[NodeID][]NodeID),
		incoming: make(map[NodeID][]NodeID),
		meta:     meta,
	}
}

// FromAdjacency builds a graph from an adjacency list. Keys are added in
// sorted order so the result does not depend on map iteration; children are
// added in the order they are listed. Children that never appear as keys
// become nodes too. Empty IDs are skipped.
func FromAdjacency(adj Adjacency) *Graph {
	g := New(nil)
	ensure := func(id NodeID) {
		if id == "" {
			return
		}
		if _, ok := g.nodes[id]; !ok {
			_ = g.AddNode(Node{ID: id})
		}
	}
	for _, from := range slices.Sorted(maps.Keys(adj)) {
		ensure(from)
		for _, to := range adj[from] {
			ensure(to)
		}
	}
	for _, from := range slices.Sorted(maps.Keys(adj)) {
		for _, to := range adj[from] {
			if from == "" || to == "" {
				continue
			}
			_ = g.AddEdge(Edge{From: from, To: to})
		}
	}
	return g
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is missing.
// Adding an edge that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (g *Graph) RemoveEdge(from, to NodeID) {
	if _, ok := g.edgeSet[Edge{From: from, To: to}]; !ok {
		return
	}
	delete(g.edgeSet, Edge{From: from, To: to})
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to })
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s NodeID) bool { return s == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s NodeID) bool { return s == from })
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []NodeID { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs this node has edges to. The returned slice is a
// read-only view.
func (g *Graph) Children(id NodeID) []NodeID { return g.outgoing[id] }

// Parents returns the IDs that have edges to this node. The returned slice
// is a read-only view.
func (g *Graph) Parents(id NodeID) []NodeID { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id NodeID) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id NodeID) int { return len(g.incoming[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, g.nodes[id])
		}
	}
	return sinks
}

// Adjacency returns a snapshot of the graph as an adjacency list. Every
// node has a key, including sinks (mapped to an empty slice).
func (g *Graph) Adjacency() Adjacency {
	adj := make(Adjacency, len(g.nodes))
	for _, id := range g.order {
		adj[id] = slices.Clone(g.outgoing[id])
		if adj[id] == nil {
			adj[id] = []NodeID{}
		}
	}
	return adj
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New(maps.Clone(g.meta))
	for _, id := range g.order {
		n := g.nodes[id]
		_ = c.AddNode(Node{ID: n.ID, Meta: maps.Clone(n.Meta)})
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e)
	}
	return c
}
