// Package dag provides the graph data structures shared by the ordering
// engine, the transforms and the I/O layers.
//
// # Overview
//
// Two representations are used throughout stackorder:
//
//   - [Adjacency] is the plain parent → children map that callers hand to the
//     ordering engine. It is a value type with no invariants: keys may be
//     missing, children may dangle, nodes may be listed twice.
//   - [Graph] is an indexed, insertion-ordered graph with metadata, built
//     with [New] and [Graph.AddNode]/[Graph.AddEdge] or from an adjacency
//     list with [FromAdjacency]. It answers parent/child queries in O(1)
//     and is what transforms and renderers operate on.
//
// [Graph.Adjacency] converts back, so the two forms are interchangeable.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "root"})
//	g.AddNode(dag.Node{ID: "reply"})
//	g.AddEdge(dag.Edge{From: "root", To: "reply"})
//
//	ordered, err := order.Sort(g.Adjacency(), []string{"reply", "root"})
//
// # Cycles
//
// Unlike a strict DAG, [Graph] accepts cycles. Dependency data from the
// outside world is not always acyclic, and the ordering engine reports
// cycles precisely (naming the unresolved nodes) instead of rejecting the
// graph at construction time.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. [Adjacency] values are
// only read by the ordering engine, so one snapshot can be shared by
// concurrent callers.
//
// # Related Packages
//
// The [order] subpackage holds the ordering engine. The [transform]
// subpackage restricts graphs to a working set, breaks cycles and computes
// depths.
//
// [order]: github.com/matzehuels/stackorder/pkg/dag/order
// [transform]: github.com/matzehuels/stackorder/pkg/dag/transform
package dag
