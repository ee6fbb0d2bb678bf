// Package transform provides graph transformations used around the
// ordering engine.
//
// # Overview
//
// The ordering engine works on an adjacency snapshot and never changes it.
// When a caller wants more than a plain ordering (a smaller graph to draw,
// a cyclic working set made orderable, depths for a layered view) it uses
// the transforms in this package on a [dag.Graph] first.
//
// # Restriction
//
// [Restrict] and [RestrictAdjacency] build the subgraph induced by a
// working set. Edges that touch a node outside the set are dropped, which
// is exactly the scoping rule the ordering engine applies.
//
// # Cycle Breaking
//
// [BreakCycles] detects and removes edges that close cycles, using a
// deterministic DFS. The ordering engine itself fails on cycles; breaking
// them first is an explicit caller decision, and the removed edges are
// returned so they can be reported.
//
// # Depths
//
// [AssignDepths] computes the longest-path depth of every node with Kahn's
// algorithm. Renderers use it to rank nodes.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes redundant edges that can be inferred through
// other paths. If A→B and B→C exist, then A→C is redundant. Orderings are
// unaffected; drawings get much lighter.
//
// # Usage
//
//	sub := transform.RestrictAdjacency(adj, nodes)
//	removed := transform.BreakCycles(sub)
//	ordered, err := order.Sort(sub.Adjacency(), nodes)
package transform
