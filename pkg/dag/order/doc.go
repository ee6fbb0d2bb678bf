// Package order computes linear orderings of a node subset that respect the
// parent → child edges of an adjacency list.
//
// # Overview
//
// Callers hand over an adjacency snapshot and the working set: the nodes
// they actually want ordered. Only edges with both endpoints in the working
// set constrain the result. Everything else in the adjacency list (edges
// into or out of foreign nodes, keys that are never asked about) is inert.
//
//	adj := dag.Adjacency{"A": {"B", "X"}, "X": {"A"}}
//	ordered, err := order.Sort(adj, []string{"A", "B"})
//	// ordered == [A B]; X and its edges never enter the picture
//
// # Algorithm
//
// [Sort] and [Layers] use Kahn's algorithm over the induced subgraph. The
// in-degree table and the in-set child lists are built once per call, so a
// call costs O(V + E) in the size of the working set and its edges (plus
// sorting each node's child list by input position).
//
// Ties are broken by the caller's input order, which makes the output
// deterministic and keeps it as close to the caller's order as the edges
// allow.
//
// # Cycles
//
// A cycle inside the working set makes a total ordering impossible. The
// engine does not guess: it returns a [*CycleError] that lists every
// unresolved node and one concrete cycle among them. Nodes are never
// dropped silently. Callers that would rather degrade can break cycles
// first (see the transform package) and order the result.
//
// # Verification
//
// [Check] validates an ordering produced elsewhere, for example one sent by
// an API client, against the same rules.
//
// # Concurrency
//
// All functions are pure: they read their inputs, allocate only local
// state and keep nothing between calls.
package order
