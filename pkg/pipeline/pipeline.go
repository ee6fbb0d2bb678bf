// Package pipeline runs ordering requests for the CLI and the API.
//
// The pipeline wraps the pure ordering engine with the concerns both entry
// points share: input validation, result caching, the optional
// break-cycles mode, logging and observability hooks. By centralizing this
// logic, both entry points behave the same for the same request.
//
// # Stages
//
//  1. Validate the request (limits, node IDs)
//  2. Look the result up in the cache
//  3. Restrict the adjacency list to the working set and, if requested,
//     break cycles in the restricted graph
//  4. Order with [order.Sort] (and [order.Layers] when layers are wanted)
//  5. Store the result
//
// Cycle errors are returned as *order.CycleError and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Order(ctx, pipeline.Request{
//	    Adjacency: adj,
//	    Nodes:     []dag.NodeID{"B", "A"},
//	})
//	if err != nil {
//	    var ce *order.CycleError
//	    if errors.As(err, &ce) {
//	        // ce.Unresolved lists the stuck nodes
//	    }
//	}
//	fmt.Println(result.Order)
package pipeline

import (
	"time"

	"github.com/matzehuels/stackorder/pkg/dag"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxNodes bounds the working set of a single request.
	DefaultMaxNodes = 100_000

	// DefaultMaxEdges bounds the number of adjacency entries of a single
	// request, counting edges to nodes outside the working set too.
	DefaultMaxEdges = 1_000_000
)

// =============================================================================
// Request - Pipeline Input
// =============================================================================

// Request is one ordering request. It supports JSON for API bodies.
type Request struct {
	// Adjacency maps parents to their ordered children. It may mention
	// nodes outside the working set.
	Adjacency dag.Adjacency `json:"adjacency"`

	// Nodes is the working set. Its order breaks ties.
	Nodes []dag.NodeID `json:"nodes"`

	// BreakCycles removes back-edges from the restricted graph instead of
	// failing with a cycle error. The removed edges are reported.
	BreakCycles bool `json:"break_cycles,omitempty"`

	// Layers additionally groups the result into dependency layers.
	Layers bool `json:"layers,omitempty"`

	// Refresh skips the cache lookup; the result is still stored.
	Refresh bool `json:"-"`

	// TTL overrides cache.TTLOrder for the stored result.
	TTL time.Duration `json:"-"`
}

// Validate checks the request against size limits and validates every
// working-set node ID. It returns an INVALID_INPUT or INVALID_NODE_ID
// error.
func (r Request) Validate() error {
	if len(r.Nodes) > DefaultMaxNodes {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"working set has %d nodes (max %d)", len(r.Nodes), DefaultMaxNodes)
	}
	if n := r.Adjacency.EdgeCount(); n > DefaultMaxEdges {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"adjacency list has %d edges (max %d)", n, DefaultMaxEdges)
	}
	for _, id := range r.Nodes {
		if err := apperrors.ValidateNodeID(id); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Result is the outcome of a successful ordering run.
type Result struct {
	// Order lists every working-set node exactly once, parents first.
	Order []dag.NodeID `json:"order"`

	// Layers groups Order into dependency layers when requested.
	Layers [][]dag.NodeID `json:"layers,omitempty"`

	// RemovedEdges lists the edges dropped in break-cycles mode.
	RemovedEdges []dag.Edge `json:"removed_edges,omitempty"`

	// Cached reports whether the result came from the cache.
	Cached bool `json:"cached"`

	Stats Stats `json:"stats"`
}

// Stats describes the ordered subgraph and the time spent.
type Stats struct {
	NodeCount int           `json:"node_count"` // deduplicated working set
	EdgeCount int           `json:"edge_count"` // distinct in-set edges
	Duration  time.Duration `json:"duration"`
}
