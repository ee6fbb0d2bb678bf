package order

import (
	"github.com/matzehuels/stackorder/pkg/dag"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Check verifies that ordered is a valid ordering of nodes under adj.
//
// ordered must contain every node of the deduplicated working set exactly
// once and nothing else; otherwise Check returns an INVALID_INPUT error
// naming the first missing, foreign or repeated ID. It must also respect
// every in-set edge; the first edge found pointing backwards is returned as
// a *ViolationError. Edges are checked in working-set order, then in the
// order each parent lists its children.
func Check(adj dag.Adjacency, nodes, ordered []dag.NodeID) error {
	ids := dag.Dedup(nodes)
	want := make(map[dag.NodeID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	pos := make(map[dag.NodeID]int, len(ordered))
	for i, id := range ordered {
		if _, ok := want[id]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "order contains %q, which is not in the working set", id)
		}
		if _, dup := pos[id]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "order lists %q more than once", id)
		}
		pos[id] = i
	}
	for _, id := range ids {
		if _, ok := pos[id]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "order is missing %q", id)
		}
	}

	for _, from := range ids {
		for _, to := range adj[from] {
			j, ok := pos[to]
			if !ok {
				continue
			}
			if pos[from] >= j {
				return &ViolationError{From: from, To: to}
			}
		}
	}
	return nil
}
