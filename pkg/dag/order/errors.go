package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/stackorder/pkg/dag"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

var (
	// ErrCycleDetected matches every *CycleError via errors.Is.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrOrderViolation matches every *ViolationError via errors.Is.
	ErrOrderViolation = errors.New("order violates an edge")
)

// maxListed caps how many IDs an error message spells out.
const maxListed = 10

// CycleError reports a working set that cannot be ordered because its
// induced subgraph contains at least one cycle.
type CycleError struct {
	// Unresolved lists every node that could not be placed, in input order.
	// This covers the nodes on a cycle and the nodes that depend on one.
	Unresolved []dag.NodeID

	// Cycle is one concrete cycle among the unresolved nodes, in edge
	// direction: Cycle[i] → Cycle[i+1], and the last node points back to
	// the first. A self-loop yields a single-element cycle.
	Cycle []dag.NodeID

	// Ordered is the prefix that was placed before the engine got stuck.
	// It is diagnostic only and must not be used as an ordering.
	Ordered []dag.NodeID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %d unresolved node(s): %s (cycle: %s)",
		len(e.Unresolved), list(e.Unresolved), strings.Join(e.cyclePath(), " -> "))
}

// Is lets errors.Is(err, ErrCycleDetected) match.
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// Code returns the machine-readable error code.
func (e *CycleError) Code() apperrors.Code { return apperrors.ErrCodeCycleDetected }

func (e *CycleError) cyclePath() []string {
	if len(e.Cycle) == 0 {
		return nil
	}
	return append(append([]string{}, e.Cycle...), e.Cycle[0])
}

// ViolationError reports an ordering that places a child before its parent.
type ViolationError struct {
	From, To dag.NodeID
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("order violation: %q must come before %q", e.From, e.To)
}

// Is lets errors.Is(err, ErrOrderViolation) match.
func (e *ViolationError) Is(target error) bool { return target == ErrOrderViolation }

// Code returns the machine-readable error code.
func (e *ViolationError) Code() apperrors.Code { return apperrors.ErrCodeOrderViolation }

func list(ids []dag.NodeID) string {
	if len(ids) <= maxListed {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(ids[:maxListed], ", "), len(ids)-maxListed)
}
