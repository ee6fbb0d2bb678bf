package dag

import (
	"maps"
	"slices"
)

// Adjacency maps a node to its direct children, in the order they were
// declared. Not every child needs a key of its own and keys may refer to
// nodes a caller never asks about.
type Adjacency map[NodeID][]NodeID

// Clone returns a deep copy of the adjacency list.
func (a Adjacency) Clone() Adjacency {
	if a == nil {
		return nil
	}
	c := make(Adjacency, len(a))
	for k, v := range a {
		c[k] = slices.Clone(v)
	}
	return c
}

// EdgeCount returns the number of (from, to) pairs listed, duplicates included.
func (a Adjacency) EdgeCount() int {
	n := 0
	for _, children := range a {
		n += len(children)
	}
	return n
}

// Keys returns the adjacency keys in sorted order.
func (a Adjacency) Keys() []NodeID {
	return slices.Sorted(maps.Keys(a))
}

// Dedup returns ids with repeated entries removed, keeping the first
// occurrence of each.
func Dedup(ids []NodeID) []NodeID {
	seen := make(map[NodeID]struct{}, len(ids))
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
