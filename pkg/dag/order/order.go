package order

import (
	"slices"

	"github.com/matzehuels/stackorder/pkg/dag"
)

// index is the working set with its induced edges, precomputed once per
// call. Nodes are addressed by their position in the deduplicated input.
type index struct {
	ids      []dag.NodeID
	pos      map[dag.NodeID]int
	children [][]int // in-set children per node, sorted by position, no duplicates
	parents  [][]int // in-set parents per node (used for cycle diagnostics)
	indeg    []int
}

// build restricts adj to nodes. Only adjacency entries of in-set nodes are
// visited, so the cost is bounded by the working set and its edges rather
// than by the whole adjacency list.
func build(adj dag.Adjacency, nodes []dag.NodeID) *index {
	ids := dag.Dedup(nodes)
	n := len(ids)
	ix := &index{
		ids:      ids,
		pos:      make(map[dag.NodeID]int, n),
		children: make([][]int, n),
		parents:  make([][]int, n),
		indeg:    make([]int, n),
	}
	for i, id := range ids {
		ix.pos[id] = i
	}

	// stamp[j] == i+1 marks j as already linked from i
	stamp := make([]int, n)
	for i, id := range ids {
		for _, child := range adj[id] {
			j, ok := ix.pos[child]
			if !ok || stamp[j] == i+1 {
				continue
			}
			stamp[j] = i + 1
			ix.children[i] = append(ix.children[i], j)
			ix.parents[j] = append(ix.parents[j], i)
			ix.indeg[j]++
		}
		slices.Sort(ix.children[i])
	}
	return ix
}

// Sort returns nodes in an order where every edge of adj between two
// members of nodes points forward: for each such edge (from, to), from
// appears before to.
//
// Edges with an endpoint outside nodes are ignored. A node without an
// adjacency entry has no outgoing edges. Duplicate entries in nodes collapse
// to their first occurrence, and the result is a permutation of the
// deduplicated input.
//
// Sort is Kahn's algorithm with a FIFO ready queue. The queue is seeded
// with the nodes that have no in-set parents, in input order, and nodes
// released by the same parent are enqueued in input order as well. When
// several valid orderings exist the result therefore leans towards the
// caller's own order, and identical inputs always produce identical output.
//
// If the nodes contain a cycle, Sort returns a *CycleError naming every node
// it could not place. No partial ordering is returned.
//
// Neither adj nor nodes is modified. Sort keeps no state between calls and
// is safe for concurrent use.
func Sort(adj dag.Adjacency, nodes []dag.NodeID) ([]dag.NodeID, error) {
	ix := build(adj, nodes)
	placed, _ := ix.peel()
	if len(placed) < len(ix.ids) {
		return nil, ix.cycleError(placed)
	}
	return ix.names(placed), nil
}

// Layers groups nodes into successive layers: the first layer holds the
// nodes without in-set parents, and every later layer holds the nodes whose
// in-set parents all sit in earlier layers. Nodes within a layer are in
// input order. Concatenating the layers yields a valid ordering.
//
// Layers follows the same scoping, deduplication and cycle rules as [Sort].
func Layers(adj dag.Adjacency, nodes []dag.NodeID) ([][]dag.NodeID, error) {
	ix := build(adj, nodes)
	placed, bounds := ix.peel()
	if len(placed) < len(ix.ids) {
		return nil, ix.cycleError(placed)
	}

	layers := make([][]dag.NodeID, 0, len(bounds))
	start := 0
	for _, end := range bounds {
		layer := slices.Clone(placed[start:end])
		slices.Sort(layer)
		layers = append(layers, ix.names(layer))
		start = end
	}
	return layers, nil
}

// peel runs Kahn's algorithm over the index. It returns the placed
// positions in queue order and, for each layer, the end offset of that
// layer within placed.
func (ix *index) peel() (placed []int, bounds []int) {
	indeg := slices.Clone(ix.indeg)
	placed = make([]int, 0, len(ix.ids))

	for i, d := range indeg {
		if d == 0 {
			placed = append(placed, i)
		}
	}

	// placed doubles as the FIFO queue: head walks over it while released
	// children are appended behind.
	layerEnd := len(placed)
	for head := 0; head < len(placed); head++ {
		if head == layerEnd {
			bounds = append(bounds, layerEnd)
			layerEnd = len(placed)
		}
		for _, child := range ix.children[placed[head]] {
			indeg[child]--
			if indeg[child] == 0 {
				placed = append(placed, child)
			}
		}
	}
	if len(placed) > 0 {
		bounds = append(bounds, layerEnd)
	}
	return placed, bounds
}

func (ix *index) names(positions []int) []dag.NodeID {
	out := make([]dag.NodeID, len(positions))
	for i, p := range positions {
		out[i] = ix.ids[p]
	}
	return out
}

// cycleError describes the nodes left over after peeling.
func (ix *index) cycleError(placed []int) *CycleError {
	done := make([]bool, len(ix.ids))
	for _, p := range placed {
		done[p] = true
	}

	var unresolved []int
	for i := range ix.ids {
		if !done[i] {
			unresolved = append(unresolved, i)
		}
	}

	return &CycleError{
		Unresolved: ix.names(unresolved),
		Cycle:      ix.names(ix.findCycle(unresolved[0], done)),
		Ordered:    ix.names(placed),
	}
}

// findCycle walks backwards from an unresolved node through unresolved
// parents until a node repeats. Every unresolved node keeps at least one
// unresolved parent, so the walk always closes a loop. The loop is returned
// in edge direction, rotated to start at its earliest input position.
func (ix *index) findCycle(start int, done []bool) []int {
	step := map[int]int{}
	var path []int
	cur := start
	for {
		if at, ok := step[cur]; ok {
			path = path[at:]
			break
		}
		step[cur] = len(path)
		path = append(path, cur)
		for _, p := range ix.parents[cur] {
			if !done[p] {
				cur = p
				break
			}
		}
	}

	slices.Reverse(path)
	lowest := 0
	for i, p := range path {
		if p < path[lowest] {
			lowest = i
		}
	}
	return slices.Concat(path[lowest:], path[:lowest])
}
