// Package nodelink draws ordered graphs as node-link diagrams.
//
// # Usage
//
// Order the working set, restrict the graph to it, then convert to DOT and
// render to SVG:
//
//	sub := transform.RestrictAdjacency(adj, nodes)
//	ordered, err := order.Sort(adj, nodes)
//	dot := nodelink.ToDOT(sub, ordered, nodelink.Options{RankByDepth: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Each node label carries its 1-based position in the order ("2. B"). Nodes
// the order does not place are drawn dashed and grey.
//
// # Options
//
//   - Detailed: adds longest-path depth and sorted metadata to labels
//   - RankByDepth: emits rank=same groups so nodes at equal depth line up
//
// # Dependencies
//
// SVG rendering runs in-process with [github.com/goccy/go-graphviz]; no
// Graphviz installation is needed.
package nodelink
