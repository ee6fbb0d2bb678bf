// Package render groups the output renderers for ordered graphs.
//
// The [nodelink] subpackage converts a graph and its order to Graphviz DOT
// and renders SVG in-process:
//
//	dot := nodelink.ToDOT(g, ordered, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Plain-text and JSON order output lives in the io package.
//
// [nodelink]: github.com/matzehuels/stackorder/pkg/render/nodelink
package render
