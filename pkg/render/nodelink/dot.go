package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/transform"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes depth and metadata in node labels.
	// When false, only the position and node ID are shown.
	Detailed bool
	// RankByDepth pins nodes of equal longest-path depth to the same rank.
	RankByDepth bool
}

// ToDOT converts g to Graphviz DOT format. Nodes are emitted in the order
// given by ordered and labelled with their 1-based position ("3. parser").
// Nodes of g missing from ordered follow in graph insertion order without a
// position; IDs in ordered that g does not contain are skipped.
//
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *dag.Graph, ordered []dag.NodeID, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	depths := transform.AssignDepths(g)
	position := make(map[dag.NodeID]int, len(ordered))
	for i, id := range ordered {
		if _, seen := position[id]; !seen && g.HasNode(id) {
			position[id] = i + 1
		}
	}

	for _, id := range emitOrder(g, ordered, position) {
		n, _ := g.Node(id)
		depth, hasDepth := depths[id]
		label := fmtLabel(*n, position[id], depth, hasDepth, opts.Detailed)
		attrs := fmtAttrs(position[id], label)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	if opts.RankByDepth {
		writeRanks(&buf, g.NodeIDs(), depths)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// emitOrder lists ordered nodes first, then the rest of g.
func emitOrder(g *dag.Graph, ordered []dag.NodeID, position map[dag.NodeID]int) []dag.NodeID {
	out := make([]dag.NodeID, 0, g.NodeCount())
	for i, id := range ordered {
		if position[id] == i+1 {
			out = append(out, id)
		}
	}
	for _, id := range g.NodeIDs() {
		if _, ok := position[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func writeRanks(buf *bytes.Buffer, ids []dag.NodeID, depths map[dag.NodeID]int) {
	byDepth := make(map[int][]dag.NodeID)
	for _, id := range ids {
		if d, ok := depths[id]; ok {
			byDepth[d] = append(byDepth[d], id)
		}
	}
	if len(byDepth) == 0 {
		return
	}
	buf.WriteString("\n")
	for _, d := range slices.Sorted(maps.Keys(byDepth)) {
		quoted := make([]string, len(byDepth[d]))
		for i, id := range byDepth[d] {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}
}

func fmtLabel(n dag.Node, pos, depth int, hasDepth, detailed bool) string {
	head := n.ID
	if pos > 0 {
		head = fmt.Sprintf("%d. %s", pos, n.ID)
	}
	if !detailed {
		return head
	}

	var parts []string
	if hasDepth {
		parts = append(parts, fmt.Sprintf("depth: %d", depth))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(pos int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if pos == 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
