package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/stackorder/pkg/dag"
)

// WriteJSON encodes a graph as JSON and writes it to w.
// The output includes all nodes (with metadata) and edges, in insertion
// order. It can be re-imported with [ReadJSON] or [ReadInput].
func WriteJSON(g *dag.Graph, w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}
	for i, n := range nodes {
		nd := node{ID: n.ID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes[i] = nd
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// OrderDocument is the JSON shape of an ordering result.
type OrderDocument struct {
	Order        []dag.NodeID   `json:"order"`
	Layers       [][]dag.NodeID `json:"layers,omitempty"`
	RemovedEdges []dag.Edge     `json:"removed_edges,omitempty"`
}

// WriteOrder writes an ordering to w. As JSON it writes doc indented; as
// text it writes one node per line, or one space-separated layer per line
// when layers are present.
func WriteOrder(w io.Writer, doc OrderDocument, asJSON bool) error {
	if asJSON {
		if doc.Order == nil {
			doc.Order = []dag.NodeID{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}

	var b strings.Builder
	if len(doc.Layers) > 0 {
		for _, layer := range doc.Layers {
			b.WriteString(strings.Join(layer, " "))
			b.WriteByte('\n')
		}
	} else {
		for _, id := range doc.Order {
			b.WriteString(id)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
