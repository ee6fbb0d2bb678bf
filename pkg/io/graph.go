package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/stackorder/pkg/dag"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string       `json:"id" toml:"id"`
	Meta dag.Metadata `json:"meta,omitempty" toml:"meta"`
}

type edge struct {
	From string `json:"from" toml:"from"`
	To   string `json:"to" toml:"to"`
}

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Each node must have an "id" field and may carry a "meta" object. Each edge
// must reference node IDs declared in "nodes". Cycles are accepted: the graph
// type does not reject them, ordering reports them.
//
// ReadJSON returns an INVALID_FORMAT error for malformed JSON and an
// INVALID_GRAPH error for invalid or duplicate IDs and dangling edges.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode")
	}
	return buildGraph(data)
}

func buildGraph(data graph) (*dag.Graph, error) {
	g := dag.New(nil)
	for _, n := range data.Nodes {
		if err := apperrors.ValidateNodeID(n.ID); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Meta: n.Meta}); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "node %s", n.ID)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}
