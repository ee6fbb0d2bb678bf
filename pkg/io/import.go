package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackorder/pkg/dag"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// maxInputSize bounds how much ReadInput will read from a single source.
const maxInputSize = 64 << 20

// FormatFromPath picks the format from a file extension. Unknown extensions
// default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q (want json or toml)", s)
	}
}

// Input is a decoded ordering request: the adjacency snapshot, the working
// set and optional per-node metadata.
type Input struct {
	Adjacency dag.Adjacency
	Nodes     []dag.NodeID
	Meta      map[dag.NodeID]dag.Metadata
}

// Graph builds an indexed graph from the input. Working-set nodes without
// adjacency entries are included, and node metadata is attached.
func (in *Input) Graph() *dag.Graph {
	g := dag.FromAdjacency(in.Adjacency)
	for _, id := range in.Nodes {
		if id != "" && !g.HasNode(id) {
			_ = g.AddNode(dag.Node{ID: id})
		}
	}
	for id, meta := range in.Meta {
		if n, ok := g.Node(id); ok {
			for k, v := range meta {
				n.Meta[k] = v
			}
		}
	}
	return g
}

// document is the adjacency form of the input:
//
//	{"adjacency": {"A": ["B"]}, "nodes": ["A", "B"], "meta": {"A": {...}}}
type document struct {
	Adjacency dag.Adjacency                `json:"adjacency" toml:"adjacency"`
	Nodes     []dag.NodeID                 `json:"nodes" toml:"nodes"`
	Meta      map[dag.NodeID]dag.Metadata `json:"meta,omitempty" toml:"meta"`
}

// ReadInput decodes an ordering request from r and validates its working
// set.
//
// Two shapes are accepted in JSON and TOML alike:
//
//   - the adjacency document, with an "adjacency" table and an optional
//     "nodes" list naming the working set;
//   - the graph form written by [WriteJSON], with "nodes" objects and
//     "edges" pairs.
//
// When no working set is given, every node mentioned anywhere in the input
// forms the working set: adjacency keys in sorted order followed by
// children not seen before, or the graph's nodes in file order.
//
// Decoding failures carry INVALID_FORMAT; an invalid working-set ID fails
// [Input.Validate] with INVALID_GRAPH. IDs that only appear outside the
// working set are never checked.
func ReadInput(r io.Reader, format Format) (*Input, error) {
	in, err := DecodeInput(r, format)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// DecodeInput is [ReadInput] without working-set validation, for callers
// that replace Nodes before validating.
func DecodeInput(r io.Reader, format Format) (*Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > maxInputSize {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "input exceeds %d bytes", maxInputSize)
	}

	switch format {
	case FormatTOML:
		return decodeTOML(data)
	case FormatJSON, "":
		return decodeJSON(data)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

// ImportFile reads the file at path with [ReadInput], choosing the format
// from the extension.
func ImportFile(path string) (*Input, error) {
	in, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// DecodeFile is [ImportFile] without working-set validation.
func DecodeFile(path string) (*Input, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeInput(f, FormatFromPath(path))
}

func decodeJSON(data []byte) (*Input, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode JSON")
	}

	if _, ok := probe["edges"]; ok {
		g, err := ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return fromGraph(g), nil
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	return fromDocument(doc), nil
}

// tomlGraph is the graph form in TOML:
//
//	[[nodes]]
//	id = "a"
//
//	[[edges]]
//	from = "a"
//	to = "b"
type tomlGraph struct {
	Nodes []node `toml:"nodes"`
	Edges []edge `toml:"edges"`
}

func decodeTOML(data []byte) (*Input, error) {
	var probe map[string]any
	if _, err := toml.Decode(string(data), &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode TOML")
	}

	if _, ok := probe["edges"]; ok {
		var tg tomlGraph
		if _, err := toml.Decode(string(data), &tg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode TOML")
		}
		g, err := buildGraph(graph{Nodes: tg.Nodes, Edges: tg.Edges})
		if err != nil {
			return nil, err
		}
		return fromGraph(g), nil
	}

	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode TOML")
	}
	for _, key := range md.Undecoded() {
		// Nested metadata values decode into any and are never marked.
		if len(key) > 0 && key[0] == "meta" {
			continue
		}
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown TOML key %q", key.String())
	}
	return fromDocument(doc), nil
}

func fromDocument(doc document) *Input {
	in := &Input{Adjacency: doc.Adjacency, Nodes: doc.Nodes, Meta: doc.Meta}
	if in.Adjacency == nil {
		in.Adjacency = dag.Adjacency{}
	}
	if in.Nodes == nil {
		in.Nodes = mentioned(in.Adjacency)
	}
	return in
}

func fromGraph(g *dag.Graph) *Input {
	in := &Input{
		Adjacency: g.Adjacency(),
		Nodes:     g.NodeIDs(),
		Meta:      make(map[dag.NodeID]dag.Metadata),
	}
	for _, n := range g.Nodes() {
		if len(n.Meta) > 0 {
			in.Meta[n.ID] = n.Meta
		}
	}
	return in
}

// mentioned lists every node of adj: sorted keys, then children that are
// not keys, in the order they appear under those keys.
func mentioned(adj dag.Adjacency) []dag.NodeID {
	keys := adj.Keys()
	ids := slices.Clone(keys)
	for _, k := range keys {
		for _, child := range adj[k] {
			if _, isKey := adj[child]; !isKey {
				ids = append(ids, child)
			}
		}
	}
	return dag.Dedup(ids)
}

// Validate checks every working-set ID with [apperrors.ValidateNodeID].
// Adjacency entries naming nodes outside the working set are left alone;
// the ordering engine ignores them.
func (in *Input) Validate() error {
	for i, id := range in.Nodes {
		if err := apperrors.ValidateNodeID(id); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "nodes[%d]", i)
		}
	}
	return nil
}
