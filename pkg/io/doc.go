// Package io reads ordering requests and writes graphs and orderings.
//
// # Input Formats
//
// Two shapes are accepted, each in JSON or TOML. The adjacency document is
// the natural way to hand over a snapshot plus the working set:
//
//	{
//	  "adjacency": {"app": ["lib-a"], "lib-a": ["lib-b"]},
//	  "nodes": ["lib-b", "app", "lib-a"],
//	  "meta": {"app": {"owner": "core"}}
//	}
//
// or, equivalently:
//
//	nodes = ["lib-b", "app", "lib-a"]
//
//	[adjacency]
//	app = ["lib-a"]
//	lib-a = ["lib-b"]
//
// "nodes" is optional; without it every node mentioned in the adjacency
// list is ordered. "meta" is optional per-node metadata used by renderers.
//
// The graph form is what [WriteJSON] produces:
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "lib-a"}],
//	  "edges": [{"from": "app", "to": "lib-a"}]
//	}
//
// [ReadInput] tells the two apart by the presence of an "edges" key.
//
// # Import
//
// Use [ImportFile] to read from a path (format chosen by extension) or
// [ReadInput] to read from any io.Reader:
//
//	in, err := io.ImportFile("deps.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ordered, err := order.Sort(in.Adjacency, in.Nodes)
//
// Working-set IDs are validated; adjacency entries that only name nodes
// outside the working set are kept as they are. Errors carry codes from the
// errors package (INVALID_FORMAT for undecodable input, INVALID_GRAPH for
// bad working-set IDs and dangling edges, FILE_NOT_FOUND for missing files).
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a graph in the graph form.
// [WriteOrder] writes an ordering result as JSON or plain text.
package io
