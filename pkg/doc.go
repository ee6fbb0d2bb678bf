// Package pkg holds the stackorder libraries.
//
// # Overview
//
// Stackorder computes a dependency-respecting order for a caller-chosen
// working set of nodes in a directed graph. Edges that touch a node outside
// the working set are ignored, so one adjacency snapshot serves any number
// of subsets.
//
// The packages fall into four groups:
//
//  1. Engine: [dag], [dag/order], [dag/transform]
//  2. Input and output: [io], [render/nodelink]
//  3. Orchestration: [pipeline], [cache], [observability]
//  4. Services: [api], [settings], [appstate]
//
// Shared error codes and input validation live in [errors].
//
// # Data Flow
//
//	adjacency + working set (JSON/TOML)
//	         ↓
//	    io.ReadInput
//	         ↓
//	  pipeline.Runner ── cache (file, Redis, MongoDB)
//	         ↓
//	     order.Sort / order.Layers
//	         ↓
//	io.WriteOrder · nodelink.ToDOT · api JSON
//
// # Quick Start
//
//	adj := dag.Adjacency{"app": {"api"}, "api": {"db"}, "db": nil}
//	ordered, err := order.Sort(adj, []string{"db", "app", "api"})
//	// ordered == [app api db]
//
// With caching and observability:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Order(ctx, pipeline.Request{Adjacency: adj, Nodes: nodes})
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/dag
// [dag/order]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/dag/order
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/dag/transform
// [io]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/api
// [settings]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/settings
// [appstate]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/appstate
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackorder/pkg/errors
package pkg
