package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/cache"
	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/order"
	"github.com/matzehuels/stackorder/pkg/dag/transform"
	"github.com/matzehuels/stackorder/pkg/observability"
)

// cacheKeyType labels ordering entries in cache hooks.
const cacheKeyType = "order"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Order validates req, serves it from the cache when possible and
// otherwise orders the working set and stores the result.
//
// A cyclic working set fails with *order.CycleError unless
// req.BreakCycles is set. Cache failures are logged and never fail the
// request.
func (r *Runner) Order(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	nodes := dag.Dedup(req.Nodes)
	caching := !cache.Disabled(r.Cache)
	var key string
	if caching {
		key = r.Keyer.OrderKey(cache.HashInput(req.Adjacency, nodes), cache.OrderKeyOpts{
			BreakCycles: req.BreakCycles,
			Layers:      req.Layers,
		})
	}

	if caching && !req.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			res.Cached = true
			res.Stats.Duration = time.Since(start)
			observability.Order().OnOrderComplete(ctx, res.Stats.NodeCount, res.Stats.Duration, nil)
			r.Logger.Debug("ordering served from cache",
				"nodes", res.Stats.NodeCount,
				"edges", res.Stats.EdgeCount,
				"cached", true)
			return res, nil
		}
	}

	res, err := r.compute(ctx, req, nodes)
	duration := time.Since(start)
	observability.Order().OnOrderComplete(ctx, len(nodes), duration, err)
	if err != nil {
		var ce *order.CycleError
		if errors.As(err, &ce) {
			r.Logger.Debug("working set is cyclic",
				"nodes", len(nodes),
				"unresolved", len(ce.Unresolved))
		}
		return nil, err
	}
	res.Stats.Duration = duration

	if caching {
		r.store(ctx, key, res, req.TTL)
	}

	r.Logger.Info("ordered working set",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"removed_edges", len(res.RemovedEdges),
		"duration", duration,
		"cached", false)
	return res, nil
}

// compute restricts the adjacency list to nodes and orders it.
func (r *Runner) compute(ctx context.Context, req Request, nodes []dag.NodeID) (*Result, error) {
	sub := transform.RestrictAdjacency(req.Adjacency, nodes)
	res := &Result{
		Stats: Stats{NodeCount: sub.NodeCount(), EdgeCount: sub.EdgeCount()},
	}
	observability.Order().OnOrderStart(ctx, res.Stats.NodeCount, res.Stats.EdgeCount)

	adj := req.Adjacency
	if req.BreakCycles {
		res.RemovedEdges = transform.BreakCycles(sub)
		if len(res.RemovedEdges) > 0 {
			observability.Order().OnCyclesBroken(ctx, len(res.RemovedEdges))
			r.Logger.Warn("broke cycles", "removed_edges", len(res.RemovedEdges))
		}
		adj = sub.Adjacency()
	}

	ordered, err := order.Sort(adj, nodes)
	if err != nil {
		return nil, err
	}
	res.Order = ordered

	if req.Layers {
		// Sort succeeded on the same input, so Layers cannot hit a cycle.
		layers, err := order.Layers(adj, nodes)
		if err != nil {
			return nil, err
		}
		res.Layers = layers
	}
	return res, nil
}

// lookup reads a cached result. Read errors count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	var res Result
	err := cache.GetJSON(ctx, r.Cache, key, &res)
	switch {
	case err == nil:
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return &res, true
	case errors.Is(err, cache.ErrCacheMiss):
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	default:
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		r.Logger.Warn("cache read failed", "err", err)
	}
	return nil, false
}

// store writes res to the cache. Write errors are logged.
func (r *Runner) store(ctx context.Context, key string, res *Result, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.TTLOrder
	}
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Warn("encode cache entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
