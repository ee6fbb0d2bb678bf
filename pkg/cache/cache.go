// Package cache provides pluggable caching for ordering results.
//
// # Backends
//
// All backends implement [Cache]:
//
//   - [NullCache]: stores nothing (caching disabled, tests)
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the API server
//   - [MongoCache]: shared cache with a TTL index, for deployments that
//     already run MongoDB
//
// # Keys
//
// A [Keyer] turns request parameters into stable cache keys. Keys are
// content-addressed: [HashInput] hashes the adjacency snapshot and working
// set canonically, so two requests share a key exactly when they must
// produce the same ordering.
//
//	k := cache.NewDefaultKeyer()
//	key := k.OrderKey(cache.HashInput(adj, nodes), cache.OrderKeyOpts{Layers: true})
//
// Use [NewScopedKeyer] to isolate tenants that share one backend.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero means no expiration. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live values for cached entries.
const (
	// TTLOrder is the lifetime of a cached ordering result. Results are
	// content-addressed, so this only bounds storage growth.
	TTLOrder = 7 * 24 * time.Hour

	// TTLGraph is the lifetime of a parsed graph.
	TTLGraph = 24 * time.Hour
)

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// OrderKeyOpts are the request options that change an ordering result.
type OrderKeyOpts struct {
	BreakCycles bool `json:"break_cycles"`
	Layers      bool `json:"layers"`
}

// Keyer generates cache keys.
type Keyer interface {
	// OrderKey returns the key for an ordering result of the input
	// identified by inputHash.
	OrderKey(inputHash string, opts OrderKeyOpts) string
	// GraphKey returns the key for a parsed graph identified by the hash of
	// its source bytes.
	GraphKey(sourceHash string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// OrderKey hashes the input hash together with the options.
func (k *DefaultKeyer) OrderKey(inputHash string, opts OrderKeyOpts) string {
	return hashKey("order", inputHash, opts)
}

// GraphKey namespaces a source hash.
func (k *DefaultKeyer) GraphKey(sourceHash string) string {
	return "graph:" + sourceHash
}

var _ Keyer = (*DefaultKeyer)(nil)

// GetJSON loads key into v. A miss returns [ErrCacheMiss]; an entry that
// no longer decodes is deleted and reported as a miss too.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return fmt.Errorf("%w: undecodable entry: %v", ErrCacheMiss, err)
	}
	return nil
}

// SetJSON stores v under key as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
