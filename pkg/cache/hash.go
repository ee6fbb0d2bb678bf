package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/stackorder/pkg/dag"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashInput computes a canonical hash of an ordering input.
//
// Adjacency keys are sorted, and keys without children are dropped since
// they impose nothing. Child lists and the working set keep their order;
// the working set order decides ties.
func HashInput(adj dag.Adjacency, nodes []dag.NodeID) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, k := range adj.Keys() {
		if len(adj[k]) == 0 {
			continue
		}
		_ = enc.Encode([]any{k, adj[k]})
	}
	// Separator that no encoded pair can produce.
	h.Write([]byte{0})
	_ = enc.Encode(dag.Dedup(nodes))
	return hex.EncodeToString(h.Sum(nil))
}
