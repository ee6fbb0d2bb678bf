package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful for the API server, where different clients sharing one
// Redis or Mongo backend need separate cache namespaces.
//
// Example usage:
//
//	// Per-client keys
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// OrderKey generates a prefixed key for ordering results.
func (k *ScopedKeyer) OrderKey(inputHash string, opts OrderKeyOpts) string {
	return k.prefix + k.inner.OrderKey(inputHash, opts)
}

// GraphKey generates a prefixed key for parsed graphs.
func (k *ScopedKeyer) GraphKey(sourceHash string) string {
	return k.prefix + k.inner.GraphKey(sourceHash)
}
