package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackorder/pkg/dag"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "order:abc", []byte(`{"order":["A"]}`), TTLOrder); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "order:abc")
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = (%q, %v, %v), want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, "order:abc"); err != nil {
		t.Errorf("Delete: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := c.Get(canceled, "order:abc"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get on canceled context = %v, want context.Canceled", err)
	}
	if err := c.Set(canceled, "order:abc", nil, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Set on canceled context = %v, want context.Canceled", err)
	}
}

func TestDisabled(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		c    Cache
		want bool
	}{
		{"nil", nil, true},
		{"null", NewNullCache(), true},
		{"file", fc, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Disabled(tt.c); got != tt.want {
				t.Errorf("Disabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// OrderKey should include options in hash
	ok1 := k.OrderKey("hash123", OrderKeyOpts{})
	ok2 := k.OrderKey("hash123", OrderKeyOpts{Layers: true})
	ok3 := k.OrderKey("hash123", OrderKeyOpts{BreakCycles: true})
	if ok1 == ok2 || ok1 == ok3 || ok2 == ok3 {
		t.Error("Different OrderKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ok1, "order:") {
		t.Errorf("OrderKey unexpected: %s", ok1)
	}

	// Deterministic
	if k.OrderKey("hash123", OrderKeyOpts{}) != ok1 {
		t.Error("OrderKey should be deterministic")
	}

	// GraphKey
	if gk := k.GraphKey("abc"); gk != "graph:abc" {
		t.Errorf("GraphKey unexpected: %s", gk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "client:123:")

	// All keys should be prefixed
	graphKey := scoped.GraphKey("abc")
	if graphKey != "client:123:graph:abc" {
		t.Errorf("ScopedKeyer GraphKey unexpected: %s", graphKey)
	}

	orderKey := scoped.OrderKey("abc", OrderKeyOpts{})
	if orderKey != "client:123:"+inner.OrderKey("abc", OrderKeyOpts{}) {
		t.Errorf("ScopedKeyer OrderKey should be prefixed: %s", orderKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.GraphKey("key")
	if key != "prefix:graph:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestHashInput(t *testing.T) {
	base := HashInput(dag.Adjacency{"a": {"b"}, "b": {"c"}}, []dag.NodeID{"a", "b", "c"})

	tests := []struct {
		name  string
		adj   dag.Adjacency
		nodes []dag.NodeID
		same  bool
	}{
		{"Identical", dag.Adjacency{"b": {"c"}, "a": {"b"}}, []dag.NodeID{"a", "b", "c"}, true},
		{"EmptyChildListIgnored", dag.Adjacency{"a": {"b"}, "b": {"c"}, "c": {}}, []dag.NodeID{"a", "b", "c"}, true},
		{"DuplicateNodesCollapse", dag.Adjacency{"a": {"b"}, "b": {"c"}}, []dag.NodeID{"a", "b", "a", "c"}, true},
		{"NodeOrderMatters", dag.Adjacency{"a": {"b"}, "b": {"c"}}, []dag.NodeID{"c", "b", "a"}, false},
		{"DifferentEdge", dag.Adjacency{"a": {"c"}, "b": {"c"}}, []dag.NodeID{"a", "b", "c"}, false},
		{"NoEdges", dag.Adjacency{}, []dag.NodeID{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HashInput(tt.adj, tt.nodes)
			if (got == base) != tt.same {
				t.Errorf("HashInput equal = %v, want %v", got == base, tt.same)
			}
		})
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get(key) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}

	// Zero TTL never expires
	_ = c.Set(ctx, "forever", []byte("x"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL missing")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left in cache dir", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir = %s, want %s", c.Dir(), dir)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type payload struct {
		Order []string `json:"order"`
	}

	var got payload
	if err := GetJSON(ctx, c, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("GetJSON on empty cache = %v, want ErrCacheMiss", err)
	}

	if err := SetJSON(ctx, c, "k", payload{Order: []string{"a", "b"}}, time.Hour); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := GetJSON(ctx, c, "k", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if len(got.Order) != 2 || got.Order[0] != "a" {
		t.Errorf("GetJSON = %+v", got)
	}

	_ = c.Set(ctx, "k", []byte("not json"), time.Hour)
	if err := GetJSON(ctx, c, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("undecodable entry: err = %v, want ErrCacheMiss", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("undecodable entry not deleted")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
