package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Order hooks
	o := NoopOrderHooks{}
	o.OnOrderStart(ctx, 100, 250)
	o.OnOrderComplete(ctx, 100, time.Second, nil)
	o.OnCyclesBroken(ctx, 3)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "order")
	c.OnCacheMiss(ctx, "order")
	c.OnCacheSet(ctx, "order", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/order")
	h.OnResponse(ctx, "POST", "/v1/order", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/order", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Order().(NoopOrderHooks); !ok {
		t.Error("Order() should return NoopOrderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customOrder := &testOrderHooks{}
	SetOrderHooks(customOrder)
	if Order() != customOrder {
		t.Error("SetOrderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Order().(NoopOrderHooks); !ok {
		t.Error("Reset() should restore NoopOrderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testOrderHooks{}
	SetOrderHooks(custom)

	// Setting nil should be ignored
	SetOrderHooks(nil)

	if Order() != custom {
		t.Error("SetOrderHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testOrderHooks struct{ NoopOrderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
