// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about table materialization, index cache operations, and HTTP
// API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in internal/metrics and is registered by
// the serve command; libraries only ever talk to the interfaces below.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMaterializeHooks(&myHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Materialize().OnMaterializeStart(ctx, models, handles)
//	// ... build rows ...
//	observability.Materialize().OnMaterializeComplete(ctx, rows, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Materialize Hooks
// =============================================================================

// MaterializeHooks receives events from the property table materializer.
type MaterializeHooks interface {
	// Selection events
	OnMaterializeStart(ctx context.Context, models, handles int)
	OnMaterializeComplete(ctx context.Context, rows int, duration time.Duration, err error)

	// Memo events
	OnMemoHit(ctx context.Context, model string)
	OnMemoMiss(ctx context.Context, model string)
	OnMemoReset(ctx context.Context)

	// Graph anomalies recovered locally
	OnEntityMissing(ctx context.Context, model string, handle uint32)
	OnCycleDetected(ctx context.Context, model string, handle uint32)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMaterializeHooks is a no-op implementation of MaterializeHooks.
type NoopMaterializeHooks struct{}

func (NoopMaterializeHooks) OnMaterializeStart(context.Context, int, int) {}
func (NoopMaterializeHooks) OnMaterializeComplete(context.Context, int, time.Duration, error) {
}
func (NoopMaterializeHooks) OnMemoHit(context.Context, string)               {}
func (NoopMaterializeHooks) OnMemoMiss(context.Context, string)              {}
func (NoopMaterializeHooks) OnMemoReset(context.Context)                     {}
func (NoopMaterializeHooks) OnEntityMissing(context.Context, string, uint32) {}
func (NoopMaterializeHooks) OnCycleDetected(context.Context, string, uint32) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	materializeHooks MaterializeHooks = NoopMaterializeHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetMaterializeHooks registers custom materializer hooks.
// This should be called once at application startup.
func SetMaterializeHooks(h MaterializeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		materializeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Materialize returns the registered materializer hooks.
func Materialize() MaterializeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return materializeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	materializeHooks = NoopMaterializeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
