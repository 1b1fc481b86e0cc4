// Package observability provides hooks for metrics, tracing, and logging.
//
// Commands and libraries emit events through a process-wide registry; the
// defaults do nothing. A caller that wants instrumentation registers its own
// implementations once at startup, before running any command.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, "time_series", "png")
//	// ... build and draw ...
//	observability.Render().OnRenderComplete(ctx, "time_series", "png", n, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the chart renderer.
type RenderHooks interface {
	// OnRenderStart is called after the spec is validated, before the table
	// is loaded.
	OnRenderStart(ctx context.Context, chartType, format string)

	// OnSample records a row reduction.
	OnSample(ctx context.Context, strategy string, rowsIn, rowsOut int)

	// OnFitFailed records a swallowed layout-fit failure.
	OnFitFailed(ctx context.Context, err error)

	// OnRenderComplete is called once per render with the written size.
	OnRenderComplete(ctx context.Context, chartType, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Digest Hooks
// =============================================================================

// DigestHooks receives events from the statistics extractor.
type DigestHooks interface {
	OnExtractStart(ctx context.Context, runID string)
	OnExtractComplete(ctx context.Context, runID string, keys int, err error)
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
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string)   {}
func (NoopRenderHooks) OnSample(context.Context, string, int, int)      {}
func (NoopRenderHooks) OnFitFailed(context.Context, error)              {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopDigestHooks is a no-op implementation of DigestHooks.
type NoopDigestHooks struct{}

func (NoopDigestHooks) OnExtractStart(context.Context, string)                  {}
func (NoopDigestHooks) OnExtractComplete(context.Context, string, int, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	digestHooks DigestHooks = NoopDigestHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetDigestHooks registers custom digest hooks.
func SetDigestHooks(h DigestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		digestHooks = h
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

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Digest returns the registered digest hooks.
func Digest() DigestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return digestHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	digestHooks = NoopDigestHooks{}
	cacheHooks = NoopCacheHooks{}
}
