// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solver runs and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [PrometheusHooks] implements every interface on top of a private
// Prometheus registry that can be dumped in the textfile exposition format.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := observability.NewPrometheusHooks()
//	    observability.SetSolverHooks(h)
//	    observability.SetCacheHooks(h)
//	    // ... run application
//	    _ = h.WriteTextfile("antroute.prom")
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnRunStart(ctx, runID, ants, iters)
//	// ... iterate ...
//	observability.Solver().OnRunComplete(ctx, runID, best, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from solver runs.
type SolverHooks interface {
	// OnRunStart records the start of a run with the pool size and the number
	// of iterations requested.
	OnRunStart(ctx context.Context, runID string, ants, iters int)

	// OnIterationComplete records one generate/update cycle.
	OnIterationComplete(ctx context.Context, runID string, iter int, best, mean float64, stalled int, duration time.Duration)

	// OnAntStalled records an ant that did not reach its destination.
	OnAntStalled(ctx context.Context, runID string, iter int, err error)

	// OnRunComplete records the end of a run. best is the shortest path
	// length found, 0 when none was.
	OnRunComplete(ctx context.Context, runID string, best float64, duration time.Duration, err error)
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

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnRunStart(context.Context, string, int, int) {}
func (NoopSolverHooks) OnIterationComplete(context.Context, string, int, float64, float64, int, time.Duration) {
}
func (NoopSolverHooks) OnAntStalled(context.Context, string, int, error)                    {}
func (NoopSolverHooks) OnRunComplete(context.Context, string, float64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any run.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
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

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
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
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
}
