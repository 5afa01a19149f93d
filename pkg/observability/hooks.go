// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the binary decides what
// to do with them. Nothing here depends on a specific backend.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "extracting")
//	// ... run the extractor ...
//	observability.Pipeline().OnStageComplete(ctx, "extracting", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the graph pipeline.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ExecHooks receives events from external tool invocations.
type ExecHooks interface {
	// OnStart records that a subprocess is about to run.
	OnStart(ctx context.Context, argv []string)

	// OnExit records subprocess termination. exitCode is -1 if the process
	// could not be started or was killed.
	OnExit(ctx context.Context, argv []string, exitCode int, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopExecHooks is a no-op implementation of ExecHooks.
type NoopExecHooks struct{}

func (NoopExecHooks) OnStart(context.Context, []string)                           {}
func (NoopExecHooks) OnExit(context.Context, []string, int, time.Duration, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	execHooks     ExecHooks     = NoopExecHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetExecHooks registers custom subprocess hooks.
func SetExecHooks(h ExecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		execHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Exec returns the registered subprocess hooks.
func Exec() ExecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return execHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	execHooks = NoopExecHooks{}
}
