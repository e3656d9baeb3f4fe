// Package observability provides hooks for instrumenting the layout engine.
//
// The package uses a simple hooks pattern: hook interfaces for each event
// category, no-op default implementations, and registration at startup.
// Libraries call the accessors to emit events; hosts that want metrics or
// tracing register implementations backed by their framework of choice.
// Nothing in this package depends on an observability backend.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries emit events:
//
//	observability.Layout().OnStepStart(ctx, "force", nodeCount)
//	// ... advance simulation ...
//	observability.Layout().OnStepComplete(ctx, "force", nodeCount, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout step execution.
type LayoutHooks interface {
	// OnStepStart records the beginning of a layout step.
	OnStepStart(ctx context.Context, algorithm string, nodeCount int)

	// OnStepComplete records a finished layout step. Duration may be zero
	// when steps are batched and not individually timed.
	OnStepComplete(ctx context.Context, algorithm string, nodeCount int, duration time.Duration)
}

// =============================================================================
// State Store Hooks
// =============================================================================

// StateHooks receives events from layout state persistence.
type StateHooks interface {
	// OnLoad records a state load (hit only; misses construct defaults).
	OnLoad(ctx context.Context, algorithm string, size int)

	// OnSave records a state save.
	OnSave(ctx context.Context, algorithm string, size int)

	// OnClear records a state reset.
	OnClear(ctx context.Context, algorithm string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnStepStart(context.Context, string, int)                   {}
func (NoopLayoutHooks) OnStepComplete(context.Context, string, int, time.Duration) {}

// NoopStateHooks is a no-op implementation of StateHooks.
type NoopStateHooks struct{}

func (NoopStateHooks) OnLoad(context.Context, string, int) {}
func (NoopStateHooks) OnSave(context.Context, string, int) {}
func (NoopStateHooks) OnClear(context.Context, string)     {}

// =============================================================================
// Registration
// =============================================================================

var (
	mu          sync.RWMutex
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	stateHooks  StateHooks  = NoopStateHooks{}
)

// SetLayoutHooks registers the layout hooks. Pass nil to restore the no-op.
func SetLayoutHooks(h LayoutHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopLayoutHooks{}
	}
	layoutHooks = h
}

// SetStateHooks registers the state hooks. Pass nil to restore the no-op.
func SetStateHooks(h StateHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopStateHooks{}
	}
	stateHooks = h
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	mu.RLock()
	defer mu.RUnlock()
	return layoutHooks
}

// State returns the registered state hooks.
func State() StateHooks {
	mu.RLock()
	defer mu.RUnlock()
	return stateHooks
}
