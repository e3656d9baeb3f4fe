package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/observability"
)

// Runner drives registered algorithms through the construct → step → export
// cycle against a persistent state store. It is the piece a host hands the
// per-frame work to: each Step call loads the algorithm's state, constructs
// an instance, advances it once, and persists the exported state for the
// next frame.
//
// The Runner is stateless apart from the store and logger; the same Runner
// can drive different algorithms and graphs, as long as callers serialize
// access to any one graph.
type Runner struct {
	Store  Store
	Scope  string // optional state-key prefix, typically the document ID
	Logger *log.Logger
}

// NewRunner creates a runner over the given store.
// A nil store falls back to a fresh MemoryStore; a nil logger to the
// default logger.
func NewRunner(store Store, scope string, logger *log.Logger) *Runner {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: store, Scope: scope, Logger: logger}
}

// Step advances the named algorithm by one frame and persists its state.
func (r *Runner) Step(ctx context.Context, g *graph.Graph, name string, area geom.Rect) error {
	l, err := r.Construct(ctx, name)
	if err != nil {
		return err
	}

	start := time.Now()
	observability.Layout().OnStepStart(ctx, name, g.NodeCount())
	l.Step(g, area)
	observability.Layout().OnStepComplete(ctx, name, g.NodeCount(), time.Since(start))

	return r.save(ctx, l)
}

// StepN advances the named algorithm n frames with a single construct and a
// single state save, for batch use. The per-frame no-partial-update
// guarantee holds for each individual step.
func (r *Runner) StepN(ctx context.Context, g *graph.Graph, name string, area geom.Rect, n int) error {
	l, err := r.Construct(ctx, name)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		observability.Layout().OnStepStart(ctx, name, g.NodeCount())
		l.Step(g, area)
		observability.Layout().OnStepComplete(ctx, name, g.NodeCount(), 0)
	}
	r.Logger.Debug("layout batch complete",
		"algorithm", name,
		"steps", n,
		"nodes", g.NodeCount(),
		"duration", time.Since(start).Round(time.Millisecond))

	return r.save(ctx, l)
}

// Construct builds the named algorithm from its persisted state, or from
// defaults when none is stored. Missing or stale state is never an error.
func (r *Runner) Construct(ctx context.Context, name string) (Layout, error) {
	state, found, err := r.Store.Load(ctx, r.key(name))
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", name, err)
	}
	if found {
		observability.State().OnLoad(ctx, name, len(state))
	}

	l, err := New(name, state)
	if err != nil && found {
		// Stored state from an incompatible version: fall back to defaults
		// rather than failing the frame.
		r.Logger.Warn("discarding unreadable layout state", "algorithm", name, "err", err)
		l, err = New(name, nil)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// SetRunning toggles the running flag of a Startable algorithm and persists
// the change. It is a no-op for algorithms without a running flag.
func (r *Runner) SetRunning(ctx context.Context, name string, on bool) error {
	l, err := r.Construct(ctx, name)
	if err != nil {
		return err
	}
	s, ok := l.(Startable)
	if !ok {
		return nil
	}
	s.SetRunning(on)
	return r.save(ctx, l)
}

// Save persists the state of an externally driven algorithm instance.
// Interactive hosts that hold on to one instance across frames use this
// when the session ends.
func (r *Runner) Save(ctx context.Context, l Layout) error {
	return r.save(ctx, l)
}

// Reset discards the persisted state of the named algorithm, returning it
// to algorithm-defined defaults on next construction.
func (r *Runner) Reset(ctx context.Context, name string) error {
	observability.State().OnClear(ctx, name)
	return r.Store.Clear(ctx, r.key(name))
}

func (r *Runner) save(ctx context.Context, l Layout) error {
	state, err := l.ExportState()
	if err != nil {
		return fmt.Errorf("export state %s: %w", l.Name(), err)
	}
	if err := r.Store.Save(ctx, r.key(l.Name()), state); err != nil {
		return fmt.Errorf("save state %s: %w", l.Name(), err)
	}
	observability.State().OnSave(ctx, l.Name(), len(state))
	return nil
}

// key scopes an algorithm's state key by the runner's document scope so two
// documents never share simulation state.
func (r *Runner) key(name string) string {
	if r.Scope == "" {
		return name
	}
	return r.Scope + ":" + name
}
