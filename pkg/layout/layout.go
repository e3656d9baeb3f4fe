// Package layout defines the pluggable layout-algorithm contract and the
// plumbing that drives algorithms frame by frame: a registry keyed by
// algorithm name, a persistent per-algorithm state store, and a runner that
// performs the construct → step → export cycle on behalf of a host.
//
// # Contract
//
// An algorithm is constructed from previously persisted state (or from
// defaults when none exists), advances node positions one step per call
// given the current drawing area, and exports its state back for
// persistence. The three operations are deliberately separate so hosts can
// swap algorithms freely while state persistence stays uniform.
//
// A Step call mutates node positions in place and must complete without
// leaving the graph partially updated: implementations compute all
// displacements against the positions as of step start, then apply them in
// one pass. Steps are cheap enough to run once per redraw frame.
//
// All driving is single-threaded and cooperative. Hosts that share a graph
// or store across goroutines serialize access themselves.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

var (
	// ErrUnknownAlgorithm is returned by [New] when no builder is registered
	// under the requested name.
	ErrUnknownAlgorithm = errors.New("unknown layout algorithm")
)

// Layout is the contract every positioning algorithm implements.
type Layout interface {
	// Name returns the algorithm's registry name. It doubles as the key the
	// state store persists the algorithm's state under.
	Name() string

	// Step advances the layout one frame, mutating node positions in g.
	// The drawing area is informational (centering, extent-derived
	// constants), not a clipping constraint. Calling Step on a stopped or
	// already-settled algorithm is safe and cheap.
	Step(g *graph.Graph, area geom.Rect)

	// ExportState returns the algorithm's serialized state for persistence.
	// The host stores it and hands it back to the builder next time the
	// algorithm is constructed.
	ExportState() (json.RawMessage, error)
}

// Startable is implemented by algorithms driven by an explicit running flag
// (the force-directed simulation). Algorithms that are one-shot placements
// need not implement it.
type Startable interface {
	Running() bool
	SetRunning(on bool)
}

// Builder constructs an algorithm instance from persisted state.
// A nil state must produce an instance with algorithm-defined defaults and
// never fail; a syntactically invalid state is an error.
type Builder func(state json.RawMessage) (Layout, error)

// =============================================================================
// Registry
// =============================================================================

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{}
)

// Register makes a builder available under name. Algorithm packages call it
// from init; re-registering a name overwrites the previous builder.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// New constructs the named algorithm from persisted state (nil for
// defaults). Returns ErrUnknownAlgorithm for unregistered names.
func New(name string, state json.RawMessage) (Layout, error) {
	registryMu.RLock()
	b, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return b(state)
}

// Algorithms returns the registered algorithm names, sorted.
func Algorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
