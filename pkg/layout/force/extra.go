package force

import (
	"encoding/json"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

// Context is the view of one simulation step handed to an extra force.
// Extras read whatever graph state they need but write only into Disp, the
// shared per-node displacement accumulator; node positions are applied by
// the simulation after all extras have run.
type Context struct {
	// Graph is the graph being laid out. Read-only by contract.
	Graph *graph.Graph

	// Nodes are the identities being processed this step, in the iteration
	// order the core forces used.
	Nodes []graph.NodeID

	// Disp accumulates each node's displacement for this step. Core
	// repulsion and attraction have already been added when extras run.
	Disp map[graph.NodeID]geom.Vec2

	// Area is the current drawing area.
	Area geom.Rect

	// K is the current ideal edge length constant.
	K float64
}

// Extra is an independently defined force contributor plugged into the
// simulation's displacement accumulation.
//
// Extras compose as an ordered sequence declared at construction time:
// earlier extras accumulate first, and an extra is free to react to what is
// already in the accumulator, so the order is part of the simulation's
// observable behavior, not an implementation detail. Each extra can be
// enabled and disabled individually without leaving the sequence, which
// preserves ordering and any internal state for when it is re-enabled.
type Extra interface {
	// Name identifies the extra within a composition, for enable toggles
	// and state persistence. Names must be unique per composition.
	Name() string

	// Apply adds the extra's displacement contribution into ctx.Disp.
	Apply(ctx *Context)
}

// Stateful is implemented by extras that carry state across steps. Their
// state rides along inside the simulation's own persisted state, keyed by
// extra name.
type Stateful interface {
	ExportState() (json.RawMessage, error)
	ImportState(state json.RawMessage) error
}

// extraSlot pairs an extra with its enable flag. Disabled extras stay in
// the sequence so ordering and state survive the toggle.
type extraSlot struct {
	extra   Extra
	enabled bool
}
