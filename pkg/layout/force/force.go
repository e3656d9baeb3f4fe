// Package force implements the Fruchterman-Reingold force-directed layout:
// pairwise repulsion, edge attraction, temperature-capped displacement, and
// a cooling schedule, extended with an ordered composition of extra force
// contributors.
//
// The per-step cost is O(n²) in the node count. That is deliberate: the
// graphs this targets are small enough for interactive recomputation, and
// skipping spatial partitioning keeps the baseline simple and correct.
package force

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
)

// Name is the registry name of the force-directed layout.
const Name = "force"

// minSeparation is the distance floor used wherever a distance appears in a
// denominator, so coincident or near-coincident nodes cannot blow up the
// math.
const minSeparation = 1e-3

// State is the persisted simulation state. It is a plain value: default
// constructible, copyable, and free of references into the engine.
type State struct {
	// Running drives the simulation's only state transition. A stopped
	// simulation leaves all positions untouched.
	Running bool `json:"running"`

	// Temperature caps per-node displacement this step. Zero means a fresh
	// simulation; the first running step initializes it.
	Temperature float64 `json:"temperature"`

	// Iteration counts completed running steps.
	Iteration int `json:"iteration"`

	// Extras holds per-extra sub-state for stateful extras, keyed by extra
	// name.
	Extras map[string]json.RawMessage `json:"extras,omitempty"`
}

// ForceDirected is the Fruchterman-Reingold simulation.
type ForceDirected struct {
	params Params
	state  State
	extras []extraSlot
}

// Option configures a ForceDirected at construction time.
type Option func(*ForceDirected)

// WithParams replaces the default tuning parameters.
func WithParams(p Params) Option {
	return func(f *ForceDirected) { f.params = p.Normalized() }
}

// WithExtra appends an extra to the composition, enabled. Order of
// WithExtra options is the accumulation order.
func WithExtra(e Extra) Option {
	return func(f *ForceDirected) {
		f.extras = append(f.extras, extraSlot{extra: e, enabled: true})
	}
}

// New constructs the simulation from persisted state (nil for defaults:
// stopped, zero temperature). Construction never fails for a nil state.
// Stateful extras are handed their sub-state from the persisted bundle.
func New(state json.RawMessage, opts ...Option) (*ForceDirected, error) {
	f := &ForceDirected{params: DefaultParams()}
	for _, opt := range opts {
		opt(f)
	}

	if state != nil {
		if err := json.Unmarshal(state, &f.state); err != nil {
			return nil, fmt.Errorf("force state: %w", err)
		}
	}

	for _, slot := range f.extras {
		s, ok := slot.extra.(Stateful)
		if !ok {
			continue
		}
		sub, found := f.state.Extras[slot.extra.Name()]
		if !found {
			continue
		}
		if err := s.ImportState(sub); err != nil {
			return nil, fmt.Errorf("extra %s state: %w", slot.extra.Name(), err)
		}
	}

	return f, nil
}

// Name returns the registry name.
func (f *ForceDirected) Name() string { return Name }

// Running reports whether the simulation advances on Step.
func (f *ForceDirected) Running() bool { return f.state.Running }

// SetRunning toggles the simulation's single state transition.
func (f *ForceDirected) SetRunning(on bool) { f.state.Running = on }

// Temperature returns the current displacement cap.
func (f *ForceDirected) Temperature() float64 { return f.state.Temperature }

// Iteration returns the number of completed running steps.
func (f *ForceDirected) Iteration() int { return f.state.Iteration }

// SetExtraEnabled toggles the named extra without removing it from the
// composition, so ordering and extra state are preserved across the toggle.
// Returns false if no extra has that name.
func (f *ForceDirected) SetExtraEnabled(name string, on bool) bool {
	for i := range f.extras {
		if f.extras[i].extra.Name() == name {
			f.extras[i].enabled = on
			return true
		}
	}
	return false
}

// ExtraEnabled reports whether the named extra is present and enabled.
func (f *ForceDirected) ExtraEnabled(name string) bool {
	for _, slot := range f.extras {
		if slot.extra.Name() == name {
			return slot.enabled
		}
	}
	return false
}

// Extras returns the composition's extra names in declared order.
func (f *ForceDirected) Extras() []string {
	names := make([]string, len(f.extras))
	for i, slot := range f.extras {
		names[i] = slot.extra.Name()
	}
	return names
}

// Step advances the simulation one frame.
//
// All displacements are computed against the positions as of step start and
// applied in a single pass at the end, so no caller ever observes a
// partially updated graph and iteration order cannot bias the forces.
// Dragged nodes contribute forces but are never moved. Zero- and one-node
// graphs are a no-op.
func (f *ForceDirected) Step(g *graph.Graph, area geom.Rect) {
	if !f.state.Running {
		return
	}

	ids := g.Nodes()
	if len(ids) < 2 {
		return
	}

	if f.state.Temperature == 0 {
		f.state.Temperature = f.startTemperature(area)
	}

	k := f.idealEdgeLength(area, len(ids))

	f.perturbCoincident(g, ids, k)

	// Snapshot positions as of step start.
	pos := make(map[graph.NodeID]geom.Vec2, len(ids))
	for _, id := range ids {
		pos[id] = g.Node(id).Pos
	}

	disp := make(map[graph.NodeID]geom.Vec2, len(ids))

	// Repulsion between every unordered pair of distinct nodes.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			delta := pos[a].Sub(pos[b])
			d := math.Max(delta.Len(), minSeparation)
			push := delta.Scale(k * k / (d * d))
			disp[a] = disp[a].Add(push)
			disp[b] = disp[b].Sub(push)
		}
	}

	// Attraction along every edge. Self-loops exert no net force.
	for _, eid := range g.Edges() {
		from, to, _ := g.Endpoints(eid)
		if from == to {
			continue
		}
		delta := pos[from].Sub(pos[to])
		d := math.Max(delta.Len(), minSeparation)
		pull := delta.Scale(d / k)
		disp[from] = disp[from].Sub(pull)
		disp[to] = disp[to].Add(pull)
	}

	// Extras, in declared order. Disabled extras contribute zero.
	ctx := &Context{Graph: g, Nodes: ids, Disp: disp, Area: area, K: k}
	for _, slot := range f.extras {
		if slot.enabled {
			slot.extra.Apply(ctx)
		}
	}

	// Apply, capped by temperature. Dragged nodes keep their position; a
	// non-finite result keeps the previous (finite) position rather than
	// poisoning the graph.
	for _, id := range ids {
		n := g.Node(id)
		if n.Dragged {
			continue
		}
		next := pos[id].Add(disp[id].Clamp(f.state.Temperature))
		if !next.IsFinite() {
			continue
		}
		n.Pos = next
	}

	f.state.Temperature = math.Max(
		f.params.TemperatureFloor,
		f.state.Temperature*f.params.CoolOff,
	)
	f.state.Iteration++
}

// ExportState returns the serialized simulation state, including sub-state
// collected from stateful extras.
func (f *ForceDirected) ExportState() (json.RawMessage, error) {
	state := f.state
	for _, slot := range f.extras {
		s, ok := slot.extra.(Stateful)
		if !ok {
			continue
		}
		sub, err := s.ExportState()
		if err != nil {
			return nil, fmt.Errorf("extra %s state: %w", slot.extra.Name(), err)
		}
		if state.Extras == nil {
			state.Extras = make(map[string]json.RawMessage)
		}
		state.Extras[slot.extra.Name()] = sub
	}
	return json.Marshal(state)
}

// idealEdgeLength derives k from the drawing area and node count, per
// Fruchterman-Reingold. A degenerate area falls back to a nominal extent so
// k stays positive and finite.
func (f *ForceDirected) idealEdgeLength(area geom.Rect, n int) float64 {
	a := area.Area()
	if a <= 0 {
		a = 1000 * 1000
	}
	return f.params.Scale * math.Sqrt(a/float64(n))
}

// startTemperature picks the initial displacement cap: the configured value
// if set, otherwise a tenth of the drawing area's larger side.
func (f *ForceDirected) startTemperature(area geom.Rect) float64 {
	if f.params.StartTemperature > 0 {
		return f.params.StartTemperature
	}
	side := math.Max(area.Width(), area.Height())
	if side <= 0 {
		side = 1000
	}
	return side / 10
}

// perturbCoincident nudges exactly coincident nodes apart before repulsion
// is computed. Offsets are deterministic (spread on a small circle) so runs
// are reproducible; dragged nodes stay put and the others move off them.
func (f *ForceDirected) perturbCoincident(g *graph.Graph, ids []graph.NodeID, k float64) {
	groups := make(map[geom.Vec2][]graph.NodeID)
	for _, id := range ids {
		n := g.Node(id)
		groups[n.Pos] = append(groups[n.Pos], id)
	}

	eps := k * 0.01
	if eps <= 0 {
		eps = minSeparation
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		angleStep := 2 * math.Pi / float64(len(group))
		moved := 0
		for i, id := range group {
			n := g.Node(id)
			if n.Dragged {
				continue
			}
			if moved == 0 && !anyDragged(g, group) {
				// The first movable node anchors the group.
				moved++
				continue
			}
			angle := float64(i) * angleStep
			n.Pos = n.Pos.Add(geom.V(eps*math.Cos(angle), eps*math.Sin(angle)))
			moved++
		}
	}
}

func anyDragged(g *graph.Graph, ids []graph.NodeID) bool {
	for _, id := range ids {
		if g.Node(id).Dragged {
			return true
		}
	}
	return false
}

// Ensure the contract is satisfied.
var (
	_ layout.Layout    = (*ForceDirected)(nil)
	_ layout.Startable = (*ForceDirected)(nil)
)

func init() {
	layout.Register(Name, func(state json.RawMessage) (layout.Layout, error) {
		return New(state, WithExtra(NewCenterGravity(DefaultGravityStrength)))
	})
}
