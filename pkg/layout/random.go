package layout

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

// RandomName is the registry name of the random scatter layout.
const RandomName = "random"

// DefaultRandomSeed keeps unseeded scatters reproducible.
const DefaultRandomSeed = 42

// RandomState is the persisted state of the random layout.
type RandomState struct {
	// Seed drives the scatter. The default keeps repeated runs reproducible;
	// hosts wanting variety store a different seed.
	Seed uint64 `json:"seed"`

	// Scattered records that the one-shot placement already happened, making
	// every later step a no-op.
	Scattered bool `json:"scattered"`
}

// Random scatters nodes uniformly over the drawing area once, then no-ops.
// It is the simplest complete algorithm and doubles as a seeding layout for
// the force-directed simulation.
type Random struct {
	state RandomState
}

// NewRandom constructs the random layout from persisted state.
// A nil state yields defaults (unscattered, DefaultRandomSeed).
func NewRandom(state json.RawMessage) (*Random, error) {
	r := &Random{state: RandomState{Seed: DefaultRandomSeed}}
	if state != nil {
		if err := json.Unmarshal(state, &r.state); err != nil {
			return nil, fmt.Errorf("random state: %w", err)
		}
	}
	return r, nil
}

// Name returns the registry name.
func (r *Random) Name() string { return RandomName }

// Step scatters every non-dragged node inside the drawing area on the first
// call, and does nothing afterwards.
func (r *Random) Step(g *graph.Graph, area geom.Rect) {
	if r.state.Scattered {
		return
	}

	rng := rand.New(rand.NewPCG(r.state.Seed, r.state.Seed))

	// Keep a margin so nodes don't sit on the area boundary.
	marginX := area.Width() * 0.05
	marginY := area.Height() * 0.05

	for _, id := range g.Nodes() {
		n := g.Node(id)
		if n.Dragged {
			continue
		}
		n.Pos = geom.V(
			area.Min.X+marginX+rng.Float64()*(area.Width()-2*marginX),
			area.Min.Y+marginY+rng.Float64()*(area.Height()-2*marginY),
		)
	}

	r.state.Scattered = true
}

// ExportState returns the serialized state.
func (r *Random) ExportState() (json.RawMessage, error) {
	return json.Marshal(r.state)
}

// Ensure Random implements Layout.
var _ Layout = (*Random)(nil)

func init() {
	Register(RandomName, func(state json.RawMessage) (Layout, error) {
		return NewRandom(state)
	})
}
