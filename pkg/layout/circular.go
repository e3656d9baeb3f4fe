package layout

import (
	"encoding/json"
	"math"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

// CircularName is the registry name of the circular layout.
const CircularName = "circular"

// Circular places nodes evenly on a circle sized to the drawing area.
// Placement is a pure function of node order and area, so repeated steps are
// idempotent; it carries no state worth persisting.
type Circular struct{}

// NewCircular constructs the circular layout. The state argument is
// accepted for contract uniformity and ignored.
func NewCircular(json.RawMessage) (*Circular, error) {
	return &Circular{}, nil
}

// Name returns the registry name.
func (c *Circular) Name() string { return CircularName }

// Step assigns circle positions to all non-dragged nodes. A single node
// goes to the area center.
func (c *Circular) Step(g *graph.Graph, area geom.Rect) {
	ids := g.Nodes()
	if len(ids) == 0 {
		return
	}

	center := area.Center()
	radius := math.Min(area.Width(), area.Height()) * 0.4
	angleStep := 2 * math.Pi / float64(len(ids))

	for i, id := range ids {
		n := g.Node(id)
		if n.Dragged {
			continue
		}
		if len(ids) == 1 {
			n.Pos = center
			continue
		}
		angle := float64(i) * angleStep
		n.Pos = geom.V(
			center.X+radius*math.Cos(angle),
			center.Y+radius*math.Sin(angle),
		)
	}
}

// ExportState returns an empty JSON object; the circular layout is
// stateless.
func (c *Circular) ExportState() (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

// Ensure Circular implements Layout.
var _ Layout = (*Circular)(nil)

func init() {
	Register(CircularName, func(state json.RawMessage) (Layout, error) {
		return NewCircular(state)
	})
}
