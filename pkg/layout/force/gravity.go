package force

// GravityName is the registry name of the built-in center-gravity extra.
const GravityName = "center-gravity"

// DefaultGravityStrength is the fraction of a node's distance to the area
// center pulled back per step.
const DefaultGravityStrength = 0.05

// CenterGravity pulls every node toward the center of the drawing area
// proportionally to its distance and the configured strength. It keeps
// disconnected components from drifting apart and is the reference
// implementation of the [Extra] contract.
type CenterGravity struct {
	Strength float64
}

// NewCenterGravity creates a center-gravity extra. A non-positive strength
// falls back to DefaultGravityStrength.
func NewCenterGravity(strength float64) *CenterGravity {
	if strength <= 0 {
		strength = DefaultGravityStrength
	}
	return &CenterGravity{Strength: strength}
}

// Name returns the extra's composition name.
func (c *CenterGravity) Name() string { return GravityName }

// Apply accumulates the pull toward the area center for every node.
// Dragged nodes accumulate too; exclusion from application is the
// simulation's job, not the extra's.
func (c *CenterGravity) Apply(ctx *Context) {
	center := ctx.Area.Center()
	for _, id := range ctx.Nodes {
		n := ctx.Graph.Node(id)
		if n == nil {
			continue
		}
		pull := center.Sub(n.Pos).Scale(c.Strength)
		ctx.Disp[id] = ctx.Disp[id].Add(pull)
	}
}

// Ensure CenterGravity implements Extra.
var _ Extra = (*CenterGravity)(nil)
