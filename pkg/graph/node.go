package graph

import "github.com/jspreng/nodegrav/pkg/geom"

// NodeID identifies a node for as long as it remains in the graph.
// IDs are issued by [Graph.AddNode] and stay valid across removals of other
// elements. Removing a node invalidates its ID permanently: the underlying
// slot may be reused, but with a new generation, so a stale ID is detected
// instead of silently aliasing the new occupant.
//
// The zero NodeID never references a node.
type NodeID struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether the ID is the zero value.
func (id NodeID) IsZero() bool { return id.gen == 0 }

// less orders IDs by slot, then generation. Used to canonicalize unordered
// endpoint pairs and to produce deterministic iteration.
func (id NodeID) less(other NodeID) bool {
	if id.slot != other.slot {
		return id.slot < other.slot
	}
	return id.gen < other.gen
}

// Node carries the per-node visual and simulation state layered on top of
// the graph topology. Position is owned by the graph: layout algorithms
// write it back through the node at the end of a step and never keep their
// own authoritative copy.
type Node struct {
	// Name is the external identifier used by documents and renderers.
	// It plays no role in topology; identity is the NodeID.
	Name string

	// Pos is the node's current layout position. Once a node has been laid
	// out, Pos is always finite; layout implementations guarantee this.
	Pos geom.Vec2

	// Label is the optional display label. Renderers fall back to Name.
	Label string

	// Selected marks the node as part of the current selection.
	Selected bool

	// Dragged marks the node as under direct pointer control. While set,
	// layout algorithms must not overwrite Pos, though the node still acts
	// as a force source for its neighbors.
	Dragged bool

	// Color is an optional display color override (e.g. "#ff8800").
	// Empty means the renderer's default.
	Color string
}

// DisplayLabel returns Label if set, otherwise Name.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name
}
