package graph

// EdgeID identifies an edge with the same slot-plus-generation stability
// guarantees as [NodeID].
//
// The zero EdgeID never references an edge.
type EdgeID struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether the ID is the zero value.
func (id EdgeID) IsZero() bool { return id.gen == 0 }

// Edge carries the per-edge visual state layered on top of the topology.
// Multigraph semantics apply: any number of edges may connect the same pair
// of nodes, distinguished by their order index.
type Edge struct {
	// Label is the optional display label.
	Label string

	// Selected marks the edge as part of the current selection.
	Selected bool

	from  NodeID
	to    NodeID
	order int
}

// From returns the source endpoint.
func (e *Edge) From() NodeID { return e.from }

// To returns the target endpoint.
func (e *Edge) To() NodeID { return e.to }

// Order returns the edge's zero-based rank among the edges sharing the same
// unordered endpoint pair. The graph recomputes it whenever parallel edges
// are added or removed so that the ranks of every pair form a dense 0..k
// range; it cannot be set by callers. Consumers use it to visually offset
// parallel edges.
func (e *Edge) Order() int { return e.order }

// pairKey is the canonical unordered endpoint pair of an edge, used to group
// parallel edges regardless of direction.
type pairKey struct {
	a, b NodeID
}

func newPairKey(from, to NodeID) pairKey {
	if to.less(from) {
		from, to = to, from
	}
	return pairKey{a: from, b: to}
}
