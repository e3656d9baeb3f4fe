// Package graph implements the in-memory graph model for the layout engine.
//
// The model is a directed-or-undirected multigraph with stable element
// identities, augmented with the per-node and per-edge visual state layout
// algorithms and renderers work against (position, selection, drag, labels,
// parallel-edge order). It is pure data: consistency bookkeeping at mutation
// time, no algorithmic behavior.
//
// Identities use an arena-plus-generation scheme. Each element occupies a
// slot; removing it frees the slot and bumps its generation, so an ID held
// across a removal is detected as stale rather than resolving to whatever
// element reused the slot. Lookups with stale IDs return nil or a sentinel
// error, never a wrong element.
//
// Graph is not safe for concurrent use without external synchronization.
package graph

import "slices"

// Graph is the shared-state substrate every layout component reads and
// writes. The zero value is not usable - use New.
type Graph struct {
	directed bool

	nodes     []*nodeSlot
	freeNodes []uint32

	edges     []*edgeSlot
	freeEdges []uint32

	nodeCount int
	edgeCount int
}

type nodeSlot struct {
	gen  uint32
	live bool
	node Node
}

type edgeSlot struct {
	gen  uint32
	live bool
	edge Edge
}

// New creates an empty graph. The directed flag is informational for
// consumers (renderers, serialization); parallel-edge order indices always
// treat endpoint pairs as unordered.
func New(directed bool) *Graph {
	return &Graph{directed: directed}
}

// Directed reports whether the graph was created as directed.
func (g *Graph) Directed() bool { return g.directed }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return g.nodeCount }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// AddNode inserts n and returns its identity. Identities are generated by
// the arena, so insertion cannot collide with an existing node.
func (g *Graph) AddNode(n Node) NodeID {
	if len(g.freeNodes) > 0 {
		slot := g.freeNodes[len(g.freeNodes)-1]
		g.freeNodes = g.freeNodes[:len(g.freeNodes)-1]
		s := g.nodes[slot]
		s.gen++
		s.live = true
		s.node = n
		g.nodeCount++
		return NodeID{slot: slot, gen: s.gen}
	}

	// Generations start at 1 so the zero ID stays invalid.
	s := &nodeSlot{gen: 1, live: true, node: n}
	g.nodes = append(g.nodes, s)
	g.nodeCount++
	return NodeID{slot: uint32(len(g.nodes) - 1), gen: 1}
}

// Node returns the node referenced by id, or nil if the ID is stale or was
// never issued. The returned pointer is valid until the node is removed;
// callers mutate visual fields (position, selection, drag, label) through it.
func (g *Graph) Node(id NodeID) *Node {
	s := g.nodeSlotFor(id)
	if s == nil {
		return nil
	}
	return &s.node
}

// RemoveNode removes the node and all its incident edges.
// Returns ErrUnknownNode if id is stale or unknown.
func (g *Graph) RemoveNode(id NodeID) error {
	s := g.nodeSlotFor(id)
	if s == nil {
		return ErrUnknownNode
	}

	// Cascade: collect incident edges first, then remove them one by one so
	// the surviving pairs get their order indices recomputed.
	var incident []EdgeID
	for slot, es := range g.edges {
		if !es.live {
			continue
		}
		if es.edge.from == id || es.edge.to == id {
			incident = append(incident, EdgeID{slot: uint32(slot), gen: es.gen})
		}
	}
	for _, eid := range incident {
		_ = g.RemoveEdge(eid)
	}

	s.live = false
	g.freeNodes = append(g.freeNodes, id.slot)
	g.nodeCount--
	return nil
}

// AddEdge connects from and to and returns the new edge's identity.
// Both endpoints must be live nodes; otherwise ErrUnknownSourceNode or
// ErrUnknownTargetNode is returned and the graph is unchanged. Self-loops
// and parallel edges are allowed; the new edge's order index is assigned and
// the pair's indices stay dense.
func (g *Graph) AddEdge(from, to NodeID, e Edge) (EdgeID, error) {
	if g.nodeSlotFor(from) == nil {
		return EdgeID{}, ErrUnknownSourceNode
	}
	if g.nodeSlotFor(to) == nil {
		return EdgeID{}, ErrUnknownTargetNode
	}

	e.from = from
	e.to = to

	var id EdgeID
	if len(g.freeEdges) > 0 {
		slot := g.freeEdges[len(g.freeEdges)-1]
		g.freeEdges = g.freeEdges[:len(g.freeEdges)-1]
		s := g.edges[slot]
		s.gen++
		s.live = true
		s.edge = e
		id = EdgeID{slot: slot, gen: s.gen}
	} else {
		s := &edgeSlot{gen: 1, live: true, edge: e}
		g.edges = append(g.edges, s)
		id = EdgeID{slot: uint32(len(g.edges) - 1), gen: 1}
	}
	g.edgeCount++

	g.recomputeOrder(newPairKey(from, to))
	return id, nil
}

// Edge returns the edge referenced by id, or nil if the ID is stale or was
// never issued.
func (g *Graph) Edge(id EdgeID) *Edge {
	s := g.edgeSlotFor(id)
	if s == nil {
		return nil
	}
	return &s.edge
}

// RemoveEdge removes the edge and recomputes the order indices of its
// remaining parallel siblings. Returns ErrUnknownEdge if id is stale or
// unknown.
func (g *Graph) RemoveEdge(id EdgeID) error {
	s := g.edgeSlotFor(id)
	if s == nil {
		return ErrUnknownEdge
	}

	pair := newPairKey(s.edge.from, s.edge.to)
	s.live = false
	g.freeEdges = append(g.freeEdges, id.slot)
	g.edgeCount--

	g.recomputeOrder(pair)
	return nil
}

// Nodes returns the identities of all live nodes in slot order.
// Slot order is stable for a given set of surviving elements, which keeps
// iteration deterministic across frames.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, g.nodeCount)
	for slot, s := range g.nodes {
		if s.live {
			ids = append(ids, NodeID{slot: uint32(slot), gen: s.gen})
		}
	}
	return ids
}

// Edges returns the identities of all live edges in slot order.
func (g *Graph) Edges() []EdgeID {
	ids := make([]EdgeID, 0, g.edgeCount)
	for slot, s := range g.edges {
		if s.live {
			ids = append(ids, EdgeID{slot: uint32(slot), gen: s.gen})
		}
	}
	return ids
}

// Endpoints returns the endpoints of the edge, with ok reporting whether the
// edge exists.
func (g *Graph) Endpoints(id EdgeID) (from, to NodeID, ok bool) {
	s := g.edgeSlotFor(id)
	if s == nil {
		return NodeID{}, NodeID{}, false
	}
	return s.edge.from, s.edge.to, true
}

// EdgesBetween returns the edges connecting a and b in either direction,
// sorted by order index.
func (g *Graph) EdgesBetween(a, b NodeID) []EdgeID {
	pair := newPairKey(a, b)
	var ids []EdgeID
	for slot, s := range g.edges {
		if s.live && newPairKey(s.edge.from, s.edge.to) == pair {
			ids = append(ids, EdgeID{slot: uint32(slot), gen: s.gen})
		}
	}
	slices.SortFunc(ids, func(x, y EdgeID) int {
		return g.edges[x.slot].edge.order - g.edges[y.slot].edge.order
	})
	return ids
}

// Degree returns the number of edges incident to the node. Self-loops count
// once. Returns 0 for stale or unknown IDs.
func (g *Graph) Degree(id NodeID) int {
	if g.nodeSlotFor(id) == nil {
		return 0
	}
	n := 0
	for _, s := range g.edges {
		if s.live && (s.edge.from == id || s.edge.to == id) {
			n++
		}
	}
	return n
}

// Neighbors returns the distinct nodes connected to id by at least one edge,
// in slot order. A self-loop does not make a node its own neighbor.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if g.nodeSlotFor(id) == nil {
		return nil
	}
	seen := make(map[NodeID]bool)
	for _, s := range g.edges {
		if !s.live {
			continue
		}
		if s.edge.from == id && s.edge.to != id {
			seen[s.edge.to] = true
		}
		if s.edge.to == id && s.edge.from != id {
			seen[s.edge.from] = true
		}
	}
	ids := make([]NodeID, 0, len(seen))
	for n := range seen {
		ids = append(ids, n)
	}
	slices.SortFunc(ids, func(x, y NodeID) int {
		if x.less(y) {
			return -1
		}
		if y.less(x) {
			return 1
		}
		return 0
	})
	return ids
}

// DeselectAll clears the selection flag on every node and edge.
func (g *Graph) DeselectAll() {
	for _, s := range g.nodes {
		if s.live {
			s.node.Selected = false
		}
	}
	for _, s := range g.edges {
		if s.live {
			s.edge.Selected = false
		}
	}
}

// DraggedNode returns the identity of the currently dragged node, if any.
// If several nodes carry the drag flag, the lowest slot wins.
func (g *Graph) DraggedNode() (NodeID, bool) {
	for slot, s := range g.nodes {
		if s.live && s.node.Dragged {
			return NodeID{slot: uint32(slot), gen: s.gen}, true
		}
	}
	return NodeID{}, false
}

// recomputeOrder reassigns dense 0..k order indices to the live edges of an
// unordered endpoint pair, in slot order.
func (g *Graph) recomputeOrder(pair pairKey) {
	order := 0
	for _, s := range g.edges {
		if s.live && newPairKey(s.edge.from, s.edge.to) == pair {
			s.edge.order = order
			order++
		}
	}
}

func (g *Graph) nodeSlotFor(id NodeID) *nodeSlot {
	if int(id.slot) >= len(g.nodes) {
		return nil
	}
	s := g.nodes[id.slot]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}

func (g *Graph) edgeSlotFor(id EdgeID) *edgeSlot {
	if int(id.slot) >= len(g.edges) {
		return nil
	}
	s := g.edges[id.slot]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}
