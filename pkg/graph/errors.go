package graph

import "errors"

var (
	// ErrUnknownNode is returned when a NodeID does not reference a live node,
	// either because it was never issued by this graph or because the node has
	// been removed and its slot generation bumped.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an EdgeID does not reference a live edge.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// endpoint is not a live node. The graph is left unchanged.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// endpoint is not a live node. The graph is left unchanged.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidNodeName is returned by [ToGraph] when a document node has an
	// empty name. All document nodes must have non-empty identifiers.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNodeName is returned by [ToGraph] when two document nodes share
	// a name. Names must be unique within a document.
	ErrDuplicateNodeName = errors.New("duplicate node name")
)
