package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/jspreng/nodegrav/pkg/geom"
)

// =============================================================================
// Document - Graph Interchange Format
// =============================================================================

// Document is the canonical JSON interchange format for graphs.
// Node names are the stable identifiers inside a document; they are mapped to
// arena NodeIDs on load. The format round-trips: load → mutate positions →
// save preserves everything else.
type Document struct {
	// ID identifies the document (a UUID, generated on first save if empty).
	// The layout state store scopes persisted state by document ID so two
	// graphs never share simulation state.
	ID       string    `json:"id,omitempty"`
	Directed bool      `json:"directed,omitempty"`
	Nodes    []DocNode `json:"nodes"`
	Edges    []DocEdge `json:"edges"`
}

// DocNode is the serialized form of a node.
type DocNode struct {
	Name  string  `json:"name"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Color string  `json:"color,omitempty"`
}

// DocEdge is the serialized form of an edge. Parallel edges are expressed by
// repeating the same from/to pair; order indices are derived on load, never
// stored.
type DocEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// FromGraph converts a graph to its interchange form. Nodes are sorted by
// name for deterministic output; edges keep per-pair order-index order.
func FromGraph(g *Graph, id string) Document {
	doc := Document{
		ID:       id,
		Directed: g.Directed(),
	}

	for _, nid := range g.Nodes() {
		n := g.Node(nid)
		doc.Nodes = append(doc.Nodes, DocNode{
			Name:  n.Name,
			Label: n.Label,
			X:     n.Pos.X,
			Y:     n.Pos.Y,
			Color: n.Color,
		})
	}
	slices.SortFunc(doc.Nodes, func(a, b DocNode) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})

	for _, eid := range g.Edges() {
		e := g.Edge(eid)
		doc.Edges = append(doc.Edges, DocEdge{
			From:  g.Node(e.From()).Name,
			To:    g.Node(e.To()).Name,
			Label: e.Label,
		})
	}

	return doc
}

// ToGraph builds a graph from a document and returns the name-to-identity
// mapping for the created nodes. Node names must be non-empty and unique;
// edges must reference declared nodes. On error the returned graph is nil.
func ToGraph(doc Document) (*Graph, map[string]NodeID, error) {
	g := New(doc.Directed)
	ids := make(map[string]NodeID, len(doc.Nodes))

	for _, dn := range doc.Nodes {
		if dn.Name == "" {
			return nil, nil, ErrInvalidNodeName
		}
		if _, exists := ids[dn.Name]; exists {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateNodeName, dn.Name)
		}
		ids[dn.Name] = g.AddNode(Node{
			Name:  dn.Name,
			Label: dn.Label,
			Pos:   geom.V(dn.X, dn.Y),
			Color: dn.Color,
		})
	}

	for _, de := range doc.Edges {
		from, ok := ids[de.From]
		if !ok {
			return nil, nil, fmt.Errorf("edge %s→%s: %w", de.From, de.To, ErrUnknownSourceNode)
		}
		to, ok := ids[de.To]
		if !ok {
			return nil, nil, fmt.Errorf("edge %s→%s: %w", de.From, de.To, ErrUnknownTargetNode)
		}
		if _, err := g.AddEdge(from, to, Edge{Label: de.Label}); err != nil {
			return nil, nil, fmt.Errorf("add edge %s→%s: %w", de.From, de.To, err)
		}
	}

	return g, ids, nil
}

// =============================================================================
// File and Stream I/O
// =============================================================================

// ReadFile reads a JSON document file and builds the graph.
func ReadFile(path string) (*Graph, Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON document from r and builds the graph.
// The returned Document retains the decoded metadata (ID, names) so callers
// can write an updated version back out with Write.
func Read(r io.Reader) (*Graph, Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Document{}, fmt.Errorf("decode: %w", err)
	}
	g, _, err := ToGraph(doc)
	if err != nil {
		return nil, Document{}, err
	}
	return g, doc, nil
}

// WriteFile writes the graph as a JSON document to path.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, id, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, id, f)
}

// Write encodes the graph as an indented JSON document. An empty id is
// replaced with a freshly generated UUID so every saved document can be
// referenced by the state store.
func Write(g *Graph, id string, w io.Writer) error {
	if id == "" {
		id = uuid.NewString()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g, id)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
