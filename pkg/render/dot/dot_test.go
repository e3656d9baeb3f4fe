package dot

import (
	"strings"
	"testing"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

func TestToDOTUndirected(t *testing.T) {
	g := graph.New(false)
	a := g.AddNode(graph.Node{Name: "alpha"})
	b := g.AddNode(graph.Node{Name: "beta"})
	if _, err := g.AddEdge(a, b, graph.Edge{Label: "link"}); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}

	out := ToDOT(g, Options{})

	if !strings.HasPrefix(out, `graph "G" {`) {
		t.Errorf("missing graph header:\n%s", out)
	}
	if !strings.Contains(out, `"alpha" -- "beta" [label="link"];`) {
		t.Errorf("missing undirected edge:\n%s", out)
	}
	if strings.Contains(out, "->") {
		t.Error("undirected graph emitted arrows")
	}
}

func TestToDOTDirected(t *testing.T) {
	g := graph.New(true)
	a := g.AddNode(graph.Node{Name: "a"})
	b := g.AddNode(graph.Node{Name: "b"})
	if _, err := g.AddEdge(a, b, graph.Edge{}); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}

	out := ToDOT(g, Options{Name: "deps"})

	if !strings.HasPrefix(out, `digraph "deps" {`) {
		t.Errorf("missing digraph header:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b";`) {
		t.Errorf("missing directed edge:\n%s", out)
	}
}

func TestToDOTPinnedPositions(t *testing.T) {
	g := graph.New(false)
	g.AddNode(graph.Node{Name: "n", Pos: geom.V(144, 72)})

	out := ToDOT(g, Options{Pinned: true})

	if !strings.Contains(out, `pos="2.0000,1.0000!"`) {
		t.Errorf("missing pinned position:\n%s", out)
	}

	unpinned := ToDOT(g, Options{})
	if strings.Contains(unpinned, "pos=") {
		t.Error("unpinned output carries pos attributes")
	}
}

func TestToDOTVisualAttributes(t *testing.T) {
	g := graph.New(false)
	g.AddNode(graph.Node{Name: "hub", Label: "Hub Node", Color: "#ff8800", Selected: true})

	out := ToDOT(g, Options{})

	if !strings.Contains(out, `label="Hub Node"`) {
		t.Errorf("missing label override:\n%s", out)
	}
	if !strings.Contains(out, `fillcolor="#ff8800"`) {
		t.Errorf("missing fill color:\n%s", out)
	}
	if !strings.Contains(out, "penwidth=3") {
		t.Errorf("missing selection highlight:\n%s", out)
	}
}

func TestToDOTParallelEdgesAndSelfLoops(t *testing.T) {
	g := graph.New(true)
	a := g.AddNode(graph.Node{Name: "a"})
	b := g.AddNode(graph.Node{Name: "b"})
	for i := 0; i < 2; i++ {
		if _, err := g.AddEdge(a, b, graph.Edge{}); err != nil {
			t.Fatalf("AddEdge() error: %v", err)
		}
	}
	if _, err := g.AddEdge(a, a, graph.Edge{}); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}

	out := ToDOT(g, Options{})

	if got := strings.Count(out, `"a" -> "b";`); got != 2 {
		t.Errorf("parallel edge count = %d, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, `"a" -> "a";`) {
		t.Errorf("missing self-loop:\n%s", out)
	}
}
