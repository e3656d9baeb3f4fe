package layout

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

// ============================================================================
// HELPERS
// ============================================================================

func testArea() geom.Rect {
	return geom.R(0, 0, 1000, 1000)
}

func lineGraph(t *testing.T, n int) (*graph.Graph, []graph.NodeID) {
	t.Helper()
	g := graph.New(false)
	ids := make([]graph.NodeID, n)
	for i := range ids {
		ids[i] = g.AddNode(graph.Node{Name: string(rune('a' + i))})
	}
	for i := 1; i < n; i++ {
		if _, err := g.AddEdge(ids[i-1], ids[i], graph.Edge{}); err != nil {
			t.Fatalf("AddEdge() error: %v", err)
		}
	}
	return g, ids
}

// ============================================================================
// REGISTRY
// ============================================================================

func TestNewUnknownAlgorithm(t *testing.T) {
	_, err := New("no-such-layout", nil)
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestNewBuiltins(t *testing.T) {
	for _, name := range []string{RandomName, CircularName} {
		l, err := New(name, nil)
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if l.Name() != name {
			t.Errorf("Name() = %q, want %q", l.Name(), name)
		}
	}
}

func TestAlgorithmsSorted(t *testing.T) {
	names := Algorithms()
	if len(names) < 2 {
		t.Fatalf("Algorithms() = %v, want at least the builtins", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Algorithms() not sorted: %v", names)
		}
	}
}

// ============================================================================
// RANDOM
// ============================================================================

func TestRandomScatterIsOneShot(t *testing.T) {
	g, ids := lineGraph(t, 5)

	r, err := NewRandom(nil)
	if err != nil {
		t.Fatalf("NewRandom() error: %v", err)
	}
	r.Step(g, testArea())

	after := make([]geom.Vec2, len(ids))
	for i, id := range ids {
		after[i] = g.Node(id).Pos
		if after[i] == (geom.Vec2{}) {
			t.Errorf("node %d not scattered", i)
		}
	}

	r.Step(g, testArea())
	for i, id := range ids {
		if g.Node(id).Pos != after[i] {
			t.Errorf("node %d moved on second step", i)
		}
	}
}

func TestRandomScatterStaysInArea(t *testing.T) {
	g, ids := lineGraph(t, 50)
	area := geom.R(100, 200, 800, 600)

	r, _ := NewRandom(nil)
	r.Step(g, area)

	for i, id := range ids {
		if !area.Contains(g.Node(id).Pos) {
			t.Errorf("node %d at %v outside area", i, g.Node(id).Pos)
		}
	}
}

func TestRandomScatterDeterministicPerSeed(t *testing.T) {
	scatter := func(seed uint64) []geom.Vec2 {
		g, ids := lineGraph(t, 5)
		state, _ := json.Marshal(RandomState{Seed: seed})
		r, err := NewRandom(state)
		if err != nil {
			t.Fatalf("NewRandom() error: %v", err)
		}
		r.Step(g, testArea())
		out := make([]geom.Vec2, len(ids))
		for i, id := range ids {
			out[i] = g.Node(id).Pos
		}
		return out
	}

	a, b := scatter(7), scatter(7)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("same seed diverged at node %d", i)
		}
	}

	c := scatter(8)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical scatter")
	}
}

func TestRandomSkipsDraggedNode(t *testing.T) {
	g, ids := lineGraph(t, 3)
	g.Node(ids[1]).Pos = geom.V(1, 2)
	g.Node(ids[1]).Dragged = true

	r, _ := NewRandom(nil)
	r.Step(g, testArea())

	if g.Node(ids[1]).Pos != geom.V(1, 2) {
		t.Error("dragged node was scattered")
	}
}

func TestRandomStateRoundTrip(t *testing.T) {
	g, _ := lineGraph(t, 3)

	r, _ := NewRandom(nil)
	r.Step(g, testArea())

	state, err := r.ExportState()
	if err != nil {
		t.Fatalf("ExportState() error: %v", err)
	}

	restored, err := NewRandom(state)
	if err != nil {
		t.Fatalf("NewRandom() error: %v", err)
	}
	if !restored.state.Scattered {
		t.Error("scattered flag lost in round trip")
	}
}

// ============================================================================
// CIRCULAR
// ============================================================================

func TestCircularPlacesOnCircle(t *testing.T) {
	g, ids := lineGraph(t, 6)
	area := testArea()

	c, _ := NewCircular(nil)
	c.Step(g, area)

	center := area.Center()
	wantRadius := math.Min(area.Width(), area.Height()) * 0.4
	for i, id := range ids {
		got := geom.Dist(g.Node(id).Pos, center)
		if math.Abs(got-wantRadius) > 1e-9 {
			t.Errorf("node %d radius = %v, want %v", i, got, wantRadius)
		}
	}
}

func TestCircularSingleNodeCentered(t *testing.T) {
	g := graph.New(false)
	id := g.AddNode(graph.Node{Name: "only"})

	c, _ := NewCircular(nil)
	c.Step(g, testArea())

	if g.Node(id).Pos != testArea().Center() {
		t.Errorf("single node at %v, want center", g.Node(id).Pos)
	}
}

func TestCircularIdempotent(t *testing.T) {
	g, ids := lineGraph(t, 4)

	c, _ := NewCircular(nil)
	c.Step(g, testArea())
	first := make([]geom.Vec2, len(ids))
	for i, id := range ids {
		first[i] = g.Node(id).Pos
	}

	c.Step(g, testArea())
	for i, id := range ids {
		if g.Node(id).Pos != first[i] {
			t.Errorf("node %d moved on repeated step", i)
		}
	}
}
