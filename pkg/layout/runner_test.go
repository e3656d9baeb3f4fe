package layout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
)

// toggleLayout is a minimal Startable algorithm for runner tests. Each step
// nudges every node so persistence effects are observable.
type toggleLayout struct {
	state toggleState
}

type toggleState struct {
	Running bool `json:"running"`
	Steps   int  `json:"steps"`
}

func (l *toggleLayout) Name() string { return "toggle" }

func (l *toggleLayout) Step(g *graph.Graph, _ geom.Rect) {
	if !l.state.Running {
		return
	}
	for _, id := range g.Nodes() {
		n := g.Node(id)
		n.Pos = n.Pos.Add(geom.V(1, 0))
	}
	l.state.Steps++
}

func (l *toggleLayout) ExportState() (json.RawMessage, error) {
	return json.Marshal(l.state)
}

func (l *toggleLayout) Running() bool      { return l.state.Running }
func (l *toggleLayout) SetRunning(on bool) { l.state.Running = on }

func init() {
	Register("toggle", func(state json.RawMessage) (Layout, error) {
		l := &toggleLayout{}
		if state != nil {
			if err := json.Unmarshal(state, &l.state); err != nil {
				return nil, err
			}
		}
		return l, nil
	})
}

func TestRunnerStepPersistsState(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, "", nil)
	g := graph.New(false)
	g.AddNode(graph.Node{Name: "a"})

	if err := r.SetRunning(ctx, "toggle", true); err != nil {
		t.Fatalf("SetRunning() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := r.Step(ctx, g, "toggle", testArea()); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
	}

	l, err := r.Construct(ctx, "toggle")
	if err != nil {
		t.Fatalf("Construct() error: %v", err)
	}
	if got := l.(*toggleLayout).state.Steps; got != 3 {
		t.Errorf("persisted steps = %d, want 3", got)
	}
}

func TestRunnerStepN(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, "", nil)
	g := graph.New(false)
	id := g.AddNode(graph.Node{Name: "a"})

	if err := r.SetRunning(ctx, "toggle", true); err != nil {
		t.Fatalf("SetRunning() error: %v", err)
	}
	if err := r.StepN(ctx, g, "toggle", testArea(), 10); err != nil {
		t.Fatalf("StepN() error: %v", err)
	}

	if got := g.Node(id).Pos.X; got != 10 {
		t.Errorf("node x = %v, want 10", got)
	}

	l, _ := r.Construct(ctx, "toggle")
	if got := l.(*toggleLayout).state.Steps; got != 10 {
		t.Errorf("persisted steps = %d, want 10", got)
	}
}

func TestRunnerStepNHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, "", nil)
	g := graph.New(false)
	g.AddNode(graph.Node{Name: "a"})

	if err := r.StepN(ctx, g, "toggle", testArea(), 5); err == nil {
		t.Error("StepN() with canceled context should fail")
	}
}

func TestRunnerConstructUnknownAlgorithm(t *testing.T) {
	r := NewRunner(nil, "", nil)
	if _, err := r.Construct(context.Background(), "no-such-layout"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestRunnerConstructFallsBackOnUnreadableState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, "toggle", json.RawMessage(`{"running":"not-a-bool"}`))

	r := NewRunner(store, "", nil)
	l, err := r.Construct(ctx, "toggle")
	if err != nil {
		t.Fatalf("Construct() error: %v", err)
	}
	if l.(*toggleLayout).state.Running {
		t.Error("fallback instance should carry defaults")
	}
}

func TestRunnerSetRunningNoopForPlainLayouts(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, "", nil)
	if err := r.SetRunning(ctx, CircularName, true); err != nil {
		t.Errorf("SetRunning() on non-Startable: %v", err)
	}
}

func TestRunnerReset(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, "", nil)
	g := graph.New(false)
	g.AddNode(graph.Node{Name: "a"})

	_ = r.SetRunning(ctx, "toggle", true)
	_ = r.Step(ctx, g, "toggle", testArea())

	if err := r.Reset(ctx, "toggle"); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	l, _ := r.Construct(ctx, "toggle")
	if l.(*toggleLayout).state.Steps != 0 {
		t.Error("state survived Reset()")
	}
}

func TestRunnerScopeIsolatesDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	docA := NewRunner(store, "doc-a", nil)
	docB := NewRunner(store, "doc-b", nil)

	if err := docA.SetRunning(ctx, "toggle", true); err != nil {
		t.Fatalf("SetRunning() error: %v", err)
	}

	l, err := docB.Construct(ctx, "toggle")
	if err != nil {
		t.Fatalf("Construct() error: %v", err)
	}
	if l.(*toggleLayout).state.Running {
		t.Error("running flag leaked across document scopes")
	}
}
