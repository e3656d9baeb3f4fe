package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	g := graph.New(false)
	a := g.AddNode(graph.Node{Name: "a", Pos: geom.V(100, 100)})
	b := g.AddNode(graph.Node{Name: "b", Pos: geom.V(500, 500)})
	if _, err := g.AddEdge(a, b, graph.Edge{}); err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}

	return &server{
		graph:  g,
		docID:  "test-doc",
		runner: layout.NewRunner(nil, "test-doc", nil),
		area:   geom.R(0, 0, 1000, 1000),
		logger: log.New(io.Discard),
	}
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeGraph(t *testing.T) {
	h := newTestServer(t).routes()

	rec := doRequest(t, h, http.MethodGet, "/api/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc graph.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if doc.ID != "test-doc" || len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestServeStepAndRunning(t *testing.T) {
	s := newTestServer(t)
	h := s.routes()

	// Stepping a stopped simulation succeeds but moves nothing.
	rec := doRequest(t, h, http.MethodPost, "/api/step?n=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var doc graph.Document
	_ = json.Unmarshal(rec.Body.Bytes(), &doc)
	if doc.Nodes[0].X != 100 {
		t.Error("stopped simulation moved a node")
	}

	rec = doRequest(t, h, http.MethodPut, "/api/running", `{"running":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("running status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/step?n=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("step status = %d, want 200", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &doc)
	if doc.Nodes[0].X == 100 && doc.Nodes[0].Y == 100 {
		t.Error("running simulation did not move nodes")
	}
}

func TestServeStepRejectsBadCount(t *testing.T) {
	h := newTestServer(t).routes()

	for _, q := range []string{"n=0", "n=-3", "n=abc", "n=999999"} {
		rec := doRequest(t, h, http.MethodPost, "/api/step?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("step?%s status = %d, want 400", q, rec.Code)
		}
	}
}

func TestServeState(t *testing.T) {
	h := newTestServer(t).routes()

	rec := doRequest(t, h, http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var state struct {
		Running bool `json:"running"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Running {
		t.Error("fresh state reports running")
	}
}

func TestServeReset(t *testing.T) {
	h := newTestServer(t).routes()

	_ = doRequest(t, h, http.MethodPut, "/api/running", `{"running":true}`)

	rec := doRequest(t, h, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/state", "")
	var state struct {
		Running bool `json:"running"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &state)
	if state.Running {
		t.Error("running flag survived reset")
	}
}

func TestServeConcurrentStateAccess(t *testing.T) {
	h := newTestServer(t).routes()

	// Hammer every state-touching endpoint at once. Each handler runs a
	// load-modify-save cycle against the same store key, so this only stays
	// consistent (and race-free) when all of them serialize on the server
	// mutex.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				doRequest(t, h, http.MethodPost, "/api/step?n=3", "")
			case 1:
				doRequest(t, h, http.MethodPut, "/api/running", `{"running":true}`)
			case 2:
				doRequest(t, h, http.MethodGet, "/api/state", "")
			case 3:
				doRequest(t, h, http.MethodPost, "/api/reset", "")
			}
		}(i)
	}
	wg.Wait()

	// Once the burst settles, a stop request must stick even though earlier
	// steps saved state with the running flag set.
	rec := doRequest(t, h, http.MethodPut, "/api/running", `{"running":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("running status = %d, want 200", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/state", "")
	var state struct {
		Running bool `json:"running"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Running {
		t.Error("stop request lost after concurrent access")
	}
}

func TestServeExportDOT(t *testing.T) {
	h := newTestServer(t).routes()

	rec := doRequest(t, h, http.MethodGet, "/api/export.dot", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"a" -- "b"`) {
		t.Errorf("missing edge in DOT:\n%s", body)
	}
	if !strings.Contains(body, "pos=") {
		t.Errorf("positions not pinned:\n%s", body)
	}
}
