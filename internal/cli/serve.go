package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
	"github.com/jspreng/nodegrav/pkg/layout/force"
	"github.com/jspreng/nodegrav/pkg/render/dot"
)

// maxBatchSteps caps the step count a single API request may ask for.
const maxBatchSteps = 10000

// serveCommand creates the serve command exposing the layout engine over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve a graph's layout engine over HTTP",
		Long: `Serve a graph's layout engine over HTTP.

The server loads the graph once and exposes a small JSON API for driving
the simulation remotely:

  GET  /api/graph        current graph with positions
  POST /api/step?n=N     advance the simulation N steps (default 1)
  PUT  /api/running      {"running": true|false}
  POST /api/reset        discard persisted layout state
  GET  /api/state        persisted layout state
  GET  /api/export.svg   render the current layout as SVG
  GET  /api/export.dot   export the current layout as DOT

Simulation state is persisted through the configured store, so a restarted
server resumes where it stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	return cmd
}

// runServe loads the graph and blocks serving the API until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.applyForceConfig(cfg)

	g, doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, docScope(&doc))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Store.Close()

	s := &server{
		graph:  g,
		docID:  doc.ID,
		runner: runner,
		area:   geom.R(0, 0, cfg.Area, cfg.Area),
		logger: c.Logger,
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving layout API", "addr", addr, "document", doc.ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// server - HTTP API
// =============================================================================

// server owns the in-memory graph behind the API. All graph access and every
// construct/mutate/save cycle against the state store goes through mu; the
// layout contract is single-threaded, and the store holds one state blob per
// algorithm, so unserialized handlers would silently overwrite each other's
// saves.
type server struct {
	mu     sync.Mutex
	graph  *graph.Graph
	docID  string
	runner *layout.Runner
	area   geom.Rect
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Post("/step", s.handleStep)
		r.Put("/running", s.handleRunning)
		r.Post("/reset", s.handleReset)
		r.Get("/state", s.handleState)
		r.Get("/export.svg", s.handleExportSVG)
		r.Get("/export.dot", s.handleExportDOT)
	})
	return r
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := graph.FromGraph(s.graph, s.docID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleStep(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		var err error
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxBatchSteps {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be 1..%d", maxBatchSteps))
			return
		}
	}

	s.mu.Lock()
	err := s.runner.StepN(r.Context(), s.graph, force.Name, s.area, n)
	doc := graph.FromGraph(s.graph, s.docID)
	s.mu.Unlock()

	if err != nil {
		loggerFromContext(r.Context()).Error("step failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleRunning(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Running bool `json:"running"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	err := s.runner.SetRunning(r.Context(), force.Name, body.Running)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.runner.Reset(r.Context(), force.Name)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	l, err := s.runner.Construct(r.Context(), force.Name)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	state, err := l.ExportState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(state)
}

func (s *server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	src := dot.ToDOT(s.graph, dot.Options{Pinned: true, Name: s.docID})
	s.mu.Unlock()

	svg, err := dot.RenderSVG(r.Context(), src, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *server) handleExportDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	src := dot.ToDOT(s.graph, dot.Options{Pinned: true, Name: s.docID})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(src))
}

// logRequests attaches the server logger to the request context and logs
// completed requests at debug level.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), s.logger)))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// =============================================================================
// JSON helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
