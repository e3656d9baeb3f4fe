package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout/force"
)

// frameInterval is the animation tick period (~30 fps).
const frameInterval = 33 * time.Millisecond

// dragStep is the distance a dragged node moves per arrow-key press, in
// layout units.
const dragStep = 20.0

// viewCommand creates the view command for interactive layout sessions.
func (c *CLI) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Animate the force simulation interactively in the terminal",
		Long: `Animate the force simulation interactively in the terminal.

The graph is drawn as a character grid that refreshes every frame. The
simulation's running flag, temperature, and iteration count are restored
from the persisted state and saved back when the session ends, so pausing
and reopening a graph continues exactly where it stopped.

Keys:
  space   start/stop the simulation
  tab     cycle node selection
  g       grab/release the selected node (grabbed nodes ignore forces)
  arrows  move the grabbed node
  e       toggle the center-gravity force
  d       deselect everything
  q       save state and quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0])
		},
	}
	return cmd
}

// runView loads the graph and state, runs the bubbletea session, and saves
// both on exit.
func (c *CLI) runView(ctx context.Context, input string) error {
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

	l, err := runner.Construct(ctx, force.Name)
	if err != nil {
		return fmt.Errorf("construct layout: %w", err)
	}
	sim, ok := l.(*force.ForceDirected)
	if !ok {
		return fmt.Errorf("unexpected layout type %T", l)
	}

	m := newViewModel(g, sim, cfg)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	fm, ok := final.(viewModel)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}

	if err := runner.Save(ctx, fm.sim); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := graph.WriteFile(g, doc.ID, input); err != nil {
		return fmt.Errorf("write graph %s: %w", input, err)
	}

	printSuccess("Session saved")
	printFile(input)
	return nil
}

// =============================================================================
// viewModel - bubbletea animation host
// =============================================================================

// tickMsg drives one simulation frame.
type tickMsg time.Time

// viewModel is the bubbletea model for the interactive session.
type viewModel struct {
	graph *graph.Graph
	sim   *force.ForceDirected
	cfg   Config

	// area is the layout coordinate space, fixed per config; the terminal
	// grid is a scaled viewport onto it.
	area geom.Rect

	width  int
	height int

	// selection is the cursor over g.Nodes() order; -1 means none.
	selection int
}

func newViewModel(g *graph.Graph, sim *force.ForceDirected, cfg Config) viewModel {
	return viewModel{
		graph:     g,
		sim:       sim,
		cfg:       cfg,
		area:      geom.R(0, 0, cfg.Area, cfg.Area),
		selection: -1,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m viewModel) Init() tea.Cmd {
	return tick()
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sim.Step(m.graph, m.area)
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ":
		m.sim.SetRunning(!m.sim.Running())

	case "tab":
		m.cycleSelection()

	case "g":
		m.toggleGrab()

	case "e":
		m.sim.SetExtraEnabled(force.GravityName, !m.sim.ExtraEnabled(force.GravityName))

	case "d":
		m.graph.DeselectAll()
		m.selection = -1

	case "up":
		m.moveDragged(geom.V(0, -dragStep))
	case "down":
		m.moveDragged(geom.V(0, dragStep))
	case "left":
		m.moveDragged(geom.V(-dragStep, 0))
	case "right":
		m.moveDragged(geom.V(dragStep, 0))
	}
	return m, nil
}

// cycleSelection advances the selection cursor and mirrors it into the node
// flags, releasing any grab held by the previous selection.
func (m *viewModel) cycleSelection() {
	ids := m.graph.Nodes()
	if len(ids) == 0 {
		return
	}

	if m.selection >= 0 && m.selection < len(ids) {
		prev := m.graph.Node(ids[m.selection])
		prev.Selected = false
		prev.Dragged = false
	}

	m.selection = (m.selection + 1) % len(ids)
	m.graph.Node(ids[m.selection]).Selected = true
}

// toggleGrab flips the dragged flag on the selected node.
func (m *viewModel) toggleGrab() {
	ids := m.graph.Nodes()
	if m.selection < 0 || m.selection >= len(ids) {
		return
	}
	n := m.graph.Node(ids[m.selection])
	n.Dragged = !n.Dragged
}

// moveDragged shifts the grabbed node by delta in layout coordinates.
func (m *viewModel) moveDragged(delta geom.Vec2) {
	id, ok := m.graph.DraggedNode()
	if !ok {
		return
	}
	n := m.graph.Node(id)
	n.Pos = n.Pos.Add(delta)
}

// =============================================================================
// Rendering
// =============================================================================

var (
	viewNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewDraggedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	viewEdgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

func (m viewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	gridW, gridH := m.width, m.height-2
	if gridH < 3 {
		gridH = 3
	}

	grid := make([][]string, gridH)
	for y := range grid {
		grid[y] = make([]string, gridW)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	m.plotEdges(grid, gridW, gridH)
	m.plotNodes(grid, gridW, gridH)

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

// cell projects a layout position onto the terminal grid.
func (m viewModel) cell(p geom.Vec2, gridW, gridH int) (int, int) {
	x := int((p.X - m.area.Min.X) / m.area.Width() * float64(gridW-1))
	y := int((p.Y - m.area.Min.Y) / m.area.Height() * float64(gridH-1))
	return clampInt(x, 0, gridW-1), clampInt(y, 0, gridH-1)
}

func (m viewModel) plotEdges(grid [][]string, gridW, gridH int) {
	dot := viewEdgeStyle.Render("·")
	for _, eid := range m.graph.Edges() {
		from, to, _ := m.graph.Endpoints(eid)
		if from == to {
			continue
		}
		a := m.graph.Node(from).Pos
		b := m.graph.Node(to).Pos
		// Sample along the segment; cheap and good enough for a TUI.
		steps := gridW + gridH
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			p := a.Add(b.Sub(a).Scale(t))
			x, y := m.cell(p, gridW, gridH)
			if grid[y][x] == " " {
				grid[y][x] = dot
			}
		}
	}
}

func (m viewModel) plotNodes(grid [][]string, gridW, gridH int) {
	for _, id := range m.graph.Nodes() {
		n := m.graph.Node(id)
		x, y := m.cell(n.Pos, gridW, gridH)

		glyph := "●"
		style := viewNodeStyle
		switch {
		case n.Dragged:
			glyph = "◉"
			style = viewDraggedStyle
		case n.Selected:
			glyph = "◎"
			style = viewSelectedStyle
		}
		grid[y][x] = style.Render(glyph)

		// Place the label to the right of the node when it fits.
		label := n.DisplayLabel()
		for i, r := range label {
			lx := x + 2 + i
			if lx >= gridW {
				break
			}
			grid[y][lx] = StyleDim.Render(string(r))
		}
	}
}

func (m viewModel) statusLine() string {
	state := StyleWarning.Render("paused")
	if m.sim.Running() {
		state = StyleSuccess.Render("running")
	}

	gravity := "off"
	if m.sim.ExtraEnabled(force.GravityName) {
		gravity = "on"
	}

	left := fmt.Sprintf(" %s  %s  temp %.1f  step %d  gravity %s",
		StyleTitle.Render(appName), state, m.sim.Temperature(), m.sim.Iteration(), gravity)
	right := StyleDim.Render("space run  tab select  g grab  e gravity  q quit ")

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interface check for the bubbletea contract.
var _ tea.Model = viewModel{}
