package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jspreng/nodegrav/pkg/geom"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
	"github.com/jspreng/nodegrav/pkg/layout/force"
)

// layoutCommand creates the layout command for batch position computation.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		algorithm string
		steps     int
		output    string
		area      float64
		fresh     bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Run a layout algorithm over a graph and save the positions",
		Long: `Run a layout algorithm over a graph and save the positions.

The layout command reads a graph document, advances the selected algorithm
for a fixed number of steps, and writes the updated document back out. The
algorithm's state is persisted per document, so a second invocation resumes
the simulation where the first one stopped.

Use --fresh to discard persisted state and start from defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], algorithm, steps, output, area, fresh)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", force.Name, "layout algorithm: "+algorithmList())
	cmd.Flags().IntVarP(&steps, "steps", "n", defaultSteps, "number of simulation steps")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().Float64Var(&area, "area", 0, "square drawing-area side length (default: from config)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "discard persisted layout state before running")

	return cmd
}

// runLayout loads the graph, steps the algorithm, and writes the result.
func (c *CLI) runLayout(ctx context.Context, input, algorithm string, steps int, output string, areaSide float64, fresh bool) error {
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

	if fresh {
		if err := runner.Reset(ctx, algorithm); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
	}

	// Batch runs always simulate; the persisted running flag only gates
	// interactive sessions.
	if err := runner.SetRunning(ctx, algorithm, true); err != nil {
		return err
	}

	if areaSide <= 0 {
		areaSide = cfg.Area
	}
	area := geom.R(0, 0, areaSide, areaSide)

	p := newProgress(c.Logger)
	if err := runner.StepN(ctx, g, algorithm, area, steps); err != nil {
		return fmt.Errorf("step layout: %w", err)
	}
	p.done(fmt.Sprintf("Simulated %d steps", steps))

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := graph.WriteFile(g, doc.ID, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount())
	printNewline()
	printNextStep("Export", "nodegrav export "+outputPath)

	return nil
}

// applyForceConfig re-registers the force-directed builder with the loaded
// tuning so every construction path (runner, serve, view) picks it up.
func (c *CLI) applyForceConfig(cfg Config) {
	layout.Register(force.Name, func(state json.RawMessage) (layout.Layout, error) {
		return newForce(state, cfg)
	})
}

// algorithmList returns the registered algorithm names for flag help.
func algorithmList() string {
	list := ""
	for i, name := range layout.Algorithms() {
		if i > 0 {
			list += ", "
		}
		list += name
	}
	return list
}
