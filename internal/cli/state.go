package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
)

// stateCommand creates the state command group for inspecting and clearing
// persisted layout state.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and manage persisted layout state",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.stateResetCommand())

	return cmd
}

// stateShowCommand prints the persisted state of one algorithm for a graph.
func (c *CLI) stateShowCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "show [graph.json]",
		Short: "Print the persisted layout state for a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStateShow(cmd.Context(), args[0], algorithm)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "algorithm to show (default: all)")
	return cmd
}

func (c *CLI) runStateShow(ctx context.Context, input, algorithm string) error {
	_, doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, docScope(&doc))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Store.Close()

	names := []string{algorithm}
	if algorithm == "" {
		names = layout.Algorithms()
	}

	for _, name := range names {
		l, err := runner.Construct(ctx, name)
		if err != nil {
			return err
		}
		state, err := l.ExportState()
		if err != nil {
			return fmt.Errorf("export state %s: %w", name, err)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, state, "  ", "  "); err != nil {
			pretty.Write(state)
		}
		printInfo("%s", StyleHighlight.Render(name))
		fmt.Println("  " + pretty.String())
	}

	return nil
}

// stateClearCommand discards one algorithm's persisted state for a graph.
func (c *CLI) stateClearCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "clear [graph.json]",
		Short: "Discard the persisted layout state for a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStateClear(cmd.Context(), args[0], algorithm)
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "algorithm to clear (default: all)")
	return cmd
}

func (c *CLI) runStateClear(ctx context.Context, input, algorithm string) error {
	_, doc, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, docScope(&doc))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Store.Close()

	names := []string{algorithm}
	if algorithm == "" {
		names = layout.Algorithms()
	}

	for _, name := range names {
		if err := runner.Reset(ctx, name); err != nil {
			return fmt.Errorf("clear state %s: %w", name, err)
		}
	}

	printSuccess("State cleared")
	return nil
}

// stateResetCommand wipes the whole store.
func (c *CLI) stateResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all persisted layout state for every graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset store: %w", err)
			}
			printSuccess("All layout state discarded")
			return nil
		},
	}
}
