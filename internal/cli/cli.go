// Package cli implements the nodegrav command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jspreng/nodegrav/pkg/buildinfo"
	"github.com/jspreng/nodegrav/pkg/graph"
	"github.com/jspreng/nodegrav/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodegrav"

	// defaultSteps is the default frame count for the batch layout command.
	defaultSteps = 300

	// defaultArea is the default square drawing-area side length.
	defaultArea = 1000.0
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// State store backends selectable with --store.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeRedis  = "redis"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	store     string
	redisAddr string
	config    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodegrav",
		Short:        "Nodegrav lays out graphs with a force-directed simulation",
		Long:         `Nodegrav is a CLI tool for interactive graph layout: it animates a Fruchterman-Reingold force simulation over a graph, persists the simulation state between runs, and exports the result as DOT, SVG, or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.store, "store", storeFile, "layout state backend: file (default), memory, redis")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis-addr", "localhost:6379", "redis address for --store redis")
	root.PersistentFlags().StringVar(&c.config, "config", "", "path to a TOML config file (default: $XDG_CONFIG_HOME/nodegrav/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.stateCommand())

	return root
}

// Execute runs the root command, printing failures in the CLI style.
// Context cancellation passes through silently for the caller's exit handling.
func (c *CLI) Execute(ctx context.Context, root *cobra.Command) error {
	root.SilenceErrors = true
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError("%v", err)
	}
	return err
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a layout runner scoped to the given document ID, backed
// by the store selected with --store.
func (c *CLI) newRunner(ctx context.Context, scope string) (*layout.Runner, error) {
	store, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	return layout.NewRunner(store, scope, c.Logger), nil
}

func (c *CLI) newStore(ctx context.Context) (layout.Store, error) {
	switch c.store {
	case storeMemory:
		return layout.NewMemoryStore(), nil
	case storeFile:
		dir, err := stateDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state directory: %w", err)
		}
		return layout.NewFileStore(dir)
	case storeRedis:
		return layout.NewRedisStore(ctx, layout.RedisConfig{Addr: c.redisAddr})
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.store)
	}
}

// docScope returns the document ID that persisted layout state is scoped by,
// minting one when the document has none so unrelated graphs never share a
// state key.
func docScope(doc *graph.Document) string {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return doc.ID
}

// =============================================================================
// Paths
// =============================================================================

// stateDir returns the state directory using XDG standard (~/.local/state/nodegrav/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}
