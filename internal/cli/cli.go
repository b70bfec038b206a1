package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpack/pkg/buildinfo"
	"github.com/matzehuels/graphpack/pkg/metrics"
	"github.com/matzehuels/graphpack/pkg/observability"
	"github.com/matzehuels/graphpack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "graphpack"

	// graphExt is the extension of graph files.
	graphExt = ".bin"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// RunID identifies this invocation in logs.
	RunID string
}

// New creates a new CLI instance with a default logger. Every log line
// carries the run ID.
func New(w io.Writer, level log.Level) *CLI {
	id := newRunID()
	return &CLI{
		Logger: newLogger(w, level).With("run", id),
		RunID:  id,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graphpack converts weighted edge lists to a compact binary format",
		Long: `graphpack converts plain-text weighted edge lists into a compact, streamable
binary graph format and reads them back.

An edge list starts with a line holding the node and edge counts, followed by
one "<from> <to> <weight>" triplet per line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Metrics
// =============================================================================

// withMetrics runs fn with a metrics recorder installed when path is set,
// and writes the recorder to path afterwards, whether fn failed or not.
func (c *CLI) withMetrics(path string, fn func() error) error {
	if path == "" {
		return fn()
	}

	rec := metrics.NewRecorder()
	rec.Install()
	defer observability.Reset()

	err := fn()
	if werr := rec.WriteTextfile(path); werr != nil {
		c.Logger.Error("failed to write metrics", "path", path, "err", werr)
		if err == nil {
			err = werr
		}
	} else {
		c.Logger.Debug("wrote metrics", "path", path)
	}
	return err
}
