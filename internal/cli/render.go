package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpack/pkg/digraph"
	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/render"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	output   string
	maxEdges int
	weights  bool
}

// renderCommand creates the render command for drawing a graph file.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <file" + graphExt + ">",
		Short: "Draw a graph file as SVG or DOT",
		Long: `Render a graph file as a node-link diagram.

The output format follows the extension of --output: .dot writes the
Graphviz source, anything else is laid out with Graphviz and written as SVG.
Without --output the diagram is written next to the input as <name>.svg.

Large graphs are cut to the first --max-edges edges in source order.`,
		Example: `  # Render to SVG next to the input
  graphpack render ca-GrQc.bin

  # Write DOT with weight labels, no edge limit
  graphpack render ca-GrQc.bin -o ca-GrQc.dot --weights --max-edges -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().IntVar(&flags.maxEdges, "max-edges", render.DefaultMaxEdges, "most edges to draw (negative for no limit)")
	cmd.Flags().BoolVar(&flags.weights, "weights", false, "label edges with their weights")

	return cmd
}

// runRender loads a graph file and writes its diagram.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags) error {
	output := flags.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := errors.ValidatePath(output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "output")
	}

	prog := newProgress(c.Logger)
	g, h, err := digraph.Load(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded graph", "tag", h.Tag, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	dot, sum := render.ToDOT(g, render.Options{
		MaxEdges: flags.maxEdges,
		Weights:  flags.weights,
		Title:    h.Tag,
	})
	if sum.Omitted > 0 {
		c.Logger.Warn("graph cut for rendering", "drawn", sum.Edges, "omitted", sum.Omitted)
	}

	data := []byte(dot)
	if !strings.EqualFold(filepath.Ext(output), ".dot") {
		if data, err = c.layoutSVG(ctx, dot); err != nil {
			return err
		}
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done("Rendered " + input)
	printSuccess("Rendered %s", StyleValue.Render(h.Tag))
	printFile(output)
	printDetail("%d nodes · %d edges drawn", sum.Nodes, sum.Edges)
	return nil
}

// layoutSVG runs the Graphviz layout behind a spinner.
func (c *CLI) layoutSVG(ctx context.Context, dot string) ([]byte, error) {
	spinner := newSpinner(ctx, "Running Graphviz layout...")
	spinner.Start()

	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, fmt.Errorf("render svg: %w", err)
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return nil, ctx.Err()
	}
	spinner.Stop()
	return svg, nil
}
