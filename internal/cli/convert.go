package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpack/pkg/pipeline"
)

// convertFlags holds flags for the convert command.
type convertFlags struct {
	tag         string
	grouped     bool
	metricsFile string
}

// convertCommand creates the convert command for turning an edge list into a graph file.
func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <source> <dest>",
		Short: "Convert a text edge list into a graph file",
		Long: `Convert a plain-text weighted edge list into a binary graph file.

The source starts with a header line "<num_nodes> <num_edges>", followed by
one "<from> <to> <weight>" triplet per line. Node ids are non-negative
integers and weights are decimal or scientific floats.

By default each edge becomes its own record. With --grouped, consecutive
edges that share a source node are written as one batch record, which
produces a smaller output when the input is sorted by source.`,
		Example: `  # Convert an edge list
  graphpack convert ca-GrQc.txt ca-GrQc.bin

  # Group runs of edges by source and record metrics
  graphpack convert --grouped --metrics-file convert.prom ca-GrQc.txt ca-GrQc.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Source:  args[0],
				Dest:    args[1],
				Tag:     flags.tag,
				Grouped: flags.grouped,
			}
			return c.withMetrics(flags.metricsFile, func() error {
				return c.runConvert(cmd.Context(), opts)
			})
		},
	}

	cmd.Flags().StringVar(&flags.tag, "tag", "", "graph identifier stored in the header (default: source file name)")
	cmd.Flags().BoolVar(&flags.grouped, "grouped", false, "write runs of edges with the same source as batch records (produces a smaller output)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

// runConvert converts one edge list and prints a summary.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(c.Logger)

	res, err := c.newRunner().Convert(ctx, opts)
	if err != nil {
		return fmt.Errorf("convert %s: %w", opts.Source, err)
	}

	prog.done("Converted " + opts.Source)
	printSuccess("Wrote %s", StyleValue.Render(res.Header.Tag))
	printFile(opts.Dest)
	printStats(res.Stats.Records, res.Stats.Edges, res.Bytes)
	printNewline()
	printNextStep("Inspect it", "graphpack inspect "+opts.Dest)
	return nil
}
