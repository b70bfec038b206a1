package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpack/pkg/digraph"
	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

// inspectFlags holds flags for the inspect command.
type inspectFlags struct {
	strict  bool
	degrees bool
}

// inspectReport is what inspect found in a graph file.
type inspectReport struct {
	Header    graphbin.Header
	Stats     graphbin.Stats
	Truncated bool
	Degrees   *digraph.DegreeStats
}

// inspectCommand creates the inspect command for summarizing a graph file.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect <file" + graphExt + ">",
		Short: "Show the header and record counts of a graph file",
		Long: `Decode a graph file and print its header, record counts and edge count.

By default the file is decoded leniently: a truncated final record ends the
file early and a header edge count that differs from the records is
reported as a warning. With --strict both are errors.

With --degrees the graph is loaded into memory and out-degree statistics
are printed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.inspect(args[0], flags)
			if err != nil {
				return err
			}
			printReport(args[0], report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on truncation or an edge count mismatch")
	cmd.Flags().BoolVar(&flags.degrees, "degrees", false, "also print out-degree statistics")

	return cmd
}

// inspect decodes the file at path and gathers a report.
func (c *CLI) inspect(path string, flags inspectFlags) (*inspectReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := graphbin.NewDecoder(f)
	dec.SetStrict(flags.strict)

	h, err := dec.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("read header", "tag", h.Tag, "nodes", h.NumNodes, "edges", h.NumEdges)

	report := &inspectReport{Header: h}
	if flags.degrees {
		g, err := digraph.FromEdges(dec.Edges())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		stats := g.Stats()
		report.Degrees = &stats
	} else {
		for dec.Next() {
		}
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	report.Stats = dec.Stats()
	report.Truncated = dec.Truncated()
	return report, nil
}

// printReport prints an inspect report.
func printReport(path string, r *inspectReport) {
	fmt.Println(StyleTitle.Render(path))
	printKeyValue("Tag", r.Header.Tag)
	printKeyValue("Nodes", strconv.FormatUint(uint64(r.Header.NumNodes), 10))
	printKeyValue("Edges", fmt.Sprintf("%d declared, %d read", r.Header.NumEdges, r.Stats.Edges))
	printKeyValue("Records", fmt.Sprintf("%d (%d single, %d batch)",
		r.Stats.Records, r.Stats.SingleRecords, r.Stats.BatchRecords))

	if d := r.Degrees; d != nil {
		printNewline()
		fmt.Println(StyleTitle.Render("Out-degree"))
		printKeyValue("Sources", strconv.Itoa(d.Sources))
		printKeyValue("Sinks", strconv.FormatUint(d.Sinks, 10))
		printKeyValue("Self-loops", strconv.FormatUint(d.SelfLoops, 10))
		printKeyValue("Max", fmt.Sprintf("%d (node %d)", d.MaxOut, d.MaxOutID))
		printKeyValue("Mean", fmt.Sprintf("%.3f ± %.3f", d.MeanOut, d.StdDevOut))
	}

	if r.Truncated {
		printNewline()
		printWarning("file ends part way through a record; trailing bytes were ignored")
	}
	if err := errors.CheckCount(r.Header.NumEdges, r.Stats.Edges); err != nil {
		if !r.Truncated {
			printNewline()
		}
		printWarning("%v", err)
	}
}
