package cli

import (
	"github.com/spf13/cobra"
)

// verifyCommand creates the verify command for strictly checking a graph file.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file" + graphExt + ">",
		Short: "Check that a graph file decodes cleanly",
		Long: `Decode a graph file in strict mode.

Verification fails if the header or any record is malformed, if the file
ends part way through a record, or if the number of edges read differs from
the header's declared edge count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.inspect(args[0], inspectFlags{strict: true})
			if err != nil {
				return err
			}
			c.Logger.Debug("verified", "path", args[0], "records", report.Stats.Records)
			printSuccess("%s is valid", args[0])
			printDetail("%s · %d records · %d edges", report.Header.Tag, report.Stats.Records, report.Stats.Edges)
			return nil
		},
	}
}

