package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpack/pkg/config"
	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/pipeline"
)

// batchFlags holds flags for the batch command.
type batchFlags struct {
	continueOnError bool
	metricsFile     string
}

// jobResult is the outcome of one batch job.
type jobResult struct {
	Options pipeline.Options
	Result  *pipeline.Result
	Err     error
}

// batchCommand creates the batch command for running a job file.
func (c *CLI) batchCommand() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch <config>",
		Short: "Run the conversions listed in a job file",
		Long: `Run every conversion listed in a TOML or YAML job file, in order.

Example graphpack.toml:

  [defaults]
  grouped = true
  output_dir = "out"

  [[jobs]]
  source = "data/ca-GrQc.txt"

  [[jobs]]
  source = "data/web-Google.txt"
  dest = "google.bin"
  tag = "web-google"
  grouped = false

Relative paths are resolved against the directory of the job file. A job
without dest writes <output_dir>/<source name>.bin.

The first failing job stops the batch unless --continue-on-error is set.
The command exits non-zero if any job failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMetrics(flags.metricsFile, func() error {
				return c.runBatch(cmd.Context(), args[0], flags.continueOnError)
			})
		},
	}

	cmd.Flags().BoolVar(&flags.continueOnError, "continue-on-error", false, "run the remaining jobs after a failure")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

// runBatch loads the job file, runs its jobs and prints a summary table.
func (c *CLI) runBatch(ctx context.Context, path string, continueOnError bool) error {
	file, err := config.Load(path)
	if err != nil {
		return err
	}
	jobs, err := file.Resolve()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	c.Logger.Info("running batch", "config", path, "jobs", len(jobs))
	prog := newProgress(c.Logger)

	results := c.runJobs(ctx, jobs, continueOnError)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	prog.done(fmt.Sprintf("Ran %d of %d jobs", len(results), len(jobs)))
	fmt.Println(batchTable(results))

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	printSuccess("All %d jobs succeeded", len(jobs))
	return nil
}

// runJobs runs jobs in order. It stops after the first failure unless
// continueOnError is set, and always stops once ctx is done.
func (c *CLI) runJobs(ctx context.Context, jobs []pipeline.Options, continueOnError bool) []jobResult {
	runner := c.newRunner()
	results := make([]jobResult, 0, len(jobs))

	for i, opts := range jobs {
		if ctx.Err() != nil {
			break
		}
		logger := c.Logger.With("job", i+1)

		var res *pipeline.Result
		err := os.MkdirAll(filepath.Dir(opts.Dest), 0o755)
		if err == nil {
			res, err = runner.Convert(ctx, opts)
		}
		results = append(results, jobResult{Options: opts, Result: res, Err: err})

		if err != nil {
			logger.Error("job failed", "source", opts.Source, "err", errors.UserMessage(err))
			if !continueOnError {
				break
			}
		}
	}
	return results
}

// batchTable renders one row per job result.
func batchTable(results []jobResult) string {
	rows := make([][]string, 0, len(results))
	failed := make(map[int]bool)

	for i, r := range results {
		if r.Err != nil {
			failed[i] = true
			rows = append(rows, []string{
				filepath.Base(r.Options.Source), r.Options.Dest, "-", "-", "-",
				iconError + " " + failureCode(r.Err),
			})
			continue
		}
		rows = append(rows, []string{
			filepath.Base(r.Options.Source),
			r.Options.Dest,
			strconv.FormatUint(r.Result.Stats.Edges, 10),
			strconv.FormatUint(r.Result.Stats.Records, 10),
			formatBytes(r.Result.Bytes),
			iconSuccess,
		})
	}

	return renderTable([]string{"Source", "Dest", "Edges", "Records", "Size", "Status"}, rows, failed)
}

// failureCode names the error code of err for the summary table.
func failureCode(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "FAILED"
}
