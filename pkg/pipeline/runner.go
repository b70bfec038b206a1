package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpack/pkg/edgelist"
	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
	"github.com/matzehuels/graphpack/pkg/observability"
)

// cancelCheckInterval is how many edges pass between context checks.
const cancelCheckInterval = 1 << 12

// Runner executes conversions.
//
// The Runner is stateless except for the logger - it doesn't store
// conversion results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{Logger: logValue(logger)}
}

// Convert reads the edge list at opts.Source and writes a graph file to
// opts.Dest.
//
// The destination is created (or truncated) before the first edge is read
// and removed again if the conversion fails for any reason, including a
// declared edge count that does not match the rows and cancellation of ctx.
func (r *Runner) Convert(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := logValue(r.Logger)

	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, opts.Source, opts.Grouped)
	start := time.Now()
	defer func() {
		var edges uint64
		if res != nil {
			edges = res.Stats.Edges
		}
		hooks.OnConvertComplete(ctx, opts.Source, edges, time.Since(start), err)
	}()

	src, err := os.Open(opts.Source)
	if err != nil {
		return nil, sourceError(opts.Source, err)
	}
	defer src.Close()

	dst, err := os.Create(opts.Dest)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.Dest, err)
	}

	res, err = r.convert(ctx, src, dst, opts.Tag, opts.Grouped)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", opts.Dest, cerr)
	}
	if err != nil {
		if rmErr := os.Remove(opts.Dest); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("could not remove partial output", "path", opts.Dest, "err", rmErr)
		}
		return nil, err
	}

	res.Duration = time.Since(start)

	logger.Info("converted edge list",
		"source", opts.Source,
		"dest", opts.Dest,
		"edges", res.Stats.Edges,
		"records", res.Stats.Records,
		"bytes", res.Bytes,
		"duration", res.Duration)
	r.warnUnsorted(opts.Source, res)
	return res, nil
}

// ConvertStream converts the edge list read from src into a graph file
// written to dst. Nothing is cleaned up on failure; dst is left with
// whatever was written.
func (r *Runner) ConvertStream(ctx context.Context, src io.Reader, dst io.Writer, tag string, grouped bool) (*Result, error) {
	start := time.Now()
	res, err := r.convert(ctx, src, dst, tag, grouped)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	r.warnUnsorted(tag, res)
	return res, nil
}

func (r *Runner) convert(ctx context.Context, src io.Reader, dst io.Writer, tag string, grouped bool) (*Result, error) {
	er, err := edgelist.NewReader(src)
	if err != nil {
		return nil, err
	}
	counts := er.Counts()
	h := graphbin.Header{Tag: tag, NumNodes: counts.Nodes, NumEdges: counts.Edges}

	logValue(r.Logger).Debug("read edge list header",
		"tag", tag, "nodes", counts.Nodes, "edges", counts.Edges, "grouped", grouped)

	cw := &countingWriter{w: dst}
	stats, err := graphbin.Encode(cw, h, withContext(ctx, er.Edges()), graphbin.EncodeOptions{Grouped: grouped})
	if err != nil {
		return nil, err
	}
	return &Result{Header: h, Stats: stats, Bytes: cw.n}, nil
}

func (r *Runner) warnUnsorted(source string, res *Result) {
	if res.Stats.Descents == 0 {
		return
	}
	logValue(r.Logger).Warn("input is not grouped by source; some nodes span several records",
		"source", source,
		"descents", res.Stats.Descents,
		"records", res.Stats.Records)
}

// withContext stops seq with ctx's error once ctx is done. It checks every
// cancelCheckInterval edges.
func withContext(ctx context.Context, seq graphbin.EdgeSeq) graphbin.EdgeSeq {
	return func(yield func(graphbin.Edge, error) bool) {
		var n uint64
		for e, err := range seq {
			if n%cancelCheckInterval == 0 {
				if cerr := ctx.Err(); cerr != nil {
					yield(graphbin.Edge{}, cerr)
					return
				}
			}
			n++
			if !yield(e, err) {
				return
			}
		}
	}
}

func sourceError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
