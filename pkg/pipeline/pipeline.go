// Package pipeline converts text edge lists into graph files.
//
// This package ties the edge-list reader to the binary encoder so the
// convert and batch commands share one code path: tag defaulting, option
// validation, cancellation, cleanup of partial output and logging all live
// here.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Convert(ctx, pipeline.Options{
//	    Source:  "ca-GrQc.txt",
//	    Dest:    "ca-GrQc.bin",
//	    Grouped: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Records, "records")
//
// [Runner.ConvertStream] does the same between an io.Reader and an
// io.Writer without touching the filesystem.
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

// =============================================================================
// Options - Conversion Configuration
// =============================================================================

// Options describes one conversion.
type Options struct {
	// Source is the path of the text edge list.
	Source string `json:"source"`

	// Dest is the path of the graph file to create. An existing file is
	// overwritten.
	Dest string `json:"dest"`

	// Tag is stored in the header. Defaults to the base name of Source.
	Tag string `json:"tag,omitempty"`

	// Grouped batches contiguous edges sharing a source into one record.
	// It produces a smaller file when the input is grouped by source.
	Grouped bool `json:"grouped,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outcome of a conversion.
type Result struct {
	// Header is the header that was written.
	Header graphbin.Header

	// Stats counts the records and edges written.
	Stats graphbin.Stats

	// Bytes is the size of the output.
	Bytes int64

	// Duration is the wall time of the conversion.
	Duration time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the paths and fills in the tag.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidatePath(o.Source); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "source")
	}
	if err := errors.ValidatePath(o.Dest); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "dest")
	}
	if filepath.Clean(o.Source) == filepath.Clean(o.Dest) {
		return errors.New(errors.ErrCodeInvalidInput, "source and dest are the same file: %s", o.Source)
	}
	if o.Tag == "" {
		o.Tag = DefaultTag(o.Source)
	}
	if err := errors.ValidateTag(o.Tag); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// DefaultTag returns the tag used when none is given: the file name of the
// source, extension included.
func DefaultTag(source string) string {
	return filepath.Base(source)
}

// logValue keeps a nil logger usable.
func logValue(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
