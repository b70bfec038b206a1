// Package cli implements the graphpack command-line interface.
//
// This package provides commands for converting text edge lists into graph
// files, inspecting and verifying graph files, and rendering them as
// diagrams. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Convert one edge list into a graph file
//   - batch: Run the conversions listed in a TOML or YAML job file
//   - inspect: Print a graph file's header, record counts and degree stats
//   - verify: Strictly decode a graph file and check its edge count
//   - render: Draw a graph file as SVG or DOT
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Every log
// line carries a run ID so interleaved batch runs can be told apart.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newRunID returns a short random identifier for one CLI invocation.
func newRunID() string {
	return uuid.NewString()[:8]
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Converted ca-GrQc.txt (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}
