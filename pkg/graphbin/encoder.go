package graphbin

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/observability"
)

var (
	// ErrHeaderNotWritten is returned when an edge record is written before
	// the header.
	ErrHeaderNotWritten = stderrors.New("graphbin: header not written")

	// ErrHeaderWritten is returned by a second call to [Encoder.WriteHeader].
	ErrHeaderWritten = stderrors.New("graphbin: header already written")

	// ErrEncoderClosed is returned by writes after [Encoder.Close].
	ErrEncoderClosed = stderrors.New("graphbin: encoder closed")
)

// Encoder writes a graph file: one header followed by edge records.
//
// Each Write call appends exactly one frame. Frames go through a buffered
// writer; call [Encoder.Close] (or [Encoder.Flush]) to push them to the
// underlying writer. An Encoder is not safe for concurrent use.
type Encoder struct {
	fw      *frameWriter
	buf     []byte
	header  Header
	started bool
	closed  bool
	stats   Stats
	hooks   observability.CodecHooks
}

// NewEncoder returns an Encoder writing to w. If w is already a
// *bufio.Writer it is used as is.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		fw:    newFrameWriter(w),
		hooks: observability.Codec(),
	}
}

// WriteHeader writes the header frame. It must be called exactly once,
// before any edge record.
func (e *Encoder) WriteHeader(h Header) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if e.started {
		return ErrHeaderWritten
	}
	e.buf = appendHeader(e.buf[:0], h)
	if err := e.fw.writeFrame(e.buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	e.header = h
	e.started = true
	e.hooks.OnHeaderWritten(h.Tag, h.NumNodes, h.NumEdges)
	return nil
}

// WriteEdge writes one Single record carrying edge.
func (e *Encoder) WriteEdge(edge Edge) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.buf = appendSingle(e.buf[:0], edge)
	if err := e.fw.writeFrame(e.buf); err != nil {
		return fmt.Errorf("write edge %d->%d: %w", edge.From, edge.To, err)
	}
	e.wrote(RecordSingle, 1)
	return nil
}

// WriteBatch writes one Batch record with the edges from->to[i] weighted
// weight[i]. The slices must have the same, non-zero length.
func (e *Encoder) WriteBatch(from NodeID, to []NodeID, weight []float32) error {
	if err := e.ready(); err != nil {
		return err
	}
	rec := BatchRecord(from, to, weight)
	if err := rec.Validate(); err != nil {
		return err
	}
	e.buf = appendBatch(e.buf[:0], from, to, weight)
	if err := e.fw.writeFrame(e.buf); err != nil {
		return fmt.Errorf("write batch for node %d: %w", from, err)
	}
	e.wrote(RecordBatch, len(to))
	return nil
}

// WriteRecord writes rec in its own shape.
func (e *Encoder) WriteRecord(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.Kind == RecordSingle {
		return e.WriteEdge(rec.Edge(0))
	}
	return e.WriteBatch(rec.From, rec.To, rec.Weight)
}

// WriteUngrouped drains edges, writing one Single record per edge. It stops
// at the first error from the sequence or from the underlying writer.
func (e *Encoder) WriteUngrouped(edges EdgeSeq) error {
	for edge, err := range edges {
		if err != nil {
			return err
		}
		if err := e.WriteEdge(edge); err != nil {
			return err
		}
	}
	return nil
}

// WriteGrouped drains edges through a [Grouper], writing one Batch record per
// contiguous run of edges sharing a source. The grouper's descent count is
// added to Stats().Descents.
//
// Callers should only use it when the input is grouped by source; otherwise
// the output is still a valid file, just with more records than sources.
func (e *Encoder) WriteGrouped(edges EdgeSeq) error {
	var g Grouper
	defer func() { e.stats.Descents += g.Descents() }()
	for edge, err := range edges {
		if err != nil {
			return err
		}
		if err := g.Push(edge, e.WriteRecord); err != nil {
			return err
		}
	}
	return g.Flush(e.WriteRecord)
}

// Stats returns what has been written so far.
func (e *Encoder) Stats() Stats { return e.stats }

// Header returns the header written by WriteHeader.
func (e *Encoder) Header() Header { return e.header }

// Flush writes buffered frames to the underlying writer.
func (e *Encoder) Flush() error {
	return e.fw.flush()
}

// Close flushes buffered frames and checks that the number of edges written
// matches the header's NumEdges. A mismatch is reported as a
// *errors.CountMismatchError after everything has been flushed. Close does
// not close the underlying writer.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.fw.flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if !e.started {
		return ErrHeaderNotWritten
	}
	return errors.CheckCount(e.header.NumEdges, e.stats.Edges)
}

func (e *Encoder) ready() error {
	if e.closed {
		return ErrEncoderClosed
	}
	if !e.started {
		return ErrHeaderNotWritten
	}
	return nil
}

func (e *Encoder) wrote(kind RecordKind, edges int) {
	e.stats.add(kind, edges)
	e.hooks.OnRecordWritten(kind.String(), edges)
}

// EncodeOptions controls [Encode].
type EncodeOptions struct {
	// Grouped batches contiguous edges sharing a source into one record.
	// Only enable it when the input is grouped by source.
	Grouped bool
}

// Encode writes a complete graph file to w: the header h followed by the
// records for edges, in grouped or ungrouped form.
//
// The edge sequence is always drained before the declared edge count is
// checked, so a header that disagrees with the input yields a
// *errors.CountMismatchError carrying both numbers. An error from the
// sequence itself (for example a malformed text row) aborts immediately.
// In every failure case the bytes already written to w are not a usable
// graph file.
func Encode(w io.Writer, h Header, edges EdgeSeq, opts EncodeOptions) (Stats, error) {
	enc := NewEncoder(w)
	if err := enc.WriteHeader(h); err != nil {
		return enc.Stats(), err
	}

	var err error
	if opts.Grouped {
		err = enc.WriteGrouped(edges)
	} else {
		err = enc.WriteUngrouped(edges)
	}
	if err != nil {
		return enc.Stats(), err
	}
	return enc.Stats(), enc.Close()
}
