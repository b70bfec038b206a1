package graphbin

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/observability"
)

// Decoder reads a graph file record by record.
//
// The usual loop is:
//
//	dec := graphbin.NewDecoder(r)
//	h, err := dec.ReadHeader()
//	...
//	for dec.Next() {
//	    rec := dec.Record()
//	    ...
//	}
//	if err := dec.Err(); err != nil { ... }
//
// Single and Batch records are both returned as a [Record]; use [Decoder.Edges]
// to get the flattened edge stream instead. Memory use is one frame plus one
// record regardless of file size.
//
// By default a stream that ends part way through a frame is treated as having
// ended early: iteration stops, Err returns nil and [Decoder.Truncated] reports
// true. In strict mode the truncation is an error, and so is a final edge
// count that differs from the header's NumEdges.
type Decoder struct {
	fr        *frameReader
	header    Header
	headerErr error
	headerOK  bool
	rec       Record
	stats     Stats
	err       error
	done      bool
	truncated bool
	strict    bool
	hooks     observability.CodecHooks
}

// NewDecoder returns a Decoder reading from r. If r is already a
// *bufio.Reader it is used as is.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		fr:    newFrameReader(r),
		hooks: observability.Codec(),
	}
}

// SetStrict enables strict mode (see [Decoder]). It must be called before
// the first record is read.
func (d *Decoder) SetStrict(strict bool) { d.strict = strict }

// SetMaxFrameSize changes the largest frame payload the decoder accepts.
// Non-positive values restore [DefaultMaxFrameSize].
func (d *Decoder) SetMaxFrameSize(n int) {
	if n <= 0 {
		n = DefaultMaxFrameSize
	}
	d.fr.max = n
}

// ReadHeader reads the header frame. It is called implicitly by the first
// [Decoder.Next]; calling it again returns the same result.
//
// An empty stream, a truncated header frame or an unparsable header yields
// an error with code errors.ErrCodeMalformedHeader.
func (d *Decoder) ReadHeader() (Header, error) {
	if d.headerOK || d.headerErr != nil {
		return d.header, d.headerErr
	}

	payload, err := d.fr.readFrame()
	switch {
	case err == io.EOF:
		d.headerErr = errors.New(errors.ErrCodeMalformedHeader, "missing header: empty stream")
	case err != nil && isCorruptFrame(err):
		d.headerErr = errors.Wrap(errors.ErrCodeMalformedHeader, err, "read header frame")
	case err != nil:
		d.headerErr = fmt.Errorf("read header frame: %w", err)
	default:
		d.header, d.headerErr = parseHeader(payload)
	}
	if d.headerErr != nil {
		return d.header, d.headerErr
	}

	d.headerOK = true
	d.hooks.OnHeaderRead(d.header.Tag, d.header.NumNodes, d.header.NumEdges)
	return d.header, nil
}

// Next advances to the next edge record. It returns false at the end of the
// stream or on error; check [Decoder.Err] afterwards.
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}
	if _, err := d.ReadHeader(); err != nil {
		return d.fail(err)
	}

	payload, err := d.fr.readFrame()
	switch {
	case err == io.EOF:
		d.done = true
		if d.strict {
			d.err = errors.CheckCount(d.header.NumEdges, d.stats.Edges)
		}
		return false
	case stderrors.Is(err, ErrTruncatedFrame):
		d.truncated = true
		d.done = true
		if d.strict {
			d.err = errors.Wrap(errors.ErrCodeMalformedRecord, err, "record %d", d.stats.Records+1)
		}
		return false
	case err != nil && isCorruptFrame(err):
		return d.fail(errors.Wrap(errors.ErrCodeMalformedRecord, err, "record %d", d.stats.Records+1))
	case err != nil:
		return d.fail(fmt.Errorf("read record %d: %w", d.stats.Records+1, err))
	}

	if err := parseRecord(payload, &d.rec); err != nil {
		return d.fail(fmt.Errorf("record %d: %w", d.stats.Records+1, err))
	}
	d.stats.add(d.rec.Kind, d.rec.Len())
	d.hooks.OnRecordRead(d.rec.Kind.String(), d.rec.Len())
	return true
}

// Record returns the current record. Its slices are reused by the next call
// to [Decoder.Next]; copy them to keep them.
func (d *Decoder) Record() *Record { return &d.rec }

// Err returns the first error encountered, or nil after a clean end of stream.
func (d *Decoder) Err() error { return d.err }

// Truncated reports whether the stream ended inside a frame.
func (d *Decoder) Truncated() bool { return d.truncated }

// Header returns the header read so far (zero before ReadHeader succeeds).
func (d *Decoder) Header() Header { return d.header }

// Stats returns what has been read so far.
func (d *Decoder) Stats() Stats { return d.stats }

// Edges returns the flattened edge stream: one edge per Single record and
// N edges, in index order, per Batch record. An error ends the stream.
func (d *Decoder) Edges() EdgeSeq {
	return func(yield func(Edge, error) bool) {
		for d.Next() {
			rec := d.Record()
			for i := range rec.To {
				if !yield(rec.Edge(i), nil) {
					return
				}
			}
		}
		if err := d.Err(); err != nil {
			yield(Edge{}, err)
		}
	}
}

func (d *Decoder) fail(err error) bool {
	d.err = err
	d.done = true
	return false
}

// isCorruptFrame reports whether a frame error means the bytes are not a
// graph file, as opposed to an error from the underlying reader.
func isCorruptFrame(err error) bool {
	return stderrors.Is(err, ErrTruncatedFrame) || stderrors.Is(err, ErrFrameTooLarge)
}

// ReadEdges decodes a whole graph file from r into memory.
//
// The returned slice is pre-sized from the header's NumEdges. ReadEdges is
// lenient in the same way as a default [Decoder]: a truncated final frame
// ends the edge list early. ReadEdges does not close r.
func ReadEdges(r io.Reader) (Header, []Edge, error) {
	dec := NewDecoder(r)
	h, err := dec.ReadHeader()
	if err != nil {
		return h, nil, err
	}

	edges := make([]Edge, 0, capHint(h.NumEdges))
	for e, err := range dec.Edges() {
		if err != nil {
			return h, nil, err
		}
		edges = append(edges, e)
	}
	return h, edges, nil
}

// LoadEdges reads the graph file at path and returns its header and edges.
// It is a convenience wrapper around [ReadEdges].
func LoadEdges(path string) (Header, []Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, openError(path, err)
	}
	defer f.Close()
	return ReadEdges(f)
}

// capHint caps a header-declared size so a corrupt header cannot force a
// huge allocation up front.
func capHint(n uint64) int {
	const maxHint = 1 << 24
	if n > maxHint {
		return maxHint
	}
	return int(n)
}

func openError(path string, err error) error {
	if stderrors.Is(err, os.ErrNotExist) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
