// Package edgelist reads the plain-text weighted edge-list format.
//
// The first line holds the node and edge counts, the following lines hold
// one edge each:
//
//	<num_nodes> <num_edges>
//	<from> <to> <weight>
//	...
//
// Fields are separated by any amount of whitespace. Node ids are unsigned
// 32-bit integers, the edge count an unsigned 64-bit integer and weights
// 32-bit floats.
//
// A line that does not have exactly three fields ends the edge list; this is
// how the end of input (and any trailing junk) is detected. A line with
// three fields that do not parse is an error that ends the stream, never a
// skipped row.
package edgelist

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

// maxLineSize bounds a single line of input.
const maxLineSize = 1 << 20

// Counts holds the node and edge counts declared on the header line.
type Counts struct {
	Nodes uint32
	Edges uint64
}

// Reader parses an edge list. The header line is consumed by [NewReader];
// [Reader.Edges] streams the remaining rows once.
type Reader struct {
	sc     *bufio.Scanner
	counts Counts
	line   int
	done   bool
}

// NewReader reads the header line from r and returns a Reader positioned at
// the first edge row.
//
// The header must consist of exactly two fields, a uint32 node count and a
// uint64 edge count; anything else is an error with code
// errors.ErrCodeMalformedHeader. I/O errors are returned as is.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	er := &Reader{sc: sc}

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New(errors.ErrCodeMalformedHeader, "missing header line")
	}
	er.line = 1

	fields := strings.Fields(sc.Text())
	if len(fields) != 2 {
		return nil, errors.New(errors.ErrCodeMalformedHeader,
			"header has %d fields, expected 2 (<num_nodes> <num_edges>)", len(fields))
	}
	nodes, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "node count %q", fields[0])
	}
	edges, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedHeader, err, "edge count %q", fields[1])
	}
	er.counts = Counts{Nodes: uint32(nodes), Edges: edges}
	return er, nil
}

// Counts returns the counts declared on the header line. They are not
// checked against the rows; that is up to the consumer.
func (r *Reader) Counts() Counts { return r.counts }

// Line returns the number of lines consumed so far, header included.
func (r *Reader) Line() int { return r.line }

// Edges returns the edge rows as a single-use sequence.
//
// The sequence ends normally at end of input or at the first line that does
// not split into exactly three fields. A three-field line with a field that
// fails to parse yields an error with code errors.ErrCodeMalformedRow and
// ends the sequence; so does an I/O error (returned as is). Once ended, the
// sequence yields nothing on later calls.
func (r *Reader) Edges() graphbin.EdgeSeq {
	return func(yield func(graphbin.Edge, error) bool) {
		for !r.done {
			e, ok, err := r.next()
			if err != nil {
				r.done = true
				yield(graphbin.Edge{}, err)
				return
			}
			if !ok {
				r.done = true
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (r *Reader) next() (graphbin.Edge, bool, error) {
	if !r.sc.Scan() {
		return graphbin.Edge{}, false, r.sc.Err()
	}
	r.line++

	fields := strings.Fields(r.sc.Text())
	if len(fields) != 3 {
		return graphbin.Edge{}, false, nil
	}
	e, err := parseRow(fields)
	if err != nil {
		return graphbin.Edge{}, false, errors.Wrap(errors.ErrCodeMalformedRow, err, "line %d", r.line)
	}
	return e, true, nil
}

func parseRow(fields []string) (graphbin.Edge, error) {
	from, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return graphbin.Edge{}, err
	}
	to, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return graphbin.Edge{}, err
	}
	w, err := strconv.ParseFloat(fields[2], 32)
	if err != nil {
		return graphbin.Edge{}, err
	}
	return graphbin.Edge{From: uint32(from), To: uint32(to), Weight: float32(w)}, nil
}
