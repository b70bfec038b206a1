package graphbin

import (
	"fmt"
	"iter"

	"github.com/matzehuels/graphpack/pkg/errors"
)

// NodeID identifies a node in a graph file.
type NodeID = uint32

// Edge is a single weighted, directed edge.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float32
}

// String formats the edge as it appears in the text edge-list format.
func (e Edge) String() string {
	return fmt.Sprintf("%d %d %g", e.From, e.To, e.Weight)
}

// EdgeSeq is a single-use stream of edges. A non-nil error ends the stream;
// consumers must stop at the first error they see.
type EdgeSeq = iter.Seq2[Edge, error]

// Header is the first message of every graph file.
//
// NumEdges is the number of logical edges in the file (the sum over all
// records), not the number of records.
type Header struct {
	Tag      string // Human-readable graph identifier
	NumNodes uint32 // Declared node count
	NumEdges uint64 // Declared edge count
}

// RecordKind is the variant tag of an edge record.
type RecordKind uint8

const (
	// RecordSingle carries exactly one edge: a scalar target and a scalar weight.
	RecordSingle RecordKind = iota + 1
	// RecordBatch carries N >= 1 edges from one source as two parallel lists.
	RecordBatch
)

// String returns the lowercase name of the kind, used in logs and metric labels.
func (k RecordKind) String() string {
	switch k {
	case RecordSingle:
		return "single"
	case RecordBatch:
		return "batch"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Record is one edge record: one or more edges sharing the source From.
//
// For both kinds To and Weight are positionally paired (To[i] goes with
// Weight[i]). A Single record always has exactly one entry in each slice.
type Record struct {
	Kind   RecordKind
	From   NodeID
	To     []NodeID
	Weight []float32
}

// SingleRecord returns the Single-shaped record for e.
func SingleRecord(e Edge) Record {
	return Record{
		Kind:   RecordSingle,
		From:   e.From,
		To:     []NodeID{e.To},
		Weight: []float32{e.Weight},
	}
}

// BatchRecord returns a Batch-shaped record. The slices are not copied.
func BatchRecord(from NodeID, to []NodeID, weight []float32) Record {
	return Record{Kind: RecordBatch, From: from, To: to, Weight: weight}
}

// Len returns the number of edges in the record.
func (r *Record) Len() int { return len(r.To) }

// Edge returns the i-th edge of the record.
func (r *Record) Edge(i int) Edge {
	return Edge{From: r.From, To: r.To[i], Weight: r.Weight[i]}
}

// Edges yields the record's edges in index order.
func (r *Record) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for i := range r.To {
			if !yield(r.Edge(i)) {
				return
			}
		}
	}
}

// Validate checks the shape invariants of the record: the two lists have the
// same length, a Single record has exactly one edge and a Batch at least one.
func (r *Record) Validate() error {
	if len(r.To) != len(r.Weight) {
		return errors.New(errors.ErrCodeMalformedRecord,
			"node %d: %d targets paired with %d weights", r.From, len(r.To), len(r.Weight))
	}
	switch r.Kind {
	case RecordSingle:
		if len(r.To) != 1 {
			return errors.New(errors.ErrCodeMalformedRecord,
				"node %d: single record with %d edges", r.From, len(r.To))
		}
	case RecordBatch:
		if len(r.To) == 0 {
			return errors.New(errors.ErrCodeMalformedRecord, "node %d: empty batch record", r.From)
		}
	default:
		return errors.New(errors.ErrCodeMalformedRecord, "node %d: unknown record kind %d", r.From, r.Kind)
	}
	return nil
}

// reset empties the record while keeping its backing arrays.
func (r *Record) reset() {
	r.Kind = 0
	r.From = 0
	r.To = r.To[:0]
	r.Weight = r.Weight[:0]
}

// Stats counts what an Encoder wrote or a Decoder read.
type Stats struct {
	Records       uint64 // Edge records (the header is not counted)
	SingleRecords uint64
	BatchRecords  uint64
	Edges         uint64 // Logical edges across all records

	// Descents is set by grouped encoding; see [Grouper.Descents].
	Descents uint64
}

func (s *Stats) add(kind RecordKind, edges int) {
	s.Records++
	s.Edges += uint64(edges)
	if kind == RecordBatch {
		s.BatchRecords++
	} else {
		s.SingleRecords++
	}
}
