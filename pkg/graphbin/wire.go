package graphbin

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/matzehuels/graphpack/pkg/errors"
)

// Field numbers of the header message.
const (
	headerTagField      protowire.Number = 1
	headerNumNodesField protowire.Number = 2
	headerNumEdgesField protowire.Number = 3
)

// Field numbers of the edge record message. Fields 2/3 form the "to" oneof
// and 4/5 the "weight" oneof; the arm that is set is the record's variant tag.
const (
	recordFromField        protowire.Number = 1
	recordToNodeField      protowire.Number = 2
	recordToListField      protowire.Number = 3
	recordWeightValueField protowire.Number = 4
	recordWeightListField  protowire.Number = 5
)

// arm records which side of a oneof was present in a record message.
type arm uint8

const (
	armNone arm = iota
	armScalar
	armList
)

func appendHeader(b []byte, h Header) []byte {
	b = protowire.AppendTag(b, headerTagField, protowire.BytesType)
	b = protowire.AppendString(b, h.Tag)
	b = protowire.AppendTag(b, headerNumNodesField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.NumNodes))
	b = protowire.AppendTag(b, headerNumEdgesField, protowire.VarintType)
	b = protowire.AppendVarint(b, h.NumEdges)
	return b
}

func appendSingle(b []byte, e Edge) []byte {
	b = protowire.AppendTag(b, recordFromField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.From))
	b = protowire.AppendTag(b, recordToNodeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.To))
	b = protowire.AppendTag(b, recordWeightValueField, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(e.Weight))
	return b
}

func appendBatch(b []byte, from NodeID, to []NodeID, weight []float32) []byte {
	b = protowire.AppendTag(b, recordFromField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(from))

	size := 0
	for _, t := range to {
		size += protowire.SizeVarint(uint64(t))
	}
	b = protowire.AppendTag(b, recordToListField, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(size))
	for _, t := range to {
		b = protowire.AppendVarint(b, uint64(t))
	}

	b = protowire.AppendTag(b, recordWeightListField, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(4*len(weight)))
	for _, w := range weight {
		b = protowire.AppendFixed32(b, math.Float32bits(w))
	}
	return b
}

// parseHeader decodes a header message. Unknown fields are skipped; a known
// field with the wrong wire type is an error.
func parseHeader(b []byte) (Header, error) {
	var h Header
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return h, errors.Wrap(errors.ErrCodeMalformedHeader, protowire.ParseError(n), "read field tag")
		}
		b = b[n:]

		switch num {
		case headerTagField:
			if typ != protowire.BytesType {
				return h, wireTypeError(errors.ErrCodeMalformedHeader, "tag", typ)
			}
			var v string
			v, n = protowire.ConsumeString(b)
			h.Tag = v
		case headerNumNodesField:
			if typ != protowire.VarintType {
				return h, wireTypeError(errors.ErrCodeMalformedHeader, "num_nodes", typ)
			}
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			if n >= 0 && v > math.MaxUint32 {
				return h, errors.New(errors.ErrCodeMalformedHeader, "num_nodes %d overflows uint32", v)
			}
			h.NumNodes = uint32(v)
		case headerNumEdgesField:
			if typ != protowire.VarintType {
				return h, wireTypeError(errors.ErrCodeMalformedHeader, "num_edges", typ)
			}
			h.NumEdges, n = protowire.ConsumeVarint(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return h, errors.Wrap(errors.ErrCodeMalformedHeader, protowire.ParseError(n), "read field %d", num)
		}
		b = b[n:]
	}
	return h, nil
}

// parseRecord decodes an edge record message into rec, reusing its slices.
//
// The record's variant is decided by which oneof arms were present: two
// scalars make a Single record, two lists of equal non-zero length make a
// Batch record, and anything else is rejected. Within a oneof the last arm
// on the wire wins.
func parseRecord(b []byte, rec *Record) error {
	rec.reset()
	var toArm, weightArm arm
	var toScalar NodeID
	var weightScalar float32

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(errors.ErrCodeMalformedRecord, protowire.ParseError(n), "read field tag")
		}
		b = b[n:]

		switch num {
		case recordFromField:
			if typ != protowire.VarintType {
				return wireTypeError(errors.ErrCodeMalformedRecord, "from", typ)
			}
			var v uint64
			if v, n = protowire.ConsumeVarint(b); n >= 0 {
				if v > math.MaxUint32 {
					return errors.New(errors.ErrCodeMalformedRecord, "source %d overflows uint32", v)
				}
				rec.From = NodeID(v)
			}
		case recordToNodeField:
			if typ != protowire.VarintType {
				return wireTypeError(errors.ErrCodeMalformedRecord, "to.node", typ)
			}
			var v uint64
			if v, n = protowire.ConsumeVarint(b); n >= 0 {
				if v > math.MaxUint32 {
					return errors.New(errors.ErrCodeMalformedRecord, "target %d overflows uint32", v)
				}
				toScalar, toArm = NodeID(v), armScalar
				rec.To = rec.To[:0]
			}
		case recordToListField:
			if typ != protowire.BytesType {
				return wireTypeError(errors.ErrCodeMalformedRecord, "to.list", typ)
			}
			var v []byte
			if v, n = protowire.ConsumeBytes(b); n >= 0 {
				to, err := parseNodeList(v, rec.To[:0])
				if err != nil {
					return err
				}
				rec.To, toArm = to, armList
			}
		case recordWeightValueField:
			if typ != protowire.Fixed32Type {
				return wireTypeError(errors.ErrCodeMalformedRecord, "weight.value", typ)
			}
			var v uint32
			if v, n = protowire.ConsumeFixed32(b); n >= 0 {
				weightScalar, weightArm = math.Float32frombits(v), armScalar
				rec.Weight = rec.Weight[:0]
			}
		case recordWeightListField:
			if typ != protowire.BytesType {
				return wireTypeError(errors.ErrCodeMalformedRecord, "weight.list", typ)
			}
			var v []byte
			if v, n = protowire.ConsumeBytes(b); n >= 0 {
				w, err := parseWeightList(v, rec.Weight[:0])
				if err != nil {
					return err
				}
				rec.Weight, weightArm = w, armList
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.Wrap(errors.ErrCodeMalformedRecord, protowire.ParseError(n), "read field %d", num)
		}
		b = b[n:]
	}

	switch {
	case toArm == armNone:
		return errors.New(errors.ErrCodeMalformedRecord, "node %d: record has no target", rec.From)
	case weightArm == armNone:
		return errors.New(errors.ErrCodeMalformedRecord, "node %d: record has no weight", rec.From)
	case toArm == armScalar && weightArm == armScalar:
		rec.Kind = RecordSingle
		rec.To = append(rec.To[:0], toScalar)
		rec.Weight = append(rec.Weight[:0], weightScalar)
	case toArm == armList && weightArm == armList:
		rec.Kind = RecordBatch
	case toArm == armScalar:
		return errors.New(errors.ErrCodeMalformedRecord, "node %d: single target given with a list of weights", rec.From)
	default:
		return errors.New(errors.ErrCodeMalformedRecord, "node %d: single weight given with a list of targets", rec.From)
	}
	return rec.Validate()
}

func parseNodeList(b []byte, dst []NodeID) ([]NodeID, error) {
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return dst, errors.Wrap(errors.ErrCodeMalformedRecord, protowire.ParseError(n), "read target list")
		}
		if v > math.MaxUint32 {
			return dst, errors.New(errors.ErrCodeMalformedRecord, "target %d overflows uint32", v)
		}
		dst = append(dst, NodeID(v))
		b = b[n:]
	}
	return dst, nil
}

func parseWeightList(b []byte, dst []float32) ([]float32, error) {
	if len(b)%4 != 0 {
		return dst, errors.New(errors.ErrCodeMalformedRecord, "weight list of %d bytes is not a multiple of 4", len(b))
	}
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return dst, errors.Wrap(errors.ErrCodeMalformedRecord, protowire.ParseError(n), "read weight list")
		}
		dst = append(dst, math.Float32frombits(v))
		b = b[n:]
	}
	return dst, nil
}

func wireTypeError(code errors.Code, field string, typ protowire.Type) error {
	return errors.New(code, "field %s has wire type %d", field, typ)
}
