// Package graphbin implements a compact, streamable binary format for
// weighted directed graphs.
//
// # Format
//
// A graph file is a sequence of frames, each a uvarint length followed by a
// message in protobuf wire format. The first frame is a [Header] (tag, node
// count, edge count). Every following frame is an edge record; there is no
// trailer, checksum or index, so files can only be read front to back.
//
// An edge record describes one or more out-edges of a single source node
// and comes in two shapes:
//
//   - Single: a scalar target and a scalar weight, one edge.
//   - Batch: a packed list of targets and a packed list of weights of the
//     same length, one edge per position.
//
// The shape is carried by which arm of the "to" and "weight" oneofs is set.
// A record that mixes a scalar with a list, or has lists of different
// lengths, is rejected with errors.ErrCodeMalformedRecord.
//
// # Writing
//
// [Encoder] writes the header and then records one at a time. [Encode] is the
// one-shot form that drains an [EdgeSeq] in either mode:
//
//	stats, err := graphbin.Encode(w, graphbin.Header{
//	    Tag:      "ca-GrQc.txt",
//	    NumNodes: 5242,
//	    NumEdges: 28980,
//	}, edges, graphbin.EncodeOptions{Grouped: true})
//
// Ungrouped mode writes one Single record per edge and works for any input.
// Grouped mode runs the edges through a [Grouper], which batches each
// contiguous run of edges with the same source. It is only a size
// optimization, and only produces one record per source when the input is
// already grouped by source.
//
// The declared NumEdges is checked against the edges actually written once
// the input has been fully drained; a mismatch is a
// *errors.CountMismatchError.
//
// # Reading
//
// [Decoder] reads the header and then one record at a time, holding at most
// one record in memory. [Decoder.Edges] flattens records into edges, so
// callers do not need to know which mode wrote the file. [ReadEdges] and
// [LoadEdges] collect a whole file into a slice.
//
// A stream cut off inside a frame is treated as having ended early unless
// the decoder is in strict mode; see [Decoder].
//
// # Concurrency
//
// Encoders and Decoders are single-goroutine objects that own their stream.
package graphbin
