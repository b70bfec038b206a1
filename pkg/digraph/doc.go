// Package digraph materializes graph files as in-memory weighted directed
// multigraphs.
//
// Most tools never need this package: [graphbin.Decoder] streams a file in
// constant memory. A [Graph] is for consumers that need random access to a
// node's out-edges, per-node statistics or a re-encoded copy of the file.
//
// # Building
//
// [Load] and [Read] decode a graph file straight into a Graph. [FromEdges]
// builds one from any [graphbin.EdgeSeq], such as a text edge list:
//
//	r, err := edgelist.NewReader(f)
//	...
//	g, err := digraph.FromEdges(r.Edges())
//
// The node count of a Graph is derived from its edges (largest id plus one),
// not from the header the edges came with.
//
// # Writing
//
// [Write] and [WriteTo] encode a Graph back into a graph file. Because edges
// are stored by source, the output is sorted by source and grouped output
// always has exactly one record per source node.
//
// # Statistics
//
// [Graph.Stats] summarizes the out-degree distribution, which is what the
// inspect command prints.
package digraph
