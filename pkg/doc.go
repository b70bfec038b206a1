// Package pkg provides the core libraries for graphpack.
//
// # Overview
//
// graphpack converts plain-text weighted edge lists into a compact binary
// graph format that can be streamed back one record at a time. The pkg
// directory is organized into three main areas:
//
//  1. Codec - [graphbin] (binary format), [edgelist] (text source)
//  2. Graphs - [digraph] (in-memory adjacency), [render] (DOT and SVG)
//  3. Orchestration - [pipeline] (conversions), [config] (batch job files)
//
// Supporting packages are [errors] (coded errors), [observability] (hooks),
// [metrics] (Prometheus recorder) and [buildinfo] (version information).
//
// # Architecture
//
// The typical data flow through graphpack:
//
//	text edge list
//	      ↓
//	 [edgelist] package (header + one edge per row)
//	      ↓
//	 [graphbin] package (grouped or ungrouped records)
//	      ↓
//	 binary graph file
//	      ↓
//	 [graphbin] Decoder / [digraph] Load
//	      ↓
//	 [render] package (DOT/SVG)
//
// # Quick Start
//
// Convert an edge list and read it back:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/graphpack/pkg/graphbin"
//	    "github.com/matzehuels/graphpack/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil)
//	res, err := runner.Convert(context.Background(), pipeline.Options{
//	    Source:  "ca-GrQc.txt",
//	    Dest:    "ca-GrQc.bin",
//	    Grouped: true,
//	})
//
//	h, edges, err := graphbin.LoadEdges("ca-GrQc.bin")
//
// # Main Packages
//
// ## Codec
//
//   - [graphbin]: Header and record types, Encoder, Decoder and Grouper
//   - [edgelist]: Streaming parser for the text edge-list format
//
// ## Graphs
//
//   - [digraph]: Weighted directed multigraph with ordered adjacency
//   - [render]: Node-link diagrams through Graphviz
//
// ## Orchestration
//
//   - [pipeline]: File and stream conversions with cleanup on failure
//   - [config]: TOML and YAML job files for batch conversions
//
// # Error Handling
//
// Errors carry a code from [errors] so callers can tell a malformed input
// apart from an I/O failure:
//
//	if errors.Is(err, errors.ErrCodeCountMismatch) {
//	    // header and body disagree
//	}
//
// [graphbin]: github.com/matzehuels/graphpack/pkg/graphbin
// [edgelist]: github.com/matzehuels/graphpack/pkg/edgelist
// [digraph]: github.com/matzehuels/graphpack/pkg/digraph
// [render]: github.com/matzehuels/graphpack/pkg/render
// [pipeline]: github.com/matzehuels/graphpack/pkg/pipeline
// [config]: github.com/matzehuels/graphpack/pkg/config
// [errors]: github.com/matzehuels/graphpack/pkg/errors
// [observability]: github.com/matzehuels/graphpack/pkg/observability
// [metrics]: github.com/matzehuels/graphpack/pkg/metrics
// [buildinfo]: github.com/matzehuels/graphpack/pkg/buildinfo
package pkg
