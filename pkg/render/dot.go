package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/graphpack/pkg/digraph"
)

// DefaultMaxEdges caps the edges drawn when Options.MaxEdges is zero.
// Graphviz layout time grows quickly past a few thousand edges.
const DefaultMaxEdges = 2000

// Options configures DOT generation.
type Options struct {
	// MaxEdges is the most edges to include, taken in source order.
	// Zero means DefaultMaxEdges; negative means no limit.
	MaxEdges int

	// Weights labels each edge with its weight.
	Weights bool

	// Title is shown above the diagram when set.
	Title string
}

// Summary describes what ToDOT included.
type Summary struct {
	Nodes   int    // Nodes drawn (those touched by a drawn edge)
	Edges   uint64 // Edges drawn
	Omitted uint64 // Edges left out because of MaxEdges
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Only nodes touched by an included edge are drawn, so isolated ids below
// the graph's NodeCount do not appear. Self-loops and parallel edges are
// drawn as given.
func ToDOT(g *digraph.Graph, opts Options) (string, Summary) {
	limit := uint64(opts.MaxEdges)
	switch {
	case opts.MaxEdges == 0:
		limit = DefaultMaxEdges
	case opts.MaxEdges < 0:
		limit = g.EdgeCount()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=10, arrowsize=0.6];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	var sum Summary
	seen := make(map[digraph.NodeID]struct{})
	var edges bytes.Buffer
	for e := range g.Edges() {
		if sum.Edges == limit {
			break
		}
		for _, id := range [2]digraph.NodeID{e.From, e.To} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				fmt.Fprintf(&buf, "  %d;\n", id)
			}
		}
		if opts.Weights {
			fmt.Fprintf(&edges, "  %d -> %d [label=%q];\n", e.From, e.To, fmtWeight(e.Weight))
		} else {
			fmt.Fprintf(&edges, "  %d -> %d;\n", e.From, e.To)
		}
		sum.Edges++
	}
	sum.Nodes = len(seen)
	sum.Omitted = g.EdgeCount() - sum.Edges

	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String(), sum
}

func fmtWeight(w float32) string {
	return strconv.FormatFloat(float64(w), 'g', -1, 32)
}
