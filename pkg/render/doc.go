// Package render draws graph files as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [digraph.Graph] into Graphviz DOT source, one circle per
// node id and one arrow per edge. [RenderSVG] lays the DOT out with the
// embedded Graphviz (no system install needed) and returns SVG.
//
//	g, _, err := digraph.Load("ca-GrQc.bin")
//	...
//	dot, sum := render.ToDOT(g, render.Options{Weights: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Size Limits
//
// Real graphs quickly get too large to lay out or look at. [Options.MaxEdges]
// caps how many edges are drawn, in source order; the returned [Summary]
// reports how many were left out so callers can say so.
//
// [digraph.Graph]: github.com/matzehuels/graphpack/pkg/digraph
package render
