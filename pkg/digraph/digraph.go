package digraph

import (
	"iter"
	"math"

	"github.com/tidwall/btree"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

// NodeID identifies a node. Ids are dense-ish unsigned integers; a graph's
// node count is derived from the largest id seen.
type NodeID = graphbin.NodeID

// adjacency holds the out-edges of one source node in insertion order.
type adjacency struct {
	from   NodeID
	to     []NodeID
	weight []float32
}

func adjacencyLess(a, b *adjacency) bool { return a.from < b.from }

// Graph is an in-memory weighted directed multigraph.
//
// Out-edges are kept per source in a B-tree ordered by source id, so
// iteration is always by ascending source and, within a source, in the order
// the edges were added. Parallel edges and self-loops are kept as given.
//
// The zero value is not usable; use [New] or [FromEdges]. A Graph is not safe
// for concurrent use without external synchronization.
type Graph struct {
	adj      *btree.BTreeG[*adjacency]
	maxID    NodeID
	hasNodes bool
	edges    uint64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adj: btree.NewBTreeG[*adjacency](adjacencyLess)}
}

// FromEdges builds a graph from an edge sequence. It stops at the first
// error the sequence yields.
func FromEdges(edges graphbin.EdgeSeq) (*Graph, error) {
	g := New()
	for e, err := range edges {
		if err != nil {
			return nil, err
		}
		g.AddEdge(e)
	}
	return g, nil
}

// AddEdge appends e to the out-edges of e.From. Both endpoints become part
// of the node range.
func (g *Graph) AddEdge(e graphbin.Edge) {
	a, ok := g.adj.Get(&adjacency{from: e.From})
	if !ok {
		a = &adjacency{from: e.From}
		g.adj.Set(a)
	}
	a.to = append(a.to, e.To)
	a.weight = append(a.weight, e.Weight)

	g.touch(e.From)
	g.touch(e.To)
	g.edges++
}

func (g *Graph) touch(id NodeID) {
	if !g.hasNodes || id > g.maxID {
		g.maxID = id
		g.hasNodes = true
	}
}

// NodeCount returns one more than the largest node id referenced by any
// edge, or 0 for a graph without edges. Ids below the maximum that no edge
// mentions still count as (isolated) nodes.
//
// The result is a uint64 because a graph touching id math.MaxUint32 has
// 2^32 nodes.
func (g *Graph) NodeCount() uint64 {
	if !g.hasNodes {
		return 0
	}
	return uint64(g.maxID) + 1
}

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() uint64 { return g.edges }

// SourceCount returns the number of nodes with at least one out-edge.
func (g *Graph) SourceCount() int { return g.adj.Len() }

// OutDegree returns the number of out-edges of id.
func (g *Graph) OutDegree(id NodeID) int {
	a, ok := g.adj.Get(&adjacency{from: id})
	if !ok {
		return 0
	}
	return len(a.to)
}

// Out yields the out-edges of id in insertion order.
func (g *Graph) Out(id NodeID) iter.Seq[graphbin.Edge] {
	return func(yield func(graphbin.Edge) bool) {
		a, ok := g.adj.Get(&adjacency{from: id})
		if !ok {
			return
		}
		for i := range a.to {
			if !yield(graphbin.Edge{From: id, To: a.to[i], Weight: a.weight[i]}) {
				return
			}
		}
	}
}

// Sources yields every node with at least one out-edge, in ascending order.
func (g *Graph) Sources() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		g.adj.Scan(func(a *adjacency) bool {
			return yield(a.from)
		})
	}
}

// Edges yields all edges ordered by source. The sequence never yields an
// error; it has the [graphbin.EdgeSeq] shape so it can be handed to an
// encoder directly.
func (g *Graph) Edges() graphbin.EdgeSeq {
	return func(yield func(graphbin.Edge, error) bool) {
		g.adj.Scan(func(a *adjacency) bool {
			for i := range a.to {
				if !yield(graphbin.Edge{From: a.from, To: a.to[i], Weight: a.weight[i]}, nil) {
					return false
				}
			}
			return true
		})
	}
}

// Header returns the file header describing g under the given tag.
//
// A graph whose node count does not fit the header's uint32 field (one that
// uses node id math.MaxUint32) is rejected with errors.ErrCodeInvalidInput.
func (g *Graph) Header(tag string) (graphbin.Header, error) {
	n := g.NodeCount()
	if n > math.MaxUint32 {
		return graphbin.Header{}, errors.New(errors.ErrCodeInvalidInput,
			"graph has %d nodes, more than a header can declare", n)
	}
	return graphbin.Header{Tag: tag, NumNodes: uint32(n), NumEdges: g.edges}, nil
}
