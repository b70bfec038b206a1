package digraph

import (
	"gonum.org/v1/gonum/stat"
)

// DegreeStats summarizes the out-degree distribution of a graph over all
// NodeCount nodes, isolated nodes included.
type DegreeStats struct {
	Nodes     uint64
	Edges     uint64
	Sources   int     // Nodes with at least one out-edge
	Sinks     uint64  // Nodes with no out-edge
	SelfLoops uint64
	MaxOut    int
	MaxOutID  NodeID  // Smallest id with MaxOut out-edges
	MeanOut   float64
	StdDevOut float64 // Sample standard deviation; 0 for fewer than two nodes
}

// Stats computes the out-degree statistics of g.
//
// Only source nodes are stored, so sinks enter the mean and deviation as a
// single zero-degree observation weighted by their count.
func (g *Graph) Stats() DegreeStats {
	s := DegreeStats{
		Nodes:   g.NodeCount(),
		Edges:   g.edges,
		Sources: g.adj.Len(),
	}
	if s.Nodes == 0 {
		return s
	}
	s.Sinks = s.Nodes - uint64(s.Sources)

	degrees := make([]float64, 0, s.Sources+1)
	weights := make([]float64, 0, s.Sources+1)
	g.adj.Scan(func(a *adjacency) bool {
		d := len(a.to)
		if d > s.MaxOut {
			s.MaxOut, s.MaxOutID = d, a.from
		}
		for _, to := range a.to {
			if to == a.from {
				s.SelfLoops++
			}
		}
		degrees = append(degrees, float64(d))
		weights = append(weights, 1)
		return true
	})
	if s.Sinks > 0 {
		degrees = append(degrees, 0)
		weights = append(weights, float64(s.Sinks))
	}

	if s.Nodes > 1 {
		s.MeanOut, s.StdDevOut = stat.MeanStdDev(degrees, weights)
	} else {
		s.MeanOut = stat.Mean(degrees, weights)
	}
	return s
}
