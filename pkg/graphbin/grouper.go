package graphbin

// groupState is the state of a Grouper.
type groupState uint8

const (
	// awaitingFirstEdge: nothing pending, the next edge opens a batch.
	awaitingFirstEdge groupState = iota
	// accumulatingBatch: edges of source g.from are pending.
	accumulatingBatch
)

// Grouper turns an edge stream into Batch records, one per contiguous run of
// edges that share a source.
//
// It has one transition rule: an edge with the pending batch's source is
// appended; an edge with any other source flushes the pending batch and
// opens a new one. Grouper never reorders or looks back, so it produces one
// record per distinct source only if the input presents each source's edges
// contiguously. A source that reappears later opens another batch.
//
// Only the pending batch is buffered: memory is O(out-degree of one node).
type Grouper struct {
	state    groupState
	from     NodeID
	to       []NodeID
	weight   []float32
	descents uint64
}

// Push adds e to the pending batch, first emitting the pending batch if e has
// a different source. The record passed to emit is only valid during the call.
func (g *Grouper) Push(e Edge, emit func(Record) error) error {
	switch g.state {
	case awaitingFirstEdge:
		g.open(e.From)
	case accumulatingBatch:
		if e.From != g.from {
			if e.From < g.from {
				g.descents++
			}
			if err := emit(g.pending()); err != nil {
				return err
			}
			g.open(e.From)
		}
	}
	g.to = append(g.to, e.To)
	g.weight = append(g.weight, e.Weight)
	return nil
}

// Flush emits the pending batch, if any, and returns to the initial state.
// It must be called once the input is exhausted.
func (g *Grouper) Flush(emit func(Record) error) error {
	if g.state != accumulatingBatch {
		return nil
	}
	rec := g.pending()
	g.state = awaitingFirstEdge
	g.to, g.weight = g.to[:0], g.weight[:0]
	return emit(rec)
}

// Pending returns the number of edges buffered in the open batch.
func (g *Grouper) Pending() int { return len(g.to) }

// Descents returns how many times the source id went down between two
// consecutive batches. A non-zero value means the input was not sorted by
// source, so a source may have been split over several records.
func (g *Grouper) Descents() uint64 { return g.descents }

func (g *Grouper) open(from NodeID) {
	g.state = accumulatingBatch
	g.from = from
	g.to = g.to[:0]
	g.weight = g.weight[:0]
}

func (g *Grouper) pending() Record {
	return BatchRecord(g.from, g.to, g.weight)
}
