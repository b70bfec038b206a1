package graphbin

import (
	"errors"
	"slices"
	"testing"
)

type collected struct {
	from   NodeID
	to     []NodeID
	weight []float32
}

func collect(out *[]collected) func(Record) error {
	return func(r Record) error {
		*out = append(*out, collected{r.From, slices.Clone(r.To), slices.Clone(r.Weight)})
		return nil
	}
}

func TestGrouperTransitions(t *testing.T) {
	var g Grouper
	var out []collected
	emit := collect(&out)

	if g.state != awaitingFirstEdge || g.Pending() != 0 {
		t.Fatalf("zero Grouper: state=%d pending=%d", g.state, g.Pending())
	}

	steps := []struct {
		edge        Edge
		wantState   groupState
		wantPending int
		wantEmitted int
	}{
		{Edge{5, 1, 1}, accumulatingBatch, 1, 0},
		{Edge{5, 2, 2}, accumulatingBatch, 2, 0},
		{Edge{6, 3, 3}, accumulatingBatch, 1, 1},
		{Edge{2, 4, 4}, accumulatingBatch, 1, 2},
		{Edge{2, 5, 5}, accumulatingBatch, 2, 2},
	}
	for i, s := range steps {
		if err := g.Push(s.edge, emit); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if g.state != s.wantState || g.Pending() != s.wantPending || len(out) != s.wantEmitted {
			t.Errorf("step %d: state=%d pending=%d emitted=%d, want %d/%d/%d",
				i, g.state, g.Pending(), len(out), s.wantState, s.wantPending, s.wantEmitted)
		}
	}

	if err := g.Flush(emit); err != nil {
		t.Fatal(err)
	}
	if g.state != awaitingFirstEdge || g.Pending() != 0 {
		t.Errorf("after Flush: state=%d pending=%d", g.state, g.Pending())
	}

	want := []collected{
		{5, []NodeID{1, 2}, []float32{1, 2}},
		{6, []NodeID{3}, []float32{3}},
		{2, []NodeID{4, 5}, []float32{4, 5}},
	}
	if len(out) != len(want) {
		t.Fatalf("emitted %d batches, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i].from != want[i].from || !slices.Equal(out[i].to, want[i].to) || !slices.Equal(out[i].weight, want[i].weight) {
			t.Errorf("batch %d = %+v, want %+v", i, out[i], want[i])
		}
	}
	if g.Descents() != 1 {
		t.Errorf("Descents() = %d, want 1", g.Descents())
	}
}

func TestGrouperFlushEmpty(t *testing.T) {
	var g Grouper
	called := false
	if err := g.Flush(func(Record) error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("Flush emitted a record with nothing pending")
	}
}

func TestGrouperSortedInputHasNoDescents(t *testing.T) {
	var g Grouper
	var out []collected
	for _, e := range []Edge{{0, 1, 1}, {0, 2, 1}, {1, 0, 1}, {3, 3, 1}, {3, 4, 1}} {
		if err := g.Push(e, collect(&out)); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Flush(collect(&out)); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("batches = %d, want one per source (3)", len(out))
	}
	if g.Descents() != 0 {
		t.Errorf("Descents() = %d, want 0", g.Descents())
	}
}

func TestGrouperEmitErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var g Grouper
	emit := func(Record) error { return boom }

	if err := g.Push(Edge{1, 2, 1}, emit); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := g.Push(Edge{2, 3, 1}, emit); !errors.Is(err, boom) {
		t.Errorf("push across a boundary = %v, want the emit error", err)
	}
}
