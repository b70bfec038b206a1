package edgelist

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	gperrors "github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

func readAll(t *testing.T, r *Reader) ([]graphbin.Edge, error) {
	t.Helper()
	var edges []graphbin.Edge
	for e, err := range r.Edges() {
		if err != nil {
			return edges, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func TestReader(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCounts Counts
		wantEdges  []graphbin.Edge
	}{
		{
			name:       "Simple",
			input:      "3 2\n0 1 0.5\n1 2 1.25\n",
			wantCounts: Counts{Nodes: 3, Edges: 2},
			wantEdges:  []graphbin.Edge{{From: 0, To: 1, Weight: 0.5}, {From: 1, To: 2, Weight: 1.25}},
		},
		{
			name:       "NoTrailingNewline",
			input:      "2 1\n0 1 2",
			wantCounts: Counts{Nodes: 2, Edges: 1},
			wantEdges:  []graphbin.Edge{{From: 0, To: 1, Weight: 2}},
		},
		{
			name:       "MixedWhitespace",
			input:      "  5\t1 \n\t4   0\t-3e-2  \r\n",
			wantCounts: Counts{Nodes: 5, Edges: 1},
			wantEdges:  []graphbin.Edge{{From: 4, To: 0, Weight: -0.03}},
		},
		{
			name:       "StopsAtShortLine",
			input:      "2 2\n1 2 0.5\nbadline\n0 1 1\n",
			wantCounts: Counts{Nodes: 2, Edges: 2},
			wantEdges:  []graphbin.Edge{{From: 1, To: 2, Weight: 0.5}},
		},
		{
			name:       "StopsAtBlankLine",
			input:      "2 2\n1 0 1\n\n0 1 1\n",
			wantCounts: Counts{Nodes: 2, Edges: 2},
			wantEdges:  []graphbin.Edge{{From: 1, To: 0, Weight: 1}},
		},
		{
			name:       "StopsAtLongLine",
			input:      "2 1\n1 0 1\n1 0 1 extra\n",
			wantCounts: Counts{Nodes: 2, Edges: 1},
			wantEdges:  []graphbin.Edge{{From: 1, To: 0, Weight: 1}},
		},
		{
			name:       "HeaderOnly",
			input:      "0 0\n",
			wantCounts: Counts{},
		},
		{
			name:       "MaxValues",
			input:      "4294967295 18446744073709551615\n4294967295 4294967295 inf\n",
			wantCounts: Counts{Nodes: 4294967295, Edges: 18446744073709551615},
			wantEdges:  []graphbin.Edge{{From: 4294967295, To: 4294967295, Weight: float32(math.Inf(1))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			if r.Counts() != tt.wantCounts {
				t.Errorf("Counts() = %+v, want %+v", r.Counts(), tt.wantCounts)
			}
			got, err := readAll(t, r)
			if err != nil {
				t.Fatalf("Edges: %v", err)
			}
			if len(got) != len(tt.wantEdges) {
				t.Fatalf("edges = %v, want %v", got, tt.wantEdges)
			}
			for i := range got {
				if got[i] != tt.wantEdges[i] {
					t.Errorf("edge %d = %v, want %v", i, got[i], tt.wantEdges[i])
				}
			}
		})
	}
}

func TestReaderHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"OneField", "10\n"},
		{"ThreeFields", "1 2 3\n"},
		{"NegativeNodes", "-1 2\n"},
		{"NodesOverflow", "4294967296 2\n"},
		{"EdgesNotNumber", "3 many\n"},
		{"BlankFirstLine", "\n3 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input))
			if !gperrors.Is(err, gperrors.ErrCodeMalformedHeader) {
				t.Errorf("err = %v, want code %s", err, gperrors.ErrCodeMalformedHeader)
			}
		})
	}
}

func TestReaderRowErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine string
	}{
		{"BadSource", "2 1\nx 1 1\n", "line 2"},
		{"NegativeTarget", "2 2\n0 1 1\n0 -1 1\n", "line 3"},
		{"BadWeight", "2 1\n0 1 heavy\n", "line 2"},
		{"SourceOverflow", "2 1\n4294967296 1 1\n", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			_, err = readAll(t, r)
			if !gperrors.Is(err, gperrors.ErrCodeMalformedRow) {
				t.Fatalf("err = %v, want code %s", err, gperrors.ErrCodeMalformedRow)
			}
			if !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("err = %q, want it to name %s", err, tt.wantLine)
			}
		})
	}
}

func TestReaderErrorEndsSequence(t *testing.T) {
	r, err := NewReader(strings.NewReader("3 3\n0 1 1\n0 x 1\n0 2 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := readAll(t, r)
	if err == nil || len(got) != 1 {
		t.Fatalf("got %v, %v; want one edge then an error", got, err)
	}

	// The row after the bad one is never produced.
	again, err := readAll(t, r)
	if err != nil || len(again) != 0 {
		t.Errorf("second pass = %v, %v; want an empty sequence", again, err)
	}
}

func TestReaderSingleUse(t *testing.T) {
	r, err := NewReader(strings.NewReader("2 2\n0 1 1\n1 0 1\n"))
	if err != nil {
		t.Fatal(err)
	}

	// Stopping early leaves the remaining rows for the next range.
	for range r.Edges() {
		break
	}
	rest, err := readAll(t, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0] != (graphbin.Edge{From: 1, To: 0, Weight: 1}) {
		t.Errorf("rest = %v, want the second row", rest)
	}
	if r.Line() != 3 {
		t.Errorf("Line() = %d, want 3", r.Line())
	}

	if more, _ := readAll(t, r); len(more) != 0 {
		t.Errorf("exhausted reader yielded %v", more)
	}
}

func TestReaderIOError(t *testing.T) {
	boom := errors.New("disk on fire")
	src := io.MultiReader(strings.NewReader("2 2\n0 1 1\n"), iotest.ErrReader(boom))

	r, err := NewReader(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := readAll(t, r)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the reader's error", err)
	}
	if gperrors.GetCode(err) == gperrors.ErrCodeMalformedRow {
		t.Error("an I/O error must not be reported as a malformed row")
	}
	if len(got) != 1 {
		t.Errorf("edges before the error = %v, want 1", got)
	}
}
