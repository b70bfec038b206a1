package digraph

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
)

// Read decodes a graph file from r into a Graph.
//
// The file's header is returned alongside the graph but is not used to size
// or check it: the graph's NodeCount is derived from the edges. Read is as
// lenient as a default [graphbin.Decoder]. Read does not close r.
func Read(r io.Reader) (*Graph, graphbin.Header, error) {
	dec := graphbin.NewDecoder(r)
	h, err := dec.ReadHeader()
	if err != nil {
		return nil, h, err
	}
	g, err := FromEdges(dec.Edges())
	if err != nil {
		return nil, h, err
	}
	return g, h, nil
}

// Load reads the graph file at path. See [Read].
func Load(path string) (*Graph, graphbin.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, graphbin.Header{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, graphbin.Header{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteTo encodes g as a graph file on w. The header carries tag and the
// graph's own node and edge counts; edges are written by ascending source.
func WriteTo(w io.Writer, tag string, g *Graph, opts graphbin.EncodeOptions) (graphbin.Stats, error) {
	h, err := g.Header(tag)
	if err != nil {
		return graphbin.Stats{}, err
	}
	return graphbin.Encode(w, h, g.Edges(), opts)
}

// Write encodes g into a new file at path, one Single record per edge. The
// file is removed again if encoding fails.
func Write(path, tag string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := WriteTo(f, tag, g, graphbin.EncodeOptions{}); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
