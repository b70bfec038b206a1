package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/graphbin"
	"github.com/matzehuels/graphpack/pkg/observability"
)

const sampleEdgeList = `4 5
0 1 0.5
0 2 0.25
1 2 1
2 3 2e-1
3 0 1.5
`

func quietCLI() *CLI {
	return &CLI{Logger: log.New(io.Discard), RunID: "test"}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// writeMismatchedFile writes a graph file whose header declares more edges
// than it holds.
func writeMismatchedFile(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	enc := graphbin.NewEncoder(&buf)
	if err := enc.WriteHeader(graphbin.Header{Tag: "short", NumNodes: 2, NumEdges: 3}); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteEdge(graphbin.Edge{From: 0, To: 1, Weight: 1}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); !errors.Is(err, errors.ErrCodeCountMismatch) {
		t.Fatalf("Close() = %v, want count mismatch", err)
	}
	return writeFile(t, dir, "short.bin", buf.String())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := quietCLI().RootCommand()

	for _, name := range []string{"convert", "batch", "inspect", "verify", "render", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConvertThenInspect(t *testing.T) {
	for _, grouped := range []bool{false, true} {
		name := "Ungrouped"
		if grouped {
			name = "Grouped"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, dir, "sample.txt", sampleEdgeList)
			dst := filepath.Join(dir, "sample.bin")

			args := []string{"convert", "--tag", "sample", src, dst}
			if grouped {
				args = append(args, "--grouped")
			}
			c := quietCLI()
			if err := execute(t, c, args...); err != nil {
				t.Fatalf("convert: %v", err)
			}

			report, err := c.inspect(dst, inspectFlags{strict: true, degrees: true})
			if err != nil {
				t.Fatalf("inspect: %v", err)
			}
			if report.Header.Tag != "sample" || report.Header.NumNodes != 4 || report.Header.NumEdges != 5 {
				t.Errorf("header = %+v", report.Header)
			}
			if report.Stats.Edges != 5 {
				t.Errorf("edges read = %d, want 5", report.Stats.Edges)
			}
			wantRecords := uint64(5)
			if grouped {
				wantRecords = 4
			}
			if report.Stats.Records != wantRecords {
				t.Errorf("records = %d, want %d", report.Stats.Records, wantRecords)
			}
			if report.Degrees == nil || report.Degrees.MaxOut != 2 || report.Degrees.MaxOutID != 0 {
				t.Errorf("degrees = %+v", report.Degrees)
			}
		})
	}
}

func TestConvertWritesMetricsFile(t *testing.T) {
	t.Cleanup(observability.Reset)

	dir := t.TempDir()
	src := writeFile(t, dir, "sample.txt", sampleEdgeList)
	metricsPath := filepath.Join(dir, "convert.prom")

	err := execute(t, quietCLI(), "convert", "--metrics-file", metricsPath, src, filepath.Join(dir, "sample.bin"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "graphpack_converted_edges_total 5") {
		t.Errorf("metrics file missing converted edge count:\n%s", data)
	}
}

func TestConvertFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.txt", "3 2\n0 1 1\n1 x 1\n")
	dst := filepath.Join(dir, "bad.bin")

	err := execute(t, quietCLI(), "convert", src, dst)
	if !errors.Is(err, errors.ErrCodeMalformedRow) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeMalformedRow)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Errorf("partial output left behind: %v", statErr)
	}
}

func TestInspectLenientWarnsStrictFails(t *testing.T) {
	dir := t.TempDir()
	path := writeMismatchedFile(t, dir)
	c := quietCLI()

	report, err := c.inspect(path, inspectFlags{})
	if err != nil {
		t.Fatalf("lenient inspect: %v", err)
	}
	if report.Header.NumEdges != 3 || report.Stats.Edges != 1 {
		t.Errorf("report = %+v", report)
	}

	if err := execute(t, c, "verify", path); !errors.Is(err, errors.ErrCodeCountMismatch) {
		t.Errorf("verify err = %v, want %s", err, errors.ErrCodeCountMismatch)
	}
	if err := execute(t, c, "inspect", "--strict", path); !errors.Is(err, errors.ErrCodeCountMismatch) {
		t.Errorf("inspect --strict err = %v, want %s", err, errors.ErrCodeCountMismatch)
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := quietCLI().inspect(filepath.Join(t.TempDir(), "nope.bin"), inspectFlags{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRenderDOT(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "sample.txt", sampleEdgeList)
	bin := filepath.Join(dir, "sample.bin")
	out := filepath.Join(dir, "sample.dot")

	c := quietCLI()
	if err := execute(t, c, "convert", src, bin); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if err := execute(t, c, "render", bin, "-o", out, "--weights"); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("output is not DOT:\n%s", dot)
	}
	if !strings.Contains(dot, "0.25") {
		t.Errorf("weight label missing:\n%s", dot)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", sampleEdgeList)
	writeFile(t, dir, "b.txt", "2 1\n0 1 1\n")
	cfg := writeFile(t, dir, "graphpack.toml", `
[defaults]
grouped = true
output_dir = "out"

[[jobs]]
source = "a.txt"

[[jobs]]
source = "b.txt"
tag = "pair"
grouped = false
`)

	if err := execute(t, quietCLI(), "batch", cfg); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, name := range []string{"a.bin", "b.bin"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestBatchStopsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "2 2\n0 1 1\n")
	writeFile(t, dir, "good.txt", "2 1\n0 1 1\n")
	cfg := writeFile(t, dir, "jobs.yaml", `
jobs:
  - source: bad.txt
  - source: good.txt
`)

	t.Run("Stop", func(t *testing.T) {
		c := quietCLI()
		file := filepath.Join(dir, "good.bin")
		if err := execute(t, c, "batch", cfg); err == nil {
			t.Fatal("batch succeeded despite a failing job")
		}
		if _, err := os.Stat(file); !os.IsNotExist(err) {
			t.Errorf("second job ran after the first failed")
		}
	})

	t.Run("ContinueOnError", func(t *testing.T) {
		c := quietCLI()
		if err := execute(t, c, "batch", "--continue-on-error", cfg); err == nil {
			t.Fatal("batch succeeded despite a failing job")
		}
		if _, err := os.Stat(filepath.Join(dir, "good.bin")); err != nil {
			t.Errorf("second job did not run: %v", err)
		}
	})
}

func TestBatchTable(t *testing.T) {
	results := []jobResult{
		{Err: errors.New(errors.ErrCodeMalformedRow, "line 3")},
	}
	results[0].Options.Source = "data/bad.txt"
	results[0].Options.Dest = "out/bad.bin"

	table := batchTable(results)
	for _, want := range []string{"bad.txt", "out/bad.bin", "MALFORMED_ROW"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
