// Package config loads batch conversion job files.
//
// A job file lists edge lists to convert, with shared defaults. TOML and
// YAML are both accepted; the format is chosen by file extension:
//
//	[defaults]
//	grouped = false
//	output_dir = "out"
//
//	[[jobs]]
//	source = "data/ca-GrQc.txt"
//	dest = "ca-GrQc.bin"   # optional
//	tag = "ca-GrQc"        # optional
//	grouped = true         # optional
//
// Relative paths are relative to the directory holding the job file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphpack/pkg/errors"
	"github.com/matzehuels/graphpack/pkg/pipeline"
)

// Format is a job file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DestExt is the extension given to destinations derived from a source.
const DestExt = ".bin"

// Defaults apply to every job that does not override them.
type Defaults struct {
	Grouped   bool   `toml:"grouped" yaml:"grouped"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`
}

// Job is one conversion as written in the file. Empty fields take their
// value from [Defaults] or are derived from Source.
type Job struct {
	Source  string `toml:"source" yaml:"source"`
	Dest    string `toml:"dest" yaml:"dest"`
	Tag     string `toml:"tag" yaml:"tag"`
	Grouped *bool  `toml:"grouped" yaml:"grouped"`
}

// File is a parsed job file.
type File struct {
	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Jobs     []Job    `toml:"jobs" yaml:"jobs"`

	// Dir is the base for relative paths; Load sets it to the file's
	// directory.
	Dir string `toml:"-" yaml:"-"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig,
		"%s: unsupported job file extension (want .toml, .yaml or .yml)", path)
}

// Load reads and parses the job file at path. It does not validate it.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "job file %s", path)
		}
		return nil, fmt.Errorf("read job file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a job file. Unknown keys are rejected in both formats.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown format %q", format)
	}
	return &f, nil
}

// Validate checks that every job has a source and that no two jobs write
// the same destination once defaults are applied.
func (f *File) Validate() error {
	_, err := f.Resolve()
	return err
}

// Resolve applies the defaults and returns one set of pipeline options per
// job, in file order.
//
// A job without Dest writes <output_dir>/<source base name without
// extension>.bin, and a relative Dest is placed under output_dir when one is
// set. Other relative paths are taken relative to Dir. Tags are left empty
// when unset so the pipeline derives them from the source.
func (f *File) Resolve() ([]pipeline.Options, error) {
	if len(f.Jobs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no jobs defined")
	}

	outDir := f.path(f.Defaults.OutputDir)
	seen := make(map[string]int, len(f.Jobs))
	opts := make([]pipeline.Options, 0, len(f.Jobs))

	for i, j := range f.Jobs {
		if strings.TrimSpace(j.Source) == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "job %d: source is required", i+1)
		}
		source := f.path(j.Source)

		dest := j.Dest
		if dest == "" {
			base := filepath.Base(j.Source)
			dest = filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+DestExt)
		} else if f.Defaults.OutputDir != "" && !filepath.IsAbs(dest) {
			dest = filepath.Join(outDir, dest)
		} else {
			dest = f.path(dest)
		}
		dest = filepath.Clean(dest)

		if prev, dup := seen[dest]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"jobs %d and %d both write %s", prev, i+1, dest)
		}
		seen[dest] = i + 1

		grouped := f.Defaults.Grouped
		if j.Grouped != nil {
			grouped = *j.Grouped
		}
		opts = append(opts, pipeline.Options{
			Source:  source,
			Dest:    dest,
			Tag:     j.Tag,
			Grouped: grouped,
		})
	}
	return opts, nil
}

// path resolves p against Dir. An empty p resolves to Dir itself.
func (f *File) path(p string) string {
	if p == "" {
		if f.Dir == "" {
			return "."
		}
		return f.Dir
	}
	if filepath.IsAbs(p) || f.Dir == "" {
		return p
	}
	return filepath.Join(f.Dir, p)
}
