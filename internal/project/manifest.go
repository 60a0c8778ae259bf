package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"rcc/internal/trace"
)

var (
	// ErrManifestInvalid marks a manifest that decoded but failed validation.
	ErrManifestInvalid = errors.New("invalid manifest")
	// ErrBadTraceLevel marks an unknown [trace].level value.
	ErrBadTraceLevel = errors.New("invalid trace level")
)

// Manifest is the decoded rcc.toml.
type Manifest struct {
	// Root is the directory holding the manifest.
	Root string `toml:"-"`
	// Path is the manifest file itself.
	Path string `toml:"-"`

	Preprocess PreprocessConfig `toml:"preprocess"`
	Parse      ParseConfig      `toml:"parse"`
	Trace      TraceConfig      `toml:"trace"`
	Sources    SourcesConfig    `toml:"sources"`
}

// PreprocessConfig is the [preprocess] table.
type PreprocessConfig struct {
	// Enabled defaults to true when absent.
	Enabled         *bool             `toml:"enabled"`
	IncludeDirs     []string          `toml:"include_dirs"`
	Defines         map[string]string `toml:"defines"`
	AllowExec       bool              `toml:"allow_exec"`
	MaxIncludeDepth int               `toml:"max_include_depth"`
}

// ParseConfig is the [parse] table.
type ParseConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Typedefs       []string `toml:"typedefs"`
	Fuel           int      `toml:"fuel"`
	Jobs           int      `toml:"jobs"`
}

// TraceConfig is the [trace] table.
type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// SourcesConfig is the [sources] table with doublestar patterns relative to Root.
type SourcesConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// LoadManifest decodes and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	var m Manifest
	meta, err := toml.DecodeFile(abs, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: unknown keys %s", path, ErrManifestInvalid, strings.Join(keys, ", "))
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, dir := range m.Preprocess.IncludeDirs {
		if !filepath.IsAbs(dir) {
			m.Preprocess.IncludeDirs[i] = filepath.Join(m.Root, dir)
		}
	}
	return &m, nil
}

// FindAndLoad locates the manifest above startDir and loads it.
// It returns nil without error when there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return LoadManifest(path)
}

func (m *Manifest) validate() error {
	if m.Trace.Level != "" {
		if _, err := trace.ParseLevel(m.Trace.Level); err != nil {
			return fmt.Errorf("%w: %w", ErrBadTraceLevel, err)
		}
	}
	if m.Trace.Format != "" {
		if _, err := trace.ParseFormat(m.Trace.Format); err != nil {
			return fmt.Errorf("%w: trace.format: %w", ErrManifestInvalid, err)
		}
	}
	switch {
	case m.Preprocess.MaxIncludeDepth < 0:
		return fmt.Errorf("%w: preprocess.max_include_depth must not be negative", ErrManifestInvalid)
	case m.Parse.MaxDiagnostics < 0:
		return fmt.Errorf("%w: parse.max_diagnostics must not be negative", ErrManifestInvalid)
	case m.Parse.Fuel < 0:
		return fmt.Errorf("%w: parse.fuel must not be negative", ErrManifestInvalid)
	case m.Parse.Jobs < 0:
		return fmt.Errorf("%w: parse.jobs must not be negative", ErrManifestInvalid)
	}
	for name := range m.Preprocess.Defines {
		if name == "" || strings.ContainsAny(name, " \t=") {
			return fmt.Errorf("%w: bad macro name %q in preprocess.defines", ErrManifestInvalid, name)
		}
	}
	return nil
}

// PreprocessEnabled reports the effective [preprocess].enabled value.
func (m *Manifest) PreprocessEnabled() bool {
	return m.Preprocess.Enabled == nil || *m.Preprocess.Enabled
}

// DefineList renders the defines as sorted NAME=VALUE strings, the form
// accepted by -D.
func (m *Manifest) DefineList() []string {
	out := make([]string, 0, len(m.Preprocess.Defines))
	for name, value := range m.Preprocess.Defines {
		out = append(out, name+"="+value)
	}
	slices.Sort(out)
	return out
}
