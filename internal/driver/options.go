package driver

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"rcc/internal/diag"
	"rcc/internal/preprocess"
	"rcc/internal/project"
	"rcc/internal/trace"
)

// DefaultMaxDiagnostics caps a file's bag when Options.MaxDiagnostics is zero.
const DefaultMaxDiagnostics = 100

// Options configure every driver entry point.
type Options struct {
	MaxDiagnostics int

	// Preprocess runs the macro preprocessor before lexing.
	Preprocess      bool
	IncludeDirs     []string
	Defines         []string // NAME or NAME=VALUE, as given to -D
	AllowExec       bool
	MaxIncludeDepth int

	// Typedefs predeclares type names for the grammar.
	Typedefs []string
	// Fuel overrides the parser lookahead budget.
	Fuel int
	// Jobs limits ParseDir concurrency; GOMAXPROCS when zero.
	Jobs int

	// Include and Exclude are doublestar patterns relative to the directory
	// given to ParseDir. Include defaults to DefaultSourcePatterns.
	Include []string
	Exclude []string

	// Cache, when set, stores token streams across runs.
	Cache *Cache
	// Observer receives per-file stage events. It may be called from
	// several goroutines at once.
	Observer Observer
}

// FromManifest fills zero fields of opts from the manifest.
// Values already set, usually by command line flags, win.
func (opts Options) FromManifest(m *project.Manifest) Options {
	if m == nil {
		return opts
	}
	if opts.MaxDiagnostics == 0 {
		opts.MaxDiagnostics = m.Parse.MaxDiagnostics
	}
	opts.IncludeDirs = append(slices.Clone(opts.IncludeDirs), m.Preprocess.IncludeDirs...)
	// флаги -D идут после манифеста, чтобы переопределять его значения
	opts.Defines = append(m.DefineList(), opts.Defines...)
	opts.AllowExec = opts.AllowExec || m.Preprocess.AllowExec
	if opts.MaxIncludeDepth == 0 {
		opts.MaxIncludeDepth = m.Preprocess.MaxIncludeDepth
	}
	opts.Typedefs = append(slices.Clone(m.Parse.Typedefs), opts.Typedefs...)
	if opts.Fuel == 0 {
		opts.Fuel = m.Parse.Fuel
	}
	if opts.Jobs == 0 {
		opts.Jobs = m.Parse.Jobs
	}
	if len(opts.Include) == 0 {
		opts.Include = slices.Clone(m.Sources.Include)
	}
	opts.Exclude = append(slices.Clone(opts.Exclude), m.Sources.Exclude...)
	return opts
}

func (opts Options) maxDiagnostics() int {
	if opts.MaxDiagnostics == 0 {
		return DefaultMaxDiagnostics
	}
	return opts.MaxDiagnostics
}

// newPreprocessContext builds the macro context for one file.
func (opts Options) newPreprocessContext(path string, reporter diag.Reporter, tracer trace.Tracer, parent uint64) (*preprocess.Context, error) {
	pc := preprocess.NewContext()
	pc.IncludeDirs = slices.Clone(opts.IncludeDirs)
	pc.Dir = filepath.Dir(path)
	pc.AllowExec = opts.AllowExec
	if opts.MaxIncludeDepth > 0 {
		pc.MaxDepth = opts.MaxIncludeDepth
	}
	pc.Reporter = reporter
	pc.Tracer = tracer
	pc.TraceParent = parent
	for _, def := range opts.Defines {
		if err := pc.Macros.DefineString(def); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

// fingerprint describes the options that change the token stream.
func (opts Options) fingerprint() project.Digest {
	var sb strings.Builder
	sb.WriteString("pp=")
	sb.WriteString(strconv.FormatBool(opts.Preprocess))
	fmt.Fprintf(&sb, ";schema=%d", cacheSchemaVersion)
	return project.HashString(sb.String())
}
