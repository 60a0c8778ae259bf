package preprocess

import (
	"strings"
	"time"

	"rcc/internal/diag"
	"rcc/internal/source"
	"rcc/internal/trace"
)

// DefaultMaxDepth bounds #include nesting when Context.MaxDepth is zero.
const DefaultMaxDepth = 200

// Context is the state shared by one preprocessing run. Macros defined in
// an included file stay visible to the includer.
type Context struct {
	Macros      *MacroTable
	IncludeDirs []string
	// Dir is the directory searched first for quoted includes. Process
	// sets it from the path when empty.
	Dir       string
	Depth     int
	MaxDepth  int
	AllowExec bool
	// Shell runs #exec commands; "sh" when empty.
	Shell string

	// Reporter receives warnings. Fatal errors are returned instead.
	Reporter diag.Reporter
	// Files, when set, receives every file read so that errors and
	// warnings carry real spans.
	Files       *source.FileSet
	Tracer      trace.Tracer
	TraceParent uint64

	conds []cond
	pipes []*pipe
}

// cond tracks one #if group.
type cond struct {
	line         int
	parentActive bool
	// taken is set once some branch of the group was selected.
	taken   bool
	active  bool
	sawElse bool
}

// pipe collects the lines between #in and #endin.
type pipe struct {
	line    int
	command string
	input   strings.Builder
}

// NewContext returns a Context with the predefined macros installed.
func NewContext() *Context {
	macros := NewMacroTable()
	macros.Predefine(time.Now())
	return &Context{Macros: macros, MaxDepth: DefaultMaxDepth}
}

// Clone returns a Context with a private copy of the macro table and no
// open groups. Use it to preprocess several files in parallel.
func (c *Context) Clone() *Context {
	out := *c
	out.Macros = c.Macros.Clone()
	out.IncludeDirs = append([]string(nil), c.IncludeDirs...)
	out.conds = nil
	out.pipes = nil
	return &out
}

func (c *Context) active() bool {
	return len(c.conds) == 0 || c.conds[len(c.conds)-1].active
}

func (c *Context) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Context) reporter() diag.Reporter {
	if c.Reporter == nil {
		return diag.NopReporter{}
	}
	return c.Reporter
}

// child derives the context for an included file.
func (c *Context) child(dir string) *Context {
	return &Context{
		Macros:      c.Macros,
		IncludeDirs: c.IncludeDirs,
		Dir:         dir,
		Depth:       c.Depth + 1,
		MaxDepth:    c.MaxDepth,
		AllowExec:   c.AllowExec,
		Shell:       c.Shell,
		Reporter:    c.Reporter,
		Files:       c.Files,
		Tracer:      c.Tracer,
		TraceParent: c.TraceParent,
	}
}
