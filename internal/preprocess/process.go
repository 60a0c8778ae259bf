package preprocess

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rcc/internal/diag"
	"rcc/internal/source"
	"rcc/internal/trace"
)

// fileState is the per-file part of a run.
type fileState struct {
	ctx  *Context
	path string
	dir  string
	// file is the registered source when the Context has a FileSet.
	file *source.File
	out  strings.Builder
	// skipWrite drops the output of the current line.
	skipWrite bool
}

// Process preprocesses src read from path. The result keeps the line
// structure of the input: directive lines and skipped groups turn into
// empty lines, and included files are framed by "# N "file"" markers.
func Process(ctx *Context, path string, src []byte) (string, error) {
	content, flags, err := source.Decode(src)
	if err != nil {
		return "", &Error{File: path, Err: fmt.Errorf("%w: %w", ErrInvalidEncoding, err)}
	}
	if ctx.Macros == nil {
		ctx.Macros = NewMacroTable()
	}

	st := &fileState{ctx: ctx, path: path, dir: ctx.Dir}
	if st.dir == "" {
		st.dir = filepath.Dir(path)
	}
	if ctx.Files != nil {
		st.file = ctx.Files.Get(ctx.Files.Add(path, content, flags))
	}

	span := trace.Begin(ctx.Tracer, trace.ScopeFile, "preprocess", ctx.TraceParent).
		WithExtra("path", path).
		WithExtra("depth", strconv.Itoa(ctx.Depth))
	parent := ctx.TraceParent
	ctx.TraceParent = span.ID()
	defer func() { ctx.TraceParent = parent }()

	ctx.conds, ctx.pipes = nil, nil
	out, err := st.run(string(content))
	if err != nil {
		span.End("error")
		return "", err
	}
	span.End(strconv.Itoa(len(out)) + " bytes")
	return out, nil
}

// ProcessFile reads path and preprocesses it.
func ProcessFile(ctx *Context, path string) (string, error) {
	// #nosec G304 -- path is provided by the caller
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Process(ctx, path, src)
}

func (st *fileState) run(text string) (string, error) {
	lines := splitLines(text)
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		res, err := st.line(ln)
		// вызов макроса может продолжаться на следующих строках
		for errors.Is(err, errNeedMore) {
			if i+1 < len(lines) && !isDirectiveLine(lines[i+1].text) {
				i++
				ln.text += " " + lines[i].text
				ln.span += lines[i].span
				res, err = st.line(ln)
				continue
			}
			res, err = st.expandText(ln, true)
		}
		if err != nil {
			return "", st.fail(ln, err)
		}
		st.write(res, ln.span)
	}

	if len(st.ctx.pipes) > 0 {
		p := st.ctx.pipes[0]
		return "", st.fail(logicalLine{line: p.line, span: 1},
			fmt.Errorf("%w: #in without matching #endin", ErrInvalidDirective))
	}
	if len(st.ctx.conds) > 0 {
		c := st.ctx.conds[0]
		return "", st.fail(logicalLine{line: c.line, span: 1},
			fmt.Errorf("%w: #if without matching #endif", ErrUnterminatedIf))
	}
	return st.out.String(), nil
}

func (st *fileState) line(ln logicalLine) (string, error) {
	name, args, ok := directiveName(ln.text)
	active := st.ctx.active()
	if !ok {
		if !active {
			return "", nil
		}
		return st.expandText(ln, false)
	}

	trimmed := strings.TrimLeft(ln.text, " \t")
	switch {
	case strings.HasPrefix(trimmed, "##"):
		// экранированная строка: один '#' снимается, текст не раскрывается
		if !active {
			return "", nil
		}
		return trimmed[1:], nil
	case name == "":
		if active && args != "" && isDigit(args[0]) {
			return ln.text, nil
		}
		return "", nil
	}

	d, known := directives[name]
	switch {
	case !known:
		if !active {
			return "", nil
		}
		return ln.text, nil
	case !d.conditional && !active:
		return "", nil
	case d.exec && !st.ctx.AllowExec:
		return "", fmt.Errorf("%w: #%s requires command execution to be enabled", ErrExecDisabled, name)
	}
	return d.run(st, args, ln)
}

func isDirectiveLine(text string) bool {
	_, _, ok := directiveName(text)
	return ok
}

func (st *fileState) expander(ln logicalLine) *expander {
	return &expander{macros: st.ctx.Macros, file: st.path, line: ln.line, level: st.ctx.Depth}
}

func (st *fileState) expandText(ln logicalLine, partial bool) (string, error) {
	e := st.expander(ln)
	e.partial = partial
	return e.expand(ln.text)
}

func (st *fileState) write(res string, lines int) {
	if st.skipWrite {
		st.skipWrite = false
		return
	}
	w := &st.out
	if n := len(st.ctx.pipes); n > 0 {
		w = &st.ctx.pipes[n-1].input
	}
	w.WriteString(res)
	for range lines {
		w.WriteByte('\n')
	}
}

func (st *fileState) fail(ln logicalLine, err error) error {
	var located *Error
	if errors.As(err, &located) {
		return err
	}
	return &Error{File: st.path, Line: ln.line, Span: st.lineSpan(ln), Err: err}
}

func (st *fileState) warn(ln logicalLine, code diag.Code, msg string) {
	diag.ReportWarning(st.ctx.reporter(), code, st.lineSpan(ln), msg).Emit()
}

// lineSpan covers the physical lines of ln.
func (st *fileState) lineSpan(ln logicalLine) source.Span {
	if st.file == nil || ln.line <= 0 {
		return source.Span{}
	}
	idx := st.file.LineIdx
	size := uint32(len(st.file.Content)) //nolint:gosec // bounded by FileSet.Add
	start, end := uint32(0), size
	if k := ln.line - 2; k >= 0 && k < len(idx) {
		start = idx[k] + 1
	}
	if k := ln.line + ln.span - 2; k >= 0 && k < len(idx) {
		end = idx[k]
	}
	start = min(start, end)
	return source.NewSpan(st.file.ID, start, end)
}
