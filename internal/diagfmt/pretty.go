package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rcc/internal/diag"
	"rcc/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	code, path, gutter    *color.Color
	caret                 *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%d more diagnostics were not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "<unknown>: %s %s: %s\n",
			pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, f, d.Primary, start, end, opts, pal)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		loc := "<unknown>"
		if nf := fs.Get(n.Span.File); nf != nil {
			ns, _ := fs.Resolve(n.Span)
			loc = fmt.Sprintf("%s:%d:%d", formatPath(nf, opts.PathMode, opts.BaseDir), ns.Line, ns.Col)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), loc, n.Msg)
	}
}

// writeSnippet prints the primary line with Context lines around it and a
// caret line under the span. Multi-line spans are underlined up to the end
// of their first line.
func writeSnippet(w io.Writer, f *source.File, span source.Span, start, end source.LineCol, opts PrettyOpts, pal palette) {
	first, last := contextRange(f, start.Line, int(opts.Context))
	gutterWidth := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := displayLine(f.GetLine(line), opts.Width)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, line), text)
		if line != start.Line {
			continue
		}
		raw := f.GetLine(line)
		prefix := raw[:min(int(start.Col)-1, len(raw))]
		pad := int(f.VisualCol(start)) - 1 + strings.Count(prefix, "\t")

		width := 1
		if end.Line == start.Line && span.End > span.Start {
			width = max(1, runewidth.StringWidth(f.Text(span)))
		} else if span.End > span.Start {
			width = max(1, runewidth.StringWidth(raw[len(prefix):]))
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func contextRange(f *source.File, line uint32, context int) (first, last uint32) {
	lines := uint32(len(f.LineIdx)) + 1 //nolint:gosec // bounded by file size
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] == '\n' {
		lines--
	}
	lines = max(lines, line)
	ctx := uint32(max(context, 0)) //nolint:gosec // non-negative
	first = 1
	if line > ctx {
		first = line - ctx
	}
	last = min(line+ctx, lines)
	return first, last
}

func displayLine(line string, width uint8) string {
	line = strings.ReplaceAll(line, "\t", " ")
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "...")
}
