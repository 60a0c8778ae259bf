package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Outline renders t as an indented outline: one line per node, tokens
// shown with their text.
//
//	TranslationUnit
//	  FunctionDef
//	    IDENTIFIER "main"
func Outline(t *Tree) string {
	var sb strings.Builder
	WriteOutline(&sb, t)
	return sb.String()
}

// WriteOutline writes the outline of t to w.
func WriteOutline(w io.Writer, t *Tree) {
	writeOutline(w, t, 0)
}

func writeOutline(w io.Writer, t *Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, t.Kind)
	for _, c := range t.Children {
		if c.Tree != nil {
			writeOutline(w, c.Tree, depth+1)
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", indent, c.Token)
	}
}

// Dump renders one "(kind, span)" line per node, tokens included, in
// depth-first order.
func Dump(t *Tree) string {
	var sb strings.Builder
	dump(&sb, t)
	return sb.String()
}

func dump(sb *strings.Builder, t *Tree) {
	fmt.Fprintf(sb, "(%s, %d..%d)\n", t.Kind, t.Span.Start, t.Span.End)
	for _, c := range t.Children {
		if c.Tree != nil {
			dump(sb, c.Tree)
			continue
		}
		fmt.Fprintf(sb, "(%s, %d..%d)\n", c.Token.Kind, c.Token.Span.Start, c.Token.Span.End)
	}
}
