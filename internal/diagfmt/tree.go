package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"rcc/internal/syntax"
)

// TreeFormat selects how a syntax tree is written.
type TreeFormat string

const (
	TreeFormatPretty  TreeFormat = "tree"
	TreeFormatOutline TreeFormat = "outline"
	TreeFormatDump    TreeFormat = "dump"
	TreeFormatJSON    TreeFormat = "json"
	TreeFormatYAML    TreeFormat = "yaml"
	TreeFormatMsgpack TreeFormat = "msgpack"
)

// TreeFormats lists every accepted format name.
var TreeFormats = []TreeFormat{
	TreeFormatPretty, TreeFormatOutline, TreeFormatDump,
	TreeFormatJSON, TreeFormatYAML, TreeFormatMsgpack,
}

// NodeOutput is the serializable form of a node or token.
type NodeOutput struct {
	Kind     string       `json:"kind" yaml:"kind" msgpack:"kind"`
	Start    uint32       `json:"start" yaml:"start" msgpack:"start"`
	End      uint32       `json:"end" yaml:"end" msgpack:"end"`
	Text     string       `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Children []NodeOutput `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// BuildTreeOutput converts t into its serializable form.
func BuildTreeOutput(t *syntax.Tree) NodeOutput {
	out := NodeOutput{
		Kind:     t.Kind.String(),
		Start:    t.Span.Start,
		End:      t.Span.End,
		Children: make([]NodeOutput, 0, len(t.Children)),
	}
	for _, c := range t.Children {
		if c.Tree != nil {
			out.Children = append(out.Children, BuildTreeOutput(c.Tree))
			continue
		}
		out.Children = append(out.Children, NodeOutput{
			Kind:  c.Token.Kind.String(),
			Start: c.Token.Span.Start,
			End:   c.Token.Span.End,
			Text:  c.Token.Text,
		})
	}
	if len(out.Children) == 0 {
		out.Children = nil
	}
	return out
}

// FormatTree writes t in the requested format. Color only affects
// TreeFormatPretty.
func FormatTree(w io.Writer, t *syntax.Tree, format TreeFormat, useColor bool) error {
	switch format {
	case TreeFormatPretty:
		return TreePretty(w, t, useColor)
	case TreeFormatOutline:
		syntax.WriteOutline(w, t)
		return nil
	case TreeFormatDump:
		_, err := io.WriteString(w, syntax.Dump(t))
		return err
	case TreeFormatJSON, TreeFormatYAML, TreeFormatMsgpack:
		return encodeDocument(w, BuildTreeOutput(t), format)
	}
	return fmt.Errorf("unknown tree format %q", format)
}

// TreePretty рисует дерево псевдографикой; ErrorTree выделяется красным.
func TreePretty(w io.Writer, t *syntax.Tree, useColor bool) error {
	kindColor := color.New(color.FgCyan)
	errColor := color.New(color.FgRed, color.Bold)
	spanColor := color.New(color.Faint)
	for _, c := range []*color.Color{kindColor, errColor, spanColor} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var sb strings.Builder
	var walk func(n *syntax.Tree, prefix string)
	label := func(n *syntax.Tree) string {
		c := kindColor
		if n.Kind == syntax.ErrorTree {
			c = errColor
		}
		return c.Sprint(n.Kind) + " " + spanColor.Sprintf("%d..%d", n.Span.Start, n.Span.End)
	}
	walk = func(n *syntax.Tree, prefix string) {
		for i, c := range n.Children {
			branch, next := "├─ ", "│  "
			if i == len(n.Children)-1 {
				branch, next = "└─ ", "   "
			}
			if c.Tree != nil {
				sb.WriteString(prefix + branch + label(c.Tree) + "\n")
				walk(c.Tree, prefix+next)
				continue
			}
			fmt.Fprintf(&sb, "%s%s%s %q\n", prefix, branch, c.Token.Kind, c.Token.Text)
		}
	}
	sb.WriteString(label(t) + "\n")
	walk(t, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

// FileTree pairs a tree with the path it was parsed from. Tree is nil for
// files that produced none.
type FileTree struct {
	Path string
	Tree *syntax.Tree
}

type fileTreeOutput struct {
	Path string      `json:"path" yaml:"path" msgpack:"path"`
	Tree *NodeOutput `json:"tree" yaml:"tree" msgpack:"tree"`
}

// FormatTrees writes several trees. Text formats get a "== path ==" header
// per file unless quiet; structured formats emit one list document.
func FormatTrees(w io.Writer, trees []FileTree, format TreeFormat, useColor, quiet bool) error {
	switch format {
	case TreeFormatJSON, TreeFormatYAML, TreeFormatMsgpack:
		docs := make([]fileTreeOutput, len(trees))
		for i, ft := range trees {
			docs[i].Path = ft.Path
			if ft.Tree != nil {
				node := BuildTreeOutput(ft.Tree)
				docs[i].Tree = &node
			}
		}
		return encodeDocument(w, docs, format)
	}
	for i, ft := range trees {
		if !quiet {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", ft.Path)
		}
		if ft.Tree == nil {
			continue
		}
		if err := FormatTree(w, ft.Tree, format, useColor); err != nil {
			return err
		}
	}
	return nil
}

func encodeDocument(w io.Writer, v any, format TreeFormat) error {
	switch format {
	case TreeFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case TreeFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case TreeFormatMsgpack:
		return msgpack.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown tree format %q", format)
}
