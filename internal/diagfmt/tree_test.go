package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"rcc/internal/grammar"
	"rcc/internal/lexer"
	"rcc/internal/source"
	"rcc/internal/syntax"
)

func parseTree(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.c", []byte(src)))
	return grammar.Parse(lexer.Lex(f, lexer.Options{}), grammar.Options{}).Tree
}

func TestBuildTreeOutput(t *testing.T) {
	out := BuildTreeOutput(parseTree(t, "int x;"))
	if out.Kind != "TranslationUnit" || out.Start != 0 || out.End != 6 {
		t.Fatalf("root = %s %d..%d", out.Kind, out.Start, out.End)
	}
	if len(out.Children) != 1 || out.Children[0].Kind != "Declaration" {
		t.Fatalf("children = %+v", out.Children)
	}
	last := out.Children[0].Children[len(out.Children[0].Children)-1]
	if last.Text != ";" || last.Children != nil {
		t.Errorf("last token = %+v", last)
	}
}

func TestFormatTreeEncodings(t *testing.T) {
	tree := parseTree(t, "int f(void) { return 1 + 2; }")
	want := BuildTreeOutput(tree)

	var buf bytes.Buffer
	if err := FormatTree(&buf, tree, TreeFormatYAML, false); err != nil {
		t.Fatal(err)
	}
	var fromYAML NodeOutput
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := FormatTree(&buf, tree, TreeFormatMsgpack, false); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack NodeOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, fromMsgpack); diff != "" {
		t.Errorf("msgpack mismatch (-want +got):\n%s", diff)
	}
}

func TestTreePretty(t *testing.T) {
	tree := parseTree(t, "x = ;")

	var buf bytes.Buffer
	if err := FormatTree(&buf, tree, TreeFormatPretty, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "TranslationUnit 0..5\n└─ Declaration") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "ErrorTree") {
		t.Errorf("expected an ErrorTree node:\n%s", out)
	}

	if err := FormatTree(&buf, tree, "xml", false); err == nil {
		t.Errorf("unknown format must fail")
	}
}

func TestFormatTreesText(t *testing.T) {
	trees := []FileTree{
		{Path: "a.c", Tree: parseTree(t, "int a;")},
		{Path: "b.c"},
	}
	var buf bytes.Buffer
	if err := FormatTrees(&buf, trees, TreeFormatOutline, false, false); err != nil {
		t.Fatalf("FormatTrees: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "== a.c ==\nTranslationUnit") || !strings.HasSuffix(got, "\n\n== b.c ==\n") {
		t.Fatalf("unexpected output:\n%s", got)
	}

	buf.Reset()
	if err := FormatTrees(&buf, trees[:1], TreeFormatDump, false, true); err != nil {
		t.Fatalf("FormatTrees: %v", err)
	}
	if strings.Contains(buf.String(), "==") {
		t.Fatalf("quiet output has headers:\n%s", buf.String())
	}
}

func TestFormatTreesJSON(t *testing.T) {
	trees := []FileTree{
		{Path: "a.c", Tree: parseTree(t, "int a;")},
		{Path: "b.c"},
	}
	var buf bytes.Buffer
	if err := FormatTrees(&buf, trees, TreeFormatJSON, false, false); err != nil {
		t.Fatalf("FormatTrees: %v", err)
	}
	var docs []struct {
		Path string      `json:"path"`
		Tree *NodeOutput `json:"tree"`
	}
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(docs) != 2 || docs[0].Tree == nil || docs[0].Tree.Kind != "TranslationUnit" || docs[1].Tree != nil {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}
