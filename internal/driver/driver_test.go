package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rcc/internal/diag"
	"rcc/internal/project"
	"rcc/internal/source"
	"rcc/internal/syntax"
)

func writeSource(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func phaseNames(res *ParseResult) []string {
	var out []string
	for _, p := range res.Timing.Phases {
		out = append(out, p.Name)
	}
	return out
}

func TestParseFile(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.c", "int main(void) { return 0; }\n")

	res, err := Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Tree == nil {
		t.Fatalf("expected a tree")
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(res.Bag))
	}
	if res.Tree.FindChild(syntax.FunctionDef) == nil {
		t.Fatalf("expected a function definition under %s", res.Tree.Kind)
	}
	if diff := cmp.Diff([]string{"load", "lex", "parse"}, phaseNames(res)); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWithPreprocessor(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "header.h", "#define T int\ntypedef T myint;\n")
	path := writeSource(t, dir, "main.c", "#include \"header.h\"\nmyint x = FOO;\n")

	res, err := Parse(context.Background(), path, Options{Preprocess: true, Defines: []string{"FOO=3"}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", codes(res.Bag))
	}
	if res.File.Flags&source.FileExpanded == 0 {
		t.Fatalf("expected the lexed file to be the expanded text")
	}
	if got := string(res.File.Content); !strings.Contains(got, "myint x = 3;") {
		t.Fatalf("macro not expanded:\n%s", got)
	}
	decls := 0
	for _, sub := range res.Tree.Subtrees() {
		if sub.Kind == syntax.Declaration {
			decls++
		}
	}
	if decls != 2 {
		t.Fatalf("expected 2 declarations, got %d", decls)
	}
	if diff := cmp.Diff([]string{"preprocess", "lex", "parse"}, phaseNames(res)); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePreprocessorFailure(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.c", "#if 1\nint x;\n")

	res, err := Parse(context.Background(), path, Options{Preprocess: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Tree != nil {
		t.Fatalf("expected no tree after a preprocessor failure")
	}
	if diff := cmp.Diff([]diag.Code{diag.PPUnterminatedIf}, codes(res.Bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	d := res.Bag.Items()[0]
	if f := res.FileSet.Get(d.Primary.File); f == nil || f.Path != filepath.ToSlash(path) {
		t.Fatalf("diagnostic should point into %s, got file %v", path, d.Primary.File)
	}
}

func TestParseSyntaxErrorCodes(t *testing.T) {
	path := writeSource(t, t.TempDir(), "err.c", "int x = ;\nint y\n")

	res, err := Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []diag.Code{diag.SynExpectExpression, diag.SynExpectSemicolon}
	if diff := cmp.Diff(want, codes(res.Bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if len(res.Errors) != 2 || !res.Tree.ContainsErrors() {
		t.Fatalf("expected the tree to carry both errors, got %d", len(res.Errors))
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(context.Background(), filepath.Join(t.TempDir(), "nope.c"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestParseCancelled(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.c", "int x;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Parse(ctx, path, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPreprocessOnly(t *testing.T) {
	path := writeSource(t, t.TempDir(), "m.c", "#define SQ(x) ((x) * (x))\nint a = SQ(2);\n")
	res, err := Preprocess(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if !strings.Contains(res.Text, "int a = ((2) * (2));") {
		t.Fatalf("unexpected output:\n%s", res.Text)
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.c", "int a;\n")
	writeSource(t, dir, "sub/b.c", "int b = ;\n")
	writeSource(t, dir, "gen/c.c", "garbage garbage\n")
	writeSource(t, dir, "notes.txt", "not c\n")

	var (
		mu     sync.Mutex
		events = map[string][]Stage{}
	)
	opts := Options{
		Exclude: []string{"gen/**"},
		Jobs:    2,
		Observer: func(ev Event) {
			if ev.Status != StatusDone {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			events[ev.File] = append(events[ev.File], ev.Stage)
		},
	}
	fs, results, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if fs.Len() != 2 {
		t.Fatalf("expected 2 files in the set, got %d", fs.Len())
	}
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	if diff := cmp.Diff([]string{"a.c", "sub/b.c"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	sum := Summarize(results)
	want := Summary{Files: 2, WithErrors: 1, Errors: 1, Declarations: 2}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	for _, r := range results {
		got := events[filepath.Join(dir, filepath.FromSlash(r.Path))]
		if diff := cmp.Diff([]Stage{StageLoad, StageLex, StageParse}, got); diff != "" {
			t.Fatalf("%s stages mismatch (-want +got):\n%s", r.Path, diff)
		}
	}
}

func TestSummarizeCountsTopLevelConstructs(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib.c", "static int n;\nint get(void) { return n; }\nvoid set(int v) { n = v; }\n")
	writeSource(t, dir, "decls.h", "int get(void);\nvoid set(int);\ntypedef int id;\n")

	_, results, err := ParseDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	sum := Summarize(results)
	want := Summary{Files: 2, Functions: 2, Declarations: 4}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeSkipsMissingResults(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.c", "int a;\nint f(void) { return a; }\n")
	res, err := Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	failed := &ParseResult{Bag: diag.NewBag(0)}

	results := []FileResult{{Path: "a.c", ParseResult: res}, {Path: "b.c"}, {Path: "c.c", ParseResult: failed}}
	sum := Summarize(results)
	want := Summary{Files: 2, Failed: 1, Functions: 1, Declarations: 1}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}
}

func TestNodePath(t *testing.T) {
	src := "int main(void) { return 0; }\n"
	path := writeSource(t, t.TempDir(), "main.c", src)
	res, err := Parse(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	at := uint32(strings.Index(src, "0;")) //nolint:gosec // short source
	var kinds []syntax.TreeKind
	for _, n := range res.NodePath(at) {
		kinds = append(kinds, n.Kind)
	}
	want := []syntax.TreeKind{syntax.TranslationUnit, syntax.FunctionDef, syntax.CompoundStmt, syntax.ReturnStmt, syntax.LiteralExpr}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if tok := res.TokenAt(at); tok == nil || tok.Text != "0" {
		t.Fatalf("token at %d = %v", at, tok)
	}
	if tok := res.TokenAt(uint32(strings.Index(src, " return"))); tok != nil { //nolint:gosec // short source
		t.Fatalf("whitespace is not a token, got %v", tok)
	}
	if got := res.NodePath(uint32(len(src) + 10)); len(got) != 0 { //nolint:gosec // short source
		t.Fatalf("expected no nodes past the end, got %d", len(got))
	}
}

func TestListSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "z.c", "")
	writeSource(t, dir, "inc/a.h", "")
	writeSource(t, dir, "inc/deep/b.c", "")

	got, err := ListSources(dir, nil, nil)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if diff := cmp.Diff([]string{"inc/a.h", "inc/deep/b.c", "z.c"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	got, err = ListSources(dir, []string{"**/*.c", "*.c"}, []string{"inc/**"})
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if diff := cmp.Diff([]string{"z.c"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := ListSources(dir, []string{"[a-"}, nil); err == nil {
		t.Fatalf("expected an error for a malformed pattern")
	}
}

func TestTokenCache(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	path := writeSource(t, t.TempDir(), "s.c", "char *s = \"abc;\nint x;\n")
	opts := Options{Cache: cache}

	first, err := Tokenize(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	second, err := Tokenize(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	if diff := cmp.Diff(first.Tokens, second.Tokens); diff != "" {
		t.Fatalf("cached tokens differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(codes(first.Bag), codes(second.Bag)); diff != "" {
		t.Fatalf("cached diagnostics differ (-first +second):\n%s", diff)
	}
	if !slices.Contains(codes(second.Bag), diag.LexUnterminatedString) {
		t.Fatalf("expected LexUnterminatedString, got %v", codes(second.Bag))
	}
	lexNote := func(r *TokenizeResult) string {
		for _, p := range r.Timing.Phases {
			if p.Name == "lex" {
				return p.Note
			}
		}
		return ""
	}
	if strings.Contains(lexNote(first), "cached") || !strings.Contains(lexNote(second), "cached") {
		t.Fatalf("cache notes: first %q, second %q", lexNote(first), lexNote(second))
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	third, err := Tokenize(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if strings.Contains(lexNote(third), "cached") {
		t.Fatalf("expected a miss after DropAll")
	}
}

func TestFromManifest(t *testing.T) {
	enabled := true
	m := &project.Manifest{
		Preprocess: project.PreprocessConfig{
			Enabled:     &enabled,
			IncludeDirs: []string{"/proj/include"},
			Defines:     map[string]string{"A": "1"},
		},
		Parse:   project.ParseConfig{MaxDiagnostics: 7, Typedefs: []string{"u8"}, Jobs: 3},
		Sources: project.SourcesConfig{Include: []string{"src/**/*.c"}},
	}
	opts := Options{MaxDiagnostics: 2, Defines: []string{"A=2"}, IncludeDirs: []string{"cli"}}.FromManifest(m)

	if opts.MaxDiagnostics != 2 {
		t.Fatalf("flag value should win, got %d", opts.MaxDiagnostics)
	}
	if diff := cmp.Diff([]string{"A=1", "A=2"}, opts.Defines); diff != "" {
		t.Fatalf("defines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cli", "/proj/include"}, opts.IncludeDirs); diff != "" {
		t.Fatalf("include dirs mismatch (-want +got):\n%s", diff)
	}
	if opts.Jobs != 3 || len(opts.Typedefs) != 1 || len(opts.Include) != 1 {
		t.Fatalf("manifest values not applied: %+v", opts)
	}
}
