package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"rcc/internal/diag"
	"rcc/internal/source"
)

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/work/src/test.c", []byte("int x\nint y;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectSemicolon, source.Span{File: fileID, Start: 6, End: 9}, "expected ';', found 'int'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := "test.c:2:1: ERROR SYN3003: expected ';', found 'int'\n" +
		"1 | int x\n" +
		"2 | int y;\n" +
		"  | ^~~\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.c", []byte("int s = \"unterminated;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 22}, "Unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.c:1:9"},
		{"Relative path", PathModeRelative, "src/test.c:1:9"},
		{"Basename only", PathModeBasename, "test.c:1:9"},
		{"As loaded", PathModeAuto, "/home/user/project/src/test.c:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX2002") {
				t.Errorf("expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretWithTabsAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := "\tchar *s = \"日本\"; x\n"
	fileID := fs.AddVirtual("wide.c", []byte(content))
	off := uint32(strings.Index(content, "x")) //nolint:gosec // short literal

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: off, End: off + 1}, "stray"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected a snippet, got:\n%s", buf.String())
	}
	text, caret := lines[1], lines[2]
	if got, want := strings.Index(caret, "^"), strings.Index(text, "x")-len("日本")+4; got != want {
		t.Errorf("caret at byte %d, want %d:\n%s\n%s", got, want, text, caret)
	}
}

func TestPrettyNotesAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte("#define A 1\n#define A 2\n"))

	bag := diag.NewBag(1)
	d := diag.New(diag.SevWarning, diag.PPMacroRedefined, source.Span{File: fileID, Start: 20, End: 21}, "\"A\" redefined")
	d = d.WithNote(source.Span{File: fileID, Start: 8, End: 9}, "previous definition is here")
	bag.Add(d)
	bag.Add(diag.NewError(diag.PPUserError, source.Span{File: fileID}, "dropped"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	output := buf.String()

	if !strings.Contains(output, "note: test.c:1:9: previous definition is here") {
		t.Errorf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "1 more diagnostics were not shown") {
		t.Errorf("expected dropped summary, got:\n%s", output)
	}
	if strings.Contains(output, "dropped\n") {
		t.Errorf("dropped diagnostic must not be printed:\n%s", output)
	}
}

func TestPrettyTruncatesWideLines(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("long.c", []byte("int a_very_long_identifier_name = 1;\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynError, source.Span{File: fileID, Start: 0, End: 3}, "boom"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 12})
	if !strings.Contains(buf.String(), "1 | int a_ver...\n") {
		t.Errorf("expected truncated line, got:\n%s", buf.String())
	}
}
