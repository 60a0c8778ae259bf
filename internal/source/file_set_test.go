package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.c", []byte("int a;"), 0)
	id2 := fs.Add("test.c", []byte("int b;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetByPath("test.c")
	if !ok || latest.ID != id2 {
		t.Fatalf("GetByPath returned %+v, want id %d", latest, id2)
	}
	if string(fs.Get(id1).Content) != "int a;" {
		t.Errorf("old version lost: %q", fs.Get(id1).Content)
	}
	if fs.Get(FileID(99)) != nil {
		t.Error("Get out of range must return nil")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.c", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.c", []byte("int x;\n  x = 1;\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{6, LineCol{1, 7}},
		{7, LineCol{2, 1}},
		{9, LineCol{2, 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Point(id, tt.off))
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	f := &File{Content: []byte("first\nsecond\nthird")}
	f.LineIdx = buildLineIndex(f.Content)

	for line, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestVisualColCountsWideGraphemes(t *testing.T) {
	f := &File{Content: []byte("s = \"日本\"; x")}
	f.LineIdx = buildLineIndex(f.Content)

	// byte column of 'x' is 15 (5 ASCII + 6 bytes of CJK + 3 ASCII + 1)
	pos := LineCol{Line: 1, Col: 15}
	if got := f.VisualCol(pos); got != 13 {
		t.Fatalf("VisualCol = %d, want 13", got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.c")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFint x;\r\nint y;\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "int x;\nint y;\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}
