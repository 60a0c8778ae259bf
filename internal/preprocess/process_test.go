package preprocess

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcc/internal/diag"
	"rcc/internal/source"
)

func newTestContext() *Context {
	return &Context{Macros: NewMacroTable()}
}

func run(t *testing.T, src string) string {
	t.Helper()
	out, err := Process(newTestContext(), "main.c", []byte(src))
	require.NoError(t, err)
	return out
}

func nonEmpty(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestObjectMacro(t *testing.T) {
	assert.Equal(t, "\nint a = 10;\n", run(t, "#define N 10\nint a = N;\n"))
}

func TestFunctionMacro(t *testing.T) {
	out := run(t, "#define MAX(a, b) ((a) > (b) ? (a) : (b))\nMAX(1, 2)\n")
	assert.Equal(t, "\n((1) > (2) ? (1) : (2))\n", out)
}

func TestStringifyAndPaste(t *testing.T) {
	out := run(t, "#define STR(x) #x\n#define CAT(a, b) a ## b\nSTR(hello  world)\nCAT(foo, bar)\n")
	assert.Equal(t, []string{`"hello world"`, "foobar"}, nonEmpty(out))
}

func TestVariadicMacro(t *testing.T) {
	out := run(t, "#define LOG(fmt, ...) printf(fmt, __VA_ARGS__)\nLOG(\"%d %d\", 1, 2)\n")
	assert.Equal(t, []string{`printf("%d %d", 1, 2)`}, nonEmpty(out))
}

func TestSelfReferenceStops(t *testing.T) {
	assert.Equal(t, []string{"foo + 1"}, nonEmpty(run(t, "#define foo foo + 1\nfoo\n")))
}

func TestArgumentsArePreExpanded(t *testing.T) {
	out := run(t, "#define ONE 1\n#define ID(x) x\nID(ONE)\n#define F(a, b) b a\nF((1, 2), 3)\n")
	assert.Equal(t, []string{"1", "3 (1, 2)"}, nonEmpty(out))
}

func TestRescanPicksUpFollowingArguments(t *testing.T) {
	out := run(t, "#define f(x) (x+1)\n#define g f\ng(2)\n")
	assert.Equal(t, []string{"(2+1)"}, nonEmpty(out))
}

func TestInvocationSpansLines(t *testing.T) {
	out := run(t, "#define ADD(a, b) a + b\nADD(1,\n2)\nx\n")
	assert.Equal(t, "\n1 + 2\n\nx\n", out)
}

func TestNameWithoutArgumentsIsKept(t *testing.T) {
	out := run(t, "#define F(x) x\nint F;\nF\n")
	assert.Equal(t, []string{"int F;", "F"}, nonEmpty(out))
}

func TestConditionals(t *testing.T) {
	src := strings.Join([]string{
		"#define A 1",
		"#if A && defined(B)",
		"no",
		"#elif defined A",
		"yes",
		"#else",
		"no2",
		"#endif",
	}, "\n") + "\n"
	out := run(t, src)
	assert.Equal(t, "\n\n\n\nyes\n\n\n\n", out)
}

func TestNestedGroupsInsideSkippedGroup(t *testing.T) {
	out := run(t, "#ifdef X\n#ifndef Y\nbad\n#else\nbad2\n#endif\n#endif\nok\n")
	assert.Equal(t, []string{"ok"}, nonEmpty(out))
}

func TestTakenGroupSkipsLaterBranches(t *testing.T) {
	out := run(t, "#if 1\na\n#elif 1/0\nb\n#else\nc\n#endif\n")
	assert.Equal(t, []string{"a"}, nonEmpty(out))
}

func TestElifdef(t *testing.T) {
	out := run(t, "#define B\n#ifdef A\na\n#elifdef B\nb\n#elifndef C\nc\n#endif\n")
	assert.Equal(t, []string{"b"}, nonEmpty(out))
}

func TestSkippedGroupIgnoresErrors(t *testing.T) {
	out := run(t, "#if 0\n#error no\n#include \"nope.h\"\n#endif\nok\n")
	assert.Equal(t, []string{"ok"}, nonEmpty(out))
}

func TestLineEscape(t *testing.T) {
	out := run(t, "## define X\n#define Y 2\n##Y\n")
	assert.Equal(t, "# define X\n\n#Y\n", out)
}

func TestUnknownDirectivePassesThrough(t *testing.T) {
	assert.Equal(t, "#pragma once\n", run(t, "#pragma once\n"))
}

func TestCommentsKeepLineCount(t *testing.T) {
	out := run(t, "int a; /* multi\nline */ int b; // tail\nint c;\n")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"int", "a;", "int", "b;"}, strings.Fields(lines[0]))
	assert.Empty(t, lines[1])
	assert.Equal(t, "int c;", lines[2])
}

func TestCommentMarkersInStringsAreText(t *testing.T) {
	out := run(t, "char *s = \"/* not */ // kept\";\n")
	assert.Equal(t, "char *s = \"/* not */ // kept\";\n", out)
}

func TestSplicedDefinition(t *testing.T) {
	assert.Equal(t, "\n\n1 +  2\n", run(t, "#define LONG 1 + \\\n 2\nLONG\n"))
}

func TestPredefinedMacros(t *testing.T) {
	ctx := newTestContext()
	ctx.Macros.Predefine(time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC))
	out, err := Process(ctx, "main.c", []byte("__FILE__\n\n__LINE__ __INCLUDE_LEVEL__\n__DATE__ __TIME__\n__STDC_VERSION__\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{`"main.c"`, "3 0", `"Jan  5 2026" "09:30:00"`, "201710L"}, nonEmpty(out))
}

func TestRedefinitionWarns(t *testing.T) {
	bag := diag.NewBag(0)
	ctx := newTestContext()
	ctx.Reporter = diag.BagReporter{Bag: bag}
	_, err := Process(ctx, "main.c", []byte("#define A 1\n#define A 2\n#define A  2\n#warning careful\n"))
	require.NoError(t, err)
	require.Equal(t, 2, bag.Len())
	items := bag.Items()
	assert.Equal(t, diag.PPMacroRedefined, items[0].Code)
	assert.Equal(t, diag.SevWarning, items[0].Severity)
	assert.Equal(t, diag.PPUserError, items[1].Code)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"endif without if", "#endif\n", ErrUnexpectedDirective, 1},
		{"else without if", "x\n#else\n", ErrUnexpectedDirective, 2},
		{"elif without if", "#elif 1\n", ErrUnexpectedDirective, 1},
		{"missing endif", "a\n#if 1\nb\n", ErrUnterminatedIf, 2},
		{"second else", "#if 1\n#else\n#else\n#endif\n", ErrUnexpectedDirective, 3},
		{"elif after else", "#if 0\n#else\n#elif 1\n#endif\n", ErrUnexpectedDirective, 3},
		{"endif with text", "#if 1\n#endif junk\n", ErrInvalidDirective, 2},
		{"exec disabled", "#exec echo hi\n", ErrExecDisabled, 1},
		{"in disabled", "#in cat\n#endin\n", ErrExecDisabled, 1},
		{"user error", "\n#error stop here\n", ErrUserError, 2},
		{"arg count", "#define F(x) x\nF(1, 2)\n", ErrMacroArgs, 2},
		{"too few variadic", "#define F(a, b, ...) a\nF(1)\n", ErrMacroArgs, 2},
		{"bad expression", "#if 1 +\n#endif\n", ErrInvalidExpression, 1},
		{"division by zero", "#if 1/0\n#endif\n", ErrInvalidExpression, 1},
		{"bad macro name", "#define 1x\n", ErrInvalidDirective, 1},
		{"bad stringify", "#define S(x) #y\nS(1)\n", ErrInvalidDirective, 2},
		{"include syntax", "#include defs.h\n", ErrInvalidDirective, 1},
		{"invalid utf8", "int \xff;\n", ErrInvalidEncoding, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(newTestContext(), "main.c", []byte(tt.src))
			require.ErrorIs(t, err, tt.want)
			var located *Error
			require.ErrorAs(t, err, &located)
			assert.Equal(t, "main.c", located.File)
			assert.Equal(t, tt.line, located.Line)
		})
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, diag.PPUnterminatedIf, (&Error{Err: ErrUnterminatedIf}).Code())
	assert.Equal(t, diag.PPIncludeNotFound, (&Error{Err: fmt.Errorf("%w: x.h", ErrIncludeNotFound)}).Code())
	assert.Equal(t, diag.PPInvalidDirective, (&Error{Err: errors.New("other")}).Code())
	assert.Equal(t, "a.c:3: #error", (&Error{File: "a.c", Line: 3, Err: ErrUserError}).Error())
}

func TestErrorSpanWithFileSet(t *testing.T) {
	ctx := newTestContext()
	ctx.Files = source.NewFileSet()
	_, err := Process(ctx, "main.c", []byte("ok\n#error boom\n"))
	var located *Error
	require.ErrorAs(t, err, &located)
	assert.Equal(t, uint32(3), located.Span.Start)
	assert.Equal(t, uint32(14), located.Span.End)
	assert.Equal(t, "#error boom", ctx.Files.Get(located.Span.File).Text(located.Span))
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "inc", "defs.h")
	writeFile(t, header, "#define SIZE 4\nint defs;\n")
	main := filepath.Join(dir, "main.c")

	for _, src := range []string{"#include \"defs.h\"\nint a[SIZE];\n", "#include <defs.h>\nint a[SIZE];\n"} {
		ctx := newTestContext()
		ctx.IncludeDirs = []string{filepath.Join(dir, "inc")}
		out, err := Process(ctx, main, []byte(src))
		require.NoError(t, err)
		want := fmt.Sprintf("# 1 %q\n\nint defs;\n# 2 %q\nint a[4];\n", header, main)
		assert.Equal(t, want, out)
	}
}

func TestQuotedIncludeSearchesCurrentDirFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "v.h"), "local\n")
	writeFile(t, filepath.Join(dir, "sys", "v.h"), "system\n")

	ctx := newTestContext()
	ctx.IncludeDirs = []string{filepath.Join(dir, "sys")}
	out, err := Process(ctx, filepath.Join(dir, "main.c"), []byte("#include \"v.h\"\n#include <v.h>\n"))
	require.NoError(t, err)
	lines := nonEmpty(out)
	assert.Contains(t, lines, "local")
	assert.Contains(t, lines, "system")
	assert.Less(t, strings.Index(out, "local"), strings.Index(out, "system"))
}

func TestComputedInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "defs.h"), "int defs;\n")
	out, err := Process(newTestContext(), filepath.Join(dir, "main.c"), []byte("#define HDR \"defs.h\"\n#include HDR\n"))
	require.NoError(t, err)
	assert.Contains(t, nonEmpty(out), "int defs;")
}

func TestIncludeGuard(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "g.h"), "#ifndef G\n#define G\nguarded\n#endif\n")
	out, err := Process(newTestContext(), filepath.Join(dir, "main.c"), []byte("#include \"g.h\"\n#include \"g.h\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "guarded"))
}

func TestIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	self := filepath.Join(dir, "self.h")
	writeFile(t, self, "#include \"self.h\"\n")

	ctx := newTestContext()
	ctx.MaxDepth = 5
	_, err := Process(ctx, filepath.Join(dir, "main.c"), []byte("#include \"self.h\"\n"))
	require.ErrorIs(t, err, ErrIncludeDepth)
	var located *Error
	require.ErrorAs(t, err, &located)
	assert.Equal(t, self, located.File)

	_, err = Process(newTestContext(), filepath.Join(dir, "main.c"), []byte("\n#include \"missing.h\"\n"))
	require.ErrorIs(t, err, ErrIncludeNotFound)
	require.ErrorAs(t, err, &located)
	assert.Equal(t, 2, located.Line)

	writeFile(t, filepath.Join(dir, "open.h"), "#if 1\n")
	_, err = Process(newTestContext(), filepath.Join(dir, "main.c"), []byte("#include \"open.h\"\n#endif\n"))
	require.ErrorIs(t, err, ErrUnterminatedIf)
}

func TestMacrosFromIncludesStayVisible(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d.h"), "#define FROM_HEADER 7\n")
	ctx := newTestContext()
	out, err := Process(ctx, filepath.Join(dir, "main.c"), []byte("#include \"d.h\"\nFROM_HEADER\n"))
	require.NoError(t, err)
	assert.Contains(t, nonEmpty(out), "7")
	assert.True(t, ctx.Macros.Defined("FROM_HEADER"))
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := newTestContext()
	ctx.AllowExec = true
	out, err := Process(ctx, filepath.Join(t.TempDir(), "main.c"), []byte("#exec echo hi\n#in tr a-z A-Z\nhello\n#endin\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "HELLO"}, nonEmpty(out))

	_, err = Process(ctx, "main.c", []byte("#exec exit 3\n"))
	require.ErrorIs(t, err, ErrExecFailed)

	_, err = Process(ctx, "main.c", []byte("#endin\n"))
	require.ErrorIs(t, err, ErrUnexpectedDirective)

	_, err = Process(ctx, "main.c", []byte("#in cat\nx\n"))
	require.ErrorIs(t, err, ErrInvalidDirective)
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.c")
	writeFile(t, path, "#define X 1\nX\n")
	out, err := ProcessFile(newTestContext(), path)
	require.NoError(t, err)
	assert.Equal(t, "\n1\n", out)

	_, err = ProcessFile(newTestContext(), filepath.Join(t.TempDir(), "none.c"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
