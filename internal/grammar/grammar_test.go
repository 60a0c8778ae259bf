package grammar

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcc/internal/diag"
	"rcc/internal/lexer"
	"rcc/internal/source"
	"rcc/internal/syntax"
	"rcc/internal/testkit"
	"rcc/internal/token"
)

type parsed struct {
	Result
	tokens []token.Token
	fs     *source.FileSet
	file   *source.File
}

func parseSource(t *testing.T, src string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.c", []byte(src)))
	tokens := lexer.Lex(f, lexer.Options{})
	res := Parse(tokens, opts)
	require.NoError(t, testkit.CheckTreeInvariants(res.Tree, tokens, f))
	return parsed{Result: res, tokens: tokens, fs: fs, file: f}
}

func messages(errs []syntax.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func topKinds(tree *syntax.Tree) []syntax.TreeKind {
	var out []syntax.TreeKind
	for _, sub := range tree.Subtrees() {
		out = append(out, sub.Kind)
	}
	return out
}

func TestCorpus(t *testing.T) {
	testkit.Corpus{
		Root:    "testdata/ok",
		Pattern: "**/*.c",
		Refresh: "RCC_REFRESH",
		Outputs: []testkit.Output{{Extension: "errors"}},
		Test: func(t *testing.T, _, text string) []string {
			res := parseSource(t, text, Options{})
			assert.Equal(t, syntax.TranslationUnit, res.Tree.Kind)
			assert.False(t, res.Tree.ContainsErrors(), syntax.Outline(res.Tree))
			var sb strings.Builder
			for _, e := range res.Errors {
				sb.WriteString(e.Message)
				sb.WriteByte('\n')
			}
			return []string{sb.String()}
		},
	}.Run(t)
}

func TestFunctionDefinitionShape(t *testing.T) {
	res := parseSource(t, "int main(void) { return 0; }", Options{})
	require.Empty(t, res.Errors)

	fn := res.Tree.FindChild(syntax.FunctionDef)
	require.NotNil(t, fn)
	require.NotNil(t, fn.FindChild(syntax.DeclSpecifiers))
	decl := fn.FindChild(syntax.Declarator)
	require.NotNil(t, decl)
	direct := decl.FindChild(syntax.DirectDeclarator)
	require.NotNil(t, direct)
	assert.NotNil(t, direct.FindChild(syntax.ParamList))

	body := fn.FindChild(syntax.CompoundStmt)
	require.NotNil(t, body)
	ret := body.FindChild(syntax.ReturnStmt)
	require.NotNil(t, ret)
	assert.NotNil(t, ret.FindChild(syntax.LiteralExpr))
}

func TestBinaryPrecedence(t *testing.T) {
	res := parseSource(t, "int x = 1 + 2 * 3 - 4;", Options{})
	require.Empty(t, res.Errors)

	init := res.Tree.FindChild(syntax.Declaration).
		FindChild(syntax.InitDeclaratorList).
		FindChild(syntax.InitDeclarator).
		FindChild(syntax.Initializer)
	require.NotNil(t, init)

	// (1 + (2 * 3)) - 4
	outer := init.FindChild(syntax.BinaryExpr)
	require.NotNil(t, outer)
	assert.NotNil(t, outer.FindToken(token.Minus))
	left := outer.FindChild(syntax.BinaryExpr)
	require.NotNil(t, left)
	assert.NotNil(t, left.FindToken(token.Plus))
	mul := left.FindChild(syntax.BinaryExpr)
	require.NotNil(t, mul)
	assert.NotNil(t, mul.FindToken(token.Star))
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	res := parseSource(t, "void f(void) { a = b = c; }", Options{})
	require.Empty(t, res.Errors)

	stmt := res.Tree.FindChild(syntax.FunctionDef).
		FindChild(syntax.CompoundStmt).
		FindChild(syntax.ExprStmt)
	require.NotNil(t, stmt)
	outer := stmt.FindChild(syntax.Assignment)
	require.NotNil(t, outer)
	require.NotNil(t, outer.FindChild(syntax.NameExpr))
	assert.NotNil(t, outer.FindChild(syntax.Assignment))
}

func TestTypedefNames(t *testing.T) {
	src := `typedef int T;
T x;
void f(void) {
    int a, b;
    T * p;
    a * b;
    (T)a;
    (a) + b;
}
`
	res := parseSource(t, src, Options{})
	require.Empty(t, res.Errors, messages(res.Errors))
	assert.Equal(t,
		[]syntax.TreeKind{syntax.Declaration, syntax.Declaration, syntax.FunctionDef},
		topKinds(res.Tree))

	body := res.Tree.FindChild(syntax.FunctionDef).FindChild(syntax.CompoundStmt)
	require.NotNil(t, body)
	assert.Equal(t,
		[]syntax.TreeKind{syntax.Declaration, syntax.Declaration, syntax.ExprStmt, syntax.ExprStmt, syntax.ExprStmt},
		topKinds(body))

	stmts := body.Subtrees()
	assert.NotNil(t, stmts[3].FindChild(syntax.CastExpr))
	assert.NotNil(t, stmts[4].FindChild(syntax.BinaryExpr))
}

func TestTypedefShadowedByVariable(t *testing.T) {
	src := `typedef int T;
void f(void) {
    int T;
    T * 2;
}
`
	res := parseSource(t, src, Options{})
	require.Empty(t, res.Errors, messages(res.Errors))
	body := res.Tree.FindChild(syntax.FunctionDef).FindChild(syntax.CompoundStmt)
	assert.Equal(t, []syntax.TreeKind{syntax.Declaration, syntax.ExprStmt}, topKinds(body))
}

func TestPredeclaredTypedefs(t *testing.T) {
	src := "void f(void) { FILE * fp; }"

	res := parseSource(t, src, Options{Typedefs: []string{"FILE"}})
	require.Empty(t, res.Errors)
	body := res.Tree.FindChild(syntax.FunctionDef).FindChild(syntax.CompoundStmt)
	assert.Equal(t, []syntax.TreeKind{syntax.Declaration}, topKinds(body))

	res = parseSource(t, src, Options{})
	require.Empty(t, res.Errors)
	body = res.Tree.FindChild(syntax.FunctionDef).FindChild(syntax.CompoundStmt)
	assert.Equal(t, []syntax.TreeKind{syntax.ExprStmt}, topKinds(body))
}

func TestCompoundLiteralAndCast(t *testing.T) {
	res := parseSource(t, "struct p { int x; };\nint f(void) { return (struct p){ 1 }.x + (int)2.5; }", Options{})
	require.Empty(t, res.Errors, messages(res.Errors))

	ret := res.Tree.FindChild(syntax.FunctionDef).
		FindChild(syntax.CompoundStmt).
		FindChild(syntax.ReturnStmt)
	require.NotNil(t, ret)
	sum := ret.FindChild(syntax.BinaryExpr)
	require.NotNil(t, sum)
	member := sum.FindChild(syntax.MemberExpr)
	require.NotNil(t, member)
	assert.NotNil(t, member.FindChild(syntax.CompoundLiteral))
	assert.NotNil(t, sum.FindChild(syntax.CastExpr))
}

func TestKAndRDefinition(t *testing.T) {
	res := parseSource(t, "int add(a, b) int a; int b; { return a + b; }", Options{})
	require.Empty(t, res.Errors, messages(res.Errors))

	fn := res.Tree.FindChild(syntax.FunctionDef)
	require.NotNil(t, fn)
	var decls int
	for _, sub := range fn.Subtrees() {
		if sub.Kind == syntax.Declaration {
			decls++
		}
	}
	assert.Equal(t, 2, decls)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []string
		codes []diag.Code
		kinds []syntax.TreeKind
	}{
		{
			name:  "missing initializer",
			src:   "int x = ;",
			want:  []string{"expected expression, found ';'"},
			codes: []diag.Code{diag.SynExpectExpression},
			kinds: []syntax.TreeKind{syntax.Declaration},
		},
		{
			name:  "missing semicolon between declarations",
			src:   "int x\nint y;",
			want:  []string{"expected ';', found 'int'"},
			codes: []diag.Code{diag.SynExpectSemicolon},
			kinds: []syntax.TreeKind{syntax.Declaration, syntax.Declaration},
		},
		{
			name:  "missing semicolon after return",
			src:   "int f(void) { return 1 }",
			want:  []string{"expected ';', found '}'"},
			codes: []diag.Code{diag.SynExpectSemicolon},
			kinds: []syntax.TreeKind{syntax.FunctionDef},
		},
		{
			name:  "unclosed block",
			src:   "int f(void) { if (x) { y = 1; }",
			want:  []string{"expected '}', found end of file"},
			codes: []diag.Code{diag.SynUnclosedDelimiter},
			kinds: []syntax.TreeKind{syntax.FunctionDef},
		},
		{
			name:  "garbage at file scope",
			src:   "} int x;",
			want:  []string{"expected declaration, found '}'"},
			codes: []diag.Code{diag.SynExpectDeclaration},
			kinds: []syntax.TreeKind{syntax.ErrorTree, syntax.Declaration},
		},
		{
			name:  "implicit int",
			src:   "static x;",
			want:  []string{"type specifier missing, defaults to 'int'"},
			codes: []diag.Code{diag.SynExpectType},
			kinds: []syntax.TreeKind{syntax.Declaration},
		},
		{
			name:  "extra semicolon in struct",
			src:   "struct s { int a;; };",
			want:  []string{"extra ';' inside a struct"},
			codes: []diag.Code{diag.SynError},
			kinds: []syntax.TreeKind{syntax.Declaration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseSource(t, tt.src, Options{})
			assert.Equal(t, tt.want, messages(res.Errors))
			codes := make([]diag.Code, len(res.Errors))
			for i, e := range res.Errors {
				codes[i] = Code(e.Message)
			}
			assert.Equal(t, tt.codes, codes)
			assert.Equal(t, tt.kinds, topKinds(res.Tree))
		})
	}
}

func TestErrorSpanPointsAtToken(t *testing.T) {
	res := parseSource(t, "int x\nint y;", Options{})
	require.Len(t, res.Errors, 1)
	start, _ := res.fs.Resolve(res.Errors[0].Span)
	assert.Equal(t, source.LineCol{Line: 2, Col: 1}, start)
}

func TestRecoveryKeepsLaterStatements(t *testing.T) {
	src := `int f(void) {
    x = ) ;
    return 2;
}
`
	res := parseSource(t, src, Options{})
	require.NotEmpty(t, res.Errors)
	body := res.Tree.FindChild(syntax.FunctionDef).FindChild(syntax.CompoundStmt)
	require.NotNil(t, body)
	assert.NotNil(t, body.FindChild(syntax.ReturnStmt))
	assert.True(t, res.Tree.ContainsErrors())
}

func TestCode(t *testing.T) {
	tests := []struct {
		msg  string
		want diag.Code
	}{
		{"expected ';', found identifier", diag.SynExpectSemicolon},
		{"expected expression, found ')'", diag.SynExpectExpression},
		{"expected declarator, found '+'", diag.SynExpectDeclarator},
		{"expected statement, found 'int'", diag.SynExpectStatement},
		{"expected type name, found ')'", diag.SynExpectType},
		{"type specifier missing, defaults to 'int'", diag.SynExpectType},
		{"expected identifier, found '{'", diag.SynExpectIdentifier},
		{"expected ')', found ';'", diag.SynUnclosedDelimiter},
		{"expected member declaration, found '+'", diag.SynExpectDeclaration},
		{"expected '(', found ';'", diag.SynUnexpectedToken},
		{"extra ';' inside a struct", diag.SynError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.msg), tt.msg)
	}
}

func TestDeeplyNestedUnclosedInput(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		inner syntax.TreeKind
	}{
		{"parens in initializer", "int x = " + strings.Repeat("(", 60), syntax.ParenExpr},
		{"parens before terminator", "int x = " + strings.Repeat("(", 150) + " ;", syntax.ParenExpr},
		{"subscripts in call", "void f(void){ g(" + strings.Repeat("a[", 60) + " ; }", syntax.IndexExpr},
		{"blocks at EOF", "void f(void)" + strings.Repeat("{", 120), syntax.CompoundStmt},
		{"initializer lists at EOF", "int x[] = " + strings.Repeat("{", 80), syntax.InitializerList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res parsed
			require.NotPanics(t, func() { res = parseSource(t, tt.src, Options{}) })
			require.NotNil(t, res.Tree)
			assert.Equal(t, syntax.TranslationUnit, res.Tree.Kind)
			assert.NotEmpty(t, res.Errors)
			assert.NotNil(t, findKind(res.Tree, tt.inner), syntax.Outline(res.Tree))
		})
	}
}

func findKind(tree *syntax.Tree, kind syntax.TreeKind) *syntax.Tree {
	if tree.Kind == kind {
		return tree
	}
	for _, sub := range tree.Subtrees() {
		if found := findKind(sub, kind); found != nil {
			return found
		}
	}
	return nil
}

func TestLongOperatorChain(t *testing.T) {
	const terms = 20000
	src := "int x = 1" + strings.Repeat(" + 1", terms-1) + ";"

	start := time.Now()
	res := parseSource(t, src, Options{})
	elapsed := time.Since(start)

	require.Empty(t, res.Errors)
	depth := 0
	for n := findKind(res.Tree, syntax.BinaryExpr); n != nil; n = n.FindChild(syntax.BinaryExpr) {
		depth++
	}
	assert.Equal(t, terms-1, depth, "left operands nest one level per operator")
	assert.Less(t, elapsed, 5*time.Second, "folding must not move earlier events")
}

// Random token soup must always terminate with a lossless tree.
func TestRandomTokensTerminate(t *testing.T) {
	pool := []token.Kind{
		token.Ident, token.IntConst, token.StringLit, token.KwInt, token.KwStruct,
		token.KwTypedef, token.KwIf, token.KwElse, token.KwFor, token.KwReturn,
		token.KwSizeof, token.KwCase, token.KwEnum, token.KwStaticAssert, token.KwGeneric,
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket,
		token.RBracket, token.Semicolon, token.Comma, token.Colon, token.Star,
		token.Plus, token.Assign, token.Question, token.Dot, token.Ellipsis,
		token.Unknown,
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 200 {
		n := rng.IntN(40) + 1
		tokens := make([]token.Token, 0, n+1)
		var off uint32
		for range n {
			k := pool[rng.IntN(len(pool))]
			text := k.Spelling()
			if text == "" {
				text = "a"
			}
			end := off + uint32(len(text)) //nolint:gosec // short spellings
			tokens = append(tokens, token.Token{Kind: k, Span: source.NewSpan(0, off, end), Text: text})
			off = end + 1
		}
		tokens = append(tokens, token.Token{Kind: token.EOF, Span: source.Point(0, off)})

		var res Result
		require.NotPanics(t, func() { res = Parse(tokens, Options{}) }, "round %d", round)
		assert.Len(t, res.Tree.Tokens(), n, "round %d", round)
	}
}
