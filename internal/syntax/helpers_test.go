package syntax

import (
	"rcc/internal/source"
	"rcc/internal/token"
)

// toks builds a token slice with one-byte tokens separated by a space.
// EOF is not appended.
func toks(kinds ...token.Kind) []token.Token {
	out := make([]token.Token, len(kinds))
	for i, k := range kinds {
		start := uint32(i * 2) //nolint:gosec // small test inputs
		out[i] = token.Token{Kind: k, Span: source.NewSpan(0, start, start+1), Text: textOf(k)}
	}
	return out
}

func textOf(k token.Kind) string {
	switch k {
	case token.Ident:
		return "x"
	case token.IntConst:
		return "1"
	}
	if s := k.Spelling(); s != "" {
		return s
	}
	return "?"
}

var (
	exprFirst = TokenSetOf(token.Ident, token.IntConst)
	stmtEnd   = TokenSetOf(token.Semicolon)
)

// flatAssignment parses IDENT '=' atom ';' without nesting the operand.
func flatAssignment(p *Parser) {
	p.Enter("assignment")
	defer p.Exit()

	m := p.Open()
	p.Expect(token.Ident)
	p.Expect(token.Assign)
	if p.Recover(exprFirst, stmtEnd, "expected expression") {
		p.Advance()
	}
	p.Expect(token.Semicolon)
	p.Close(m, Assignment)
}

// statements parses a list of `IDENT = expr ;` with left-associative '+'.
func statements(p *Parser) {
	m := p.Open()
	for !p.EOF() {
		statement(p)
	}
	p.Close(m, TranslationUnit)
}

func statement(p *Parser) {
	p.Enter("statement")
	defer p.Exit()

	if !p.At(token.Ident) {
		p.AdvanceWithError("expected statement")
		return
	}
	m := p.Open()
	p.Advance()
	p.Expect(token.Assign)
	expr(p, stmtEnd)
	p.Expect(token.Semicolon)
	p.Close(m, Assignment)
}

func expr(p *Parser, recovery TokenSet) {
	p.Enter("expr")
	defer p.Exit()

	lhs, ok := atom(p, recovery)
	if !ok {
		return
	}
	for p.At(token.Plus) {
		m := p.OpenBefore(lhs)
		p.Advance()
		atom(p, recovery)
		lhs = p.Close(m, BinaryExpr)
	}
}

func atom(p *Parser, recovery TokenSet) (MarkClosed, bool) {
	if !p.Recover(exprFirst, recovery, "expected expression") {
		return MarkClosed{}, false
	}
	m := p.Open()
	p.Advance()
	return p.Close(m, LiteralExpr), true
}

// group parses '(' group ')' or an atom, one rule call per level.
func group(p *Parser, recovery TokenSet) {
	p.Enter("group")
	defer p.Exit()

	if !p.At(token.LParen) {
		atom(p, recovery)
		return
	}
	m := p.Open()
	p.Advance()
	group(p, recovery)
	if !p.Eat(token.RParen) {
		p.Recover(TokenSetOf(token.RParen), recovery, "expected ')'")
		p.Eat(token.RParen)
	}
	p.Close(m, ParenExpr)
}

// groupStatement parses group ';' as the root node.
func groupStatement(p *Parser) {
	m := p.Open()
	group(p, stmtEnd)
	p.Eat(token.Semicolon)
	for !p.EOF() {
		p.AdvanceWithError("expected end of input")
	}
	p.Close(m, TranslationUnit)
}

func repeatKind(k token.Kind, n int) []token.Kind {
	out := make([]token.Kind, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func parseWith(rule func(*Parser), tokens []token.Token) (*Parser, *Tree, []Error) {
	p := NewParser(tokens, Options{})
	rule(p)
	tree, errs := p.BuildTree()
	return p, tree, errs
}

func kindsOf(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}
