package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// parseExpr parses a comma expression.
func (g *Parser) parseExpr() syntax.MarkClosed {
	p := g.p
	lhs := g.parseAssignment()
	if !p.At(token.Comma) {
		return lhs
	}
	m := p.OpenBefore(lhs)
	for p.Eat(token.Comma) {
		g.parseAssignment()
	}
	return p.Close(m, syntax.CommaExpr)
}

// parseAssignment parses a right associative assignment chain.
func (g *Parser) parseAssignment() syntax.MarkClosed {
	p := g.p
	p.Enter("assignment_expression")
	defer p.Exit()

	lhs := g.parseConditional()
	if !p.Peek(0).IsAssignOp() {
		return lhs
	}
	m := p.OpenBefore(lhs)
	p.Advance()
	g.parseAssignment()
	return p.Close(m, syntax.Assignment)
}

func (g *Parser) parseConditional() syntax.MarkClosed {
	p := g.p
	cond := g.parseBinary(0)
	if !p.At(token.Question) {
		return cond
	}
	m := p.OpenBefore(cond)
	p.Advance()
	// GNU: x ?: y
	if !p.At(token.Colon) {
		g.parseExpr()
	}
	p.Expect(token.Colon)
	g.parseConditional()
	return p.Close(m, syntax.ConditionalExpr)
}

// parseBinary is a precedence climber. Every operator folds the left
// operand into a new BinaryExpr opened before it.
func (g *Parser) parseBinary(minPrec int) syntax.MarkClosed {
	p := g.p
	lhs := g.parseCast()
	for {
		prec := binaryPrec(p.Peek(0))
		if prec <= minPrec {
			return lhs
		}
		m := p.OpenBefore(lhs)
		p.Advance()
		g.parseBinary(prec)
		lhs = p.Close(m, syntax.BinaryExpr)
	}
}

func (g *Parser) parseCast() syntax.MarkClosed {
	p := g.p
	if !p.At(token.LParen) || !g.atTypeName(1) {
		return g.parseUnary()
	}

	m := p.Open()
	p.Advance()
	g.parseTypeName()
	g.closing(token.RParen, parenRecovery)
	if p.At(token.LBrace) {
		g.parseInitializerList()
		return g.parsePostfixTail(p.Close(m, syntax.CompoundLiteral))
	}
	g.parseCast()
	return p.Close(m, syntax.CastExpr)
}

func (g *Parser) parseUnary() syntax.MarkClosed {
	p := g.p
	switch p.Peek(0) {
	case token.PlusPlus, token.MinusMinus:
		m := p.Open()
		p.Advance()
		g.parseUnary()
		return p.Close(m, syntax.UnaryExpr)
	case token.Amp, token.Star, token.Plus, token.Minus, token.Tilde, token.Bang:
		m := p.Open()
		p.Advance()
		g.parseCast()
		return p.Close(m, syntax.UnaryExpr)
	case token.KwSizeof:
		m := p.Open()
		p.Advance()
		if p.At(token.LParen) && g.atTypeName(1) {
			p.Advance()
			g.parseTypeName()
			g.closing(token.RParen, parenRecovery)
		} else {
			g.parseUnary()
		}
		return p.Close(m, syntax.SizeofExpr)
	case token.KwAlignof:
		m := p.Open()
		p.Advance()
		p.Expect(token.LParen)
		g.parseTypeName()
		g.closing(token.RParen, parenRecovery)
		return p.Close(m, syntax.AlignofExpr)
	}
	return g.parsePostfixTail(g.parsePrimary())
}

func (g *Parser) parsePostfixTail(lhs syntax.MarkClosed) syntax.MarkClosed {
	p := g.p
	for {
		switch p.Peek(0) {
		case token.LBracket:
			m := p.OpenBefore(lhs)
			p.Advance()
			g.parseExpr()
			g.closing(token.RBracket, parenRecovery)
			lhs = p.Close(m, syntax.IndexExpr)
		case token.LParen:
			m := p.OpenBefore(lhs)
			g.parseArgList()
			lhs = p.Close(m, syntax.CallExpr)
		case token.Dot, token.Arrow:
			m := p.OpenBefore(lhs)
			p.Advance()
			p.Expect(token.Ident)
			lhs = p.Close(m, syntax.MemberExpr)
		case token.PlusPlus, token.MinusMinus:
			m := p.OpenBefore(lhs)
			p.Advance()
			lhs = p.Close(m, syntax.PostfixExpr)
		default:
			return lhs
		}
	}
}

func (g *Parser) parseArgList() {
	p := g.p
	m := p.Open()
	p.Advance()
	if !p.At(token.RParen) {
		for {
			g.parseAssignment()
			if !p.Eat(token.Comma) {
				break
			}
		}
	}
	g.closing(token.RParen, parenRecovery)
	p.Close(m, syntax.ArgList)
}

// parsePrimary parses a name, a literal, a parenthesized expression or a
// generic selection. When nothing fits, stray tokens are skipped; if the
// cursor stops on a token an enclosing rule handles, an empty ErrorTree
// stands in for the missing operand.
func (g *Parser) parsePrimary() syntax.MarkClosed {
	p := g.p
	if !p.AtAny(primaryFirst) && !p.Recover(primaryFirst, exprRecovery, g.expected("expression")) {
		m := p.Open()
		return p.Close(m, syntax.ErrorTree)
	}

	switch p.Peek(0) {
	case token.Ident, token.KwFuncName:
		return g.leaf(syntax.NameExpr)
	case token.StringLit:
		// соседние строки склеиваются в один литерал
		m := p.Open()
		for p.At(token.StringLit) {
			p.Advance()
		}
		return p.Close(m, syntax.LiteralExpr)
	case token.LParen:
		m := p.Open()
		p.Advance()
		g.parseExpr()
		g.closing(token.RParen, parenRecovery)
		return p.Close(m, syntax.ParenExpr)
	case token.KwGeneric:
		return g.parseGeneric()
	}
	return g.leaf(syntax.LiteralExpr)
}

// parseGeneric parses _Generic(expr, type: expr, default: expr, ...).
func (g *Parser) parseGeneric() syntax.MarkClosed {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Expect(token.LParen)
	g.parseAssignment()
	for p.Eat(token.Comma) {
		a := p.Open()
		if !p.Eat(token.KwDefault) {
			g.parseTypeName()
		}
		p.Expect(token.Colon)
		g.parseAssignment()
		p.Close(a, syntax.GenericAssoc)
	}
	g.closing(token.RParen, parenRecovery)
	return p.Close(m, syntax.GenericSelection)
}
