package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// atDeclaration decides between a declaration and a statement at the start
// of a block item.
func (g *Parser) atDeclaration() bool {
	p := g.p
	if p.At(token.KwStaticAssert) {
		return true
	}
	if p.At(token.Ident) && p.Peek(1) == token.Colon {
		return false
	}
	return g.atSpecifier(0)
}

func (g *Parser) parseCompoundStmt() {
	p := g.p
	p.Enter("compound_statement")
	defer p.Exit()

	m := p.Open()
	if !p.Expect(token.LBrace) {
		p.Close(m, syntax.CompoundStmt)
		return
	}
	g.pushScope()
	defer g.popScope()

	for !p.At(token.RBrace) && !p.EOF() {
		switch {
		case g.atDeclaration():
			g.parseDeclaration()
		case p.AtAny(stmtFirst):
			g.parseStatement()
		default:
			p.Recover(blockItemFirst, syntax.TokenSetOf(token.RBrace), g.expected("statement or declaration"))
		}
	}
	g.closing(token.RBrace, syntax.TokenSet{})
	p.Close(m, syntax.CompoundStmt)
}

func (g *Parser) parseStatement() {
	p := g.p
	p.Enter("statement")
	defer p.Exit()

	if !p.AtAny(stmtFirst) && !p.Recover(stmtFirst, stmtRecovery, g.expected("statement")) {
		return
	}

	switch p.Peek(0) {
	case token.LBrace:
		g.parseCompoundStmt()
	case token.Semicolon:
		g.leaf(syntax.EmptyStmt)
	case token.KwIf:
		g.parseIf()
	case token.KwSwitch:
		g.parseCondLoop(syntax.SwitchStmt)
	case token.KwWhile:
		g.parseCondLoop(syntax.WhileStmt)
	case token.KwDo:
		g.parseDo()
	case token.KwFor:
		g.parseFor()
	case token.KwGoto:
		m := p.Open()
		p.Advance()
		p.Expect(token.Ident)
		p.Expect(token.Semicolon)
		p.Close(m, syntax.GotoStmt)
	case token.KwContinue:
		g.parseJump(syntax.ContinueStmt)
	case token.KwBreak:
		g.parseJump(syntax.BreakStmt)
	case token.KwReturn:
		m := p.Open()
		p.Advance()
		if !p.At(token.Semicolon) {
			g.parseExpr()
		}
		p.Expect(token.Semicolon)
		p.Close(m, syntax.ReturnStmt)
	case token.KwCase:
		m := p.Open()
		p.Advance()
		g.parseConditional()
		// диапазон GNU: case 1 ... 3:
		if p.Eat(token.Ellipsis) {
			g.parseConditional()
		}
		p.Expect(token.Colon)
		g.parseStatement()
		p.Close(m, syntax.CaseStmt)
	case token.KwDefault:
		m := p.Open()
		p.Advance()
		p.Expect(token.Colon)
		g.parseStatement()
		p.Close(m, syntax.DefaultStmt)
	default:
		if p.At(token.Ident) && p.Peek(1) == token.Colon {
			m := p.Open()
			p.Advance()
			p.Advance()
			g.parseStatement()
			p.Close(m, syntax.LabeledStmt)
			return
		}
		m := p.Open()
		g.parseExpr()
		p.Expect(token.Semicolon)
		p.Close(m, syntax.ExprStmt)
	}
}

// parseParenCond parses "( expr )" of if, switch and while.
func (g *Parser) parseParenCond() {
	p := g.p
	p.Expect(token.LParen)
	g.parseExpr()
	g.closing(token.RParen, parenRecovery)
}

func (g *Parser) parseIf() {
	p := g.p
	m := p.Open()
	p.Advance()
	g.parseParenCond()
	g.parseStatement()
	if p.Eat(token.KwElse) {
		g.parseStatement()
	}
	p.Close(m, syntax.IfStmt)
}

func (g *Parser) parseCondLoop(kind syntax.TreeKind) {
	p := g.p
	m := p.Open()
	p.Advance()
	g.parseParenCond()
	g.parseStatement()
	p.Close(m, kind)
}

func (g *Parser) parseDo() {
	p := g.p
	m := p.Open()
	p.Advance()
	g.parseStatement()
	p.Expect(token.KwWhile)
	g.parseParenCond()
	p.Expect(token.Semicolon)
	p.Close(m, syntax.DoStmt)
}

func (g *Parser) parseFor() {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Expect(token.LParen)
	g.pushScope()
	defer g.popScope()

	if g.atDeclaration() {
		g.parseDeclaration()
	} else {
		if !p.At(token.Semicolon) {
			g.parseExpr()
		}
		p.Expect(token.Semicolon)
	}
	if !p.At(token.Semicolon) {
		g.parseExpr()
	}
	p.Expect(token.Semicolon)
	if !p.At(token.RParen) {
		g.parseExpr()
	}
	g.closing(token.RParen, parenRecovery)
	g.parseStatement()
	p.Close(m, syntax.ForStmt)
}

func (g *Parser) parseJump(kind syntax.TreeKind) {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Expect(token.Semicolon)
	p.Close(m, kind)
}
