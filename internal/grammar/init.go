package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

func (g *Parser) parseInitializer() {
	p := g.p
	p.Enter("initializer")
	defer p.Exit()

	m := p.Open()
	if p.At(token.LBrace) {
		g.parseInitializerList()
	} else {
		g.parseAssignment()
	}
	p.Close(m, syntax.Initializer)
}

// parseInitializerList parses "{ designation? initializer, ... }" with an
// optional trailing comma.
func (g *Parser) parseInitializerList() {
	p := g.p
	m := p.Open()
	p.Advance()
	for !p.At(token.RBrace) && !p.EOF() {
		if p.AtAny(designatorFirst) {
			g.parseDesignation()
		}
		if !p.AtAny(initializerFirst) && !p.Recover(initializerFirst, listRecovery, g.expected("initializer")) {
			if !p.Eat(token.Comma) {
				break
			}
			continue
		}
		g.parseInitializer()
		if !p.Eat(token.Comma) {
			break
		}
	}
	g.closing(token.RBrace, syntax.TokenSetOf(token.Semicolon))
	p.Close(m, syntax.InitializerList)
}

func (g *Parser) parseDesignation() {
	p := g.p
	m := p.Open()
	for {
		switch {
		case p.Eat(token.LBracket):
			g.parseConditional()
			g.closing(token.RBracket, listRecovery)
		case p.Eat(token.Dot):
			p.Expect(token.Ident)
		default:
			p.Expect(token.Assign)
			p.Close(m, syntax.Designation)
			return
		}
	}
}
