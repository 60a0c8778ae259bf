package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// parseStructSpecifier parses "struct|union tag? { members }?". Tags live in
// their own namespace and are not declared.
func (g *Parser) parseStructSpecifier() {
	p := g.p
	p.Enter("struct_specifier")
	defer p.Exit()

	m := p.Open()
	p.Advance()
	tagged := p.Eat(token.Ident)
	switch {
	case p.At(token.LBrace):
		g.parseStructDeclList()
	case !tagged:
		p.Error(g.expected("identifier or '{'"))
	}
	p.Close(m, syntax.StructSpecifier)
}

func (g *Parser) parseStructDeclList() {
	p := g.p
	m := p.Open()
	p.Advance()
	for !p.At(token.RBrace) && !p.EOF() {
		switch {
		case p.At(token.KwStaticAssert):
			g.parseStaticAssert()
		case g.atSpecifier(0):
			g.parseStructDecl()
		case p.At(token.Semicolon):
			p.AdvanceWithError("extra ';' inside a struct")
		default:
			p.Recover(memberFirst, memberRecovery, g.expected("member declaration"))
		}
	}
	g.closing(token.RBrace, memberRecovery)
	p.Close(m, syntax.StructDeclList)
}

func (g *Parser) parseStructDecl() {
	p := g.p
	p.Enter("struct_declaration")
	defer p.Exit()

	m := p.Open()
	g.parseDeclSpecifiers()
	// анонимные struct/union не имеют декларатора
	if !p.At(token.Semicolon) {
		for {
			g.parseStructDeclarator()
			if !p.Eat(token.Comma) {
				break
			}
		}
	}
	p.Expect(token.Semicolon)
	p.Close(m, syntax.StructDecl)
}

func (g *Parser) parseStructDeclarator() {
	p := g.p
	m := p.Open()
	if !p.At(token.Colon) {
		g.parseDeclarator(false)
	}
	if p.Eat(token.Colon) {
		g.parseConditional()
	}
	p.Close(m, syntax.StructDeclarator)
}

// parseEnumSpecifier parses "enum tag? { enumerators }?". Enumerators are
// ordinary identifiers and shadow typedef names.
func (g *Parser) parseEnumSpecifier() {
	p := g.p
	p.Enter("enum_specifier")
	defer p.Exit()

	m := p.Open()
	p.Advance()
	tagged := p.Eat(token.Ident)
	switch {
	case p.At(token.LBrace):
		g.parseEnumeratorList()
	case !tagged:
		p.Error(g.expected("identifier or '{'"))
	}
	p.Close(m, syntax.EnumSpecifier)
}

func (g *Parser) parseEnumeratorList() {
	p := g.p
	m := p.Open()
	p.Advance()
	for !p.At(token.RBrace) && !p.EOF() {
		if !p.At(token.Ident) && !p.Recover(enumeratorFirst, listRecovery, g.expected("enumerator")) {
			if !p.Eat(token.Comma) {
				break
			}
			continue
		}
		e := p.Open()
		g.declare(p.Current().Text, false)
		p.Advance()
		if p.Eat(token.Assign) {
			g.parseConditional()
		}
		p.Close(e, syntax.Enumerator)
		if !p.Eat(token.Comma) {
			break
		}
	}
	g.closing(token.RBrace, listRecovery)
	p.Close(m, syntax.EnumeratorList)
}
