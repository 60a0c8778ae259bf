package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// parseDeclarator parses an optional pointer followed by a direct
// declarator. With abstract set the name may be missing; such a node is
// closed as an AbstractDeclarator.
func (g *Parser) parseDeclarator(abstract bool) declInfo {
	p := g.p
	p.Enter("declarator")
	defer p.Exit()

	m := p.Open()
	if p.At(token.Star) {
		g.parsePointer()
	}
	var info declInfo
	if !abstract || p.AtAny(declaratorStart) {
		info = g.parseDirectDeclarator(abstract)
	}
	kind := syntax.Declarator
	if abstract && info.name == "" {
		kind = syntax.AbstractDeclarator
	}
	info.mark = p.Close(m, kind)
	return info
}

func (g *Parser) parsePointer() {
	p := g.p
	m := p.Open()
	for p.Eat(token.Star) {
		for p.AtAny(typeQualifierFirst) {
			g.leaf(syntax.TypeQualifier)
		}
	}
	p.Close(m, syntax.Pointer)
}

func (g *Parser) parseDirectDeclarator(abstract bool) declInfo {
	p := g.p
	p.Enter("direct_declarator")
	defer p.Exit()

	var info declInfo
	m := p.Open()
	switch {
	case p.At(token.Ident):
		info.name = p.Current().Text
		p.Advance()
	case p.At(token.LParen) && !(abstract && g.startsParams(1)):
		p.Advance()
		inner := g.parseDeclarator(abstract)
		info.name, info.function = inner.name, inner.function
		g.closing(token.RParen, declaratorRecovery)
	case abstract:
	default:
		if p.Recover(declaratorFirst, declaratorRecovery, g.expected("declarator")) {
			// после пропуска снова стоим на имени или '('
			return g.finishRecoveredDeclarator(m)
		}
	}
	return g.parseDeclaratorSuffixes(m, info)
}

// finishRecoveredDeclarator continues a direct declarator after skipped
// tokens, with the cursor on an identifier or '('.
func (g *Parser) finishRecoveredDeclarator(m syntax.MarkOpened) declInfo {
	p := g.p
	var info declInfo
	if p.At(token.Ident) {
		info.name = p.Current().Text
		p.Advance()
	} else {
		p.Advance()
		inner := g.parseDeclarator(false)
		info.name, info.function = inner.name, inner.function
		g.closing(token.RParen, declaratorRecovery)
	}
	return g.parseDeclaratorSuffixes(m, info)
}

func (g *Parser) parseDeclaratorSuffixes(m syntax.MarkOpened, info declInfo) declInfo {
	p := g.p
	for {
		switch {
		case p.At(token.LBracket):
			g.parseArraySuffix()
		case p.At(token.LParen):
			g.parseParamList()
			info.function = true
		default:
			p.Close(m, syntax.DirectDeclarator)
			return info
		}
	}
}

// startsParams reports whether the '(' before k opens a parameter list
// rather than a nested abstract declarator.
func (g *Parser) startsParams(k int) bool {
	switch g.p.Peek(k) {
	case token.RParen, token.Ellipsis:
		return true
	}
	return g.atSpecifier(k)
}

func (g *Parser) parseArraySuffix() {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Eat(token.KwStatic)
	for p.AtAny(typeQualifierFirst) {
		g.leaf(syntax.TypeQualifier)
	}
	p.Eat(token.KwStatic)
	switch {
	case p.At(token.Star) && p.Peek(1) == token.RBracket:
		p.Advance()
	case !p.At(token.RBracket):
		g.parseAssignment()
	}
	g.closing(token.RBracket, declaratorRecovery)
	p.Close(m, syntax.ArraySuffix)
}

// parseParamList parses "(params)" including the parentheses. An old style
// identifier list is kept as bare identifier tokens.
func (g *Parser) parseParamList() {
	p := g.p
	p.Enter("parameter_list")
	defer p.Exit()

	m := p.Open()
	p.Advance()
	g.pushScope()
	g.params++
	defer func() {
		g.params--
		g.popScope()
	}()

	switch {
	case p.At(token.RParen):
	case p.At(token.Ident) && !g.identIsType(0):
		for p.Expect(token.Ident) && p.Eat(token.Comma) {
		}
	default:
		for {
			if p.Eat(token.Ellipsis) {
				break
			}
			g.parseParamDecl()
			if !p.Eat(token.Comma) {
				break
			}
		}
	}
	g.closing(token.RParen, declaratorRecovery)
	p.Close(m, syntax.ParamList)
}

func (g *Parser) parseParamDecl() {
	p := g.p
	p.Enter("parameter_declaration")
	defer p.Exit()

	m := p.Open()
	spec := g.parseDeclSpecifiers()
	if spec.empty {
		p.Error(g.expected("parameter declaration"))
	}
	if p.AtAny(declaratorStart) {
		d := g.parseDeclarator(true)
		g.declare(d.name, false)
	}
	p.Close(m, syntax.ParamDecl)
}
