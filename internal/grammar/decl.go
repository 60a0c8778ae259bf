package grammar

import (
	"rcc/internal/syntax"
	"rcc/internal/token"
)

// specInfo summarizes a declaration specifier list.
type specInfo struct {
	typedef  bool
	typeSeen bool
	empty    bool
}

// declInfo describes a parsed declarator.
type declInfo struct {
	mark     syntax.MarkClosed
	name     string
	function bool
}

func (g *Parser) parseTranslationUnit() {
	p := g.p
	m := p.Open()
	for !p.EOF() {
		if !p.AtAny(externalDeclFirst) && !p.Recover(externalDeclFirst, syntax.TokenSet{}, g.expected("declaration")) {
			break
		}
		if p.EOF() {
			break
		}
		g.parseExternalDecl()
	}
	p.Close(m, syntax.TranslationUnit)
}

// parseExternalDecl parses a function definition or a file scope
// declaration. Both start the same way; the token after the first
// declarator decides.
func (g *Parser) parseExternalDecl() {
	p := g.p
	p.Enter("external_decl")
	defer p.Exit()

	if p.At(token.KwStaticAssert) {
		g.parseStaticAssert()
		return
	}

	m := p.Open()
	spec := g.parseDeclSpecifiers()
	if !spec.typeSeen {
		p.Error("type specifier missing, defaults to 'int'")
	}
	if p.Eat(token.Semicolon) {
		p.Close(m, syntax.Declaration)
		return
	}

	first := g.parseDeclarator(false)
	if first.function && !spec.typedef {
		// старый стиль: int f(a, b) int a; int b; { ... }
		for g.atSpecifier(0) {
			g.parseDeclaration()
		}
		if p.At(token.LBrace) {
			g.declare(first.name, false)
			g.parseCompoundStmt()
			p.Close(m, syntax.FunctionDef)
			return
		}
	}

	g.declare(first.name, spec.typedef)
	g.finishInitDeclarators(first, spec)
	p.Expect(token.Semicolon)
	p.Close(m, syntax.Declaration)
}

// finishInitDeclarators wraps an already parsed first declarator into the
// InitDeclarator and InitDeclaratorList nodes and parses the rest of the
// list.
func (g *Parser) finishInitDeclarators(first declInfo, spec specInfo) {
	p := g.p
	init := p.OpenBefore(first.mark)
	if p.Eat(token.Assign) {
		g.parseInitializer()
	}
	done := p.Close(init, syntax.InitDeclarator)

	list := p.OpenBefore(done)
	for p.Eat(token.Comma) {
		g.parseInitDeclarator(spec)
	}
	p.Close(list, syntax.InitDeclaratorList)
}

// parseDeclaration parses a declaration inside a block, a for clause or a
// K&R parameter list.
func (g *Parser) parseDeclaration() {
	p := g.p
	p.Enter("declaration")
	defer p.Exit()

	if p.At(token.KwStaticAssert) {
		g.parseStaticAssert()
		return
	}

	m := p.Open()
	spec := g.parseDeclSpecifiers()
	if !p.Eat(token.Semicolon) {
		list := p.Open()
		g.parseInitDeclarator(spec)
		for p.Eat(token.Comma) {
			g.parseInitDeclarator(spec)
		}
		p.Close(list, syntax.InitDeclaratorList)
		p.Expect(token.Semicolon)
	}
	p.Close(m, syntax.Declaration)
}

func (g *Parser) parseInitDeclarator(spec specInfo) {
	p := g.p
	m := p.Open()
	d := g.parseDeclarator(false)
	g.declare(d.name, spec.typedef)
	if p.Eat(token.Assign) {
		g.parseInitializer()
	}
	p.Close(m, syntax.InitDeclarator)
}

// parseDeclSpecifiers parses storage classes, qualifiers, function and
// alignment specifiers and type specifiers in any order. A typedef name
// only counts as a specifier while no other type specifier was seen, so
// that "T T2;" declares T2.
func (g *Parser) parseDeclSpecifiers() specInfo {
	p := g.p
	p.Enter("declaration_specifiers")
	defer p.Exit()

	m := p.Open()
	info := specInfo{empty: true}
	for {
		switch {
		case p.AtAny(storageClassFirst):
			info.typedef = info.typedef || p.At(token.KwTypedef)
			g.leaf(syntax.StorageClass)
		case p.At(token.KwAtomic) && p.Peek(1) == token.LParen:
			g.parseTypeSpecifier()
			info.typeSeen = true
		case p.AtAny(typeQualifierFirst):
			g.leaf(syntax.TypeQualifier)
		case p.AtAny(functionSpecFirst):
			g.leaf(syntax.FunctionSpecifier)
		case p.At(token.KwAlignas):
			g.parseAlignas()
		case p.AtAny(typeSpecFirst):
			g.parseTypeSpecifier()
			info.typeSeen = true
		case !info.typeSeen && g.identIsType(0):
			g.leaf(syntax.TypeSpecifier)
			info.typeSeen = true
		default:
			p.Close(m, syntax.DeclSpecifiers)
			return info
		}
		info.empty = false
	}
}

func (g *Parser) parseTypeSpecifier() {
	p := g.p
	m := p.Open()
	switch {
	case p.At(token.KwStruct), p.At(token.KwUnion):
		g.parseStructSpecifier()
	case p.At(token.KwEnum):
		g.parseEnumSpecifier()
	case p.At(token.KwAtomic):
		p.Advance()
		p.Expect(token.LParen)
		g.parseTypeName()
		g.closing(token.RParen, parenRecovery)
	default:
		p.Advance()
	}
	p.Close(m, syntax.TypeSpecifier)
}

func (g *Parser) parseAlignas() {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Expect(token.LParen)
	if g.atSpecifier(0) {
		g.parseTypeName()
	} else {
		g.parseConditional()
	}
	g.closing(token.RParen, parenRecovery)
	p.Close(m, syntax.AlignmentSpecifier)
}

// parseStaticAssert parses _Static_assert(expr, "msg"); the message is
// optional as in C23.
func (g *Parser) parseStaticAssert() {
	p := g.p
	m := p.Open()
	p.Advance()
	p.Expect(token.LParen)
	g.parseConditional()
	if p.Eat(token.Comma) {
		p.Expect(token.StringLit)
		for p.At(token.StringLit) {
			p.Advance()
		}
	}
	g.closing(token.RParen, parenRecovery)
	p.Expect(token.Semicolon)
	p.Close(m, syntax.StaticAssert)
}

// parseTypeName parses a specifier list with an optional abstract declarator,
// as used by casts, sizeof and compound literals.
func (g *Parser) parseTypeName() {
	p := g.p
	p.Enter("type_name")
	defer p.Exit()

	m := p.Open()
	spec := g.parseDeclSpecifiers()
	if spec.empty {
		p.Error(g.expected("type name"))
	}
	if p.AtAny(declaratorStart) {
		g.parseDeclarator(true)
	}
	p.Close(m, syntax.TypeName)
}
