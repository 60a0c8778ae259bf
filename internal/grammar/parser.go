package grammar

import (
	"fmt"

	"rcc/internal/syntax"
	"rcc/internal/token"
)

// Options configure one parse.
type Options struct {
	Syntax syntax.Options
	// Typedefs predeclares type names at file scope, for sources whose
	// headers were not preprocessed in.
	Typedefs []string
}

// Result is the outcome of one parse.
type Result struct {
	Tree   *syntax.Tree
	Errors []syntax.Error
}

// Parser: состояние грамматики на один файл.
// The event log lives in the embedded engine; Parser adds the C specific
// state, which is the typedef scope chain.
type Parser struct {
	p *syntax.Parser
	// scopes maps names to whether they denote a type. Inner scopes shadow
	// outer ones.
	scopes []map[string]bool
	// params counts the parameter lists being parsed.
	params int
}

// Parse builds the syntax tree of a translation unit. tokens must come from
// the lexer; a trailing EOF is added when missing.
func Parse(tokens []token.Token, opts Options) Result {
	g := &Parser{
		p:      syntax.NewParser(tokens, opts.Syntax),
		scopes: []map[string]bool{make(map[string]bool)},
	}
	for _, name := range opts.Typedefs {
		g.declare(name, true)
	}
	g.parseTranslationUnit()
	tree, errs := g.p.BuildTree()
	return Result{Tree: tree, Errors: errs}
}

func (g *Parser) pushScope() {
	g.scopes = append(g.scopes, make(map[string]bool))
}

func (g *Parser) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *Parser) fileScope() bool {
	return len(g.scopes) == 1
}

// declare records name in the innermost scope.
func (g *Parser) declare(name string, isType bool) {
	if name == "" {
		return
	}
	g.scopes[len(g.scopes)-1][name] = isType
}

func (g *Parser) lookup(name string) (isType, found bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if t, ok := g.scopes[i][name]; ok {
			return t, true
		}
	}
	return false, false
}

// identIsType reports whether the identifier k tokens ahead names a type.
// Names never seen are guessed from what follows them: "T x" is always a
// declaration, and "T *x" is one at file scope and in parameter lists.
func (g *Parser) identIsType(k int) bool {
	if g.p.Peek(k) != token.Ident {
		return false
	}
	isType, found := g.lookup(g.p.Nth(k).Text)
	if found {
		return isType
	}
	switch g.p.Peek(k + 1) {
	case token.Ident:
		return true
	case token.Star:
		return g.fileScope() || g.params > 0
	}
	return false
}

// atSpecifier reports whether a declaration specifier starts k tokens ahead.
func (g *Parser) atSpecifier(k int) bool {
	return declSpecFirst.Has(g.p.Peek(k)) || g.identIsType(k)
}

// atTypeName reports whether the parenthesized construct starting with the
// '(' at k-1 holds a type name. Unknown identifiers are taken as types when
// no expression could continue with the tokens after them.
func (g *Parser) atTypeName(k int) bool {
	if g.atSpecifier(k) {
		return true
	}
	if g.p.Peek(k) != token.Ident {
		return false
	}
	if _, found := g.lookup(g.p.Nth(k).Text); found {
		return false
	}
	switch g.p.Peek(k + 1) {
	case token.RParen:
		return operandStart.Has(g.p.Peek(k + 2))
	case token.Star:
		next := g.p.Peek(k + 2)
		return next == token.RParen || next == token.Star
	}
	return false
}

// expected formats the standard "expected X, found Y" message.
func (g *Parser) expected(what string) string {
	return fmt.Sprintf("expected %s, found %s", what, g.p.Current().Kind.Describe())
}

// closing consumes the delimiter k. Tokens that belong to no enclosing
// construct are skipped up to it.
func (g *Parser) closing(k token.Kind, recovery syntax.TokenSet) bool {
	if g.p.Eat(k) {
		return true
	}
	if g.p.Recover(syntax.TokenSetOf(k), recovery, g.expected(k.Describe())) {
		g.p.Advance()
		return true
	}
	return false
}

// leaf wraps the current token in a node of the given kind.
func (g *Parser) leaf(kind syntax.TreeKind) syntax.MarkClosed {
	m := g.p.Open()
	g.p.Advance()
	return g.p.Close(m, kind)
}
