package syntax

import (
	"rcc/internal/source"
	"rcc/internal/token"
)

// Tree is a materialized syntax node. It owns its children; no node is shared.
type Tree struct {
	Kind     TreeKind
	Span     source.Span
	Children []Child
}

// Child is either a terminal token or a nested tree. Exactly one field is set.
type Child struct {
	Token *token.Token
	Tree  *Tree
}

// IsToken reports whether the child is a terminal.
func (c Child) IsToken() bool { return c.Token != nil }

// Span returns the source span of the child.
func (c Child) Span() source.Span {
	if c.Token != nil {
		return c.Token.Span
	}
	return c.Tree.Span
}

// Kind returns the merged kind of the child.
func (c Child) Kind() Kind {
	if c.Token != nil {
		return Tok(c.Token.Kind)
	}
	return c.Tree.Kind.Kind()
}

// Error is a user-facing parse error recorded during a pass.
type Error struct {
	Message string
	Span    source.Span
}

// Tokens returns the terminals of t in depth-first order.
func (t *Tree) Tokens() []token.Token {
	var out []token.Token
	t.collectTokens(&out)
	return out
}

func (t *Tree) collectTokens(out *[]token.Token) {
	for _, c := range t.Children {
		if c.Token != nil {
			*out = append(*out, *c.Token)
		} else {
			c.Tree.collectTokens(out)
		}
	}
}

// Walk visits t and every descendant tree in pre-order. Returning false from
// fn skips the children of that node.
func (t *Tree) Walk(fn func(n *Tree, depth int) bool) {
	t.walk(fn, 0)
}

func (t *Tree) walk(fn func(*Tree, int) bool, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, c := range t.Children {
		if c.Tree != nil {
			c.Tree.walk(fn, depth+1)
		}
	}
}

// FindChild returns the first direct child tree of the given kind.
func (t *Tree) FindChild(kind TreeKind) *Tree {
	for _, c := range t.Children {
		if c.Tree != nil && c.Tree.Kind == kind {
			return c.Tree
		}
	}
	return nil
}

// FindToken returns the first direct child token of the given kind.
func (t *Tree) FindToken(kind token.Kind) *token.Token {
	for _, c := range t.Children {
		if c.Token != nil && c.Token.Kind == kind {
			return c.Token
		}
	}
	return nil
}

// Subtrees returns the direct child trees.
func (t *Tree) Subtrees() []*Tree {
	var out []*Tree
	for _, c := range t.Children {
		if c.Tree != nil {
			out = append(out, c.Tree)
		}
	}
	return out
}

// CountChildren counts the direct child trees of the given kind.
func (t *Tree) CountChildren(kind TreeKind) int {
	n := 0
	for _, c := range t.Children {
		if c.Tree != nil && c.Tree.Kind == kind {
			n++
		}
	}
	return n
}

// NumErrors counts ErrorTree nodes in the whole tree.
func (t *Tree) NumErrors() int {
	n := 0
	t.Walk(func(n2 *Tree, _ int) bool {
		if n2.Kind == ErrorTree {
			n++
		}
		return true
	})
	return n
}

// ContainsErrors reports whether any ErrorTree is present.
func (t *Tree) ContainsErrors() bool {
	found := false
	t.Walk(func(n *Tree, _ int) bool {
		if n.Kind == ErrorTree {
			found = true
		}
		return !found
	})
	return found
}
