package syntax

import (
	"rcc/internal/interval"
)

// Index answers "which node covers this offset" queries over a built tree.
type Index struct {
	nodes interval.Nesting[uint32, *Tree]
}

// NewIndex indexes every non-empty node of root.
func NewIndex(root *Tree) *Index {
	ix := &Index{}
	root.Walk(func(n *Tree, depth int) bool {
		ix.nodes.Insert(depth, n.Span.Start, n.Span.End, n)
		return true
	})
	return ix
}

// NodeAt returns the innermost node covering off, or nil.
func (ix *Index) NodeAt(off uint32) *Tree {
	n, _ := ix.nodes.Innermost(off)
	return n
}

// PathAt returns the nodes covering off, root first.
func (ix *Index) PathAt(off uint32) []*Tree {
	return ix.nodes.Stack(off)
}
