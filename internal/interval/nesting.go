// Package interval indexes half-open intervals that form a hierarchy, such as
// the spans of syntax tree nodes.
package interval

import (
	"fmt"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints"
)

// Nesting stores intervals by level. Intervals on the same level never
// overlap; an interval on level n+1 is expected to lie inside one on level n.
//
// A zero value is ready to use.
type Nesting[K constraints.Integer, V any] struct {
	// keyed by the exclusive end of each interval
	levels []*btree.Map[K, entry[K, V]]
	count  int
}

type entry[K constraints.Integer, V any] struct {
	start, end K
	value      V
}

// Insert adds [start, end) on the given level. Empty intervals are ignored
// and reported as false. Overlap with an interval on the same level panics.
func (n *Nesting[K, V]) Insert(level int, start, end K, value V) bool {
	if start > end {
		panic(fmt.Sprintf("interval: start (%v) > end (%v)", start, end))
	}
	if start == end {
		return false
	}
	for len(n.levels) <= level {
		n.levels = append(n.levels, new(btree.Map[K, entry[K, V]]))
	}
	m := n.levels[level]

	iter := m.Iter()
	if iter.Seek(start+1) && iter.Value().start < end {
		other := iter.Value()
		panic(fmt.Sprintf("interval: [%v, %v) overlaps [%v, %v) on level %d", start, end, other.start, other.end, level))
	}
	m.Set(end, entry[K, V]{start: start, end: end, value: value})
	n.count++
	return true
}

// Len returns the number of stored intervals.
func (n *Nesting[K, V]) Len() int {
	return n.count
}

// Stack returns the values of all intervals containing at, outermost first.
func (n *Nesting[K, V]) Stack(at K) []V {
	var out []V
	for _, m := range n.levels {
		iter := m.Iter()
		if !iter.Seek(at+1) {
			break
		}
		e := iter.Value()
		if e.start > at {
			break
		}
		out = append(out, e.value)
	}
	return out
}

// Innermost returns the deepest interval containing at.
func (n *Nesting[K, V]) Innermost(at K) (V, bool) {
	stack := n.Stack(at)
	if len(stack) == 0 {
		var zero V
		return zero, false
	}
	return stack[len(stack)-1], true
}
