package syntax

import (
	"fmt"

	"rcc/internal/source"
)

// BuildTree replays the event log into a tree and returns it together with
// the errors recorded during the pass. The log is consumed; calling BuildTree
// twice panics, as does any imbalance between Open and Close events.
func (p *Parser) BuildTree() (*Tree, []Error) {
	if p.built {
		panic("syntax: BuildTree called twice")
	}
	p.built = true
	if len(p.open) != 0 {
		panic(fmt.Sprintf("syntax: %d nodes left open: %v", len(p.open), p.open))
	}

	events := p.events
	p.events = nil
	if len(events) == 0 || events[len(events)-1].Kind != EventClose {
		panic("syntax: event log does not end with Close")
	}
	// последний Close оставляет корень на стеке
	events = events[:len(events)-1]

	var (
		stack []*Tree
		errs  []Error
		next  int // index of the next token to attach
		chain []TreeKind
	)
	for i, ev := range events {
		switch ev.Kind {
		case EventOpen:
			// wrappers added by OpenBefore sit later in the log; open them
			// outermost first
			chain = append(chain[:0], ev.Tree)
			for j, fwd := i, ev.Forward; fwd != 0; fwd = events[j].Forward {
				j += fwd
				chain = append(chain, events[j].Tree)
				events[j].Kind = eventTombstone
			}
			for k := len(chain) - 1; k >= 0; k-- {
				stack = append(stack, &Tree{Kind: chain[k]})
			}
		case EventClose:
			if len(stack) < 2 {
				panic("syntax: Close without a parent node")
			}
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node.Span = p.nodeSpan(node, next)
			top := stack[len(stack)-1]
			top.Children = append(top.Children, Child{Tree: node})
		case EventAdvance:
			if len(stack) == 0 {
				panic("syntax: Advance outside of any node")
			}
			tok := p.tokens[next]
			next++
			top := stack[len(stack)-1]
			top.Children = append(top.Children, Child{Token: &tok})
		case EventError:
			at := min(ev.Pos, len(p.tokens)-1)
			errs = append(errs, Error{Message: ev.Msg, Span: p.tokens[at].Span})
		}
	}

	if len(stack) != 1 {
		panic(fmt.Sprintf("syntax: expected exactly one root, found %d", len(stack)))
	}
	if next != len(p.tokens)-1 {
		panic(fmt.Sprintf("syntax: %d tokens were never consumed", len(p.tokens)-1-next))
	}
	root := stack[0]
	root.Span = p.nodeSpan(root, next)
	return root, errs
}

// nodeSpan covers the children of n. A node without children gets an empty
// span at the start of the next unconsumed token.
func (p *Parser) nodeSpan(n *Tree, next int) source.Span {
	if len(n.Children) == 0 {
		at := p.tokens[min(next, len(p.tokens)-1)].Span
		return source.Point(at.File, at.Start)
	}
	span := n.Children[0].Span()
	for _, c := range n.Children[1:] {
		span = span.Cover(c.Span())
	}
	return span
}
