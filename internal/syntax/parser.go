package syntax

import (
	"fmt"
	"slices"
	"strings"

	"rcc/internal/source"
	"rcc/internal/token"
	"rcc/internal/trace"
)

const (
	// DefaultFuel is how many lookahead calls may happen between two advances
	// or rule exits.
	DefaultFuel = 256
	// CallGuardLimit bounds how often one rule may be entered at the same cursor.
	CallGuardLimit = 8
)

// Options configure a Parser.
type Options struct {
	// Fuel overrides DefaultFuel when positive.
	Fuel int
	// Tracer receives rule entry events at debug level.
	Tracer trace.Tracer
	// ParentSpan links rule events to the enclosing driver span.
	ParentSpan uint64
}

type call struct {
	rule string
	pos  int
}

// Parser: состояние одного прохода разбора.
// It records events while grammar code drives it and is not safe for
// concurrent use.
type Parser struct {
	tokens  []token.Token // always terminated by EOF
	pos     int
	fuel    int
	maxFuel int

	events []Event
	open   []int // indices of Open events not yet closed

	calls     []call
	guardPos  int
	guardHits map[string]int

	tracer     trace.Tracer
	parentSpan uint64
	traceNodes bool
	built      bool
}

// NewParser creates a parser over tokens. If the slice does not end with EOF
// a sentinel is appended to a private copy.
func NewParser(tokens []token.Token, opts Options) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var eofSpan source.Span
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span
			eofSpan = source.Point(last.File, last.End)
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Span: eofSpan})
	}
	fuel := opts.Fuel
	if fuel <= 0 {
		fuel = DefaultFuel
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Parser{
		tokens:     tokens,
		fuel:       fuel,
		maxFuel:    fuel,
		events:     make([]Event, 0, len(tokens)*3),
		guardPos:   -1,
		guardHits:  make(map[string]int),
		tracer:     tracer,
		parentSpan: opts.ParentSpan,
		traceNodes: tracer.Enabled() && tracer.Level().ShouldEmit(trace.ScopeNode),
	}
}

// Peek returns the kind of the token offset positions ahead of the cursor
// without consuming it. Past the end it returns token.EOF.
func (p *Parser) Peek(offset int) token.Kind {
	if offset < 0 {
		panic("syntax: negative lookahead")
	}
	if p.fuel == 0 {
		panic(fmt.Sprintf("syntax: parser is stuck at token %d (%s); call stack: %s",
			p.pos, p.Current().Kind, p.CallStack()))
	}
	p.fuel--
	i := p.pos + offset
	if i >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[i].Kind
}

// Nth returns the token offset positions ahead, or the EOF token past the end.
func (p *Parser) Nth(offset int) token.Token {
	i := min(p.pos+offset, len(p.tokens)-1)
	return p.tokens[i]
}

// Current returns the token under the cursor.
func (p *Parser) Current() token.Token {
	return p.tokens[p.pos]
}

// Pos returns the cursor position as a token index.
func (p *Parser) Pos() int {
	return p.pos
}

// At reports whether the current token has kind k.
func (p *Parser) At(k token.Kind) bool {
	return p.Peek(0) == k
}

// AtAny reports whether the current token is in set.
func (p *Parser) AtAny(set TokenSet) bool {
	return set.Has(p.Peek(0))
}

// EOF reports whether every real token has been consumed.
func (p *Parser) EOF() bool {
	return p.pos >= len(p.tokens)-1
}

// Open starts a node whose kind is assigned by Close.
func (p *Parser) Open() MarkOpened {
	m := MarkOpened{index: len(p.events)}
	p.events = append(p.events, Event{Kind: EventOpen, Tree: ErrorTree, Pos: p.pos})
	p.open = append(p.open, m.index)
	return m
}

// OpenBefore starts a node that will wrap the already closed node m and
// everything recorded after it. No node opened after m may still be open.
// The new Open event goes to the end of the log; the Open of m points at it
// through Forward and BuildTree puts the wrapper first.
func (p *Parser) OpenBefore(m MarkClosed) MarkOpened {
	if m.index >= len(p.events) || p.events[m.index].Kind != EventOpen {
		panic(fmt.Sprintf("syntax: OpenBefore on invalid mark %d", m.index))
	}
	if p.events[m.index].Forward != 0 {
		panic(fmt.Sprintf("syntax: node %d is already wrapped", m.index))
	}
	if n := len(p.open); n > 0 && p.open[n-1] >= m.index {
		panic(fmt.Sprintf("syntax: OpenBefore(%d) would cross open node %d", m.index, p.open[n-1]))
	}
	wrapper := p.Open()
	p.events[wrapper.index].Pos = p.events[m.index].Pos
	p.events[m.index].Forward = wrapper.index - m.index
	return wrapper
}

// Close assigns kind to m and ends the node. m must be the innermost open node.
func (p *Parser) Close(m MarkOpened, kind TreeKind) MarkClosed {
	n := len(p.open)
	if n == 0 || p.open[n-1] != m.index {
		panic(fmt.Sprintf("syntax: unbalanced Close(%s) for mark %d; open marks %v", kind, m.index, p.open))
	}
	p.open = p.open[:n-1]
	p.events[m.index].Tree = kind
	p.events = append(p.events, Event{Kind: EventClose, Pos: p.pos})
	return MarkClosed(m)
}

// Advance consumes the current token. It panics at EOF.
func (p *Parser) Advance() {
	if p.EOF() {
		panic("syntax: Advance past end of input")
	}
	p.fuel = p.maxFuel
	p.events = append(p.events, Event{Kind: EventAdvance, Pos: p.pos})
	p.pos++
}

// AdvanceWithError wraps the current token in an ErrorTree and reports msg.
// At EOF only the error is recorded.
func (p *Parser) AdvanceWithError(msg string) {
	if p.EOF() {
		p.Error(msg)
		return
	}
	m := p.Open()
	p.Error(msg)
	p.Advance()
	p.Close(m, ErrorTree)
}

// Error records msg at the current token without consuming anything.
func (p *Parser) Error(msg string) {
	p.events = append(p.events, Event{Kind: EventError, Pos: p.pos, Msg: msg})
}

// Eat consumes the current token if it has kind k.
func (p *Parser) Eat(k token.Kind) bool {
	if !p.At(k) {
		return false
	}
	p.Advance()
	return true
}

// Expect consumes a token of kind k or records an error without consuming.
func (p *Parser) Expect(k token.Kind) bool {
	if p.Eat(k) {
		return true
	}
	p.Error(fmt.Sprintf("expected %s, found %s", k.Describe(), p.Current().Kind.Describe()))
	return false
}

// Recover applies the recovery policy for a rule whose first set is first.
// A token in first always wins, even when it is also in recovery. A token in
// recovery (or EOF) is left alone and an error is recorded. Anything else is
// skipped into one ErrorTree until one of the two sets matches.
// It returns true when the rule may proceed.
func (p *Parser) Recover(first, recovery TokenSet, msg string) bool {
	if p.AtAny(first) {
		return true
	}
	if p.EOF() || p.AtAny(recovery) {
		p.Error(msg)
		return false
	}
	m := p.Open()
	p.Error(msg)
	for !p.EOF() && !p.AtAny(first) && !p.AtAny(recovery) {
		p.Advance()
	}
	p.Close(m, ErrorTree)
	return p.AtAny(first)
}

// Enter records that rule starts at the current cursor. Entering the same
// rule more than CallGuardLimit times without the cursor moving panics.
func (p *Parser) Enter(rule string) {
	if p.pos != p.guardPos {
		p.guardPos = p.pos
		clear(p.guardHits)
	}
	p.guardHits[rule]++
	if hits := p.guardHits[rule]; hits > CallGuardLimit {
		panic(fmt.Sprintf("syntax: rule %q entered %d times at token %d without progress; call stack: %s",
			rule, hits, p.pos, p.CallStack()))
	}
	p.calls = append(p.calls, call{rule: rule, pos: p.pos})
	if p.traceNodes {
		trace.Point(p.tracer, trace.ScopeNode, "enter "+rule, p.Current().String(), p.parentSpan)
	}
}

// Exit pops the rule pushed by the matching Enter and refills the fuel.
// Exits without progress are bounded by the call guard, so unwinding a deep
// nest at EOF can look ahead at every level.
func (p *Parser) Exit() {
	n := len(p.calls)
	if n == 0 {
		panic("syntax: Exit without Enter")
	}
	c := p.calls[n-1]
	p.calls = p.calls[:n-1]
	p.fuel = p.maxFuel
	if p.traceNodes {
		trace.Point(p.tracer, trace.ScopeNode, "exit "+c.rule, fmt.Sprintf("consumed %d", p.pos-c.pos), p.parentSpan)
	}
}

// CallStack renders the active rules, outermost first.
func (p *Parser) CallStack() string {
	if len(p.calls) == 0 {
		return "<empty>"
	}
	parts := make([]string, len(p.calls))
	for i, c := range p.calls {
		parts[i] = fmt.Sprintf("%s@%d", c.rule, c.pos)
	}
	return strings.Join(parts, " -> ")
}

// Events returns a copy of the event log recorded so far.
func (p *Parser) Events() []Event {
	return slices.Clone(p.events)
}
