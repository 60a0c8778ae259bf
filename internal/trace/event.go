package trace

import "time"

// Kind tells begin, end and instant events apart.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = []string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string { return nameOf(kindNames, k) }

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a CLI command or directory run
	ScopePass                    // preprocess, lex, parse
	ScopeFile                    // one source file
	ScopeNode                    // grammar rule entry
)

var scopeNames = []string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file", ScopeNode: "node"}

func (s Scope) String() string { return nameOf(scopeNames, s) }

// Event is one record handed to a Tracer. Seq is assigned by the tracer.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "parse", "file", "rule:statement"
	Detail   string
	Extra    map[string]string
}
