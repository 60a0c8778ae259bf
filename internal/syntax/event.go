package syntax

// EventKind tags one entry of the parser's event log.
type EventKind uint8

const (
	EventOpen EventKind = iota
	EventClose
	EventAdvance
	EventError

	// eventTombstone marks an Open already replayed as part of a forward chain.
	eventTombstone
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "Open"
	case EventClose:
		return "Close"
	case EventAdvance:
		return "Advance"
	case EventError:
		return "Error"
	}
	return "?"
}

// Event is a recorded parser action. The log of events is the only output
// of a parse pass; BuildTree replays it into a Tree.
type Event struct {
	Kind EventKind
	Tree TreeKind // for EventOpen
	Pos  int      // cursor position when recorded
	Msg  string   // for EventError
	// Forward is the distance to the Open event of the node that wraps this
	// one, set by OpenBefore. Zero means no wrapper.
	Forward int
}

func (e Event) String() string {
	switch e.Kind {
	case EventOpen:
		return "Open(" + e.Tree.String() + ")"
	case EventError:
		return "Error(" + e.Msg + ")"
	}
	return e.Kind.String()
}

// MarkOpened refers to an Open event whose kind is not yet known.
type MarkOpened struct {
	index int
}

// MarkClosed refers to the Open event of an already closed node.
type MarkClosed struct {
	index int
}
