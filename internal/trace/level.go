package trace

// Level selects which scopes are recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring buffer only, dumped after a failure
	LevelPhase        // driver and pass boundaries
	LevelDetail       // plus per-file spans
	LevelDebug        // plus grammar rules
)

var levelNames = []string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// finest scope recorded at each level
var levelScope = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeFile,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string { return nameOf(levelNames, l) }

// ParseLevel accepts the level names case-insensitively; "" means off.
func ParseLevel(s string) (Level, error) {
	return parseName("level", levelNames, map[string]Level{"": LevelOff}, s)
}

// ShouldEmit reports whether events of scope pass the level filter.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScope) {
		return false
	}
	return scope != 0 && scope <= levelScope[l]
}
