package preprocess

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

type builtin uint8

const (
	notBuiltin builtin = iota
	builtinFile
	builtinLine
	builtinIncludeLevel
)

// Macro is one #define.
type Macro struct {
	Name string
	// Params names the parameters of a function-like macro. The variadic
	// tail is not listed; it is reached through __VA_ARGS__.
	Params   []string
	FuncLike bool
	Variadic bool
	Body     string

	builtin builtin
}

// Equal reports whether two definitions are identical, ignoring whitespace
// differences in the body.
func (m *Macro) Equal(o *Macro) bool {
	return m.FuncLike == o.FuncLike && m.Variadic == o.Variadic &&
		slices.Equal(m.Params, o.Params) &&
		strings.Join(strings.Fields(m.Body), " ") == strings.Join(strings.Fields(o.Body), " ")
}

func (m *Macro) String() string {
	if !m.FuncLike {
		return m.Name + " " + m.Body
	}
	params := slices.Clone(m.Params)
	if m.Variadic {
		params = append(params, "...")
	}
	return m.Name + "(" + strings.Join(params, ", ") + ") " + m.Body
}

func (m *Macro) paramIndex(name string) int {
	if m.Variadic && name == "__VA_ARGS__" {
		return len(m.Params)
	}
	return slices.Index(m.Params, name)
}

// MacroTable holds the macros visible at some point of preprocessing.
// It is not safe for concurrent use; clone it per file.
type MacroTable struct {
	defs map[string]*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{defs: make(map[string]*Macro)}
}

// Predefine installs the standard predefined macros. now fixes __DATE__
// and __TIME__ for the lifetime of the table.
func (t *MacroTable) Predefine(now time.Time) {
	for _, m := range []*Macro{
		{Name: "__FILE__", builtin: builtinFile},
		{Name: "__LINE__", builtin: builtinLine},
		{Name: "__INCLUDE_LEVEL__", builtin: builtinIncludeLevel},
		{Name: "__DATE__", Body: `"` + now.Format("Jan _2 2006") + `"`},
		{Name: "__TIME__", Body: `"` + now.Format("15:04:05") + `"`},
		{Name: "__STDC__", Body: "1"},
		{Name: "__STDC_VERSION__", Body: "201710L"},
		{Name: "__STDC_HOSTED__", Body: "1"},
		{Name: "__GNUC__", Body: "4"},
		{Name: "__GNUC_MINOR__", Body: "2"},
	} {
		t.defs[m.Name] = m
	}
}

// Define installs m and returns the definition it replaced, if any.
func (t *MacroTable) Define(m *Macro) *Macro {
	prev := t.defs[m.Name]
	t.defs[m.Name] = m
	return prev
}

// DefineString accepts command-line style definitions: NAME, NAME=VALUE or
// NAME(args)=BODY. A bare NAME is defined as 1.
func (t *MacroTable) DefineString(def string) error {
	name, value, ok := strings.Cut(def, "=")
	if !ok {
		value = "1"
	}
	m, err := parseDefine(name + " " + value)
	if err != nil {
		return fmt.Errorf("-D%s: %w", def, err)
	}
	t.Define(m)
	return nil
}

func (t *MacroTable) Undef(name string) {
	delete(t.defs, name)
}

func (t *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := t.defs[name]
	return m, ok
}

func (t *MacroTable) Defined(name string) bool {
	_, ok := t.defs[name]
	return ok
}

func (t *MacroTable) Len() int {
	return len(t.defs)
}

// Names returns the defined names in sorted order.
func (t *MacroTable) Names() []string {
	return slices.Sorted(maps.Keys(t.defs))
}

// Clone returns an independent copy. Macro values are immutable and shared.
func (t *MacroTable) Clone() *MacroTable {
	return &MacroTable{defs: maps.Clone(t.defs)}
}

// parseDefine parses the text after "#define".
func parseDefine(text string) (*Macro, error) {
	text = strings.TrimLeft(text, " \t")
	n := identLen(text)
	if n == 0 {
		return nil, fmt.Errorf("%w: macro name must be an identifier", ErrInvalidDirective)
	}
	m := &Macro{Name: text[:n]}
	rest := text[n:]
	if m.Name == "defined" {
		return nil, fmt.Errorf("%w: \"defined\" cannot be used as a macro name", ErrInvalidDirective)
	}

	// функциональный макрос: '(' сразу после имени
	if strings.HasPrefix(rest, "(") {
		m.FuncLike = true
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: missing ')' in parameter list of %s", ErrInvalidDirective, m.Name)
		}
		if err := m.parseParams(rest[1:end]); err != nil {
			return nil, err
		}
		rest = rest[end+1:]
	} else if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, fmt.Errorf("%w: whitespace required after macro name %s", ErrInvalidDirective, m.Name)
	}
	m.Body = strings.TrimSpace(rest)
	return m, nil
}

func (m *Macro) parseParams(list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case p == "...":
			if i != len(parts)-1 {
				return fmt.Errorf("%w: '...' must be the last parameter of %s", ErrInvalidDirective, m.Name)
			}
			m.Variadic = true
		case identLen(p) == len(p) && p != "":
			if slices.Contains(m.Params, p) {
				return fmt.Errorf("%w: duplicate parameter %q in %s", ErrInvalidDirective, p, m.Name)
			}
			m.Params = append(m.Params, p)
		default:
			return fmt.Errorf("%w: invalid parameter %q in %s", ErrInvalidDirective, p, m.Name)
		}
	}
	return nil
}

func identLen(s string) int {
	if s == "" || !isIdentStart(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return i
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
