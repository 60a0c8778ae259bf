package preprocess

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// errNeedMore reports a function-like invocation whose argument list runs
// past the end of the text.
var errNeedMore = errors.New("unterminated macro invocation")

type expander struct {
	macros *MacroTable
	file   string
	line   int
	level  int
	// partial leaves an unterminated invocation as written instead of
	// asking for more input.
	partial bool
}

// expand rewrites every macro invocation in text.
func (e *expander) expand(text string) (string, error) {
	return e.scan(text, nil, e.partial)
}

// scan expands text. hide lists the macros that are being expanded and must
// not expand again. Rescans of bodies and arguments always run partial: the
// text after them is only visible to the outermost scan.
func (e *expander) scan(text string, hide []string, partial bool) (string, error) {
	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(text, i)
			out.WriteString(text[i:j])
			i = j
			continue
		case isDigit(c) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			j := skipPPNumber(text, i)
			out.WriteString(text[i:j])
			i = j
			continue
		case !isIdentStart(c):
			out.WriteByte(c)
			i++
			continue
		}

		j := i + identLen(text[i:])
		name := text[i:j]
		m, ok := e.macros.Lookup(name)
		if !ok || slices.Contains(hide, name) {
			out.WriteString(name)
			i = j
			continue
		}

		if !m.FuncLike {
			body, err := e.expandObject(m, hide)
			if err != nil {
				return "", err
			}
			i = e.emit(&out, body, &text, j, hide)
			continue
		}

		args, end, err := collectArgs(text, j)
		switch {
		case errors.Is(err, errNoCall):
			out.WriteString(name)
			i = j
			continue
		case errors.Is(err, errNeedMore):
			if partial {
				out.WriteString(name)
				i = j
				continue
			}
			return "", err
		}
		body, err := e.expandCall(m, args, hide)
		if err != nil {
			return "", err
		}
		i = e.emit(&out, body, &text, end, hide)
	}
	return out.String(), nil
}

// emit writes an expansion. When the expansion ends in the name of a
// function-like macro and the rest of the text opens an argument list, the
// name is moved back into the text so the invocation is completed by the
// following arguments. It returns the index to continue scanning from.
func (e *expander) emit(out *strings.Builder, body string, text *string, rest int, hide []string) int {
	tail := trailingIdent(body)
	if tail != "" && !slices.Contains(hide, tail) {
		if m, ok := e.macros.Lookup(tail); ok && m.FuncLike {
			k := rest
			for k < len(*text) && ((*text)[k] == ' ' || (*text)[k] == '\t') {
				k++
			}
			if k < len(*text) && (*text)[k] == '(' {
				out.WriteString(body[:len(body)-len(tail)])
				*text = tail + (*text)[rest:]
				return 0
			}
		}
	}
	out.WriteString(body)
	return rest
}

func (e *expander) expandObject(m *Macro, hide []string) (string, error) {
	switch m.builtin {
	case builtinFile:
		return strconv.Quote(e.file), nil
	case builtinLine:
		return strconv.Itoa(e.line), nil
	case builtinIncludeLevel:
		return strconv.Itoa(e.level), nil
	}
	return e.scan(m.Body, append(hide[:len(hide):len(hide)], m.Name), true)
}

func (e *expander) expandCall(m *Macro, args []string, hide []string) (string, error) {
	if len(m.Params) == 0 && len(args) == 1 && strings.TrimSpace(args[0]) == "" {
		args = nil
	}
	switch {
	case m.Variadic && len(args) < len(m.Params):
		return "", fmt.Errorf("%w: macro %s requires at least %d arguments, but only %d given",
			ErrMacroArgs, m.Name, len(m.Params), len(args))
	case !m.Variadic && len(args) != len(m.Params):
		return "", fmt.Errorf("%w: macro %s expects %d arguments, %d given",
			ErrMacroArgs, m.Name, len(m.Params), len(args))
	}

	raw := make([]string, len(m.Params), len(m.Params)+1)
	for k := range m.Params {
		raw[k] = strings.TrimSpace(args[k])
	}
	if m.Variadic {
		rest := args[len(m.Params):]
		for k := range rest {
			rest[k] = strings.TrimSpace(rest[k])
		}
		raw = append(raw, strings.Join(rest, ", "))
	}

	expanded := make([]*string, len(raw))
	arg := func(k int) (string, error) {
		if expanded[k] == nil {
			s, err := e.scan(raw[k], hide, true)
			if err != nil {
				return "", err
			}
			expanded[k] = &s
		}
		return *expanded[k], nil
	}

	body, err := substitute(m, raw, arg)
	if err != nil {
		return "", err
	}
	return e.scan(body, append(hide[:len(hide):len(hide)], m.Name), true)
}

// substitute replaces parameters in the body of m. Operands of # and ## use
// the raw argument, all other uses the fully expanded one.
func substitute(m *Macro, raw []string, expanded func(int) (string, error)) (string, error) {
	body := m.Body
	var out strings.Builder
	pasted := false
	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(body, i)
			out.WriteString(body[i:j])
			i = j
			pasted = false
		case c == '#' && i+1 < len(body) && body[i+1] == '#':
			trimmed := strings.TrimRight(out.String(), " \t")
			out.Reset()
			out.WriteString(trimmed)
			i += 2
			for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
				i++
			}
			pasted = true
		case c == '#' && m.FuncLike:
			j := i + 1
			for j < len(body) && (body[j] == ' ' || body[j] == '\t') {
				j++
			}
			n := identLen(body[j:])
			k := m.paramIndex(body[j : j+n])
			if n == 0 || k < 0 {
				return "", fmt.Errorf("%w: '#' is not followed by a macro parameter in %s", ErrInvalidDirective, m.Name)
			}
			out.WriteString(stringify(raw[k]))
			i = j + n
			pasted = false
		case isIdentStart(c):
			j := i + identLen(body[i:])
			k := m.paramIndex(body[i:j])
			switch {
			case k < 0:
				out.WriteString(body[i:j])
			case pasted || nextIsPaste(body, j):
				out.WriteString(raw[k])
			default:
				s, err := expanded(k)
				if err != nil {
					return "", err
				}
				out.WriteString(s)
			}
			i = j
			pasted = false
		case isDigit(c):
			j := skipPPNumber(body, i)
			out.WriteString(body[i:j])
			i = j
			pasted = false
		default:
			out.WriteByte(c)
			if c != ' ' && c != '\t' {
				pasted = false
			}
			i++
		}
	}
	return out.String(), nil
}

func nextIsPaste(s string, i int) bool {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return strings.HasPrefix(s[i:], "##")
}

// stringify implements the # operator.
func stringify(arg string) string {
	var b strings.Builder
	b.WriteByte('"')
	var quote byte
	space := false
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if quote == 0 && (c == ' ' || c == '\t') {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\' && quote != 0:
			b.WriteString(`\\`)
			if i+1 < len(arg) {
				i++
				if arg[i] == '"' || arg[i] == '\\' {
					b.WriteByte('\\')
				}
				b.WriteByte(arg[i])
			}
			continue
		default:
			b.WriteByte(c)
		}
		switch {
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case c == quote:
			quote = 0
		}
	}
	b.WriteByte('"')
	return b.String()
}

var errNoCall = errors.New("not an invocation")

// collectArgs reads a parenthesized argument list starting at or after i.
// It returns the raw arguments and the index past the closing parenthesis.
func collectArgs(text string, i int) ([]string, int, error) {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i == len(text) {
		return nil, 0, errNeedMore
	}
	if text[i] != '(' {
		return nil, 0, errNoCall
	}
	var args []string
	depth := 0
	start := i + 1
	for j := i; j < len(text); {
		switch c := text[j]; c {
		case '"', '\'':
			j = skipLiteral(text, j)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return append(args, text[start:j]), j + 1, nil
			}
		case ',':
			if depth == 1 {
				args = append(args, text[start:j])
				start = j + 1
			}
		}
		j++
	}
	return nil, 0, errNeedMore
}

// skipLiteral returns the index past the string or character literal that
// starts at i. An unterminated literal runs to the end of text.
func skipLiteral(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(text)
}

func skipPPNumber(text string, i int) int {
	j := i + 1
	for j < len(text) {
		c := text[j]
		switch {
		case (c == '+' || c == '-') && strings.IndexByte("eEpP", text[j-1]) >= 0:
		case isIdentChar(c) || c == '.':
		default:
			return j
		}
		j++
	}
	return j
}

func trailingIdent(s string) string {
	j := len(s)
	for j > 0 && isIdentChar(s[j-1]) {
		j--
	}
	if n := identLen(s[j:]); n == len(s)-j && n > 0 {
		return s[j:]
	}
	return ""
}
