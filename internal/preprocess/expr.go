package preprocess

import (
	"fmt"
	"strconv"
	"strings"
)

// replaceDefined rewrites "defined X" and "defined(X)" into 1 or 0. It runs
// before macro expansion so the operand is never expanded.
func replaceDefined(text string, macros *MacroTable) (string, error) {
	var out strings.Builder
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(text, i)
			out.WriteString(text[i:j])
			i = j
			continue
		case !isIdentStart(c):
			out.WriteByte(c)
			i++
			continue
		}
		j := i + identLen(text[i:])
		if text[i:j] != "defined" {
			out.WriteString(text[i:j])
			i = j
			continue
		}
		j = skipBlanks(text, j)
		paren := j < len(text) && text[j] == '('
		if paren {
			j = skipBlanks(text, j+1)
		}
		n := identLen(text[j:])
		if n == 0 {
			return "", fmt.Errorf("%w: operator \"defined\" requires an identifier", ErrInvalidExpression)
		}
		name := text[j : j+n]
		j += n
		if paren {
			j = skipBlanks(text, j)
			if j >= len(text) || text[j] != ')' {
				return "", fmt.Errorf("%w: missing ')' after \"defined\"", ErrInvalidExpression)
			}
			j++
		}
		if macros.Defined(name) {
			out.WriteString(" 1 ")
		} else {
			out.WriteString(" 0 ")
		}
		i = j
	}
	return out.String(), nil
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// evalExpr evaluates a fully expanded #if expression. Identifiers that
// survived expansion evaluate to 0.
func evalExpr(text string) (int64, error) {
	toks, err := splitExpr(text)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, fmt.Errorf("%w: #if with no expression", ErrInvalidExpression)
	}
	p := &exprParser{toks: toks}
	v, err := p.ternary()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, p.toks[p.pos])
	}
	return v, nil
}

var exprOps = []string{
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "&", "|", "^", "!", "~", "?", ":", "(", ")",
}

func splitExpr(text string) ([]string, error) {
	var toks []string
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
			continue
		case isDigit(c):
			j := skipPPNumber(text, i)
			toks = append(toks, text[i:j])
			i = j
			continue
		case c == '\'':
			j := skipLiteral(text, i)
			toks = append(toks, text[i:j])
			i = j
			continue
		case isIdentStart(c):
			j := i + identLen(text[i:])
			// оставшиеся идентификаторы равны нулю
			if strings.HasPrefix(text[j:], "'") {
				j = skipLiteral(text, j)
				toks = append(toks, text[i:j])
			} else {
				toks = append(toks, "0")
			}
			i = j
			continue
		}
		matched := false
		for _, op := range exprOps {
			if strings.HasPrefix(text[i:], op) {
				toks = append(toks, op)
				i += len(op)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: invalid token %q", ErrInvalidExpression, text[i:i+1])
		}
	}
	return toks, nil
}

type exprParser struct {
	toks []string
	pos  int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *exprParser) ternary() (int64, error) {
	cond, err := p.binary(0)
	if err != nil || p.peek() != "?" {
		return cond, err
	}
	p.pos++
	then, err := p.ternary()
	if err != nil {
		return 0, err
	}
	if p.peek() != ":" {
		return 0, fmt.Errorf("%w: expected ':' in conditional expression", ErrInvalidExpression)
	}
	p.pos++
	otherwise, err := p.ternary()
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return then, nil
	}
	return otherwise, nil
}

var binaryPrec = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (p *exprParser) binary(minPrec int) (int64, error) {
	lhs, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		prec, ok := binaryPrec[op]
		if !ok || prec <= minPrec {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.binary(prec)
		if err != nil {
			return 0, err
		}
		if lhs, err = applyBinary(op, lhs, rhs); err != nil {
			return 0, err
		}
	}
}

func applyBinary(op string, a, b int64) (int64, error) {
	switch op {
	case "||":
		return boolInt(a != 0 || b != 0), nil
	case "&&":
		return boolInt(a != 0 && b != 0), nil
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "&":
		return a & b, nil
	case "==":
		return boolInt(a == b), nil
	case "!=":
		return boolInt(a != b), nil
	case "<":
		return boolInt(a < b), nil
	case ">":
		return boolInt(a > b), nil
	case "<=":
		return boolInt(a <= b), nil
	case ">=":
		return boolInt(a >= b), nil
	case "<<":
		return a << (uint64(b) & 63), nil
	case ">>":
		return a >> (uint64(b) & 63), nil
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	}
	if b == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrInvalidExpression)
	}
	if op == "/" {
		return a / b, nil
	}
	return a % b, nil
}

func (p *exprParser) unary() (int64, error) {
	tok := p.peek()
	switch tok {
	case "":
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrInvalidExpression)
	case "!", "~", "-", "+":
		p.pos++
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch tok {
		case "!":
			return boolInt(v == 0), nil
		case "~":
			return ^v, nil
		case "-":
			return -v, nil
		}
		return v, nil
	case "(":
		p.pos++
		v, err := p.ternary()
		if err != nil {
			return 0, err
		}
		if p.peek() != ")" {
			return 0, fmt.Errorf("%w: missing ')'", ErrInvalidExpression)
		}
		p.pos++
		return v, nil
	}
	p.pos++
	if strings.HasSuffix(tok, "'") {
		return charValue(tok)
	}
	if !isDigit(tok[0]) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, tok)
	}
	return intValue(tok)
}

func intValue(tok string) (int64, error) {
	digits := strings.TrimRight(tok, "uUlL")
	v, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrInvalidExpression, tok)
	}
	return int64(v), nil //nolint:gosec // wraps like unsigned preprocessor arithmetic
}

func charValue(tok string) (int64, error) {
	lit := tok[strings.IndexByte(tok, '\''):]
	if len(lit) < 3 {
		return 0, fmt.Errorf("%w: empty character constant %s", ErrInvalidExpression, tok)
	}
	r, _, _, err := strconv.UnquoteChar(lit[1:len(lit)-1], '\'')
	if err != nil {
		return 0, fmt.Errorf("%w: invalid character constant %s", ErrInvalidExpression, tok)
	}
	return int64(r), nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
