package preprocess

import (
	"fmt"

	"rcc/internal/diag"
)

type directive struct {
	// conditional directives run inside skipped groups too.
	conditional bool
	exec        bool
	run         func(st *fileState, args string, ln logicalLine) (string, error)
}

var directives map[string]directive

func init() {
	directives = map[string]directive{
		"define":   {run: (*fileState).define},
		"undef":    {run: (*fileState).undef},
		"include":  {run: (*fileState).include},
		"error":    {run: (*fileState).userError},
		"warning":  {run: (*fileState).userWarning},
		"if":       {conditional: true, run: (*fileState).ifExpr},
		"ifdef":    {conditional: true, run: ifdef(false)},
		"ifndef":   {conditional: true, run: ifdef(true)},
		"elif":     {conditional: true, run: (*fileState).elifExpr},
		"elifdef":  {conditional: true, run: elifdef(false)},
		"elifndef": {conditional: true, run: elifdef(true)},
		"else":     {conditional: true, run: (*fileState).elseBranch},
		"endif":    {conditional: true, run: (*fileState).endif},
		"exec":     {exec: true, run: (*fileState).execCommand},
		"in":       {exec: true, run: (*fileState).pipeIn},
		"endin":    {exec: true, run: (*fileState).pipeEnd},
	}
}

func (st *fileState) define(args string, ln logicalLine) (string, error) {
	m, err := parseDefine(args)
	if err != nil {
		return "", err
	}
	if prev := st.ctx.Macros.Define(m); prev != nil && !prev.Equal(m) {
		st.warn(ln, diag.PPMacroRedefined, fmt.Sprintf("%q redefined", m.Name))
	}
	return "", nil
}

func (st *fileState) undef(args string, _ logicalLine) (string, error) {
	name, err := macroName("#undef", args)
	if err != nil {
		return "", err
	}
	st.ctx.Macros.Undef(name)
	return "", nil
}

func (st *fileState) userError(args string, _ logicalLine) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUserError, args)
}

func (st *fileState) userWarning(args string, ln logicalLine) (string, error) {
	st.warn(ln, diag.PPUserError, "#warning "+args)
	return "", nil
}

func macroName(directive, args string) (string, error) {
	n := identLen(args)
	if n == 0 {
		return "", fmt.Errorf("%w: %s expects a macro name", ErrInvalidDirective, directive)
	}
	if n != len(args) {
		return "", fmt.Errorf("%w: extra tokens at end of %s", ErrInvalidDirective, directive)
	}
	return args[:n], nil
}

// open pushes a new group; eval runs only when the enclosing group is active.
func (st *fileState) open(ln logicalLine, eval func() (bool, error)) (string, error) {
	c := cond{line: ln.line, parentActive: st.ctx.active()}
	if c.parentActive {
		v, err := eval()
		if err != nil {
			return "", err
		}
		c.active, c.taken = v, v
	}
	st.ctx.conds = append(st.ctx.conds, c)
	return "", nil
}

// branch switches the innermost group to an #elif style branch.
func (st *fileState) branch(name string, eval func() (bool, error)) (string, error) {
	n := len(st.ctx.conds)
	if n == 0 {
		return "", fmt.Errorf("%w: #%s without #if", ErrUnexpectedDirective, name)
	}
	c := &st.ctx.conds[n-1]
	if c.sawElse {
		return "", fmt.Errorf("%w: #%s after #else", ErrUnexpectedDirective, name)
	}
	if !c.parentActive || c.taken {
		c.active = false
		return "", nil
	}
	v, err := eval()
	if err != nil {
		return "", err
	}
	c.active, c.taken = v, v
	return "", nil
}

func ifdef(negate bool) func(*fileState, string, logicalLine) (string, error) {
	return func(st *fileState, args string, ln logicalLine) (string, error) {
		return st.open(ln, func() (bool, error) {
			name, err := macroName("#ifdef", args)
			if err != nil {
				return false, err
			}
			return st.ctx.Macros.Defined(name) != negate, nil
		})
	}
}

func elifdef(negate bool) func(*fileState, string, logicalLine) (string, error) {
	return func(st *fileState, args string, _ logicalLine) (string, error) {
		return st.branch("elifdef", func() (bool, error) {
			name, err := macroName("#elifdef", args)
			if err != nil {
				return false, err
			}
			return st.ctx.Macros.Defined(name) != negate, nil
		})
	}
}

func (st *fileState) ifExpr(args string, ln logicalLine) (string, error) {
	return st.open(ln, func() (bool, error) { return st.eval(args, ln) })
}

func (st *fileState) elifExpr(args string, ln logicalLine) (string, error) {
	return st.branch("elif", func() (bool, error) { return st.eval(args, ln) })
}

func (st *fileState) eval(args string, ln logicalLine) (bool, error) {
	text, err := replaceDefined(args, st.ctx.Macros)
	if err != nil {
		return false, err
	}
	e := st.expander(ln)
	e.partial = true
	if text, err = e.expand(text); err != nil {
		return false, err
	}
	v, err := evalExpr(text)
	return v != 0, err
}

func (st *fileState) elseBranch(args string, _ logicalLine) (string, error) {
	if args != "" {
		return "", fmt.Errorf("%w: extra tokens at end of #else", ErrInvalidDirective)
	}
	n := len(st.ctx.conds)
	if n == 0 {
		return "", fmt.Errorf("%w: #else without #if", ErrUnexpectedDirective)
	}
	c := &st.ctx.conds[n-1]
	if c.sawElse {
		return "", fmt.Errorf("%w: #else after #else", ErrUnexpectedDirective)
	}
	c.sawElse = true
	c.active = c.parentActive && !c.taken
	c.taken = true
	return "", nil
}

func (st *fileState) endif(args string, _ logicalLine) (string, error) {
	if args != "" {
		return "", fmt.Errorf("%w: extra tokens at end of #endif", ErrInvalidDirective)
	}
	n := len(st.ctx.conds)
	if n == 0 {
		return "", fmt.Errorf("%w: #endif without #if", ErrUnexpectedDirective)
	}
	st.ctx.conds = st.ctx.conds[:n-1]
	return "", nil
}
