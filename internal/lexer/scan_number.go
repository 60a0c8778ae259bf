package lexer

import (
	"strings"

	"rcc/internal/diag"
	"rcc/internal/token"
)

// scanNumber разбирает целые и вещественные константы C:
// 42, 052, 0x2A, 1.5, .5, 1e-3, 0x1.8p3 и суффиксы u/l/ll/f.
// Отсутствующие цифры экспоненты дают token.Unknown; прочие ошибки
// репортятся, а вид токена сохраняется.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntConst

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := lx.cursor.SkipWhile(isHex)
		if lx.cursor.Eat('.') {
			kind = token.FloatConst
			digits += lx.cursor.SkipWhile(isHex)
		}
		if digits == 0 {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected hexadecimal digits")
		}
		if p := lx.cursor.Peek(); p == 'p' || p == 'P' {
			kind = token.FloatConst
			if !lx.scanExponent() {
				return lx.badExponent(start)
			}
		} else if kind == token.FloatConst {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "hexadecimal floating constant requires an exponent")
		}
	} else {
		lx.cursor.SkipWhile(isDec)
		if lx.cursor.Eat('.') {
			kind = token.FloatConst
			lx.cursor.SkipWhile(isDec)
		}
		if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
			kind = token.FloatConst
			if !lx.scanExponent() {
				return lx.badExponent(start)
			}
		}
		if kind == token.IntConst {
			lx.checkOctal(start)
		}
	}

	sufStart := lx.cursor.Mark()
	lx.cursor.SkipWhile(isIdentContinueByte)
	suffix := string(lx.file.Content[sufStart:lx.cursor.Off])
	if !validSuffix(kind, suffix) {
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(sufStart), "invalid suffix \""+suffix+"\" on numeric constant")
	}
	return lx.emit(kind, start)
}

// scanExponent consumes e/E/p/P, an optional sign and the digits.
func (lx *Lexer) scanExponent() bool {
	lx.cursor.Bump()
	if s := lx.cursor.Peek(); s == '+' || s == '-' {
		lx.cursor.Bump()
	}
	return lx.cursor.SkipWhile(isDec) > 0
}

func (lx *Lexer) badExponent(start Mark) token.Token {
	tok := lx.emit(token.Unknown, start)
	lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
	return tok
}

func (lx *Lexer) checkOctal(start Mark) {
	text := lx.file.Content[start:lx.cursor.Off]
	if len(text) < 2 || text[0] != '0' {
		return
	}
	for _, b := range text[1:] {
		if b == '8' || b == '9' {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "invalid digit '"+string(b)+"' in octal constant")
			return
		}
	}
}

func validSuffix(kind token.Kind, s string) bool {
	if s == "" {
		return true
	}
	if kind == token.FloatConst {
		switch s {
		case "f", "F", "l", "L":
			return true
		}
		return false
	}
	// целые: u и l/ll в любом порядке
	switch {
	case strings.HasPrefix(s, "u"), strings.HasPrefix(s, "U"):
		s = s[1:]
	case strings.HasSuffix(s, "u"), strings.HasSuffix(s, "U"):
		s = s[:len(s)-1]
	}
	switch s {
	case "", "l", "L", "ll", "LL":
		return true
	}
	return false
}
