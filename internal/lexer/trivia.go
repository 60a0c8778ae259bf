package lexer

import (
	"rcc/internal/diag"
)

// skipTrivia пропускает всё, что не попадает в поток токенов:
//   - пробелы, табы, \r, \v, \f и переводы строк
//   - склейку строк "\\\n"
//   - комментарии // ... и /* ... */
//   - строки препроцессора, начинающиеся с '#' (маркеры строк, #pragma)
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n':
			lx.cursor.Bump()
			lx.lineStart = true
		case isSpace(b):
			lx.cursor.Bump()
		case b == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '/' && lx.skipComment():
		case b == '#' && lx.lineStart:
			lx.skipLine()
		default:
			return
		}
	}
}

// skipComment consumes a comment at the cursor and reports whether there was one.
func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return true
			}
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		return true
	}
	return false
}

// skipLine consumes up to, not including, the end of a logical line.
func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			return
		}
		lx.cursor.Bump()
		if b == '\\' && lx.cursor.Peek() == '\n' {
			lx.cursor.Bump()
		}
	}
}
