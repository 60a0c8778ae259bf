package lexer

import (
	"rcc/internal/diag"
	"rcc/internal/token"
)

// scanQuoted сканирует строковый или символьный литерал, курсор стоит на кавычке.
// start may lie before the cursor when an encoding prefix was consumed.
// Escapes are skipped, not validated. A newline or EOF before the closing
// quote yields token.Unknown up to that point plus a diagnostic.
func (lx *Lexer) scanQuoted(start Mark, quote byte) token.Token {
	kind, code, what := token.StringLit, diag.LexUnterminatedString, "string literal"
	if quote == '\'' {
		kind, code, what = token.CharConst, diag.LexUnterminatedChar, "character constant"
	}

	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case quote:
			lx.cursor.Bump()
			return lx.emit(kind, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			lx.cursor.Bump()
		case '\n':
			tok := lx.emit(token.Unknown, start)
			lx.errLex(code, tok.Span, "missing terminating "+string(quote)+" in "+what)
			return tok
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Unknown, start)
	lx.errLex(code, tok.Span, "unterminated "+what)
	return tok
}
