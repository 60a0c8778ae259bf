package lexer

import (
	"fmt"

	"rcc/internal/diag"
	"rcc/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '.'):
		return lx.emit(token.Ellipsis, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlAssign, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrAssign, start)
	case lx.try2('-', '>'):
		return lx.emit(token.Arrow, start)
	case lx.try2('+', '+'):
		return lx.emit(token.PlusPlus, start)
	case lx.try2('-', '-'):
		return lx.emit(token.MinusMinus, start)
	case lx.try2('<', '<'):
		return lx.emit(token.Shl, start)
	case lx.try2('>', '>'):
		return lx.emit(token.Shr, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.emit(token.OrOr, start)
	case lx.try2('*', '='):
		return lx.emit(token.StarAssign, start)
	case lx.try2('/', '='):
		return lx.emit(token.SlashAssign, start)
	case lx.try2('%', '='):
		return lx.emit(token.PercentAssign, start)
	case lx.try2('+', '='):
		return lx.emit(token.PlusAssign, start)
	case lx.try2('-', '='):
		return lx.emit(token.MinusAssign, start)
	case lx.try2('&', '='):
		return lx.emit(token.AmpAssign, start)
	case lx.try2('^', '='):
		return lx.emit(token.CaretAssign, start)
	case lx.try2('|', '='):
		return lx.emit(token.PipeAssign, start)
	case lx.try2('#', '#'):
		return lx.emit(token.HashHash, start)
	}

	if k, ok := punct[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}
	return lx.scanUnknown(start)
}

var punct = map[byte]token.Kind{
	'[': token.LBracket,
	']': token.RBracket,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'.': token.Dot,
	'&': token.Amp,
	'*': token.Star,
	'+': token.Plus,
	'-': token.Minus,
	'~': token.Tilde,
	'!': token.Bang,
	'/': token.Slash,
	'%': token.Percent,
	'<': token.Lt,
	'>': token.Gt,
	'^': token.Caret,
	'|': token.Pipe,
	'?': token.Question,
	':': token.Colon,
	';': token.Semicolon,
	'=': token.Assign,
	',': token.Comma,
	'#': token.Hash,
}

// scanUnknown склеивает подряд идущие неклассифицируемые символы в один
// token.Unknown и репортит их одной диагностикой.
func (lx *Lexer) scanUnknown(start Mark) token.Token {
	lx.bumpRune()
	for !lx.cursor.EOF() && lx.atUnclassifiable() {
		lx.bumpRune()
	}
	tok := lx.emit(token.Unknown, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unexpected character sequence %q", tok.Text))
	return tok
}

func (lx *Lexer) atUnclassifiable() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r >= utf8RuneSelf {
		return !isIdentStartRune(r)
	}
	b := byte(r)
	if isSpace(b) || isIdentContinueByte(b) || b == '"' || b == '\'' {
		return false
	}
	_, isPunct := punct[b]
	return !isPunct
}
