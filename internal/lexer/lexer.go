package lexer

import (
	"fmt"

	"rcc/internal/diag"
	"rcc/internal/source"
	"rcc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	// lineStart is true while only blanks were seen on the current line,
	// so a '#' here begins a line marker or directive.
	lineStart bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		lineStart: true,
	}
}

// Lex scans the whole file. The result always ends with exactly one EOF token.
func Lex(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		// Unicode идентификаторы и префиксы литералов (L"", u8"") разбирает scanIdentOrKeyword
		tok = lx.scanIdentOrKeyword()

	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanQuoted(lx.cursor.Mark(), '"')

	case ch == '\'':
		tok = lx.scanQuoted(lx.cursor.Mark(), '\'')

	default:
		tok = lx.scanOperatorOrPunct()
	}
	lx.lineStart = false

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span,
			fmt.Sprintf("token is %d bytes long; the limit is %d", tok.Span.Len(), maxTokenLength))
		tok.Kind = token.Unknown
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Point(lx.file.ID, lx.cursor.Off)
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
