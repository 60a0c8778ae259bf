package lexer

import (
	"rcc/internal/diag"
	"rcc/internal/source"
)

// maxTokenLength bounds a single lexeme. Longer runs are still returned, as
// token.Unknown, with a LexTokenTooLong diagnostic.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируем, но продолжаем лексить
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
