package driver

import (
	"context"

	"rcc/internal/diag"
	"rcc/internal/observ"
	"rcc/internal/source"
	"rcc/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	// File is the lexed file: the expanded text when preprocessing ran.
	// It is nil when preprocessing failed.
	File   *source.File
	Tokens []token.Token
	Bag    *diag.Bag
	Timing observ.Report
}

// Tokenize loads path and lexes it. Only a read failure or cancellation is
// returned as an error; everything else is a diagnostic in the bag.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	u := newUnit(ctx, source.NewFileSet(), path, opts)
	err := u.load()
	if err == nil {
		err = u.lex()
	}
	u.finish(err)
	res := &TokenizeResult{FileSet: u.fs, File: u.file, Tokens: u.tokens, Bag: u.bag, Timing: u.timer.Report()}
	return res, public(err)
}
