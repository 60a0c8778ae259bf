package driver

import (
	"context"
	"slices"

	"rcc/internal/diag"
	"rcc/internal/grammar"
	"rcc/internal/observ"
	"rcc/internal/source"
	"rcc/internal/syntax"
	"rcc/internal/token"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	// Tree is nil when the file could not be preprocessed or the parser
	// failed internally.
	Tree   *syntax.Tree
	Errors []syntax.Error
	Bag    *diag.Bag
	Timing observ.Report
}

// Parse runs the whole pipeline on one file.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	res, err := parseUnit(newUnit(ctx, source.NewFileSet(), path, opts))
	return res, public(err)
}

func parseUnit(u *unit) (*ParseResult, error) {
	err := u.load()
	if err == nil {
		err = u.lex()
	}
	res := &ParseResult{FileSet: u.fs}
	if err == nil {
		var pr grammar.Result
		pr, err = u.parse()
		res.Tree, res.Errors = pr.Tree, pr.Errors
	}
	u.finish(err)
	res.File, res.Tokens, res.Bag, res.Timing = u.file, u.tokens, u.bag, u.timer.Report()
	return res, err
}

// NodePath returns the nodes whose spans cover byte offset off of the parsed
// text, root first. It is empty when there is no tree or off is past the
// last token.
func (r *ParseResult) NodePath(off uint32) []*syntax.Tree {
	if r.Tree == nil {
		return nil
	}
	return syntax.NewIndex(r.Tree).PathAt(off)
}

// TokenAt returns the token covering off, or nil.
func (r *ParseResult) TokenAt(off uint32) *token.Token {
	i, found := slices.BinarySearchFunc(r.Tokens, off, func(t token.Token, off uint32) int {
		switch {
		case t.Span.End <= off:
			return -1
		case t.Span.Start > off:
			return 1
		}
		return 0
	})
	if !found || !r.Tokens[i].Span.Contains(off) {
		return nil
	}
	return &r.Tokens[i]
}
