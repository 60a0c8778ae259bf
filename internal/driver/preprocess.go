package driver

import (
	"context"

	"rcc/internal/diag"
	"rcc/internal/source"
)

type PreprocessResult struct {
	FileSet *source.FileSet
	// File holds the expanded text under the original path.
	File *source.File
	Text string
	Bag  *diag.Bag
}

// Preprocess expands path regardless of opts.Preprocess.
func Preprocess(ctx context.Context, path string, opts Options) (*PreprocessResult, error) {
	opts.Preprocess = true
	u := newUnit(ctx, source.NewFileSet(), path, opts)
	err := u.load()
	u.finish(err)
	res := &PreprocessResult{FileSet: u.fs, File: u.file, Text: u.text, Bag: u.bag}
	return res, public(err)
}
