package preprocess

import (
	"errors"
	"fmt"

	"rcc/internal/diag"
	"rcc/internal/source"
)

var (
	ErrUnterminatedIf      = errors.New("unterminated conditional directive")
	ErrUnexpectedDirective = errors.New("unexpected directive")
	ErrInvalidDirective    = errors.New("invalid directive")
	ErrIncludeNotFound     = errors.New("include file not found")
	ErrIncludeDepth        = errors.New("#include nested too deeply")
	ErrExecDisabled        = errors.New("command execution is disabled")
	ErrExecFailed          = errors.New("command failed")
	ErrInvalidEncoding     = errors.New("invalid source encoding")
	ErrUserError           = errors.New("#error")
	ErrMacroArgs           = errors.New("wrong macro arguments")
	ErrInvalidExpression   = errors.New("invalid #if expression")
)

// Error locates a fatal preprocessing error. Errors raised inside an
// included file keep the location of that file.
type Error struct {
	File string
	Line int
	// Span covers the offending line when the Context has a FileSet.
	Span source.Span
	Err  error
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code maps the error onto a diagnostic code.
func (e *Error) Code() diag.Code {
	switch {
	case errors.Is(e.Err, ErrUnterminatedIf):
		return diag.PPUnterminatedIf
	case errors.Is(e.Err, ErrUnexpectedDirective):
		return diag.PPUnexpectedDirective
	case errors.Is(e.Err, ErrIncludeNotFound):
		return diag.PPIncludeNotFound
	case errors.Is(e.Err, ErrIncludeDepth):
		return diag.PPIncludeDepth
	case errors.Is(e.Err, ErrExecDisabled):
		return diag.PPExecDisabled
	case errors.Is(e.Err, ErrExecFailed):
		return diag.PPExecFailed
	case errors.Is(e.Err, ErrInvalidEncoding):
		return diag.PPInvalidEncoding
	case errors.Is(e.Err, ErrUserError):
		return diag.PPUserError
	case errors.Is(e.Err, ErrMacroArgs):
		return diag.PPMacroArgs
	case errors.Is(e.Err, ErrInvalidExpression):
		return diag.PPInvalidExpression
	}
	return diag.PPInvalidDirective
}
