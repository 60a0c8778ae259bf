package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rcc/internal/diag"
	"rcc/internal/grammar"
	"rcc/internal/lexer"
	"rcc/internal/observ"
	"rcc/internal/preprocess"
	"rcc/internal/source"
	"rcc/internal/syntax"
	"rcc/internal/token"
	"rcc/internal/trace"
)

// errStopped ends a pipeline whose failure is already in the bag.
var errStopped = errors.New("pipeline stopped")

// public hides errStopped from callers.
func public(err error) error {
	if errors.Is(err, errStopped) {
		return nil
	}
	return err
}

// unit carries one file through the pipeline.
type unit struct {
	ctx      context.Context
	opts     Options
	path     string
	fs       *source.FileSet
	bag      *diag.Bag
	reporter *diag.DedupReporter
	timer    *observ.Timer
	tracer   trace.Tracer
	span     *trace.Span

	file *source.File
	// text is the preprocessor output when preprocessing ran.
	text   string
	tokens []token.Token
}

func newUnit(ctx context.Context, fs *source.FileSet, path string, opts Options) *unit {
	tracer := trace.FromContext(ctx)
	bag := diag.NewBag(opts.maxDiagnostics())
	return &unit{
		ctx:      ctx,
		opts:     opts,
		path:     path,
		fs:       fs,
		bag:      bag,
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		timer:    observ.NewTimer(),
		tracer:   tracer,
		span: trace.Begin(tracer, trace.ScopeFile, "file", trace.CurrentSpan(ctx).SpanID).
			WithExtra("path", path),
	}
}

// stage runs fn as one timed, traced and observed step.
func (u *unit) stage(s Stage, fn func(parent uint64) (string, error)) error {
	if err := u.ctx.Err(); err != nil {
		return err
	}
	u.opts.Observer.emit(Event{File: u.path, Stage: s, Status: StatusStart})
	idx := u.timer.Begin(s.String())
	span := trace.Begin(u.tracer, trace.ScopePass, s.String(), u.span.ID())
	start := time.Now()

	note, err := fn(span.ID())

	u.timer.End(idx, note)
	ev := Event{File: u.path, Stage: s, Status: StatusDone, Elapsed: time.Since(start), Errors: u.errorCount()}
	if err != nil {
		ev.Status = StatusFailed
		span.End("failed")
	} else {
		span.End(note)
	}
	u.opts.Observer.emit(ev)
	return err
}

func (u *unit) errorCount() int {
	n := 0
	for _, d := range u.bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

// load reads the file, running the preprocessor when enabled. Read
// failures are returned; preprocessing failures land in the bag.
func (u *unit) load() error {
	if !u.opts.Preprocess {
		return u.stage(StageLoad, func(uint64) (string, error) {
			id, err := u.fs.Load(u.path)
			if err != nil {
				return "", err
			}
			u.file = u.fs.Get(id)
			return strconv.Itoa(len(u.file.Content)) + " bytes", nil
		})
	}
	return u.stage(StagePreprocess, func(parent uint64) (string, error) {
		pc, err := u.opts.newPreprocessContext(u.path, u.reporter, u.tracer, parent)
		if err != nil {
			diag.ReportError(u.reporter, diag.PPInvalidDirective, source.NoSpan(), err.Error()).Emit()
			return "", errStopped
		}
		pc.Files = u.fs
		text, err := preprocess.ProcessFile(pc, u.path)
		if err != nil {
			var ppErr *preprocess.Error
			if !errors.As(err, &ppErr) {
				return "", err
			}
			msg, at := ppErr.Err.Error(), ppErr.Span
			if u.fs.Get(at.File) == nil || ppErr.Line == 0 {
				msg, at = ppErr.Error(), source.NoSpan()
			}
			diag.ReportError(u.reporter, ppErr.Code(), at, msg).Emit()
			return "", errStopped
		}
		u.text = text
		u.file = u.fs.Get(u.fs.Add(u.path, []byte(text), source.FileExpanded))
		return strconv.Itoa(len(text)) + " bytes", nil
	})
}

// lex fills u.tokens, consulting the cache first.
func (u *unit) lex() error {
	return u.stage(StageLex, func(uint64) (string, error) {
		cache := u.opts.Cache
		if cache != nil {
			key := cache.Key(u.file, u.opts)
			tokens, diags, ok, err := cache.Get(key, u.file.ID)
			if err != nil {
				diag.ReportWarning(u.reporter, diag.IOCacheError, source.NoSpan(), "token cache: "+err.Error()).Emit()
			}
			if ok {
				u.tokens = tokens
				for _, d := range diags {
					u.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, nil)
				}
				return strconv.Itoa(len(tokens)) + " tokens (cached)", nil
			}
		}

		lexBag := diag.NewBag(0)
		u.tokens = lexer.Lex(u.file, lexer.Options{Reporter: diag.BagReporter{Bag: lexBag}})
		for _, d := range lexBag.Items() {
			u.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
		if cache != nil {
			if err := cache.Put(cache.Key(u.file, u.opts), u.tokens, lexBag.Items()); err != nil {
				diag.ReportWarning(u.reporter, diag.IOCacheError, source.NoSpan(), "token cache: "+err.Error()).Emit()
			}
		}
		return strconv.Itoa(len(u.tokens)) + " tokens", nil
	})
}

// parse runs the grammar. An engine panic becomes a SynInternal
// diagnostic and a nil tree.
func (u *unit) parse() (res grammar.Result, err error) {
	err = u.stage(StageParse, func(parent uint64) (note string, err error) {
		defer func() {
			if r := recover(); r != nil {
				res = grammar.Result{}
				at := source.Point(u.file.ID, 0)
				if len(u.tokens) > 0 {
					at = u.tokens[len(u.tokens)-1].Span
				}
				diag.ReportError(u.reporter, diag.SynInternal, at, fmt.Sprintf("parser failure: %v", r)).Emit()
				err = errStopped
			}
		}()
		res = grammar.Parse(u.tokens, grammar.Options{
			Syntax:   syntax.Options{Fuel: u.opts.Fuel, Tracer: u.tracer, ParentSpan: parent},
			Typedefs: u.opts.Typedefs,
		})
		for _, e := range res.Errors {
			diag.ReportError(u.reporter, grammar.Code(e.Message), e.Span, e.Message).Emit()
		}
		return fmt.Sprintf("%d errors", len(res.Errors)), nil
	})
	return res, err
}

// finish closes the file span and orders the bag.
func (u *unit) finish(err error) {
	u.bag.Sort()
	if n := u.reporter.Suppressed(); n > 0 {
		u.span.WithExtra("duplicates", strconv.Itoa(n))
	}
	switch {
	case err == nil:
		u.span.End("ok")
	default:
		u.span.End(err.Error())
	}
}
