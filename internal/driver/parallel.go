package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"rcc/internal/diag"
	"rcc/internal/source"
	"rcc/internal/syntax"
	"rcc/internal/trace"
)

// DefaultSourcePatterns select the files ParseDir visits when
// Options.Include is empty.
var DefaultSourcePatterns = []string{"**/*.c", "**/*.h"}

// FileResult is the outcome for one file of a directory run.
type FileResult struct {
	// Path is relative to the directory given to ParseDir, slash separated.
	Path string
	*ParseResult
}

// Summary aggregates a directory run.
type Summary struct {
	Files      int `json:"files"`
	WithErrors int `json:"with_errors"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	// Failed counts files that produced no tree.
	Failed int `json:"failed"`
	// Functions and Declarations count top level function definitions and
	// declarations across all trees.
	Functions    int `json:"functions"`
	Declarations int `json:"declarations"`
}

// Summarize folds per-file results into a Summary. Entries without a
// result, left behind by a cancelled run, are skipped.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		if r.ParseResult == nil {
			continue
		}
		s.Files++
		if r.Tree == nil {
			s.Failed++
		} else {
			s.Functions += r.Tree.CountChildren(syntax.FunctionDef)
			s.Declarations += r.Tree.CountChildren(syntax.Declaration)
		}
		errs := 0
		for _, d := range r.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				s.Warnings++
			}
		}
		s.Errors += errs
		if errs > 0 {
			s.WithErrors++
		}
	}
	return s
}

// ListSources возвращает отсортированный список файлов в dir, подходящих под
// include и не подходящих под exclude. Пути относительны dir.
func ListSources(dir string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultSourcePatterns
	}
	for _, pattern := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid source pattern %q", pattern)
		}
	}
	fsys := os.DirFS(dir)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup || excluded(m, exclude) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

func excluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

const heartbeatInterval = 2 * time.Second

// ParseDir парсит все исходники в директории параллельно. Every file gets
// its own preprocessor context and bag; the FileSet is shared. A file that
// cannot be read yields an IOLoadFileError diagnostic, not an error. The
// returned error is the context's when the run was cancelled.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := ListSources(dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "parse_dir")
	span.WithExtra("dir", dir)
	var finished atomic.Int64
	hb := trace.StartHeartbeat(trace.FromContext(ctx), heartbeatInterval, span.ID(), func() string {
		return fmt.Sprintf("%d/%d files", finished.Load(), len(files))
	})
	defer hb.Stop()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u := newUnit(gctx, fileSet, filepath.Join(dir, filepath.FromSlash(rel)), opts)
			res, err := parseUnit(u)
			switch {
			case err == nil, errors.Is(err, errStopped):
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				diag.ReportError(u.reporter, diag.IOLoadFileError, source.NoSpan(),
					fmt.Sprintf("%s: failed to load file: %v", rel, err)).Emit()
			}
			results[i] = FileResult{Path: rel, ParseResult: res}
			finished.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return fileSet, results, err
	}
	span.End(fmt.Sprintf("%d files", len(files)))
	return fileSet, results, nil
}

// ReadDirError wraps a directory listing failure as a diagnostic.
func ReadDirError(dir string, err error) diag.Diagnostic {
	return diag.NewError(diag.IOReadDirError, source.NoSpan(), fmt.Sprintf("%s: %v", dir, err))
}
