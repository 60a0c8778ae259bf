package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"rcc/internal/diag"
	"rcc/internal/diagfmt"
	"rcc/internal/driver"
	"rcc/internal/observ"
	"rcc/internal/source"
	"rcc/internal/ui"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.c|directory>",
		Short: "Parse a C source file or directory and print its syntax tree",
		Long: `Parse builds a lossless syntax tree for a C source file, or for every
matching file in a directory, and reports all syntax errors it recovers from`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	names := make([]string, len(diagfmt.TreeFormats))
	for i, f := range diagfmt.TreeFormats {
		names[i] = string(f)
	}
	cmd.Flags().String("format", string(diagfmt.TreeFormatPretty), "output format ("+strings.Join(names, "|")+")")
	cmd.Flags().Bool("errors-only", false, "print diagnostics only, no trees")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().String("progress", "auto", "show a progress view for directories (auto|on|off)")
	cmd.Flags().Int("node-at", -1, "print the nodes covering this byte offset of the parsed text instead of the tree")
	addDiagnosticFlags(cmd)
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format := diagfmt.TreeFormat(formatName)
	if !slices.Contains(diagfmt.TreeFormats, format) {
		return fmt.Errorf("unknown format: %s", formatName)
	}
	errorsOnly, err := cmd.Flags().GetBool("errors-only")
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Jobs == 0 {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return err
		}
	}
	nodeAt, err := cmd.Flags().GetInt("node-at")
	if err != nil {
		return err
	}
	out, err := readDiagOutput(cmd, args)
	if err != nil {
		return err
	}

	if isDir(args[0]) {
		if nodeAt >= 0 {
			return fmt.Errorf("--node-at needs a single file, %s is a directory", args[0])
		}
		return parseDirectory(cmd, args[0], opts, out, format, errorsOnly)
	}

	result, err := driver.Parse(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := out.printDiagnostics(out.diagWriter(cmd, errorsOnly), result.Bag, result.FileSet); err != nil {
		return err
	}
	printTimings(cmd, args[0], result.Timing)
	if nodeAt >= 0 && result.Tree != nil {
		if err := printNodePath(cmd.OutOrStdout(), result, nodeAt); err != nil {
			return err
		}
	} else if !errorsOnly && result.Tree != nil {
		if err := diagfmt.FormatTree(cmd.OutOrStdout(), result.Tree, format, useColor()); err != nil {
			return err
		}
	}
	if result.Tree == nil || result.Bag.HasErrors() {
		return errReported
	}
	return nil
}

// printNodePath prints the nodes covering off, one per line and indented by
// depth, followed by the token under off.
func printNodePath(w io.Writer, result *driver.ParseResult, off int) error {
	if int64(off) > math.MaxUint32 {
		return fmt.Errorf("offset %d out of range", off)
	}
	at := uint32(off)
	path := result.NodePath(at)
	if len(path) == 0 {
		return fmt.Errorf("no node covers offset %d", off)
	}
	for depth, n := range path {
		start, _ := result.FileSet.Resolve(n.Span)
		if _, err := fmt.Fprintf(w, "%s%s %d..%d (line %d)\n",
			strings.Repeat("  ", depth), n.Kind, n.Span.Start, n.Span.End, start.Line); err != nil {
			return err
		}
	}
	if tok := result.TokenAt(at); tok != nil {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", len(path)), tok); err != nil {
			return err
		}
	}
	return nil
}

func parseDirectory(cmd *cobra.Command, dir string, opts driver.Options, out diagOutput, format diagfmt.TreeFormat, errorsOnly bool) error {
	progressMode, err := cmd.Flags().GetString("progress")
	if err != nil {
		return err
	}
	showProgress := false
	switch progressMode {
	case "on":
		showProgress = true
	case "auto":
		showProgress = !quiet(cmd) && isTerminal(cmd.ErrOrStderr())
	case "off":
	default:
		return fmt.Errorf("invalid --progress value %q (expected auto|on|off)", progressMode)
	}

	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if showProgress {
		fs, results, err = parseDirWithProgress(cmd, dir, opts)
	} else {
		fs, results, err = driver.ParseDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// Результаты уже отсортированы по пути
	w := out.diagWriter(cmd, errorsOnly)
	if out.format == "pretty" {
		for _, r := range results {
			if err := out.printDiagnostics(w, r.Bag, fs); err != nil {
				return err
			}
		}
	} else {
		merged := diag.NewBag(0)
		for _, r := range results {
			merged.Merge(r.Bag)
		}
		if err := out.printDiagnostics(w, merged, fs); err != nil {
			return err
		}
	}

	if !errorsOnly {
		trees := make([]diagfmt.FileTree, len(results))
		for i, r := range results {
			trees[i] = diagfmt.FileTree{Path: r.Path, Tree: r.Tree}
		}
		if err := diagfmt.FormatTrees(cmd.OutOrStdout(), trees, format, useColor(), quiet(cmd)); err != nil {
			return err
		}
	}

	reports := make([]observ.Report, len(results))
	for i, r := range results {
		reports[i] = r.Timing
	}
	printTimings(cmd, dir, observ.Merge(reports...))

	sum := driver.Summarize(results)
	if !quiet(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "parsed %d files (%d functions, %d declarations): %d with errors, %d errors, %d warnings\n",
			sum.Files, sum.Functions, sum.Declarations, sum.WithErrors, sum.Errors, sum.Warnings)
	}
	if sum.Errors > 0 || sum.Failed > 0 {
		return errReported
	}
	return nil
}

// parseDirWithProgress runs ParseDir while a Bubble Tea view renders the
// observer events on stderr.
func parseDirWithProgress(cmd *cobra.Command, dir string, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListSources(dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 64)
	opts.Observer = func(ev driver.Event) { events <- ev }

	type outcome struct {
		fs      *source.FileSet
		results []driver.FileResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		fs, results, err := driver.ParseDir(cmd.Context(), dir, opts)
		close(events)
		done <- outcome{fs, results, err}
	}()

	uiErr := ui.RunProgress(cmd.ErrOrStderr(), "parsing "+dir, dir, files, events)
	if uiErr != nil {
		// вывод сломан, но разбор должен завершиться
		go func() {
			for range events {
			}
		}()
	}
	res := <-done
	if res.err == nil && uiErr != nil {
		res.err = fmt.Errorf("progress view: %w", uiErr)
	}
	return res.fs, res.results, res.err
}
