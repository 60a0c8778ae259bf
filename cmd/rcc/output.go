package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rcc/internal/diag"
	"rcc/internal/diagfmt"
	"rcc/internal/observ"
	"rcc/internal/source"
	"rcc/internal/version"
)

// diagOutput describes how diagnostics are printed.
type diagOutput struct {
	format   string // pretty|short|json|sarif
	pathMode diagfmt.PathMode
	notes    bool
	args     []string
}

func addDiagnosticFlags(cmd *cobra.Command) {
	cmd.Flags().String("diagnostics-format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().Bool("notes", true, "print diagnostic notes")
}

func readDiagOutput(cmd *cobra.Command, args []string) (diagOutput, error) {
	var out diagOutput
	var err error
	if out.format, err = cmd.Flags().GetString("diagnostics-format"); err != nil {
		return out, err
	}
	switch out.format {
	case "pretty", "short", "json", "sarif":
	default:
		return out, fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json|sarif)", out.format)
	}
	mode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return out, err
	}
	if out.pathMode, err = parsePathMode(mode); err != nil {
		return out, err
	}
	if out.notes, err = cmd.Flags().GetBool("notes"); err != nil {
		return out, err
	}
	out.args = append([]string{cmd.CommandPath()}, args...)
	return out, nil
}

func parsePathMode(s string) (diagfmt.PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute", "abs":
		return diagfmt.PathModeAbsolute, nil
	case "relative", "rel":
		return diagfmt.PathModeRelative, nil
	case "basename", "base":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
	}
}

// printDiagnostics writes bag to w. Pretty output is skipped for an empty
// bag; the structured formats always emit a document.
func (o diagOutput) printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	switch o.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			IncludeNotes:     o.notes,
		})
	case "short":
		baseDir := ""
		if o.pathMode == diagfmt.PathModeRelative {
			baseDir, _ = os.Getwd()
		}
		text := diag.FormatGoldenDiagnostics(bag.Items(), fs, baseDir, o.notes)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "rcc",
			ToolVersion:    version.Version,
			InvocationArgs: o.args,
		})
	default:
		if bag.Len() == 0 && bag.Dropped() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(),
			Context:   1,
			PathMode:  o.pathMode,
			ShowNotes: o.notes,
		})
		return nil
	}
}

// diagWriter picks stdout for structured formats when nothing else is
// printed there, and stderr otherwise.
func (o diagOutput) diagWriter(cmd *cobra.Command, exclusive bool) io.Writer {
	if o.format != "pretty" && exclusive {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

func printTimings(cmd *cobra.Command, label string, report observ.Report) {
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil || !timings || len(report.Phases) == 0 {
		return
	}
	_ = report.Write(cmd.ErrOrStderr(), label)
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Flags().GetBool("quiet")
	return err == nil && q
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
