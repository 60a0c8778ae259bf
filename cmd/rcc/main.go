package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rcc/internal/prof"
	"rcc/internal/version"
)

// errReported is returned when the command ran but diagnostics with
// error severity were printed. main exits with status 1 without echoing it.
var errReported = errors.New("errors were reported")

// newRootCmd builds the command tree. The returned cleanup flushes the
// tracer and stops the profilers set up by the pre-run hook; cobra skips
// post-run hooks when RunE fails, so callers run it themselves.
func newRootCmd() (*cobra.Command, func()) {
	var (
		cleanup  func()
		profiles *prof.Session
	)
	rootCmd := &cobra.Command{
		Use:           "rcc",
		Short:         "Resilient C front-end",
		Long:          `rcc preprocesses, tokenizes and parses C sources into lossless syntax trees, reporting every error it can recover from`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupColor(cmd); err != nil {
				return err
			}
			if err := loadManifest(cmd, args); err != nil {
				return err
			}
			var err error
			if profiles, err = startProfiles(cmd); err != nil {
				return err
			}
			cleanup, err = setupTracing(cmd)
			return err
		},
	}

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = rcc.toml or 100)")
	flags.StringSliceP("include", "I", nil, "add a directory to the include search path")
	flags.StringArrayP("define", "D", nil, "define a macro (NAME or NAME=VALUE)")
	flags.Bool("allow-exec", false, "allow #exec and #in directives to run commands")
	flags.Bool("no-preprocess", false, "lex the input without running the preprocessor")
	flags.Int("max-include-depth", 0, "maximum #include nesting (0 = default)")
	flags.StringSlice("typedef", nil, "predeclare a typedef name")
	flags.Bool("cache", false, "reuse token streams from the on-disk cache")
	flags.String("config", "", "path to rcc.toml (default: search upwards from the input)")
	flags.String("trace", "", "write trace events to this file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "text", "trace format (text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.AddCommand(newPreprocessCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, func() {
		if cleanup != nil {
			cleanup()
		}
		if err := profiles.Stop(); err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}
}

func startProfiles(cmd *cobra.Command) (*prof.Session, error) {
	var (
		cfg prof.Config
		err error
	)
	if cfg.CPU, err = cmd.Flags().GetString("cpuprofile"); err != nil {
		return nil, err
	}
	if cfg.Mem, err = cmd.Flags().GetString("memprofile"); err != nil {
		return nil, err
	}
	if cfg.Trace, err = cmd.Flags().GetString("runtime-trace"); err != nil {
		return nil, err
	}
	return prof.Start(cfg)
}

// execute runs the CLI with args and the given output streams.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "rcc: %v\n", err)
		}
		os.Exit(1)
	}
}

// setupColor resolves --color and applies it to fatih/color globally.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(cmd.ErrOrStderr())
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func useColor() bool { return !color.NoColor }

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
