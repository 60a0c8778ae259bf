package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rcc/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// Flags left at their defaults fall back to the manifest's [trace] table.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Flags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	if m := manifestFrom(cmd.Context()); m != nil {
		if !flags.Changed("trace-level") && m.Trace.Level != "" {
			levelStr = m.Trace.Level
		}
		if !flags.Changed("trace-format") && m.Trace.Format != "" {
			formatStr = m.Trace.Format
		}
		if !flags.Changed("trace") && m.Trace.Output != "" {
			traceOutput = m.Trace.Output
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
	}
	if traceOutput == "" || traceOutput == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		// кольцевой буфер выводится целиком в конце
		if ring := trace.RingOf(tracer); ring != nil && mode == trace.ModeRing {
			w := cmd.ErrOrStderr()
			if n := ring.Dropped(); n > 0 {
				fmt.Fprintf(w, "trace: %d older events dropped\n", n)
			}
			if err := ring.Dump(w, format); err != nil {
				fmt.Fprintf(w, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
