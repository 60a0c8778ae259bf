package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rcc/internal/diagfmt"
	"rcc/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.c>",
		Short: "Tokenize a C source file",
		Long:  `Tokenize breaks a C source file, preprocessed unless --no-preprocess is given, into its tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addDiagnosticFlags(cmd)
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	out, err := readDiagOutput(cmd, args)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := out.printDiagnostics(out.diagWriter(cmd, false), result.Bag, result.FileSet); err != nil {
		return err
	}
	printTimings(cmd, args[0], result.Timing)
	if result.File == nil {
		return errReported
	}

	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
