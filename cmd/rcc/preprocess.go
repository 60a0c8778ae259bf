package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rcc/internal/driver"
)

func newPreprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess [flags] <file.c>",
		Short: "Expand macros and includes and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreprocess,
	}
	cmd.Flags().StringP("output", "o", "", "write the expanded text to this file instead of stdout")
	addDiagnosticFlags(cmd)
	return cmd
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	out, err := readDiagOutput(cmd, args)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	result, err := driver.Preprocess(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("preprocessing failed: %w", err)
	}
	if err := out.printDiagnostics(out.diagWriter(cmd, false), result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.File == nil {
		return errReported
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, result.Text); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
