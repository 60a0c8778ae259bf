package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rcc/internal/driver"
	"rcc/internal/project"
)

type manifestKey struct{}

// loadManifest finds rcc.toml for the first argument (or --config) and
// keeps it in the command context.
func loadManifest(cmd *cobra.Command, args []string) error {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	var m *project.Manifest
	switch {
	case explicit != "":
		m, err = project.LoadManifest(explicit)
	case len(args) > 0 && cmd.Name() != "version":
		m, err = project.FindAndLoad(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, manifestKey{}, m))
	return nil
}

func manifestFrom(ctx context.Context) *project.Manifest {
	m, _ := ctx.Value(manifestKey{}).(*project.Manifest)
	return m
}

// driverOptions collects the flags shared by every command and merges the
// manifest under them.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	flags := cmd.Flags()
	var (
		opts driver.Options
		err  error
	)
	if opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.IncludeDirs, err = flags.GetStringSlice("include"); err != nil {
		return opts, err
	}
	if opts.Defines, err = flags.GetStringArray("define"); err != nil {
		return opts, err
	}
	if opts.AllowExec, err = flags.GetBool("allow-exec"); err != nil {
		return opts, err
	}
	if opts.MaxIncludeDepth, err = flags.GetInt("max-include-depth"); err != nil {
		return opts, err
	}
	if opts.Typedefs, err = flags.GetStringSlice("typedef"); err != nil {
		return opts, err
	}
	noPreprocess, err := flags.GetBool("no-preprocess")
	if err != nil {
		return opts, err
	}

	m := manifestFrom(cmd.Context())
	opts = opts.FromManifest(m)
	opts.Preprocess = !noPreprocess && (m == nil || m.PreprocessEnabled())

	useCache, err := flags.GetBool("cache")
	if err != nil {
		return opts, err
	}
	if useCache {
		if opts.Cache, err = driver.OpenCache("rcc"); err != nil {
			return opts, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return opts, nil
}
