package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ophelia/internal/driver"
)

// globalOptions are the persistent flags every command shares.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	cache          *driver.DiskCache
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	var opts globalOptions
	root := cmd.Root()

	colorFlag, err := root.PersistentFlags().GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		opts.color = true
	case "off":
		opts.color = false
	case "auto", "":
		opts.color = isTerminal(cmd.OutOrStdout())
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	if opts.quiet, err = root.PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = root.PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.maxDiagnostics, err = root.PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.maxDiagnostics < 0 {
		return opts, fmt.Errorf("--max-diagnostics must be >= 0")
	}
	useCache, err := root.PersistentFlags().GetBool("cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		if opts.cache, err = driver.OpenDiskCache("ophelia"); err != nil {
			return opts, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return opts, nil
}

// driverOptions builds compile options from the global flags.
func (g globalOptions) driverOptions(requireMain bool) driver.Options {
	return driver.Options{
		MaxDiagnostics: g.maxDiagnostics,
		RequireMain:    requireMain,
		Timings:        g.timings,
		Cache:          g.cache,
	}
}
