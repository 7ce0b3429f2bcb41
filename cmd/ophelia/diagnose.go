package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ophelia/internal/diag"
	"ophelia/internal/diagfmt"
	"ophelia/internal/driver"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.sy|directory>...",
		Short: "Run diagnostics on source files or directories",
		Long:  `Run diagnostics to find syntax and semantic issues in source files or all *.sy files within a directory`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiagnose,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("require-main", false, "report a missing main function")
	return cmd
}

// fileReport is the JSON form of one file's diagnostics.
type fileReport struct {
	File string `json:"file"`
	diagfmt.DiagnosticsOutput
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	requireMain, err := cmd.Flags().GetBool("require-main")
	if err != nil {
		return fmt.Errorf("failed to get require-main flag: %w", err)
	}

	paths, err := expandSources(args)
	if err != nil {
		return err
	}
	results, err := driver.CompileFiles(cmd.Context(), paths, g.driverOptions(requireMain), jobs)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	if err := driver.Errors(results); err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	hasErrors := false
	var reports []fileReport
	for _, r := range results {
		res := r.Result
		if res.Bag.HasErrors() {
			hasErrors = true
		}
		switch format {
		case "pretty":
			opts := diagfmt.PrettyOpts{Color: g.color, Context: 2, PathMode: pathMode, ShowNotes: withNotes}
			if err := diagfmt.Pretty(out, res.Bag, res.FileSet, opts); err != nil {
				return err
			}
		case "short":
			if text := diag.FormatShort(res.Bag.Items(), res.FileSet, withNotes); text != "" {
				fmt.Fprintln(out, text)
			}
		case "json":
			opts := diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode, IncludeNotes: withNotes}
			reports = append(reports, fileReport{File: res.File.Path, DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, opts)})
		}
		if g.timings && format != "json" {
			if rep, ok := driver.TimingReport(res.Bag); ok {
				printPhaseReport(cmd.ErrOrStderr(), res.File.Path, rep)
			}
		}
	}
	if format == "json" {
		if err := writeReports(out, reports); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	if hasErrors {
		return errDiagnostics
	}
	return nil
}

// writeReports prints a single object for one file and an array otherwise.
func writeReports(w io.Writer, reports []fileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

// expandSources replaces directories in args with the *.sy files below them.
func expandSources(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := driver.ListSources(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		paths = append(paths, files...)
	}
	return paths, nil
}
