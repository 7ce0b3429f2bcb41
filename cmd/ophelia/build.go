package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ophelia/internal/buildpipeline"
	"ophelia/internal/diagfmt"
	"ophelia/internal/driver"
	"ophelia/internal/project"
	"ophelia/internal/ui"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [dir]",
		Short: "Compile every source file of a project",
		Long: `Build compiles all *.sy files of the project containing dir. Settings come
from ophelia.toml when one is found; otherwise dir itself is the source
directory and outputs go to dir/build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
	cmd.Flags().String("out", "", "output directory (overrides the manifest)")
	cmd.Flags().String("emit", "", "output format (koopa|msgpack)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

// buildConfig is the merged view of the manifest and the command line.
type buildConfig struct {
	name        string
	srcDir      string
	outDir      string
	emit        string
	jobs        int
	maxDiag     int
	requireMain bool
}

func resolveBuildConfig(cmd *cobra.Command, dir string, g globalOptions) (buildConfig, error) {
	cfg := buildConfig{
		name:        filepath.Base(dir),
		srcDir:      dir,
		outDir:      filepath.Join(dir, project.DefaultOut),
		emit:        project.DefaultEmit,
		maxDiag:     g.maxDiagnostics,
		requireMain: true,
	}
	m, ok, err := project.Find(dir)
	if err != nil {
		return cfg, err
	}
	if ok {
		cfg.name = m.Name
		cfg.srcDir = m.SourceDir()
		cfg.outDir = m.OutDir()
		cfg.emit = m.Emit
		cfg.jobs = m.Jobs
		cfg.requireMain = m.RequireMain
		if !cmd.Flags().Changed("max-diagnostics") {
			cfg.maxDiag = m.MaxDiagnostics
		}
	}

	if cmd.Flags().Changed("out") {
		if cfg.outDir, err = cmd.Flags().GetString("out"); err != nil {
			return cfg, fmt.Errorf("failed to get out flag: %w", err)
		}
	}
	if cmd.Flags().Changed("emit") {
		if cfg.emit, err = cmd.Flags().GetString("emit"); err != nil {
			return cfg, fmt.Errorf("failed to get emit flag: %w", err)
		}
	}
	if cmd.Flags().Changed("jobs") {
		if cfg.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return cfg, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	cfg, err := resolveBuildConfig(cmd, dir, g)
	if err != nil {
		return err
	}
	files, err := driver.ListSources(cfg.srcDir)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files in %s", driver.SourceExt, cfg.srcDir)
	}

	opts := g.driverOptions(cfg.requireMain)
	opts.MaxDiagnostics = cfg.maxDiag
	req := &buildpipeline.Request{
		Files:   files,
		Root:    cfg.srcDir,
		OutDir:  cfg.outDir,
		Emit:    buildpipeline.EmitFormat(cfg.emit),
		Jobs:    cfg.jobs,
		Options: opts,
	}

	out := cmd.OutOrStdout()
	var res buildpipeline.Result
	if shouldUseTUI(mode, out) {
		res, err = runBuildWithUI(cmd.Context(), out, "building "+cfg.name, req)
	} else {
		if !g.quiet {
			req.Progress = &ui.LineSink{W: out}
		}
		res, err = buildpipeline.Build(cmd.Context(), req)
	}

	if printErr := printBuildDiagnostics(cmd, res, g); printErr != nil {
		return printErr
	}
	if g.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if errors.Is(err, buildpipeline.ErrDiagnostics) {
		return errDiagnostics
	}
	if err != nil {
		return err
	}
	if !g.quiet {
		fmt.Fprintf(out, "built %d file(s) into %s\n", len(res.Files), cfg.outDir)
	}
	return nil
}

// printBuildDiagnostics prints the diagnostics of failed files to stderr.
func printBuildDiagnostics(cmd *cobra.Command, res buildpipeline.Result, g globalOptions) error {
	stderr := cmd.ErrOrStderr()
	for _, f := range res.Files {
		if f.Result == nil || !f.Result.Bag.HasErrors() {
			continue
		}
		opts := diagfmt.PrettyOpts{Color: g.color && isTerminal(stderr), Context: 2, ShowNotes: true}
		if err := diagfmt.Pretty(stderr, f.Result.Bag, f.Result.FileSet, opts); err != nil {
			return err
		}
	}
	return nil
}

// displayPaths normalizes paths the same way build events report them.
func displayPaths(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(filepath.Clean(f))
	}
	return out
}
