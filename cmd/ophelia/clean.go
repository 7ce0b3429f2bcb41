package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ophelia/internal/project"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove build outputs",
		Long:  "Remove the output directory of the project containing dir. With --cache the compile cache is dropped too.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	targetDir, err := resolveCleanTarget(baseDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	info, err := os.Stat(targetDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if !g.quiet {
			fmt.Fprintf(out, "output directory not found\n")
		}
	case err != nil:
		return fmt.Errorf("failed to stat %q: %w", targetDir, err)
	case !info.IsDir():
		return fmt.Errorf("%q is not a directory", targetDir)
	default:
		if err := os.RemoveAll(targetDir); err != nil {
			return fmt.Errorf("failed to remove %q: %w", targetDir, err)
		}
		if !g.quiet {
			fmt.Fprintf(out, "removed %s\n", targetDir)
		}
	}

	if g.cache != nil {
		if err := g.cache.DropAll(); err != nil {
			return fmt.Errorf("failed to drop cache: %w", err)
		}
		if !g.quiet {
			fmt.Fprintln(out, "cache dropped")
		}
	}
	return nil
}

// resolveCleanTarget returns the output directory for base: the manifest's
// when base is inside a project, base/build otherwise.
func resolveCleanTarget(base string) (string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", base, err)
	}
	if !info.IsDir() {
		base = filepath.Dir(base)
	}
	m, ok, err := project.Find(base)
	if err != nil {
		return "", err
	}
	if ok {
		return m.OutDir(), nil
	}
	return filepath.Join(base, project.DefaultOut), nil
}
