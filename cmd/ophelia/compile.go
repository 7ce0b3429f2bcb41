package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ophelia/internal/diagfmt"
	"ophelia/internal/driver"
)

// errNoBackend is returned by `riscv` after the front end succeeded.
var errNoBackend = errors.New("riscv backend is not available")

func newKoopaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koopa [flags] <file.sy>",
		Short: "Compile a source file to Koopa IR text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := compileOne(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}
			return writeText(cmd.OutOrStdout(), out, res.Program.String())
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("require-main", true, "report a missing main function")
	return cmd
}

func newRiscvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riscv [flags] <file.sy>",
		Short: "Check a source file for the RISC-V target",
		Long:  `Runs the whole front end; code generation for RISC-V is not part of this tool`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := compileOne(cmd, args[0]); err != nil {
				return err
			}
			return errNoBackend
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (unused)")
	cmd.Flags().Bool("require-main", true, "report a missing main function")
	return cmd
}

// compileOne compiles path and prints its diagnostics to stderr. It
// returns errDiagnostics when the file has errors.
func compileOne(cmd *cobra.Command, path string) (*driver.Result, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return nil, err
	}
	requireMain, err := cmd.Flags().GetBool("require-main")
	if err != nil {
		return nil, fmt.Errorf("failed to get require-main flag: %w", err)
	}
	res, err := driver.CompileFile(cmd.Context(), path, g.driverOptions(requireMain))
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	if res.Bag.Len() > 0 {
		opts := diagfmt.PrettyOpts{Color: g.color && isTerminal(stderr), Context: 2, ShowNotes: true}
		if err := diagfmt.Pretty(stderr, res.Bag, res.FileSet, opts); err != nil {
			return nil, err
		}
	}
	if !res.Ok() {
		return nil, errDiagnostics
	}
	return res, nil
}

// writeText writes text to path, or to stdout when path is "" or "-".
func writeText(stdout io.Writer, path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
