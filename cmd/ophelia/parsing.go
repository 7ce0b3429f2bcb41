package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ophelia/internal/ast"
	"ophelia/internal/diagfmt"
	"ophelia/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.sy>",
		Short: "Parse a source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|tree)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		stderr := cmd.ErrOrStderr()
		opts := diagfmt.PrettyOpts{Color: g.color && isTerminal(stderr), Context: 2}
		if err := diagfmt.Pretty(stderr, result.Bag, result.FileSet, opts); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = ast.Dump(out, result.Unit)
	case "tree":
		err = diagfmt.FormatASTTree(out, result.Unit, result.FileSet, diagfmt.PathModeAuto)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
