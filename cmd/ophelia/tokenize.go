package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ophelia/internal/diagfmt"
	"ophelia/internal/driver"
	"ophelia/internal/lexer"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tokens [flags] <file.sy>",
		Aliases: []string{"tokenize"},
		Short:   "Tokenize a source file",
		Long:    `Tokenize breaks down a source file into its constituent tokens`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	// Выполняем токенизацию
	result, err := driver.Tokenize(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
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
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet, lexer.Value)
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
