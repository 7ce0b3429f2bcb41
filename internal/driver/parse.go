package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/parser"
	"ophelia/internal/source"
	"ophelia/internal/trace"
)

// ParseResult is the output of `ophelia parse`: the tree and the
// lexical and syntax diagnostics, nothing further.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Unit    *ast.CompUnit
	Bag     *diag.Bag
}

// Parse loads and parses one file.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, PhaseParse, trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	bag := diag.NewBag(maxDiagnostics)
	res := parser.ParseFile(file, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	return &ParseResult{FileSet: fs, File: file, Unit: res.Unit, Bag: bag}, nil
}
