package sema

import (
	"context"
	"errors"
	"fmt"

	"ophelia/internal/ast"
	"ophelia/internal/consteval"
	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/symbols"
	"ophelia/internal/trace"
	"ophelia/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	// Tracer overrides the tracer carried by the context.
	Tracer trace.Tracer
	// RequireMain reports SemaNoMain when the unit lacks `int main()`.
	RequireMain bool
}

// Init is the flattened, row-major initializer of one declarator.
type Init struct {
	// Exprs has one entry per scalar element; nil entries are zero.
	Exprs []*ast.Expr
	// Values holds the folded elements of const and global declarators,
	// nil for local variables.
	Values []int32
}

// Result stores semantic artefacts the IR generator consumes.
type Result struct {
	Types   *types.Interner
	Globals []*symbols.Symbol

	ExprTypes map[*ast.Expr]types.TypeID
	// Consts holds every expression whose value is known at compile time.
	Consts map[*ast.Expr]int32
	// Refs maps LVal and Call expressions to the symbol they name.
	Refs   map[*ast.Expr]*symbols.Symbol
	Decls  map[*ast.VarDef]*symbols.Symbol
	Params map[*ast.Param]*symbols.Symbol
	Funcs  map[*ast.FuncDef]*symbols.Symbol
	Inits  map[*ast.VarDef]*Init

	// Errors counts the error diagnostics this pass reported.
	Errors int
}

// Ok reports whether the unit may be lowered to IR.
func (r *Result) Ok() bool {
	return r != nil && r.Errors == 0
}

// Check runs the single checking pass. It never stops at the first problem:
// every violation is reported and patched with a placeholder so that later
// checks on the same subtree still run.
func Check(ctx context.Context, unit *ast.CompUnit, opts Options) *Result {
	res := &Result{
		Types:     opts.Types,
		ExprTypes: make(map[*ast.Expr]types.TypeID),
		Consts:    make(map[*ast.Expr]int32),
		Refs:      make(map[*ast.Expr]*symbols.Symbol),
		Decls:     make(map[*ast.VarDef]*symbols.Symbol),
		Params:    make(map[*ast.Param]*symbols.Symbol),
		Funcs:     make(map[*ast.FuncDef]*symbols.Symbol),
		Inits:     make(map[*ast.VarDef]*Init),
	}
	if res.Types == nil {
		res.Types = types.NewInterner()
	}
	if unit == nil {
		return res
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}

	tc := &typeChecker{
		reporter: &diag.CountingReporter{Next: opts.Reporter},
		types:    res.Types,
		builtins: res.Types.Builtins(),
		table:    symbols.NewTable(),
		result:   res,
		tracer:   tracer,
		parent:   trace.CurrentSpan(ctx).SpanID,
	}
	tc.eval = consteval.New(tc.table, tc.types)
	tc.run(unit, opts.RequireMain)
	res.Globals = tc.table.Globals()
	res.Errors = tc.reporter.Errors
	return res
}

type typeChecker struct {
	reporter *diag.CountingReporter
	types    *types.Interner
	builtins types.Builtins
	table    *symbols.Table
	eval     *consteval.Evaluator
	result   *Result
	tracer   trace.Tracer
	parent   uint64

	fn        *symbols.Symbol // function being checked
	fnResult  types.TypeID
	loopDepth int
}

func (tc *typeChecker) run(unit *ast.CompUnit, requireMain bool) {
	var root *trace.Span
	if tc.tracer != nil && tc.tracer.Enabled() {
		root = trace.Begin(tc.tracer, trace.ScopePass, "sema_check", tc.parent)
		defer root.End("")
	}

	tc.table.InstallPrelude(tc.types)

	for _, item := range unit.Items {
		switch item.Kind {
		case ast.ItemDecl:
			tc.walkDecl(item.Decl)
		case ast.ItemFunc:
			var span *trace.Span
			if root != nil && tc.tracer.Level().ShouldEmit(trace.ScopeFunc) {
				span = trace.Begin(tc.tracer, trace.ScopeFunc, "sema_fn:"+item.Func.Name, root.ID())
			}
			tc.walkFunc(item.Func)
			if span != nil {
				span.End("")
			}
		}
	}

	if requireMain {
		tc.checkMain(unit)
	}
}

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(tc.reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

// reportWithNote emits a diagnostic carrying one secondary span.
func (tc *typeChecker) reportWithNote(code diag.Code, span source.Span, note source.Span, noteMsg, format string, args ...any) {
	b := diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...))
	if note.IsValid() {
		b.WithNote(note, noteMsg)
	}
	b.Emit()
}

// declare inserts sym into the current frame, reporting a redeclaration.
func (tc *typeChecker) declare(sym *symbols.Symbol) bool {
	return tc.reportDuplicate(sym, tc.table.Insert(sym))
}

func (tc *typeChecker) reportDuplicate(sym *symbols.Symbol, err error) bool {
	if err == nil {
		return true
	}
	var prev source.Span
	var dup *symbols.DuplicateError
	if errors.As(err, &dup) && !dup.Prev.IsBuiltin() {
		prev = dup.Prev.Span
	}
	tc.reportWithNote(diag.SemaDuplicatedDef, sym.Span, prev, "previous definition here",
		"duplicated definition of `%s`", sym.Name)
	return false
}
