// Package irgen translates a checked unit into an ir.Program: declarations
// into globals and allocations, functions into blocks, and the structured
// control flow of if, while, && and || into branches between them.
package irgen

import (
	"context"
	"errors"
	"fmt"

	"ophelia/internal/ast"
	"ophelia/internal/ir"
	"ophelia/internal/sema"
	"ophelia/internal/trace"
	"ophelia/internal/types"
)

var (
	// ErrHasDiagnostics is returned for units the checker rejected.
	ErrHasDiagnostics = errors.New("irgen: unit has semantic errors")
	// ErrFallThrough means an int function can reach its end. The checker
	// reports that as SemaMissingReturn, so seeing it here is a bug.
	ErrFallThrough = errors.New("irgen: control reaches the end of a non-void function")
)

// loopTargets are the jump targets of break and continue.
type loopTargets struct {
	cond ir.BlockID
	exit ir.BlockID
}

type generator struct {
	sem   *sema.Result
	types *types.Interner
	i32   types.TypeID
	b     *ir.Builder
	loops []loopTargets
}

// Generate builds the Program for unit. Generation is all or nothing: a
// unit with any checker error yields ErrHasDiagnostics.
func Generate(ctx context.Context, unit *ast.CompUnit, sem *sema.Result) (*ir.Program, error) {
	if unit == nil || sem == nil || !sem.Ok() {
		return nil, ErrHasDiagnostics
	}
	tracer := trace.FromContext(ctx)
	var root *trace.Span
	if tracer.Enabled() {
		root = trace.Begin(tracer, trace.ScopePass, "irgen", trace.CurrentSpan(ctx).SpanID)
		defer root.End("")
	}

	prog := ir.NewProgram(sem.Types)
	g := &generator{
		sem:   sem,
		types: sem.Types,
		i32:   sem.Types.Builtins().Int,
		b:     ir.NewBuilder(prog),
	}
	g.declareRuntime()

	for _, item := range unit.Items {
		switch item.Kind {
		case ast.ItemDecl:
			g.globalDecl(item.Decl)
		case ast.ItemFunc:
			var span *trace.Span
			if root != nil && tracer.Level().ShouldEmit(trace.ScopeFunc) {
				span = trace.Begin(tracer, trace.ScopeFunc, "irgen_fn:"+item.Func.Name, root.ID())
			}
			err := g.function(item.Func)
			if span != nil {
				span.End("")
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return prog, nil
}

// declareRuntime emits a decl for every runtime library function.
func (g *generator) declareRuntime() {
	for _, sym := range g.sem.Globals {
		if !sym.IsBuiltin() {
			continue
		}
		info, _ := g.types.FnInfo(sym.Type)
		params := make([]ir.Param, len(info.Params))
		for i, p := range info.Params {
			params[i] = ir.Param{Type: p}
		}
		sym.Handle = g.b.DeclareFunc(sym.Name, params, info.Result)
	}
}

func (g *generator) function(fn *ast.FuncDef) error {
	sym := g.sem.Funcs[fn]
	info, _ := g.types.FnInfo(sym.Type)
	params := make([]ir.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = ir.Param{Name: p.Name, Type: g.sem.Params[p].Type}
	}
	sym.Handle = g.b.BeginFunc(fn.Name, params, info.Result)

	for i, p := range fn.Params {
		ps := g.sem.Params[p]
		slot := g.b.Alloc(p.Name, ps.Type)
		g.b.Store(g.b.Param(i), slot)
		ps.Handle = slot
	}
	g.stmts(fn.Body.Stmts)

	if g.b.Reachable() {
		switch {
		case info.Result != g.i32:
			g.b.EmitReturn(ir.Value{})
		case fn.Name == "main":
			// falling off main returns 0
			g.b.EmitReturn(ir.Const(0, g.i32))
		default:
			return fmt.Errorf("function %s: %w", fn.Name, ErrFallThrough)
		}
	}
	if err := g.b.EndFunc(); err != nil {
		return fmt.Errorf("irgen: %w", err)
	}
	return nil
}
