package sema

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/symbols"
	"ophelia/internal/types"
)

// walkFunc checks a function definition. Parameters and the outermost
// statements of the body share one frame, so `int f(int a) { int a; }`
// redeclares a.
func (tc *typeChecker) walkFunc(fn *ast.FuncDef) {
	result := tc.builtins.Int
	if fn.Result == ast.ResultVoid {
		result = tc.builtins.Void
	}
	sym := &symbols.Symbol{Name: fn.Name, Kind: symbols.SymbolFunction, Span: fn.NameSpan}

	tc.table.PushScope()
	params := make([]types.TypeID, len(fn.Params))
	for i, p := range fn.Params {
		ps := &symbols.Symbol{Name: p.Name, Kind: symbols.SymbolParam, Span: p.NameSpan, Type: tc.paramType(p)}
		if tc.types.Kind(ps.Type) == types.KindUnknown {
			ps.Flags |= symbols.SymbolFlagRecovered
		}
		params[i] = ps.Type
		tc.result.Params[p] = ps
		tc.declare(ps)
	}
	sym.Type = tc.types.RegisterFn(params, result)
	tc.result.Funcs[fn] = sym
	tc.reportDuplicate(sym, tc.table.InsertGlobal(sym))

	tc.fn, tc.fnResult = sym, result
	for _, st := range fn.Body.Stmts {
		tc.walkStmt(st)
	}
	if result == tc.builtins.Int && fn.Name != "main" && !tc.blockTerminates(fn.Body) {
		end := source.Span{File: fn.Body.Span.File, Start: fn.Body.Span.End - 1, End: fn.Body.Span.End}
		tc.reportWithNote(diag.SemaMissingReturn, fn.NameSpan, end, "control reaches here without a return",
			"function `%s` can reach its end without returning a value", fn.Name)
	}
	tc.fn, tc.fnResult = nil, types.NoTypeID
	tc.table.PopScope()
}

// paramType: int a → i32, int a[] → *i32, int a[][3] → *[i32, 3].
func (tc *typeChecker) paramType(p *ast.Param) types.TypeID {
	if !p.IsArray {
		return tc.builtins.Int
	}
	dims, ok := tc.arrayDims(p.Dims)
	if !ok {
		return tc.builtins.Unknown
	}
	return tc.types.Pointer(tc.types.ArrayOf(dims))
}

// checkMain requires `int main()` once all items are known.
func (tc *typeChecker) checkMain(unit *ast.CompUnit) {
	sym, ok := tc.table.Lookup("main")
	if !ok || sym.Kind != symbols.SymbolFunction {
		sp := source.Span{File: unit.Span.File, Start: unit.Span.Start, End: unit.Span.Start}
		tc.report(diag.SemaNoMain, sp, "program does not define `int main()`")
		return
	}
	info, _ := tc.types.FnInfo(sym.Type)
	if info == nil || len(info.Params) != 0 || info.Result != tc.builtins.Int {
		tc.report(diag.SemaNoMain, sym.Span, "`main` must be declared as `int main()`, found %s", tc.types.String(sym.Type))
	}
}
