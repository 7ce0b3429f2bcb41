package sema

import (
	"ophelia/internal/ast"
	"ophelia/internal/consteval"
	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/symbols"
	"ophelia/internal/types"
)

// exprInfo is the outcome of checking one expression.
type exprInfo struct {
	ty    types.TypeID
	konst bool
	val   int32
}

// expr checks e in a context that accepts any type, void included.
func (tc *typeChecker) expr(e *ast.Expr) exprInfo {
	info := tc.exprInner(e)
	tc.result.ExprTypes[e] = info.ty
	if info.konst {
		tc.result.Consts[e] = info.val
	}
	return info
}

// value checks e where its result is used: void calls are rejected.
func (tc *typeChecker) value(e *ast.Expr) exprInfo {
	info := tc.expr(e)
	if tc.types.Kind(info.ty) == types.KindVoid {
		name := "expression"
		if call, ok := e.Data.(ast.CallData); ok {
			name = "`" + call.Name + "`"
		}
		tc.report(diag.SemaUseVoidValue, e.Span, "%s returns void; its value cannot be used", name)
		info.ty = tc.builtins.Unknown
	}
	return info
}

// intValue checks e where a scalar int is required.
func (tc *typeChecker) intValue(e *ast.Expr, what string) exprInfo {
	info := tc.value(e)
	if tc.types.IsArrayLike(info.ty) {
		tc.report(diag.SemaNonIntCalc, e.Span, "%s must be an int, found %s", what, tc.types.Describe(info.ty))
		info.ty = tc.builtins.Unknown
	}
	return info
}

func (tc *typeChecker) exprInner(e *ast.Expr) exprInfo {
	switch data := e.Data.(type) {
	case ast.NumberData:
		return exprInfo{ty: tc.builtins.Int, konst: true, val: int32(uint32(data.Value))}
	case ast.LValData:
		return tc.lval(e, data)
	case ast.UnaryData:
		op := tc.intValue(data.Operand, "operand of `"+data.Op.String()+"`")
		info := exprInfo{ty: tc.builtins.Int}
		if op.konst {
			info.konst, info.val = true, consteval.Unary(data.Op, op.val)
		}
		return info
	case ast.BinaryData:
		return tc.binary(data)
	case ast.CallData:
		return tc.call(e, data)
	}
	return exprInfo{ty: tc.builtins.Unknown}
}

func (tc *typeChecker) binary(data ast.BinaryData) exprInfo {
	what := "operand of `" + data.Op.String() + "`"
	lhs := tc.intValue(data.Left, what)
	rhs := tc.intValue(data.Right, what)
	info := exprInfo{ty: tc.builtins.Int}
	switch {
	case data.Op == ast.BinAnd && lhs.konst && lhs.val == 0:
		info.konst = true
	case data.Op == ast.BinOr && lhs.konst && lhs.val != 0:
		info.konst, info.val = true, 1
	case lhs.konst && rhs.konst:
		info.val, info.konst = consteval.Binary(data.Op, lhs.val, rhs.val)
	}
	return info
}

// lval resolves a name and applies its indices.
func (tc *typeChecker) lval(e *ast.Expr, data ast.LValData) exprInfo {
	sym, ok := tc.table.Lookup(data.Name)
	switch {
	case !ok:
		tc.report(diag.SemaSymbolNotFound, data.NameSpan, "`%s` is not declared", data.Name)
		tc.walkIndices(data.Indices)
		return exprInfo{ty: tc.builtins.Unknown}
	case sym.Kind == symbols.SymbolFunction:
		tc.reportWithNote(diag.SemaSymbolNotFound, data.NameSpan, declSpan(sym), "function declared here",
			"`%s` is a function, not a variable", data.Name)
		tc.walkIndices(data.Indices)
		return exprInfo{ty: tc.builtins.Unknown}
	}
	tc.result.Refs[e] = sym

	ty := sym.Type
	allConst := true
	derefReported := false
	for _, idx := range data.Indices {
		iv := tc.intValue(idx, "array index")
		allConst = allConst && iv.konst
		switch {
		case tc.types.IsArrayLike(ty):
			ty = tc.types.Elem(ty)
		case tc.types.Kind(ty) == types.KindUnknown:
		default:
			if !derefReported {
				tc.reportWithNote(diag.SemaDerefInt, e.Span, sym.Span, "declared here",
					"`%s` is %s and cannot be indexed", data.Name, article(tc.types.Describe(ty)))
				derefReported = true
			}
			ty = tc.builtins.Unknown
		}
	}

	info := exprInfo{ty: ty}
	if sym.Kind == symbols.SymbolConst && allConst && ty == tc.builtins.Int {
		if v, err := tc.eval.Eval(e); err == nil {
			info.konst, info.val = true, v
		}
	}
	return info
}

func (tc *typeChecker) walkIndices(indices []*ast.Expr) {
	for _, idx := range indices {
		tc.intValue(idx, "array index")
	}
}

// call checks a call against the callee signature: arity first, then the
// kind of every argument. Arrays decay to pointers to their first row.
func (tc *typeChecker) call(e *ast.Expr, data ast.CallData) exprInfo {
	sym, ok := tc.table.Lookup(data.Name)
	switch {
	case !ok:
		tc.report(diag.SemaSymbolNotFound, data.NameSpan, "function `%s` is not declared", data.Name)
		sym = nil
	case sym.Kind != symbols.SymbolFunction:
		tc.reportWithNote(diag.SemaSymbolNotFound, data.NameSpan, sym.Span, "declared here",
			"`%s` is a %s, not a function", data.Name, sym.Kind)
		sym = nil
	}

	args := make([]types.TypeID, len(data.Args))
	for i, arg := range data.Args {
		args[i] = tc.value(arg).ty
	}
	if sym == nil {
		return exprInfo{ty: tc.builtins.Unknown}
	}
	tc.result.Refs[e] = sym

	info, _ := tc.types.FnInfo(sym.Type)
	if len(args) != len(info.Params) {
		tc.reportWithNote(diag.SemaArgMismatch, e.Span, declSpan(sym), "function declared here",
			"`%s` takes %d argument(s), %d given", data.Name, len(info.Params), len(args))
		return exprInfo{ty: info.Result}
	}
	for i, param := range info.Params {
		if !tc.types.Compatible(param, args[i]) {
			tc.reportWithNote(diag.SemaArgMismatch, data.Args[i].Span, declSpan(sym), "function declared here",
				"argument %d of `%s`: expected %s, found %s", i+1, data.Name,
				tc.types.Describe(param), tc.types.Describe(args[i]))
		}
	}
	return exprInfo{ty: info.Result}
}

// assignTarget checks the left-hand side of an assignment.
func (tc *typeChecker) assignTarget(target *ast.Expr) {
	info := tc.expr(target)
	sym := tc.result.Refs[target]
	if sym == nil {
		return
	}
	if !sym.Assignable() {
		tc.reportWithNote(diag.SemaAssignToConst, target.Span, sym.Span, "declared here",
			"cannot assign to %s `%s`", sym.Kind, sym.Name)
		return
	}
	if tc.types.IsArrayLike(info.ty) {
		tc.reportWithNote(diag.SemaArrayAssign, target.Span, sym.Span, "declared here",
			"cannot assign to `%s`: it is %s, not an element", target, article(tc.types.Describe(info.ty)))
	}
}

func declSpan(sym *symbols.Symbol) source.Span {
	if sym.IsBuiltin() {
		return source.Span{}
	}
	return sym.Span
}

func article(desc string) string {
	switch desc {
	case "int":
		return "an int"
	case "unknown":
		return "of unknown type"
	}
	return "an array `" + desc + "`"
}
