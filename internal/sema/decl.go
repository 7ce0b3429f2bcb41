package sema

import (
	"errors"

	"fortio.org/safecast"

	"ophelia/internal/ast"
	"ophelia/internal/consteval"
	"ophelia/internal/diag"
	"ophelia/internal/symbols"
	"ophelia/internal/types"
)

// maxArrayElems keeps every object addressable with a 32-bit byte offset.
const maxArrayElems = 1 << 29

func (tc *typeChecker) walkDecl(decl *ast.Decl) {
	for _, def := range decl.Defs {
		tc.walkVarDef(decl.Const, def)
	}
}

// walkVarDef checks one declarator. The initializer is checked before the
// name is declared, so `int x = x;` in an inner block reads the outer x.
func (tc *typeChecker) walkVarDef(isConst bool, def *ast.VarDef) {
	global := tc.table.Depth() == 0
	sym := &symbols.Symbol{Name: def.Name, Span: def.NameSpan, Type: tc.builtins.Int}
	switch {
	case isConst:
		sym.Kind = symbols.SymbolConst
	case len(def.Dims) > 0:
		sym.Kind = symbols.SymbolArray
	default:
		sym.Kind = symbols.SymbolVar
	}

	var dims []uint32
	if len(def.Dims) > 0 {
		var ok bool
		dims, ok = tc.arrayDims(def.Dims)
		if ok {
			sym.Type = tc.types.ArrayOf(dims)
		} else {
			sym.Type = tc.builtins.Unknown
			sym.Flags |= symbols.SymbolFlagRecovered
		}
	}

	folded := isConst || global
	init := tc.checkInit(def, sym.Type, dims, folded)
	if init != nil {
		tc.result.Inits[def] = init
	}
	if isConst {
		if init != nil && init.Values != nil {
			sym.Const = init.Values
		} else {
			sym.Flags |= symbols.SymbolFlagRecovered
		}
	}

	tc.result.Decls[def] = sym
	tc.declare(sym)
}

// arrayDims folds array dimensions; ok is false when any of them is unusable.
func (tc *typeChecker) arrayDims(exprs []*ast.Expr) (dims []uint32, ok bool) {
	ok = true
	total := uint64(1)
	for _, e := range exprs {
		tc.intValue(e, "array length")
		v, err := tc.eval.Eval(e)
		if err != nil {
			if !errors.Is(err, consteval.ErrUnresolved) {
				tc.report(diag.SemaInvalidArrayLen, e.Span, "array length is not a constant expression: %v", err)
			}
			ok = false
			continue
		}
		if v <= 0 {
			tc.report(diag.SemaInvalidArrayLen, e.Span, "array length must be positive, found %d", v)
			ok = false
			continue
		}
		n, err := safecast.Conv[uint32](v)
		if err != nil {
			ok = false
			continue
		}
		if ok && total*uint64(n) > maxArrayElems {
			tc.report(diag.SemaInvalidArrayLen, e.Span, "array is too large: more than %d elements", maxArrayElems)
			ok = false
			continue
		}
		total *= uint64(n)
		dims = append(dims, n)
	}
	return dims, ok
}

// checkInit validates the initializer of def against its declared shape and
// flattens it. Folded declarators (const and global) also get their values.
// Returns nil when there is no initializer or it is unusable.
func (tc *typeChecker) checkInit(def *ast.VarDef, ty types.TypeID, dims []uint32, folded bool) *Init {
	iv := def.Init
	if iv == nil {
		return nil
	}
	if tc.types.Kind(ty) == types.KindUnknown {
		tc.walkInitValues(iv)
		return nil
	}

	var exprs []*ast.Expr
	if len(dims) == 0 {
		if iv.IsList() {
			tc.reportWithNote(diag.SemaInvalidInit, iv.Span, def.NameSpan, "declared here",
				"scalar `%s` cannot be initialized with a braced list", def.Name)
			tc.walkInitValues(iv)
			return nil
		}
		tc.intValue(iv.Expr, "initializer")
		exprs = []*ast.Expr{iv.Expr}
	} else {
		if !iv.IsList() {
			tc.reportWithNote(diag.SemaInvalidInit, iv.Span, def.NameSpan, "declared here",
				"array `%s` must be initialized with a braced list", def.Name)
			tc.walkInitValues(iv)
			return nil
		}
		fl := &initFlattener{tc: tc, exprs: make([]*ast.Expr, elemCount(dims)), decl: def}
		fl.fill(iv.List, dims, 0)
		if fl.failed {
			return nil
		}
		exprs = fl.exprs
	}

	init := &Init{Exprs: exprs}
	if folded {
		init.Values = tc.foldInit(exprs)
	}
	return init
}

// foldInit evaluates every element; nil when any of them is not constant.
func (tc *typeChecker) foldInit(exprs []*ast.Expr) []int32 {
	values := make([]int32, len(exprs))
	ok := true
	for i, e := range exprs {
		if e == nil {
			continue
		}
		v, err := tc.eval.Eval(e)
		if err != nil {
			if !errors.Is(err, consteval.ErrUnresolved) {
				tc.report(diag.SemaFailedToEval, e.Span, "initializer is not a constant expression: %v", err)
			}
			ok = false
			continue
		}
		values[i] = v
	}
	if !ok {
		return nil
	}
	return values
}

// walkInitValues checks the expressions of an initializer without placing them.
func (tc *typeChecker) walkInitValues(iv *ast.InitVal) {
	if !iv.IsList() {
		tc.intValue(iv.Expr, "initializer")
		return
	}
	for _, sub := range iv.List {
		tc.walkInitValues(sub)
	}
}

func elemCount(dims []uint32) int {
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return n
}
