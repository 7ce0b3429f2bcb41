package sema

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
)

// initFlattener places a braced initializer into a row-major element slice.
//
// A scalar element takes the next free slot. A nested list starts the
// largest sub-array whose size divides the current position and fills it,
// leaving unnamed elements zero: for int a[2][3], {1, {2}, 3} is rejected
// (position 1 is not at a row boundary) while {{1}, 2, 3} gives 1 0 0 2 3 0.
type initFlattener struct {
	tc     *typeChecker
	exprs  []*ast.Expr
	decl   *ast.VarDef
	failed bool
}

// fill places list into the sub-array of shape dims starting at base.
func (fl *initFlattener) fill(list []*ast.InitVal, dims []uint32, base int) {
	size := elemCount(dims)
	pos := 0
	for _, iv := range list {
		if fl.failed {
			fl.tc.walkInitValues(iv)
			continue
		}
		if pos >= size {
			fl.fail(iv, "excess elements in initializer of `%s`: room for %d", fl.decl.Name, size)
			continue
		}
		if !iv.IsList() {
			fl.tc.intValue(iv.Expr, "initializer element")
			fl.exprs[base+pos] = iv.Expr
			pos++
			continue
		}
		k := alignedSub(dims, pos)
		if k == 0 {
			fl.fail(iv, "braced initializer of `%s` does not start a sub-array", fl.decl.Name)
			continue
		}
		fl.fill(iv.List, dims[k:], base+pos)
		pos += elemCount(dims[k:])
	}
}

func (fl *initFlattener) fail(iv *ast.InitVal, format string, args ...any) {
	fl.failed = true
	fl.tc.reportWithNote(diag.SemaInvalidInit, iv.Span, fl.decl.NameSpan, "declared here", format, args...)
	fl.tc.walkInitValues(iv)
}

// alignedSub returns the index k of the largest proper suffix dims[k:] whose
// element count divides pos, or 0 when pos is not on any sub-array boundary.
func alignedSub(dims []uint32, pos int) int {
	for k := 1; k < len(dims); k++ {
		if pos%elemCount(dims[k:]) == 0 {
			return k
		}
	}
	return 0
}
