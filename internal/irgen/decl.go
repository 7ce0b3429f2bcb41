package irgen

import (
	"ophelia/internal/ast"
	"ophelia/internal/ir"
	"ophelia/internal/types"
)

// globalDecl turns global declarators into program-level objects. Const
// scalars need no storage: every use was folded by the checker.
func (g *generator) globalDecl(decl *ast.Decl) {
	for _, def := range decl.Defs {
		sym := g.sem.Decls[def]
		if decl.Const && len(def.Dims) == 0 {
			continue
		}
		gl := &ir.Global{Name: def.Name, Type: sym.Type, Const: decl.Const}
		if init := g.sem.Inits[def]; init != nil && !allZero(init.Values) {
			gl.Init = init.Values
		}
		sym.Handle = g.b.AddGlobal(gl)
	}
}

// localDecl allocates each declarator and stores its initializer, element
// by element in row-major order.
func (g *generator) localDecl(decl *ast.Decl) {
	for _, def := range decl.Defs {
		sym := g.sem.Decls[def]
		if decl.Const && len(def.Dims) == 0 {
			continue
		}
		slot := g.b.Alloc(def.Name, sym.Type)
		sym.Handle = slot
		init := g.sem.Inits[def]
		if init == nil {
			continue
		}
		if len(def.Dims) == 0 {
			g.b.Store(g.expr(init.Exprs[0]), slot)
			continue
		}
		dims := g.types.Dims(sym.Type)
		for i, e := range init.Exprs {
			var v ir.Value
			switch {
			case init.Values != nil:
				v = ir.Const(init.Values[i], g.i32)
			case e == nil:
				v = ir.Const(0, g.i32)
			default:
				v = g.expr(e)
			}
			g.b.Store(v, g.elemAddr(slot, dims, i))
		}
	}
}

// elemAddr addresses element flat of the array at base.
func (g *generator) elemAddr(base ir.Value, dims []uint32, flat int) ir.Value {
	idx := make([]int32, len(dims))
	for k := len(dims) - 1; k >= 0; k-- {
		idx[k] = int32(flat % int(dims[k]))
		flat /= int(dims[k])
	}
	addr := base
	for _, i := range idx {
		addr = g.b.GetElemPtr(addr, ir.Const(i, g.i32))
	}
	return addr
}

func allZero(values []int32) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func (g *generator) isArray(id types.TypeID) bool {
	return g.types.Kind(id) == types.KindArray
}
