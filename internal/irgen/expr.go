package irgen

import (
	"ophelia/internal/ast"
	"ophelia/internal/ir"
	"ophelia/internal/types"
)

var binOps = [...]ir.BinOp{
	ast.BinAdd: ir.BinAdd,
	ast.BinSub: ir.BinSub,
	ast.BinMul: ir.BinMul,
	ast.BinDiv: ir.BinDiv,
	ast.BinMod: ir.BinMod,
	ast.BinLt:  ir.BinLt,
	ast.BinGt:  ir.BinGt,
	ast.BinLe:  ir.BinLe,
	ast.BinGe:  ir.BinGe,
	ast.BinEq:  ir.BinEq,
	ast.BinNe:  ir.BinNe,
}

// expr evaluates e into a value. Sub-expressions the checker folded are
// emitted as literals.
func (g *generator) expr(e *ast.Expr) ir.Value {
	if v, ok := g.sem.Consts[e]; ok {
		return ir.Const(v, g.i32)
	}
	switch data := e.Data.(type) {
	case ast.NumberData:
		return ir.Const(int32(uint32(data.Value)), g.i32)
	case ast.LValData:
		return g.lvalValue(e, data)
	case ast.UnaryData:
		v := g.expr(data.Operand)
		switch data.Op {
		case ast.UnaryNeg:
			return g.b.Binary(ir.BinSub, ir.Const(0, g.i32), v)
		case ast.UnaryNot:
			return g.b.Binary(ir.BinEq, v, ir.Const(0, g.i32))
		}
		return v
	case ast.BinaryData:
		if data.Op.IsLogical() {
			return g.logical(data)
		}
		lhs := g.expr(data.Left)
		rhs := g.expr(data.Right)
		return g.b.Binary(binOps[data.Op], lhs, rhs)
	case ast.CallData:
		args := make([]ir.Value, len(data.Args))
		for i, arg := range data.Args {
			args[i] = g.expr(arg)
		}
		return g.b.Call(g.sem.Refs[e].Handle, args)
	}
	return ir.Undef(g.i32)
}

// logical lowers && and || through a result slot: the slot starts at the
// value that the left operand alone can decide, and the right operand is
// evaluated only on the other path.
//
//	a && b:  slot = 0; br a, rhs, end; rhs: slot = b != 0; jump end; end: load slot
func (g *generator) logical(data ast.BinaryData) ir.Value {
	and := data.Op == ast.BinAnd
	label := "or"
	short := ir.Const(1, g.i32)
	if and {
		label = "and"
		short = ir.Const(0, g.i32)
	}
	slot := g.b.Alloc("", g.i32)
	g.b.Store(short, slot)

	rhsBB := g.b.NewBlock(label + "_rhs")
	endBB := g.b.NewBlock(label + "_end")
	lhs := g.expr(data.Left)
	switch {
	case lhs.IsConst() && (lhs.Imm != 0) == and:
		g.b.EmitJump(rhsBB)
	case lhs.IsConst():
		g.b.EmitJump(endBB)
	case and:
		g.b.EmitBranch(lhs, rhsBB, endBB)
	default:
		g.b.EmitBranch(lhs, endBB, rhsBB)
	}

	g.b.SetInsert(rhsBB)
	rhs := g.expr(data.Right)
	g.b.Store(g.b.Binary(ir.BinNe, rhs, ir.Const(0, g.i32)), slot)
	g.b.EmitJump(endBB)

	g.b.SetInsert(endBB)
	return g.b.Load(slot)
}

// lvalValue reads an lvalue. Arrays, which only reach here as call
// arguments, decay to a pointer to their first element.
func (g *generator) lvalValue(e *ast.Expr, data ast.LValData) ir.Value {
	addr := g.place(e, data)
	if g.isArray(g.sem.ExprTypes[e]) {
		return g.b.GetElemPtr(addr, ir.Const(0, g.i32))
	}
	return g.b.Load(addr)
}

// place computes the address an lvalue designates. An array parameter
// holds a pointer, so its first index offsets that pointer with getptr;
// every other index selects a sub-array with getelemptr.
func (g *generator) place(e *ast.Expr, data ast.LValData) ir.Value {
	sym := g.sem.Refs[e]
	addr := sym.Handle
	indices := data.Indices
	if g.types.Kind(sym.Type) == types.KindPointer && len(indices) > 0 {
		addr = g.b.Load(addr)
		addr = g.b.GetPtr(addr, g.expr(indices[0]))
		indices = indices[1:]
	}
	for _, idx := range indices {
		addr = g.b.GetElemPtr(addr, g.expr(idx))
	}
	return addr
}
