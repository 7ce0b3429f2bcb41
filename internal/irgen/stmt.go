package irgen

import (
	"ophelia/internal/ast"
	"ophelia/internal/ir"
)

func (g *generator) stmts(list []*ast.Stmt) {
	for _, st := range list {
		g.stmt(st)
	}
}

// stmt translates one statement at the cursor. Statements after a
// terminator still run through here; the builder drops what they emit.
func (g *generator) stmt(st *ast.Stmt) {
	switch st.Kind {
	case ast.StmtDecl:
		g.localDecl(st.Data.(ast.DeclData).Decl)
	case ast.StmtAssign:
		data := st.Data.(ast.AssignData)
		addr := g.place(data.Target, data.Target.Data.(ast.LValData))
		g.b.Store(g.expr(data.Value), addr)
	case ast.StmtExpr:
		if e := st.Data.(ast.ExprStmtData).Expr; e != nil {
			g.expr(e)
		}
	case ast.StmtBlock:
		g.stmts(st.Data.(ast.BlockData).Block.Stmts)
	case ast.StmtIf:
		g.ifStmt(st.Data.(ast.IfData))
	case ast.StmtWhile:
		g.whileStmt(st.Data.(ast.WhileData))
	case ast.StmtBreak:
		g.b.EmitJump(g.loops[len(g.loops)-1].exit)
	case ast.StmtContinue:
		g.b.EmitJump(g.loops[len(g.loops)-1].cond)
	case ast.StmtReturn:
		if v := st.Data.(ast.ReturnData).Value; v != nil {
			g.b.EmitReturn(g.expr(v))
		} else {
			g.b.EmitReturn(ir.Value{})
		}
	}
}

// ifStmt: the merge block only becomes live when an arm jumps to it.
func (g *generator) ifStmt(data ast.IfData) {
	thenBB := g.b.NewBlock("then")
	elseBB := ir.BlockID(0)
	if data.Else != nil {
		elseBB = g.b.NewBlock("else")
	}
	endBB := g.b.NewBlock("end")
	if data.Else == nil {
		elseBB = endBB
	}
	g.branch(data.Cond, thenBB, elseBB)

	g.b.SetInsert(thenBB)
	g.stmt(data.Then)
	g.b.EmitJump(endBB)

	if data.Else != nil {
		g.b.SetInsert(elseBB)
		g.stmt(data.Else)
		g.b.EmitJump(endBB)
	}
	g.b.SetInsert(endBB)
}

// whileStmt lays out condition, body and exit blocks; break and continue
// jump to the innermost pair on the loop stack.
func (g *generator) whileStmt(data ast.WhileData) {
	condBB := g.b.NewBlock("while_entry")
	bodyBB := g.b.NewBlock("while_body")
	endBB := g.b.NewBlock("while_end")

	g.b.EmitJump(condBB)
	g.b.SetInsert(condBB)
	g.branch(data.Cond, bodyBB, endBB)

	g.loops = append(g.loops, loopTargets{cond: condBB, exit: endBB})
	g.b.SetInsert(bodyBB)
	g.stmt(data.Body)
	g.b.EmitJump(condBB)
	g.loops = g.loops[:len(g.loops)-1]

	g.b.SetInsert(endBB)
}

// branch ends the current block on cond. Conditions the checker folded
// become plain jumps, which keeps the dead arm out of the layout.
func (g *generator) branch(cond *ast.Expr, then, els ir.BlockID) {
	if v, ok := g.sem.Consts[cond]; ok {
		if v != 0 {
			g.b.EmitJump(then)
		} else {
			g.b.EmitJump(els)
		}
		return
	}
	g.b.EmitBranch(g.expr(cond), then, els)
}
