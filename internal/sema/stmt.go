package sema

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/types"
)

func (tc *typeChecker) walkBlock(b *ast.Block) {
	tc.table.PushScope()
	for _, st := range b.Stmts {
		tc.walkStmt(st)
	}
	tc.table.PopScope()
}

func (tc *typeChecker) walkStmt(st *ast.Stmt) {
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtDecl:
		tc.walkDecl(st.Data.(ast.DeclData).Decl)
	case ast.StmtAssign:
		data := st.Data.(ast.AssignData)
		tc.assignTarget(data.Target)
		tc.intValue(data.Value, "assigned value")
	case ast.StmtExpr:
		if e := st.Data.(ast.ExprStmtData).Expr; e != nil {
			tc.expr(e)
		}
	case ast.StmtBlock:
		tc.walkBlock(st.Data.(ast.BlockData).Block)
	case ast.StmtIf:
		data := st.Data.(ast.IfData)
		tc.intValue(data.Cond, "condition")
		tc.walkArm(data.Then)
		if data.Else != nil {
			tc.walkArm(data.Else)
		}
	case ast.StmtWhile:
		data := st.Data.(ast.WhileData)
		tc.intValue(data.Cond, "condition")
		tc.loopDepth++
		tc.walkArm(data.Body)
		tc.loopDepth--
	case ast.StmtBreak, ast.StmtContinue:
		if tc.loopDepth == 0 {
			tc.report(diag.SemaNotInLoop, st.Span, "`%s` outside of a loop", keyword(st.Kind))
		}
	case ast.StmtReturn:
		tc.walkReturn(st)
	}
}

// walkArm checks the body of an if/else/while in its own frame.
func (tc *typeChecker) walkArm(st *ast.Stmt) {
	if st.Kind == ast.StmtBlock {
		tc.walkBlock(st.Data.(ast.BlockData).Block)
		return
	}
	tc.table.PushScope()
	tc.walkStmt(st)
	tc.table.PopScope()
}

func (tc *typeChecker) walkReturn(st *ast.Stmt) {
	value := st.Data.(ast.ReturnData).Value
	void := tc.types.Kind(tc.fnResult) == types.KindVoid
	switch {
	case value != nil && void:
		tc.reportWithNote(diag.SemaRetValInVoidFunc, value.Span, tc.fn.Span, "function declared void here",
			"void function `%s` cannot return a value", tc.fn.Name)
		tc.expr(value)
	case value == nil && !void:
		tc.reportWithNote(diag.SemaMissingRetVal, st.Span, tc.fn.Span, "function declared int here",
			"function `%s` must return a value", tc.fn.Name)
	case value != nil:
		tc.intValue(value, "return value")
	}
}

func keyword(k ast.StmtKind) string {
	if k == ast.StmtBreak {
		return "break"
	}
	return "continue"
}
