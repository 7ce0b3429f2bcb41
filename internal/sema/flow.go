package sema

import "ophelia/internal/ast"

// Termination analysis backing SemaMissingReturn. Conditions folded to
// constants are taken into account the same way the IR generator folds
// them into unconditional jumps, so both agree on which ends are reachable.

func (tc *typeChecker) blockTerminates(b *ast.Block) bool {
	for _, st := range b.Stmts {
		if tc.terminates(st) {
			return true
		}
	}
	return false
}

// terminates reports whether control never leaves st normally.
func (tc *typeChecker) terminates(st *ast.Stmt) bool {
	switch st.Kind {
	case ast.StmtReturn:
		return true
	case ast.StmtBlock:
		return tc.blockTerminates(st.Data.(ast.BlockData).Block)
	case ast.StmtIf:
		data := st.Data.(ast.IfData)
		if v, ok := tc.result.Consts[data.Cond]; ok {
			if v != 0 {
				return tc.terminates(data.Then)
			}
			return data.Else != nil && tc.terminates(data.Else)
		}
		return data.Else != nil && tc.terminates(data.Then) && tc.terminates(data.Else)
	case ast.StmtWhile:
		data := st.Data.(ast.WhileData)
		v, ok := tc.result.Consts[data.Cond]
		return ok && v != 0 && !breaksOut(data.Body)
	}
	return false
}

// breaksOut reports whether st contains a break bound to the enclosing loop.
func breaksOut(st *ast.Stmt) bool {
	switch st.Kind {
	case ast.StmtBreak:
		return true
	case ast.StmtBlock:
		for _, s := range st.Data.(ast.BlockData).Block.Stmts {
			if breaksOut(s) {
				return true
			}
		}
	case ast.StmtIf:
		data := st.Data.(ast.IfData)
		return breaksOut(data.Then) || (data.Else != nil && breaksOut(data.Else))
	}
	return false
}
