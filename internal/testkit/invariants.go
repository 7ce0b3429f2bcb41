package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ophelia/internal/ast"
	"ophelia/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed unit:
// 1) the unit span lies within the file content
// 2) every item span is non-empty, belongs to the file and lies inside the unit span
// 3) items appear in source order without overlapping
// 4) every statement and expression span is contained in its parent's span
func CheckSpanInvariants(unit *ast.CompUnit, sf *source.File) error {
	if unit == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if unit.Span.End > lenContent {
		return fmt.Errorf("unit span end beyond content: %d > %d", unit.Span.End, lenContent)
	}
	var prevEnd uint32
	for i, it := range unit.Items {
		sp := it.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("item %d: empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if !unit.Span.Contains(sp) {
			return fmt.Errorf("item %d: span %v is outside unit span %v", i, sp, unit.Span)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("item %d: span %v overlaps previous item ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End
		if it.Kind == ast.ItemFunc {
			if err := checkBlock(it.Func.Body, sp); err != nil {
				return fmt.Errorf("func %s: %w", it.Func.Name, err)
			}
		}
	}
	return nil
}

func within(parent, child source.Span, what string) error {
	if !parent.Contains(child) {
		return fmt.Errorf("%s span %v is outside parent %v", what, child, parent)
	}
	return nil
}

func checkBlock(b *ast.Block, parent source.Span) error {
	if err := within(parent, b.Span, "block"); err != nil {
		return err
	}
	for _, s := range b.Stmts {
		if err := checkStmt(s, b.Span); err != nil {
			return err
		}
	}
	return nil
}

func checkStmt(s *ast.Stmt, parent source.Span) error {
	if err := within(parent, s.Span, s.Kind.String()); err != nil {
		return err
	}
	var exprs []*ast.Expr
	switch data := s.Data.(type) {
	case ast.AssignData:
		exprs = append(exprs, data.Target, data.Value)
	case ast.ExprStmtData:
		if data.Expr != nil {
			exprs = append(exprs, data.Expr)
		}
	case ast.ReturnData:
		if data.Value != nil {
			exprs = append(exprs, data.Value)
		}
	case ast.BlockData:
		return checkBlock(data.Block, s.Span)
	case ast.IfData:
		if err := checkStmt(data.Then, s.Span); err != nil {
			return err
		}
		if data.Else != nil {
			if err := checkStmt(data.Else, s.Span); err != nil {
				return err
			}
		}
		exprs = append(exprs, data.Cond)
	case ast.WhileData:
		if err := checkStmt(data.Body, s.Span); err != nil {
			return err
		}
		exprs = append(exprs, data.Cond)
	}
	for _, e := range exprs {
		if err := checkExpr(e, s.Span); err != nil {
			return err
		}
	}
	return nil
}

func checkExpr(e *ast.Expr, parent source.Span) error {
	if err := within(parent, e.Span, e.Kind.String()); err != nil {
		return err
	}
	var children []*ast.Expr
	switch data := e.Data.(type) {
	case ast.UnaryData:
		children = append(children, data.Operand)
	case ast.BinaryData:
		children = append(children, data.Left, data.Right)
	case ast.LValData:
		children = data.Indices
	case ast.CallData:
		children = data.Args
	}
	for _, c := range children {
		if err := checkExpr(c, e.Span); err != nil {
			return err
		}
	}
	return nil
}
