package ast

import (
	"ophelia/internal/source"
)

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	StmtDecl StmtKind = iota
	StmtAssign
	StmtExpr
	StmtBlock
	StmtIf
	StmtWhile
	StmtBreak
	StmtContinue
	StmtReturn
)

func (k StmtKind) String() string {
	switch k {
	case StmtDecl:
		return "Decl"
	case StmtAssign:
		return "Assign"
	case StmtExpr:
		return "Expr"
	case StmtBlock:
		return "Block"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtReturn:
		return "Return"
	default:
		return "Unknown"
	}
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // nil for break/continue
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

type DeclData struct {
	Decl *Decl
}

func (DeclData) stmtData() {}

// AssignData: Target is always an ExprLVal.
type AssignData struct {
	Target *Expr
	Value  *Expr
}

func (AssignData) stmtData() {}

// ExprStmtData: Expr is nil for the empty statement `;`.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

type BlockData struct {
	Block *Block
}

func (BlockData) stmtData() {}

type IfData struct {
	Cond *Expr
	Then *Stmt
	Else *Stmt // nil without else
}

func (IfData) stmtData() {}

type WhileData struct {
	Cond *Expr
	Body *Stmt
}

func (WhileData) stmtData() {}

// ReturnData: Value is nil for `return;`.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}
