package ast

import (
	"ophelia/internal/source"
)

// CompUnit is one source file: global declarations and function
// definitions in source order.
type CompUnit struct {
	File  source.FileID
	Span  source.Span
	Items []*Item
}

// ItemKind enumerates top-level item kinds.
type ItemKind uint8

const (
	ItemDecl ItemKind = iota
	ItemFunc
)

func (k ItemKind) String() string {
	switch k {
	case ItemDecl:
		return "Decl"
	case ItemFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

type Item struct {
	Kind ItemKind
	Span source.Span
	Decl *Decl    // ItemDecl
	Func *FuncDef // ItemFunc
}

// Funcs returns the function definitions of the unit in order.
func (u *CompUnit) Funcs() []*FuncDef {
	var out []*FuncDef
	for _, it := range u.Items {
		if it.Kind == ItemFunc {
			out = append(out, it.Func)
		}
	}
	return out
}

// ResultType is the declared return type of a function.
type ResultType uint8

const (
	ResultInt ResultType = iota
	ResultVoid
)

func (r ResultType) String() string {
	if r == ResultVoid {
		return "void"
	}
	return "int"
}

type FuncDef struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Result   ResultType
	Params   []*Param
	Body     *Block
}

// Param is a formal parameter. `int a[][3]` has IsArray set and Dims = [3]:
// the first dimension of an array parameter is always omitted.
type Param struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	IsArray  bool
	Dims     []*Expr
}

// Decl is one `int ...;` or `const int ...;` declaration.
type Decl struct {
	Span  source.Span
	Const bool
	Defs  []*VarDef
}

// VarDef is one declarator: a name, optional dimensions and an optional initializer.
type VarDef struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Dims     []*Expr
	Init     *InitVal // nil when absent
}

// InitVal is either a single expression or a braced list.
type InitVal struct {
	Span source.Span
	Expr *Expr      // non-nil for a scalar initializer
	List []*InitVal // braced list, may be empty
}

// IsList reports whether the initializer is braced.
func (iv *InitVal) IsList() bool {
	return iv != nil && iv.Expr == nil
}

type Block struct {
	Span  source.Span
	Stmts []*Stmt
}
