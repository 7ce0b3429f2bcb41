package ast

import (
	"ophelia/internal/source"
)

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprLVal
	ExprUnary
	ExprBinary
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprNumber:
		return "Number"
	case ExprLVal:
		return "LVal"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	default:
		return "Unknown"
	}
}

type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// NumberData: Value fits in [0, 2^31]; negative numbers are Unary(-, Number).
type NumberData struct {
	Value int64
}

func (NumberData) exprData() {}

// LValData is a name with zero or more index expressions: a, a[i], a[i][j].
type LValData struct {
	Name     string
	NameSpan source.Span
	Indices  []*Expr
}

func (LValData) exprData() {}

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryNeg
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return "?"
	}
}

type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinAnd // &&, short-circuit
	BinOr  // ||, short-circuit
)

var binaryOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinMod: "%",
	BinLt: "<", BinGt: ">", BinLe: "<=", BinGe: ">=", BinEq: "==", BinNe: "!=",
	BinAnd: "&&", BinOr: "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsLogical reports whether op is a short-circuit operator.
func (op BinaryOp) IsLogical() bool {
	return op == BinAnd || op == BinOr
}

type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

type CallData struct {
	Name     string
	NameSpan source.Span
	Args     []*Expr
}

func (CallData) exprData() {}

// Number builds a literal expression; used by the parser and by tests.
func Number(sp source.Span, v int64) *Expr {
	return &Expr{Kind: ExprNumber, Span: sp, Data: NumberData{Value: v}}
}
