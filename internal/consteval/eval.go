// Package consteval folds compile-time constant expressions: array
// dimensions, const initialisers and global initialisers.
package consteval

import (
	"errors"
	"fmt"

	"ophelia/internal/ast"
	"ophelia/internal/source"
	"ophelia/internal/symbols"
	"ophelia/internal/types"
)

var (
	ErrNotConstant = errors.New("not a constant expression")
	// ErrUnresolved means a name did not resolve or names a constant whose
	// value was lost to an earlier error; the caller has already reported it
	// and should not report the fold failure again.
	ErrUnresolved = errors.New("unresolved name")
	ErrDivByZero  = errors.New("division by zero")
	ErrIndexRange = errors.New("index out of range")
)

// EvalError locates the sub-expression that could not be folded.
type EvalError struct {
	Span   source.Span
	Reason string
	Err    error
}

func (e *EvalError) Error() string { return e.Reason }

func (e *EvalError) Unwrap() error { return e.Err }

// Scope resolves names at the point of evaluation; *symbols.Table satisfies it.
type Scope interface {
	Lookup(name string) (*symbols.Symbol, bool)
}

// Evaluator folds expressions with 32-bit two's-complement semantics.
type Evaluator struct {
	scope Scope
	types *types.Interner
}

func New(scope Scope, typesIn *types.Interner) *Evaluator {
	return &Evaluator{scope: scope, types: typesIn}
}

// Eval folds expr. The first non-constant sub-expression in evaluation
// order determines the returned *EvalError.
func (ev *Evaluator) Eval(expr *ast.Expr) (int32, error) {
	if expr == nil {
		return 0, &EvalError{Reason: "missing expression", Err: ErrNotConstant}
	}
	switch data := expr.Data.(type) {
	case ast.NumberData:
		// 2147483648 only appears under unary minus and wraps to MinInt32
		return int32(uint32(data.Value)), nil
	case ast.LValData:
		return ev.lval(expr, data)
	case ast.UnaryData:
		v, err := ev.Eval(data.Operand)
		if err != nil {
			return 0, err
		}
		return Unary(data.Op, v), nil
	case ast.BinaryData:
		return ev.binary(expr, data)
	case ast.CallData:
		return 0, failf(expr.Span, ErrNotConstant, "call to %s is not a constant expression", data.Name)
	default:
		return 0, failf(expr.Span, ErrNotConstant, "unsupported expression")
	}
}

func (ev *Evaluator) lval(expr *ast.Expr, data ast.LValData) (int32, error) {
	sym, ok := ev.scope.Lookup(data.Name)
	if !ok {
		return 0, failf(data.NameSpan, ErrUnresolved, "%s is not declared", data.Name)
	}
	if sym.Flags&symbols.SymbolFlagRecovered != 0 {
		return 0, failf(data.NameSpan, ErrUnresolved, "value of %s is unknown", data.Name)
	}
	if sym.Kind != symbols.SymbolConst {
		return 0, failf(expr.Span, ErrNotConstant, "%s %s is not a constant", sym.Kind, data.Name)
	}
	dims := ev.types.Dims(sym.Type)
	if len(data.Indices) != len(dims) {
		return 0, failf(expr.Span, ErrNotConstant, "%s must be indexed down to an element to be folded", data.Name)
	}
	offset := 0
	for i, idx := range data.Indices {
		v, err := ev.Eval(idx)
		if err != nil {
			return 0, err
		}
		if v < 0 || uint32(v) >= dims[i] {
			return 0, failf(idx.Span, ErrIndexRange, "index %d out of range for dimension %d", v, dims[i])
		}
		offset = offset*int(dims[i]) + int(v)
	}
	if offset >= len(sym.Const) {
		// recovered const with a broken initialiser
		return 0, nil
	}
	return sym.Const[offset], nil
}

func (ev *Evaluator) binary(expr *ast.Expr, data ast.BinaryData) (int32, error) {
	lhs, err := ev.Eval(data.Left)
	if err != nil {
		return 0, err
	}
	switch data.Op {
	case ast.BinAnd:
		if lhs == 0 {
			return 0, nil
		}
	case ast.BinOr:
		if lhs != 0 {
			return 1, nil
		}
	}
	rhs, err := ev.Eval(data.Right)
	if err != nil {
		return 0, err
	}
	v, ok := Binary(data.Op, lhs, rhs)
	if !ok {
		return 0, failf(expr.Span, ErrDivByZero, "division by zero in constant expression")
	}
	return v, nil
}

// Unary applies op with wrap-around.
func Unary(op ast.UnaryOp, v int32) int32 {
	switch op {
	case ast.UnaryNeg:
		return -v
	case ast.UnaryNot:
		return b2i(v == 0)
	default:
		return v
	}
}

// Binary applies op with wrap-around; ok is false for division or modulo by zero.
func Binary(op ast.BinaryOp, lhs, rhs int32) (int32, bool) {
	switch op {
	case ast.BinAdd:
		return lhs + rhs, true
	case ast.BinSub:
		return lhs - rhs, true
	case ast.BinMul:
		return lhs * rhs, true
	case ast.BinDiv:
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case ast.BinMod:
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	case ast.BinLt:
		return b2i(lhs < rhs), true
	case ast.BinGt:
		return b2i(lhs > rhs), true
	case ast.BinLe:
		return b2i(lhs <= rhs), true
	case ast.BinGe:
		return b2i(lhs >= rhs), true
	case ast.BinEq:
		return b2i(lhs == rhs), true
	case ast.BinNe:
		return b2i(lhs != rhs), true
	case ast.BinAnd:
		return b2i(lhs != 0 && rhs != 0), true
	case ast.BinOr:
		return b2i(lhs != 0 || rhs != 0), true
	}
	return 0, true
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func failf(sp source.Span, err error, format string, args ...any) *EvalError {
	return &EvalError{Span: sp, Reason: fmt.Sprintf(format, args...), Err: err}
}
