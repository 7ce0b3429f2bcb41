package parser

import (
	"ophelia/internal/ast"
	"ophelia/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет; все операторы левоассоциативны.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

// binaryOp возвращает оператор и его приоритет; ok=false для не-операторов.
func binaryOp(kind token.Kind) (op ast.BinaryOp, prec int, ok bool) {
	switch kind {
	case token.OrOr:
		return ast.BinOr, precLogicalOr, true
	case token.AndAnd:
		return ast.BinAnd, precLogicalAnd, true
	case token.EqEq:
		return ast.BinEq, precEquality, true
	case token.BangEq:
		return ast.BinNe, precEquality, true
	case token.Lt:
		return ast.BinLt, precComparison, true
	case token.LtEq:
		return ast.BinLe, precComparison, true
	case token.Gt:
		return ast.BinGt, precComparison, true
	case token.GtEq:
		return ast.BinGe, precComparison, true
	case token.Plus:
		return ast.BinAdd, precAdditive, true
	case token.Minus:
		return ast.BinSub, precAdditive, true
	case token.Star:
		return ast.BinMul, precMultiplicative, true
	case token.Slash:
		return ast.BinDiv, precMultiplicative, true
	case token.Percent:
		return ast.BinMod, precMultiplicative, true
	default:
		return 0, -1, false
	}
}

func unaryOp(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.UnaryPlus, true
	case token.Minus:
		return ast.UnaryNeg, true
	case token.Bang:
		return ast.UnaryNot, true
	default:
		return 0, false
	}
}
