package parser

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/lexer"
	"ophelia/internal/token"
)

// parseExpr разбирает выражение целиком (самый низкий приоритет — ||).
func (p *Parser) parseExpr() (*ast.Expr, bool) {
	return p.parseBinary(precLogicalOr)
}

// parseBinary — precedence climbing: правый операнд разбирается с prec+1,
// что даёт левую ассоциативность.
func (p *Parser) parseBinary(minPrec int) (*ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, prec, isOp := binaryOp(p.peek().Kind)
		if !isOp || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		left = &ast.Expr{
			Kind: ast.ExprBinary,
			Span: left.Span.Cover(right.Span),
			Data: ast.BinaryData{Op: op, Left: left, Right: right},
		}
	}
}

func (p *Parser) parseUnary() (*ast.Expr, bool) {
	op, ok := unaryOp(p.peek().Kind)
	if !ok {
		return p.parsePrimary()
	}
	opTok := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.Expr{
		Kind: ast.ExprUnary,
		Span: opTok.Span.Cover(operand.Span),
		Data: ast.UnaryData{Op: op, Operand: operand},
	}, true
}

func (p *Parser) parsePrimary() (*ast.Expr, bool) {
	switch tok := p.peek(); tok.Kind {
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open); !ok {
			return nil, false
		}
		return inner, true
	case token.IntLit:
		p.advance()
		return ast.Number(tok.Span, lexer.Value(tok.Text)), true
	case token.Ident:
		if p.peekAt(1).Kind == token.LParen {
			return p.parseCall()
		}
		return p.parseLVal()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+tok.Kind.String())
		return nil, false
	}
}

// parseLVal: IDENT {'[' Exp ']'}
func (p *Parser) parseLVal() (*ast.Expr, bool) {
	name := p.advance()
	data := ast.LValData{Name: name.Text, NameSpan: name.Span}
	span := name.Span
	for p.at(token.LBracket) {
		open := p.advance()
		idx, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closeTok, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open)
		if !ok {
			return nil, false
		}
		data.Indices = append(data.Indices, idx)
		span = span.Cover(closeTok.Span)
	}
	return &ast.Expr{Kind: ast.ExprLVal, Span: span, Data: data}, true
}

// parseCall: IDENT '(' [Exp {',' Exp}] ')'
func (p *Parser) parseCall() (*ast.Expr, bool) {
	name := p.advance()
	open := p.advance()
	data := ast.CallData{Name: name.Text, NameSpan: name.Span}
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			data.Args = append(data.Args, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	closeTok, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open)
	if !ok {
		return nil, false
	}
	return &ast.Expr{Kind: ast.ExprCall, Span: name.Span.Cover(closeTok.Span), Data: data}, true
}
