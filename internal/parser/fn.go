package parser

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/token"
)

// parseFuncDef: ('int'|'void') IDENT '(' [Param {',' Param}] ')' Block
func (p *Parser) parseFuncDef() (*ast.FuncDef, bool) {
	typeTok := p.advance()
	fn := &ast.FuncDef{Result: ast.ResultInt}
	if typeTok.Kind == token.KwVoid {
		fn.Result = ast.ResultVoid
	}
	name := p.advance()
	fn.Name, fn.NameSpan = name.Text, name.Span
	open := p.advance()
	if !p.at(token.RParen) {
		for {
			prm, ok := p.parseParam()
			if !ok {
				return nil, false
			}
			fn.Params = append(fn.Params, prm)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open); !ok {
		return nil, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected function body, got "+p.peek().Kind.String())
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	fn.Body = body
	fn.Span = typeTok.Span.Cover(body.Span)
	return fn, true
}

// parseParam: 'int' IDENT ['[' ']' {'[' Exp ']'}]
func (p *Parser) parseParam() (*ast.Param, bool) {
	start := p.peek().Span
	if !p.parseScalarType() {
		return nil, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return nil, false
	}
	prm := &ast.Param{Name: name.Text, NameSpan: name.Span, Span: start.Cover(name.Span)}
	if !p.at(token.LBracket) {
		return prm, true
	}
	open := p.advance()
	closeTok, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open)
	if !ok {
		return nil, false
	}
	prm.IsArray = true
	prm.Span = prm.Span.Cover(closeTok.Span)
	dims, end, ok := p.parseDims()
	if !ok {
		return nil, false
	}
	prm.Dims = dims
	prm.Span = prm.Span.Cover(end)
	return prm, true
}
