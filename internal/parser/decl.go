package parser

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/token"
)

// parseDecl: ['const'] 'int' Def {',' Def} ';'
func (p *Parser) parseDecl() (*ast.Decl, bool) {
	start := p.peek().Span
	decl := &ast.Decl{Const: p.eat(token.KwConst)}
	if !p.parseScalarType() {
		return nil, false
	}
	for {
		def, ok := p.parseVarDef(decl.Const)
		if !ok {
			return nil, false
		}
		decl.Defs = append(decl.Defs, def)
		if !p.eat(token.Comma) {
			break
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration")
	if !ok {
		return nil, false
	}
	decl.Span = start.Cover(semi.Span)
	return decl, true
}

// parseScalarType съедает 'int'. 'void' в позиции переменной репортится,
// но разбор продолжается, как будто там был int.
func (p *Parser) parseScalarType() bool {
	switch {
	case p.eat(token.KwInt):
		return true
	case p.at(token.KwVoid):
		p.err(diag.SynVoidVariable, "variables and parameters cannot be declared void")
		p.advance()
		return true
	default:
		p.err(diag.SynExpectType, "expected 'int', got "+p.peek().Kind.String())
		return false
	}
}

// parseVarDef: IDENT {'[' ConstExp ']'} ['=' InitVal]; у константы инициализатор обязателен.
func (p *Parser) parseVarDef(isConst bool) (*ast.VarDef, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
	if !ok {
		return nil, false
	}
	def := &ast.VarDef{Name: name.Text, NameSpan: name.Span, Span: name.Span}
	dims, end, ok := p.parseDims()
	if !ok {
		return nil, false
	}
	def.Dims = dims
	def.Span = def.Span.Cover(end)
	if !p.eat(token.Assign) {
		if isConst {
			p.err(diag.SynExpectAssign, "constant '"+def.Name+"' must be initialized")
			return nil, false
		}
		return def, true
	}
	init, ok := p.parseInitVal()
	if !ok {
		return nil, false
	}
	def.Init = init
	def.Span = def.Span.Cover(init.Span)
	return def, true
}

// parseDims разбирает {'[' Exp ']'}; end — span последней ']'.
func (p *Parser) parseDims() (dims []*ast.Expr, end source.Span, ok bool) {
	end = p.lastSpan
	for p.at(token.LBracket) {
		open := p.advance()
		dim, ok := p.parseExpr()
		if !ok {
			return nil, end, false
		}
		closeTok, ok := p.expectClose(token.RBracket, diag.SynUnclosedBracket, open)
		if !ok {
			return nil, end, false
		}
		dims = append(dims, dim)
		end = closeTok.Span
	}
	return dims, end, true
}

// parseInitVal: Exp | '{' [InitVal {',' InitVal}] '}'
func (p *Parser) parseInitVal() (*ast.InitVal, bool) {
	if !p.at(token.LBrace) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.InitVal{Span: e.Span, Expr: e}, true
	}
	open := p.advance()
	iv := &ast.InitVal{List: []*ast.InitVal{}}
	if !p.at(token.RBrace) {
		for {
			sub, ok := p.parseInitVal()
			if !ok {
				return nil, false
			}
			iv.List = append(iv.List, sub)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	closeTok, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open)
	if !ok {
		return nil, false
	}
	iv.Span = open.Span.Cover(closeTok.Span)
	return iv, true
}
