package parser

import (
	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/token"
)

// parseBlock: '{' {Decl | Stmt} '}'. Ошибочные statement'ы пропускаются
// через resyncStmt, блок при этом продолжает разбираться.
func (p *Parser) parseBlock() (*ast.Block, bool) {
	open := p.advance()
	block := &ast.Block{}
	for !p.atOr(token.EOF, token.RBrace) {
		before := p.pos
		stmt, ok := p.parseStmt()
		if ok {
			block.Stmts = append(block.Stmts, stmt)
			continue
		}
		p.resyncStmt(before)
	}
	closeTok, ok := p.expectClose(token.RBrace, diag.SynUnclosedBrace, open)
	if !ok {
		return nil, false
	}
	block.Span = open.Span.Cover(closeTok.Span)
	return block, true
}

// resyncStmt прокручивает до ';' (съедаем) или '}' (оставляем блоку).
func (p *Parser) resyncStmt(before int) {
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.at(token.RBrace):
			if p.pos == before {
				p.advance()
			}
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt() (*ast.Stmt, bool) {
	switch tok := p.peek(); tok.Kind {
	case token.KwConst, token.KwInt, token.KwVoid:
		decl, ok := p.parseDecl()
		if !ok {
			return nil, false
		}
		return &ast.Stmt{Kind: ast.StmtDecl, Span: decl.Span, Data: ast.DeclData{Decl: decl}}, true
	case token.LBrace:
		block, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &ast.Stmt{Kind: ast.StmtBlock, Span: block.Span, Data: ast.BlockData{Block: block}}, true
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwBreak, token.KwContinue:
		p.advance()
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+tok.Kind.String())
		if !ok {
			return nil, false
		}
		kind := ast.StmtBreak
		if tok.Kind == token.KwContinue {
			kind = ast.StmtContinue
		}
		return &ast.Stmt{Kind: kind, Span: tok.Span.Cover(semi.Span)}, true
	case token.KwReturn:
		return p.parseReturn()
	case token.Semicolon:
		p.advance()
		return &ast.Stmt{Kind: ast.StmtExpr, Span: tok.Span, Data: ast.ExprStmtData{}}, true
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) parseCond() (*ast.Expr, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return nil, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expectClose(token.RParen, diag.SynUnclosedParen, open); !ok {
		return nil, false
	}
	return cond, true
}

// parseIf: 'if' '(' Exp ')' Stmt ['else' Stmt]; else привязывается к ближайшему if.
func (p *Parser) parseIf() (*ast.Stmt, bool) {
	kw := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return nil, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	data := ast.IfData{Cond: cond, Then: then}
	span := kw.Span.Cover(then.Span)
	if p.eat(token.KwElse) {
		els, ok := p.parseStmt()
		if !ok {
			return nil, false
		}
		data.Else = els
		span = span.Cover(els.Span)
	}
	return &ast.Stmt{Kind: ast.StmtIf, Span: span, Data: data}, true
}

func (p *Parser) parseWhile() (*ast.Stmt, bool) {
	kw := p.advance()
	cond, ok := p.parseCond()
	if !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.Stmt{
		Kind: ast.StmtWhile,
		Span: kw.Span.Cover(body.Span),
		Data: ast.WhileData{Cond: cond, Body: body},
	}, true
}

func (p *Parser) parseReturn() (*ast.Stmt, bool) {
	kw := p.advance()
	var value *ast.Expr
	if !p.at(token.Semicolon) {
		v, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		value = v
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return")
	if !ok {
		return nil, false
	}
	return &ast.Stmt{Kind: ast.StmtReturn, Span: kw.Span.Cover(semi.Span), Data: ast.ReturnData{Value: value}}, true
}

// parseExprOrAssign: LVal '=' Exp ';' | Exp ';'
func (p *Parser) parseExprOrAssign() (*ast.Stmt, bool) {
	e, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if p.at(token.Assign) {
		eq := p.advance()
		if e.Kind != ast.ExprLVal {
			p.report(diag.SynUnexpectedToken, eq.Span, "left side of '=' must be a variable or an array element")
			return nil, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment")
		if !ok {
			return nil, false
		}
		return &ast.Stmt{
			Kind: ast.StmtAssign,
			Span: e.Span.Cover(semi.Span),
			Data: ast.AssignData{Target: e, Value: value},
		}, true
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	if !ok {
		return nil, false
	}
	return &ast.Stmt{Kind: ast.StmtExpr, Span: e.Span.Cover(semi.Span), Data: ast.ExprStmtData{Expr: e}}, true
}
