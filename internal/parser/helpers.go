package parser

import (
	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagnosticSpan — на EOF указываем сразу за последним съеденным токеном.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg+", got "+p.peek().Kind.String())
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectClose reports an unclosed delimiter and points a note at the opener.
func (p *Parser) expectClose(k token.Kind, code diag.Code, open token.Token) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil && !p.opts.Enough() {
		diag.ReportError(p.opts.Reporter, code, sp, "expected "+k.String()+", got "+p.peek().Kind.String()).
			WithNote(open.Span, "to match this "+open.Kind.String()).
			Emit()
	}
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// err репортует ошибку на текущем токене
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}
