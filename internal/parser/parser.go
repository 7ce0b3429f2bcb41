package parser

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/lexer"
	"ophelia/internal/source"
	"ophelia/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Unit   *ast.CompUnit
	Errors uint // lexical + syntax errors
}

// Parser — состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	file     source.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile lexes and parses one file. The tree is always returned; when
// Result.Errors is non-zero it contains only the parts that parsed cleanly.
func ParseFile(file *source.File, opts Options) Result {
	counting := &diag.CountingReporter{Next: opts.Reporter}
	lx := lexer.New(file, lexer.Options{Reporter: counting})
	p := Parser{
		toks:     lx.All(),
		file:     file.ID,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	unit := p.parseUnit()
	lexErrors, err := safecast.Conv[uint](counting.Errors)
	if err != nil {
		panic(fmt.Errorf("lex error count overflow: %w", err))
	}
	return Result{Unit: unit, Errors: p.opts.CurrentErrors + lexErrors}
}

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// parseUnit — основной цикл верхнего уровня: пока не EOF — parseItem.
func (p *Parser) parseUnit() *ast.CompUnit {
	unit := &ast.CompUnit{File: p.file}
	start := p.peek().Span
	for !p.at(token.EOF) {
		before := p.pos
		item, ok := p.parseItem()
		if ok {
			unit.Items = append(unit.Items, item)
			continue
		}
		p.resyncTop(before)
	}
	unit.Span = start.Cover(p.peek().Span)
	return unit
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
// `int f(` и `void f(` — функции, всё остальное с int/const — объявления.
func (p *Parser) parseItem() (*ast.Item, bool) {
	switch p.peek().Kind {
	case token.KwInt, token.KwVoid:
		if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.LParen {
			fn, ok := p.parseFuncDef()
			if !ok {
				return nil, false
			}
			return &ast.Item{Kind: ast.ItemFunc, Span: fn.Span, Func: fn}, true
		}
		fallthrough
	case token.KwConst:
		decl, ok := p.parseDecl()
		if !ok {
			return nil, false
		}
		return &ast.Item{Kind: ast.ItemDecl, Span: decl.Span, Decl: decl}, true
	default:
		p.err(diag.SynUnexpectedToken, "expected declaration or function definition, got "+p.peek().Kind.String())
		return nil, false
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне: прокручиваем до
// ';' (съедаем), '}' (съедаем) или начала следующего item. Хотя бы один токен
// всегда съедается, чтобы не зациклиться.
func (p *Parser) resyncTop(before int) {
	for !p.at(token.EOF) {
		switch {
		case p.atOr(token.Semicolon, token.RBrace):
			p.advance()
			return
		case p.peek().IsTypeStart() && p.pos > before:
			return
		}
		p.advance()
	}
}
