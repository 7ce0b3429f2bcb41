package lexer

import (
	"fmt"
	"unicode/utf8"

	"ophelia/internal/diag"
	"ophelia/internal/token"
)

var singleByte = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	';': token.Semicolon,
}

func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	kind := token.Invalid
	switch b {
	case '=':
		kind = pick(lx.cursor.Eat('='), token.EqEq, token.Assign)
	case '!':
		kind = pick(lx.cursor.Eat('='), token.BangEq, token.Bang)
	case '<':
		kind = pick(lx.cursor.Eat('='), token.LtEq, token.Lt)
	case '>':
		kind = pick(lx.cursor.Eat('='), token.GtEq, token.Gt)
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	default:
		if k, ok := singleByte[b]; ok {
			kind = k
		}
	}
	if kind == token.Invalid && b >= utf8.RuneSelf {
		// съедаем руну целиком, чтобы не репортить каждый её байт
		lx.cursor.Off = uint32(start)
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		for ; size > 0; size-- {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", lx.text(sp)))
		return token.Token{}, false
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}, true
}

func pick(cond bool, yes, no token.Kind) token.Kind {
	if cond {
		return yes
	}
	return no
}
