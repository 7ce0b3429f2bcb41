package lexer

import (
	"fmt"
	"strconv"

	"ophelia/internal/diag"
	"ophelia/internal/token"
)

// MaxLiteral is the largest magnitude an integer literal may have:
// 2^31 is accepted so that -2147483648 can be written.
const MaxLiteral = 1 << 31

// scanNumber: 0, [1-9][0-9]*, 0[0-7]+, 0[xX][0-9a-fA-F]+.
// Некорректные формы репортятся, токен всё равно IntLit со значением 0,
// чтобы парсер не сыпал каскадом ошибок.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	base := 10
	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			base = 16
			lx.cursor.Bump()
			lx.cursor.Bump()
		default:
			base = 8
		}
	}
	digitsFrom := lx.cursor.Off
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	digits := string(lx.file.Content[digitsFrom:lx.cursor.Off])

	if msg := validDigits(digits, base); msg != "" {
		lx.report(diag.LexBadNumber, sp, fmt.Sprintf("invalid integer literal %q: %s", text, msg))
		return token.Token{Kind: token.IntLit, Span: sp, Text: "0"}
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil || v > MaxLiteral {
		lx.report(diag.LexNumberOverflow, sp, fmt.Sprintf("integer literal %s does not fit in 32 bits", text))
		return token.Token{Kind: token.IntLit, Span: sp, Text: "0"}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

func validDigits(digits string, base int) string {
	if digits == "" {
		return "missing digits"
	}
	for i := 0; i < len(digits); i++ {
		b := digits[i]
		switch {
		case base == 16 && isHex(b), base == 10 && isDec(b), base == 8 && isOct(b):
		default:
			return fmt.Sprintf("unexpected %q for base %d", b, base)
		}
	}
	return ""
}

// Value parses the text of an IntLit produced by the lexer.
func Value(text string) int64 {
	// base 0: "017" восьмеричное, "0x1f" шестнадцатеричное
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0
	}
	return v
}
