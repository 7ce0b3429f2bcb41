package token

import (
	"ophelia/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwInt && t.Kind <= KwReturn
}

// IsOperator reports whether the token is an arithmetic, relational or logical operator.
func (t Token) IsOperator() bool {
	return t.Kind >= Plus && t.Kind <= OrOr
}

// IsTypeStart reports whether the token can begin a declaration or definition.
func (t Token) IsTypeStart() bool {
	return t.Kind == KwInt || t.Kind == KwVoid || t.Kind == KwConst
}
