package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit

	KwInt      // int
	KwVoid     // void
	KwConst    // const
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwBreak    // break
	KwContinue // continue
	KwReturn   // return

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Bang    // !
	Assign  // =
	EqEq    // ==
	BangEq  // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
	AndAnd  // &&
	OrOr    // ||

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Semicolon // ;
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	IntLit:     "integer literal",
	KwInt:      "'int'",
	KwVoid:     "'void'",
	KwConst:    "'const'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwWhile:    "'while'",
	KwBreak:    "'break'",
	KwContinue: "'continue'",
	KwReturn:   "'return'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Bang:       "'!'",
	Assign:     "'='",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	LParen:     "'('",
	RParen:     "')'",
	LBracket:   "'['",
	RBracket:   "']'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	Comma:      "','",
	Semicolon:  "';'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
