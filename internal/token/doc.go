// Package token defines lexical token kinds of the Ophelia language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - `int` and `void` are keywords: the language has no user-defined types.
package token
