package fuzztests

import (
	"testing"

	"ophelia/internal/diag"
	"ophelia/internal/lexer"
	"ophelia/internal/source"
	"ophelia/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sy", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		// каждый токен продвигает позицию, иначе лексер зациклится
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End <= tok.Span.Start {
				t.Fatalf("token %d %v: bad span %v after %d", i, tok.Kind, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
			if i > len(input) {
				t.Fatalf("more tokens than input bytes")
			}
		}
	})
}
