package fuzztests

import (
	"context"
	"errors"
	"testing"

	"ophelia/internal/driver"
	"ophelia/internal/source"
)

// FuzzCompile runs the whole front end. Diagnostics are fine; a program
// that passes the checker must always lower to valid IR.
func FuzzCompile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.sy", input)
		res, err := driver.Compile(context.Background(), fs, id, driver.Options{MaxDiagnostics: 64})
		if errors.Is(err, driver.ErrInvalidIR) {
			t.Fatalf("invalid IR for %q: %v", input, err)
		}
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		if res.Bag.HasErrors() && res.Program != nil {
			t.Fatalf("program produced despite errors")
		}
		if !res.Bag.HasErrors() && res.Program == nil {
			t.Fatalf("no program without errors")
		}
	})
}
