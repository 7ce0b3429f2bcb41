package symbols

import (
	"errors"
	"testing"

	"ophelia/internal/types"
)

func TestInsertDuplicateInSameScope(t *testing.T) {
	table := NewTable()
	table.PushScope()
	if err := table.Insert(&Symbol{Name: "x", Kind: SymbolVar}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := table.Insert(&Symbol{Name: "x", Kind: SymbolVar})
	var dup *DuplicateError
	if !errors.As(err, &dup) || !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.Prev == nil || dup.Prev.Name != "x" {
		t.Fatalf("previous symbol not reported: %+v", dup)
	}
	if n := len(table.Scope()); n != 1 {
		t.Fatalf("failed insert must not change the frame, have %d symbols", n)
	}
}

func TestShadowingAndPop(t *testing.T) {
	table := NewTable()
	outer := &Symbol{Name: "a", Kind: SymbolVar}
	if err := table.Insert(outer); err != nil {
		t.Fatalf("insert: %v", err)
	}
	table.PushScope()
	inner := &Symbol{Name: "a", Kind: SymbolConst}
	if err := table.Insert(inner); err != nil {
		t.Fatalf("shadowing must be legal: %v", err)
	}
	if got, _ := table.Lookup("a"); got != inner {
		t.Fatalf("lookup should find the innermost symbol")
	}
	if inner.Depth != 1 || outer.Depth != 0 || !outer.IsGlobal() || inner.IsGlobal() {
		t.Fatalf("depths: outer=%d inner=%d", outer.Depth, inner.Depth)
	}
	table.PopScope()
	if got, _ := table.Lookup("a"); got != outer {
		t.Fatalf("lookup after pop should find the outer symbol")
	}
	if _, ok := table.Lookup("missing"); ok {
		t.Fatalf("missing name resolved")
	}
}

func TestLookupCurrent(t *testing.T) {
	table := NewTable()
	if err := table.Insert(&Symbol{Name: "g"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	table.PushScope()
	if _, ok := table.LookupCurrent("g"); ok {
		t.Fatalf("LookupCurrent must not see outer frames")
	}
}

func TestPopGlobalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewTable().PopScope()
}

func TestInstallPrelude(t *testing.T) {
	in := types.NewInterner()
	table := NewTable()
	syms := table.InstallPrelude(in)
	if len(syms) != len(RuntimeLibrary()) {
		t.Fatalf("installed %d of %d", len(syms), len(RuntimeLibrary()))
	}
	sym, ok := table.Lookup("putarray")
	if !ok || !sym.IsBuiltin() || sym.Kind != SymbolFunction {
		t.Fatalf("putarray not installed: %+v", sym)
	}
	if got := in.String(sym.Type); got != "(i32, *i32)" {
		t.Fatalf("putarray type = %s", got)
	}
	getint, _ := table.Lookup("getint")
	if got := in.String(getint.Type); got != "(): i32" {
		t.Fatalf("getint type = %s", got)
	}
	err := table.Insert(&Symbol{Name: "getint", Kind: SymbolFunction})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("redefining a runtime function must be a duplicate, got %v", err)
	}
}

func TestInsertGlobalFromNestedScope(t *testing.T) {
	table := NewTable()
	table.PushScope()
	fn := &Symbol{Name: "f", Kind: SymbolFunction}
	if err := table.InsertGlobal(fn); err != nil {
		t.Fatalf("InsertGlobal: %v", err)
	}
	if !fn.IsGlobal() || fn.Depth != 0 {
		t.Fatalf("function must live in the global frame: %+v", fn)
	}
	if _, ok := table.LookupCurrent("f"); ok {
		t.Fatalf("global symbol leaked into the current frame")
	}
	if !errors.Is(table.InsertGlobal(&Symbol{Name: "f"}), ErrDuplicate) {
		t.Fatalf("expected duplicate")
	}
}
