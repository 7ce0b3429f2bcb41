package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Int == NoTypeID || b.Void == NoTypeID || b.Unknown == NoTypeID {
		t.Fatalf("builtins not initialized: %+v", b)
	}
	if in.Kind(b.Int) != KindInt {
		t.Fatalf("expected int kind, got %v", in.Kind(b.Int))
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatalf("NoTypeID must not resolve")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	a1 := in.ArrayOf([]uint32{2, 3})
	a2 := in.Array(in.Array(in.Builtins().Int, 3), 2)
	if a1 != a2 {
		t.Fatalf("array types should be deduplicated")
	}
	if in.Pointer(in.Builtins().Int) != in.Pointer(in.Builtins().Int) {
		t.Fatalf("pointer types should be deduplicated")
	}
	f1 := in.RegisterFn([]TypeID{a1}, in.Builtins().Int)
	f2 := in.RegisterFn([]TypeID{a1}, in.Builtins().Int)
	f3 := in.RegisterFn(nil, in.Builtins().Int)
	if f1 != f2 || f1 == f3 {
		t.Fatalf("fn dedup broken: %d %d %d", f1, f2, f3)
	}
}

func TestShapes(t *testing.T) {
	in := NewInterner()
	arr := in.ArrayOf([]uint32{2, 3})
	if got := in.String(arr); got != "[[i32, 3], 2]" {
		t.Fatalf("String = %q", got)
	}
	if got := in.Describe(arr); got != "int[2][3]" {
		t.Fatalf("Describe = %q", got)
	}
	if got := in.SizeOf(arr); got != 24 {
		t.Fatalf("SizeOf = %d", got)
	}
	row := in.Decay(arr)
	if got := in.String(row); got != "*[i32, 3]" {
		t.Fatalf("decay = %q", got)
	}
	if got := in.Describe(row); got != "int[][3]" {
		t.Fatalf("Describe(ptr) = %q", got)
	}
	if !in.Compatible(row, arr) {
		t.Fatalf("array must decay to row pointer")
	}
	if in.Compatible(in.Pointer(in.Builtins().Int), arr) {
		t.Fatalf("int[2][3] must not be accepted as int[]")
	}
	if !in.Compatible(row, in.Builtins().Unknown) {
		t.Fatalf("unknown is compatible with anything")
	}
	fn := in.RegisterFn([]TypeID{in.Builtins().Int, row}, in.Builtins().Void)
	if got := in.String(fn); got != "(i32, *[i32, 3])" {
		t.Fatalf("fn String = %q", got)
	}
}

func TestExportImportKeepsIDs(t *testing.T) {
	in := NewInterner()
	arr := in.ArrayOf([]uint32{4, 2})
	ptr := in.Pointer(in.Array(in.Builtins().Int, 2))
	fn := in.RegisterFn([]TypeID{in.Builtins().Int, ptr}, in.Builtins().Void)

	out, err := Import(in.Export())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, id := range []TypeID{arr, ptr, fn} {
		if in.String(id) != out.String(id) {
			t.Fatalf("type %d: %s != %s", id, in.String(id), out.String(id))
		}
	}
	if got := out.ArrayOf([]uint32{4, 2}); got != arr {
		t.Fatalf("re-interning gave %d, want %d", got, arr)
	}
}

func TestImportRejectsForeignTable(t *testing.T) {
	if _, err := Import(Table{Types: []Type{{}}}); err == nil {
		t.Fatalf("expected error for truncated table")
	}
}
