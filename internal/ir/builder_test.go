package ir_test

import (
	"strings"
	"testing"

	"ophelia/internal/ir"
	"ophelia/internal/types"
)

func newBuilder() (*ir.Builder, types.TypeID) {
	in := types.NewInterner()
	return ir.NewBuilder(ir.NewProgram(in)), in.Builtins().Int
}

func TestBuilderConstantReturn(t *testing.T) {
	b, i32 := newBuilder()
	b.BeginFunc("main", nil, i32)
	b.EmitReturn(ir.Const(7, i32))
	if err := b.EndFunc(); err != nil {
		t.Fatalf("EndFunc: %v", err)
	}
	want := "fun @main(): i32 {\n%entry:\n  ret 7\n}\n"
	if got := b.Program().String(); got != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
	if err := ir.Validate(b.Program()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuilderDropsCodeAfterTerminator(t *testing.T) {
	b, i32 := newBuilder()
	b.BeginFunc("main", nil, i32)
	b.EmitReturn(ir.Const(0, i32))

	v := b.Binary(ir.BinAdd, ir.Const(1, i32), ir.Const(2, i32))
	if v.Kind != ir.ValueUndef {
		t.Fatalf("append after ret must yield undef, got %v", v.Kind)
	}
	b.EmitJump(0)

	after := b.NewBlock("after")
	if b.SetInsert(after) {
		t.Fatalf("block without predecessors must not be live")
	}
	b.Store(ir.Const(1, i32), ir.Const(0, i32))
	if err := b.EndFunc(); err != nil {
		t.Fatalf("EndFunc: %v", err)
	}

	f := b.Program().Func("main")
	if len(f.Order) != 1 {
		t.Fatalf("dead block laid out: %v", f.Order)
	}
	if n := len(f.Blocks[f.Entry].Instrs); n != 0 {
		t.Fatalf("entry got %d instructions", n)
	}
	if f.Blocks[after].State != ir.BlockDead {
		t.Fatalf("after: state %s", f.Blocks[after].State)
	}
	if f.NumTemps != 0 {
		t.Fatalf("dropped appends must not consume temps, got %d", f.NumTemps)
	}
}

func TestBuilderBranchAndPredecessors(t *testing.T) {
	b, i32 := newBuilder()
	b.BeginFunc("f", []ir.Param{{Name: "x", Type: i32}}, i32)
	slot := b.Alloc("x", i32)
	b.Store(b.Param(0), slot)
	cond := b.Load(slot)
	then := b.NewBlock("then")
	els := b.NewBlock("else")
	b.EmitBranch(cond, then, els)
	if !b.SetInsert(then) {
		t.Fatalf("then must be live")
	}
	b.EmitReturn(ir.Const(1, i32))
	b.SetInsert(els)
	b.EmitReturn(ir.Const(0, i32))
	if err := b.EndFunc(); err != nil {
		t.Fatalf("EndFunc: %v", err)
	}

	want := strings.Join([]string{
		"fun @f(@x: i32): i32 {",
		"%entry:",
		"  @x_1 = alloc i32",
		"  store @x, @x_1",
		"  %1 = load @x_1",
		"  br %1, %then_1, %else_2",
		"%then_1:",
		"  ret 1",
		"%else_2:",
		"  ret 0",
		"}",
		"",
	}, "\n")
	if got := b.Program().String(); got != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
	f := b.Program().Func("f")
	if got := f.Blocks[then].Preds; len(got) != 1 || got[0] != f.Entry {
		t.Fatalf("then preds = %v", got)
	}
	if err := ir.Validate(b.Program()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuilderTempsIncrease(t *testing.T) {
	b, i32 := newBuilder()
	b.BeginFunc("main", nil, i32)
	var last uint32
	for i := 0; i < 5; i++ {
		v := b.Binary(ir.BinMul, ir.Const(int32(i), i32), ir.Const(2, i32))
		if i > 0 && v.ID <= last {
			t.Fatalf("temp id %d not above %d", v.ID, last)
		}
		last = v.ID
	}
	b.EmitReturn(ir.Const(0, i32))
	if err := b.EndFunc(); err != nil {
		t.Fatalf("EndFunc: %v", err)
	}
}

func TestEndFuncRejectsOpenBlock(t *testing.T) {
	b, i32 := newBuilder()
	b.BeginFunc("main", nil, i32)
	if err := b.EndFunc(); err == nil {
		t.Fatalf("expected error for unterminated entry")
	}
}
