package ir_test

import (
	"strings"
	"testing"

	"ophelia/internal/ir"
	"ophelia/internal/types"
)

func TestValidateReportsAllViolations(t *testing.T) {
	in := types.NewInterner()
	i32 := in.Builtins().Int
	p := ir.NewProgram(in)
	p.Funcs = append(p.Funcs, &ir.Func{
		Name:   "broken",
		Result: i32,
		Blocks: []*ir.Block{
			{ID: 0, Label: "entry", Attached: true, State: ir.BlockSealed,
				Term: ir.Terminator{Kind: ir.TermJump, Jump: ir.JumpTerm{Target: 1}}},
			{ID: 1, Label: "next", Attached: true,
				Instrs: []ir.Instr{{Op: ir.OpBinary, Bin: ir.BinAdd,
					Args: []ir.Value{{Kind: ir.ValueTemp, ID: 9, Type: i32}, ir.Const(1, i32)}}}},
			{ID: 2, Label: "ret", Attached: true, State: ir.BlockSealed,
				Term: ir.Terminator{Kind: ir.TermReturn}},
		},
		Order: []ir.BlockID{0, 1, 2},
	})

	err := ir.Validate(p)
	if err == nil {
		t.Fatalf("expected violations")
	}
	msg := err.Error()
	for _, want := range []string{
		"function broken",
		"%next: unterminated block",
		"%next: missing predecessor %entry",
		"%9 used before definition",
		"%ret: missing return value",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestValidateSkipsExternal(t *testing.T) {
	b, i32 := newBuilder()
	b.DeclareFunc("getint", nil, i32)
	if err := ir.Validate(b.Program()); err != nil {
		t.Fatalf("external functions have no body: %v", err)
	}
}
