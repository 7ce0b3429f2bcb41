package ir

import (
	"fmt"

	"ophelia/internal/types"
)

// Op enumerates instruction opcodes. Terminators are not instructions,
// see Terminator.
type Op uint8

const (
	OpAlloc Op = iota
	OpLoad
	OpStore
	OpGetPtr
	OpGetElemPtr
	OpBinary
	OpCall
)

var opNames = [...]string{
	OpAlloc:      "alloc",
	OpLoad:       "load",
	OpStore:      "store",
	OpGetPtr:     "getptr",
	OpGetElemPtr: "getelemptr",
	OpBinary:     "binary",
	OpCall:       "call",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// BinOp is the operator of an OpBinary instruction.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinGt
	BinLe
	BinGe
	BinAnd // bitwise
	BinOr  // bitwise
)

var binOpNames = [...]string{
	BinAdd: "add", BinSub: "sub", BinMul: "mul", BinDiv: "div", BinMod: "mod",
	BinEq: "eq", BinNe: "ne", BinLt: "lt", BinGt: "gt", BinLe: "le", BinGe: "ge",
	BinAnd: "and", BinOr: "or",
}

func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return fmt.Sprintf("BinOp(%d)", op)
}

// Instr is one non-terminating instruction.
//
//	alloc       Result = alloc Elem(Type); Name is a debug name
//	load        Result = *Args[0]
//	store       *Args[1] = Args[0]
//	getptr      Result = Args[0] + Args[1]*sizeof(elem)
//	getelemptr  Result = &(*Args[0])[Args[1]]
//	binary      Result = Args[0] Bin Args[1]
//	call        Result = Callee(Args...), Result is none for void callees
type Instr struct {
	Op     Op
	Bin    BinOp
	Args   []Value
	Callee Value
	Result Value
	Type   types.TypeID // type of Result, NoTypeID when there is none
	Name   string
}

// HasResult reports whether the instruction defines a temp.
func (in *Instr) HasResult() bool {
	return in.Result.Kind == ValueTemp
}

// Operands returns every value the instruction reads.
func (in *Instr) Operands() []Value {
	return in.Args
}
