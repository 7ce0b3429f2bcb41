package ir

import (
	"fmt"

	"ophelia/internal/types"
)

// ValueKind distinguishes what a Value refers to.
type ValueKind uint8

const (
	// ValueNone is the zero Value: "no result".
	ValueNone ValueKind = iota
	// ValueConst is an i32 literal stored in Imm.
	ValueConst
	// ValueTemp is the result of an instruction; ID is unique within the function.
	ValueTemp
	// ValueGlobal is the address of Program.Globals[ID].
	ValueGlobal
	// ValueParam is the incoming Func.Params[ID].
	ValueParam
	// ValueFunc names Program.Funcs[ID]; only used as a callee.
	ValueFunc
	// ValueUndef is returned by appends into a terminated or dead block.
	ValueUndef
)

func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueConst:
		return "const"
	case ValueTemp:
		return "temp"
	case ValueGlobal:
		return "global"
	case ValueParam:
		return "param"
	case ValueFunc:
		return "func"
	case ValueUndef:
		return "undef"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Value is a reference to an IR temporary, a literal or a named entity.
// Values are plain data; identity is (Kind, ID) inside the owning function.
type Value struct {
	Kind ValueKind
	ID   uint32
	Imm  int32
	Type types.TypeID
}

// Const builds an i32 literal.
func Const(v int32, ty types.TypeID) Value {
	return Value{Kind: ValueConst, Imm: v, Type: ty}
}

// Undef is a placeholder of type ty.
func Undef(ty types.TypeID) Value {
	return Value{Kind: ValueUndef, Type: ty}
}

func (v Value) IsNone() bool  { return v.Kind == ValueNone }
func (v Value) IsConst() bool { return v.Kind == ValueConst }

// Is reports whether v and o refer to the same entity.
func (v Value) Is(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == ValueConst {
		return v.Imm == o.Imm
	}
	return v.ID == o.ID
}
