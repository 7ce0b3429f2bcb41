package symbols

import (
	"ophelia/internal/ir"
	"ophelia/internal/source"
	"ophelia/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	// SymbolVar is a mutable scalar.
	SymbolVar
	// SymbolConst is a const scalar or const array; its values live in Symbol.Const.
	SymbolConst
	// SymbolArray is a mutable array.
	SymbolArray
	SymbolFunction
	// SymbolParam is a formal parameter: a scalar or an array pointer.
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "variable"
	case SymbolConst:
		return "constant"
	case SymbolArray:
		return "array"
	case SymbolFunction:
		return "function"
	case SymbolParam:
		return "parameter"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagBuiltin marks runtime library functions.
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	// SymbolFlagGlobal marks symbols of the outermost frame.
	SymbolFlagGlobal
	// SymbolFlagRecovered marks a symbol whose type or constant value is a
	// placeholder left after a reported error.
	SymbolFlagRecovered
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	var labels []string
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagGlobal != 0 {
		labels = append(labels, "global")
	}
	if f&SymbolFlagRecovered != 0 {
		labels = append(labels, "recovered")
	}
	return labels
}

// Symbol is one declared name.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Flags SymbolFlags
	Type  types.TypeID
	// Depth of the declaring frame, 0 for globals.
	Depth int
	Span  source.Span
	// Const holds the folded values of a SymbolConst, flattened row-major.
	Const []int32
	// Handle is bound by the IR generator: the address of a variable or
	// array, the callee of a function.
	Handle ir.Value
}

func (s *Symbol) IsGlobal() bool {
	return s != nil && s.Flags&SymbolFlagGlobal != 0
}

func (s *Symbol) IsBuiltin() bool {
	return s != nil && s.Flags&SymbolFlagBuiltin != 0
}

// Assignable reports whether the symbol may appear as an assignment target.
func (s *Symbol) Assignable() bool {
	switch s.Kind {
	case SymbolVar, SymbolArray, SymbolParam:
		return true
	}
	return false
}
