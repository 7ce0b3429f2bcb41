package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown is the recovery type: the checker assigns it to
	// expressions whose type could not be determined, and it is
	// compatible with everything so one mistake is reported once.
	KindUnknown
	KindInt
	KindVoid
	KindArray
	KindPointer
	KindFn
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindInt:
		return "int"
	case KindVoid:
		return "void"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindFn:
		return "fn"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IntSize is the size of `int` in bytes; every object is built from ints.
const IntSize = 4

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // array/pointer element
	Count   uint32 // array length
	Payload uint32 // index into fn infos for KindFn
}

func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}
