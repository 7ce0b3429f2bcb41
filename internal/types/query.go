package types

import (
	"fmt"
	"strings"
)

// IsScalar reports whether values of id are plain ints (Unknown counts as scalar).
func (in *Interner) IsScalar(id TypeID) bool {
	switch in.Kind(id) {
	case KindInt, KindUnknown:
		return true
	}
	return false
}

// IsArrayLike reports whether id can be indexed: arrays and pointers.
func (in *Interner) IsArrayLike(id TypeID) bool {
	switch in.Kind(id) {
	case KindArray, KindPointer:
		return true
	}
	return false
}

// Elem returns the element type of an array or pointer, NoTypeID otherwise.
func (in *Interner) Elem(id TypeID) TypeID {
	tt, _ := in.Lookup(id)
	if tt.Kind == KindArray || tt.Kind == KindPointer {
		return tt.Elem
	}
	return NoTypeID
}

// Decay turns an array into a pointer to its first element; other types are unchanged.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, _ := in.Lookup(id)
	if tt.Kind == KindArray {
		return in.Pointer(tt.Elem)
	}
	return id
}

// Dims returns the array dimensions of id: [[i32, 3], 2] → {2, 3}.
func (in *Interner) Dims(id TypeID) []uint32 {
	var dims []uint32
	for {
		tt, _ := in.Lookup(id)
		if tt.Kind != KindArray {
			return dims
		}
		dims = append(dims, tt.Count)
		id = tt.Elem
	}
}

// SizeOf returns the size in bytes; ints and pointers are one word.
func (in *Interner) SizeOf(id TypeID) uint64 {
	tt, _ := in.Lookup(id)
	switch tt.Kind {
	case KindInt, KindPointer:
		return IntSize
	case KindArray:
		return uint64(tt.Count) * in.SizeOf(tt.Elem)
	}
	return 0
}

// Compatible reports whether a value of type src may be passed where dst is expected:
// identical types, an array decaying to the expected pointer, or Unknown on either side.
func (in *Interner) Compatible(dst, src TypeID) bool {
	if dst == src || in.Kind(dst) == KindUnknown || in.Kind(src) == KindUnknown {
		return true
	}
	return in.Decay(src) == dst
}

// String renders id in IR notation: i32, [i32, 3], *i32, (i32, *i32): i32.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindInt:
		return "i32"
	case KindVoid:
		return "unit"
	case KindUnknown:
		return "?"
	case KindArray:
		return fmt.Sprintf("[%s, %d]", in.String(tt.Elem), tt.Count)
	case KindPointer:
		return "*" + in.String(tt.Elem)
	case KindFn:
		info, _ := in.FnInfo(id)
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = in.String(p)
		}
		s := "(" + strings.Join(parts, ", ") + ")"
		if in.Kind(info.Result) != KindVoid {
			s += ": " + in.String(info.Result)
		}
		return s
	}
	return tt.Kind.String()
}

// Describe renders id in source terms for diagnostics: int, int[3][2], int[][2].
func (in *Interner) Describe(id TypeID) string {
	tt, _ := in.Lookup(id)
	switch tt.Kind {
	case KindArray:
		var sb strings.Builder
		sb.WriteString("int")
		for _, d := range in.Dims(id) {
			fmt.Fprintf(&sb, "[%d]", d)
		}
		return sb.String()
	case KindPointer:
		var sb strings.Builder
		sb.WriteString("int[]")
		for _, d := range in.Dims(tt.Elem) {
			fmt.Fprintf(&sb, "[%d]", d)
		}
		return sb.String()
	case KindFn:
		return "function"
	}
	return tt.Kind.String()
}
