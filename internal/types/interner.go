package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Unknown TypeID
	Int     TypeID
	Void    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// One interner serves one compilation unit and is not safe for concurrent use.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	fns      []FnInfo
	fnIndex  map[string]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:   make(map[Type]TypeID, 32),
		fnIndex: make(map[string]TypeID),
	}
	in.types = append(in.types, Type{}) // 0 — NoTypeID
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(MakeArray(elem, count))
}

func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(MakePointer(elem))
}

// ArrayOf builds a (possibly nested) array of ints: dims {2, 3} is [[i32, 3], 2].
func (in *Interner) ArrayOf(dims []uint32) TypeID {
	id := in.builtins.Int
	for i := len(dims) - 1; i >= 0; i-- {
		id = in.Array(id, dims[i])
	}
	return id
}
