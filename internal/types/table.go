package types

import (
	"errors"
	"fmt"
	"slices"
)

// Table is a serialisable snapshot of an Interner. TypeIDs are indices into Types.
type Table struct {
	Types []Type
	Fns   []FnInfo
}

var errTableMismatch = errors.New("types: table does not match builtin layout")

// Export copies the interner contents in id order.
func (in *Interner) Export() Table {
	t := Table{
		Types: slices.Clone(in.types),
		Fns:   make([]FnInfo, len(in.fns)),
	}
	for i, fn := range in.fns {
		t.Fns[i] = FnInfo{Params: slices.Clone(fn.Params), Result: fn.Result}
	}
	return t
}

// Import rebuilds an interner from a snapshot so that every TypeID keeps its value.
func Import(t Table) (*Interner, error) {
	in := NewInterner()
	if len(t.Types) < len(in.types) {
		return nil, errTableMismatch
	}
	for i := range in.types {
		if t.Types[i] != in.types[i] {
			return nil, errTableMismatch
		}
	}
	for i := len(in.types); i < len(t.Types); i++ {
		tt := t.Types[i]
		var id TypeID
		if tt.Kind == KindFn {
			if int(tt.Payload) >= len(t.Fns) {
				return nil, fmt.Errorf("types: fn payload %d out of range", tt.Payload)
			}
			info := t.Fns[tt.Payload]
			id = in.RegisterFn(info.Params, info.Result)
		} else {
			id = in.Intern(tt)
		}
		if int(id) != i {
			return nil, fmt.Errorf("types: entry %d re-interned as %d", i, id)
		}
	}
	return in, nil
}
