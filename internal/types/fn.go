package types

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	key := fnKey(params, result)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Result: result})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindFn, Payload: slot})
	in.fnIndex[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func fnKey(params []TypeID, result TypeID) string {
	var sb strings.Builder
	for _, p := range params {
		fmt.Fprintf(&sb, "%d,", p)
	}
	fmt.Fprintf(&sb, ":%d", result)
	return sb.String()
}
