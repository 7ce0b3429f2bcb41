package ir

import "ophelia/internal/types"

// Param is a formal parameter of a function.
type Param struct {
	Name string
	Type types.TypeID
}

// Func is one function. Blocks holds every block ever created, indexed by
// BlockID; Order lists the attached ones in layout order. External functions
// (the runtime library) have no blocks.
type Func struct {
	Name     string
	Type     types.TypeID
	Result   types.TypeID
	Params   []Param
	Blocks   []*Block
	Order    []BlockID
	Entry    BlockID
	External bool
	NumTemps uint32
}

// Block returns the block with the given id or nil.
func (f *Func) Block(id BlockID) *Block {
	if f == nil || int(id) >= len(f.Blocks) {
		return nil
	}
	return f.Blocks[id]
}

// Layout returns the attached blocks in order.
func (f *Func) Layout() []*Block {
	out := make([]*Block, 0, len(f.Order))
	for _, id := range f.Order {
		out = append(out, f.Blocks[id])
	}
	return out
}
