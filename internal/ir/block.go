package ir

import "slices"

// BlockID indexes Func.Blocks.
type BlockID uint32

// BlockState is the liveness tag of a block.
type BlockState uint8

const (
	// BlockBuilding accepts instructions.
	BlockBuilding BlockState = iota
	// BlockSealed has its terminator and is reachable.
	BlockSealed
	// BlockDead was entered without predecessors; appends into it are dropped
	// and it never joins the function's block order.
	BlockDead
)

func (s BlockState) String() string {
	switch s {
	case BlockBuilding:
		return "building"
	case BlockSealed:
		return "sealed"
	case BlockDead:
		return "dead"
	default:
		return "?"
	}
}

type Block struct {
	ID       BlockID
	Label    string
	Instrs   []Instr
	Term     Terminator
	Preds    []BlockID
	State    BlockState
	Attached bool
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

func (b *Block) addPred(p BlockID) {
	if !slices.Contains(b.Preds, p) {
		b.Preds = append(b.Preds, p)
	}
}
