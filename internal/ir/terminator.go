package ir

// TermKind enumerates terminator kinds.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermJump
	TermBranch
)

func (k TermKind) String() string {
	switch k {
	case TermReturn:
		return "ret"
	case TermJump:
		return "jump"
	case TermBranch:
		return "br"
	default:
		return "none"
	}
}

// Terminator ends a block. Exactly one is set per sealed block.
type Terminator struct {
	Kind   TermKind
	Return ReturnTerm
	Jump   JumpTerm
	Branch BranchTerm
}

type ReturnTerm struct {
	HasValue bool
	Value    Value
}

type JumpTerm struct {
	Target BlockID
}

// BranchTerm jumps to Then when Cond is non-zero, to Else otherwise.
type BranchTerm struct {
	Cond Value
	Then BlockID
	Else BlockID
}

// Successors returns the target blocks in edge order.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermJump:
		return []BlockID{t.Jump.Target}
	case TermBranch:
		if t.Branch.Then == t.Branch.Else {
			return []BlockID{t.Branch.Then}
		}
		return []BlockID{t.Branch.Then, t.Branch.Else}
	default:
		return nil
	}
}
