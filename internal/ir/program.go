package ir

import "ophelia/internal/types"

// Global is a program-level object. Init holds the flattened initial
// contents in row-major order; nil means zero-initialised.
type Global struct {
	Name  string
	Type  types.TypeID
	Init  []int32
	Const bool
}

// Program is the output of one compilation unit.
type Program struct {
	Types   *types.Interner `msgpack:"-"`
	Globals []*Global
	Funcs   []*Func
}

func NewProgram(typesIn *types.Interner) *Program {
	return &Program{Types: typesIn}
}

// Func looks a function up by name.
func (p *Program) Func(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Defined returns the functions with bodies in source order.
func (p *Program) Defined() []*Func {
	out := make([]*Func, 0, len(p.Funcs))
	for _, f := range p.Funcs {
		if !f.External {
			out = append(out, f)
		}
	}
	return out
}
