package symbols

import (
	"ophelia/internal/types"
)

// PreludeParam describes one runtime library parameter.
type PreludeParam struct {
	Name  string
	Array bool // int[]
}

// PreludeEntry is one runtime library function.
type PreludeEntry struct {
	Name   string
	Params []PreludeParam
	Void   bool
}

// RuntimeLibrary lists the functions every program may call without declaring.
func RuntimeLibrary() []PreludeEntry {
	return []PreludeEntry{
		{Name: "getint"},
		{Name: "getch"},
		{Name: "getarray", Params: []PreludeParam{{Name: "a", Array: true}}},
		{Name: "putint", Params: []PreludeParam{{Name: "n"}}, Void: true},
		{Name: "putch", Params: []PreludeParam{{Name: "c"}}, Void: true},
		{Name: "putarray", Params: []PreludeParam{{Name: "n"}, {Name: "a", Array: true}}, Void: true},
		{Name: "starttime", Void: true},
		{Name: "stoptime", Void: true},
	}
}

// InstallPrelude declares the runtime library in the global frame.
// It must run before any user declaration.
func (t *Table) InstallPrelude(in *types.Interner) []*Symbol {
	b := in.Builtins()
	entries := RuntimeLibrary()
	out := make([]*Symbol, 0, len(entries))
	for _, e := range entries {
		params := make([]types.TypeID, len(e.Params))
		for i, p := range e.Params {
			params[i] = b.Int
			if p.Array {
				params[i] = in.Pointer(b.Int)
			}
		}
		result := b.Int
		if e.Void {
			result = b.Void
		}
		sym := &Symbol{
			Name:  e.Name,
			Kind:  SymbolFunction,
			Flags: SymbolFlagBuiltin,
			Type:  in.RegisterFn(params, result),
		}
		if err := t.Insert(sym); err != nil {
			panic(err)
		}
		out = append(out, sym)
	}
	return out
}
