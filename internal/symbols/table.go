package symbols

import (
	"errors"
	"fmt"
)

// ErrDuplicate is wrapped by *DuplicateError.
var ErrDuplicate = errors.New("duplicated definition")

// DuplicateError reports a name already declared in the current scope.
type DuplicateError struct {
	Name string
	Prev *Symbol
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicate, e.Name)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

type frame struct {
	syms  []*Symbol
	index map[string]*Symbol
}

// Table is a stack of scope frames. Frame 0 is the global scope holding
// functions, global variables and the runtime library.
type Table struct {
	frames []frame
}

func NewTable() *Table {
	t := &Table{}
	t.PushScope()
	return t
}

func (t *Table) PushScope() {
	t.frames = append(t.frames, frame{index: make(map[string]*Symbol)})
}

// PopScope discards the innermost frame. The global frame is never popped.
func (t *Table) PopScope() {
	if len(t.frames) <= 1 {
		panic("symbols: pop of global scope")
	}
	t.frames[len(t.frames)-1] = frame{}
	t.frames = t.frames[:len(t.frames)-1]
}

// Depth is the index of the current frame; 0 is global.
func (t *Table) Depth() int {
	return len(t.frames) - 1
}

// Insert declares sym in the current frame. Shadowing outer frames is legal;
// a second declaration in the same frame returns *DuplicateError and
// leaves the table unchanged.
func (t *Table) Insert(sym *Symbol) error {
	cur := &t.frames[len(t.frames)-1]
	if prev, ok := cur.index[sym.Name]; ok {
		return &DuplicateError{Name: sym.Name, Prev: prev}
	}
	sym.Depth = t.Depth()
	if sym.Depth == 0 {
		sym.Flags |= SymbolFlagGlobal
	}
	cur.syms = append(cur.syms, sym)
	cur.index[sym.Name] = sym
	return nil
}

// InsertGlobal declares sym in the global frame regardless of the current depth.
// Functions use it: their parameters are already in scope while the
// signature is being resolved.
func (t *Table) InsertGlobal(sym *Symbol) error {
	g := &t.frames[0]
	if prev, ok := g.index[sym.Name]; ok {
		return &DuplicateError{Name: sym.Name, Prev: prev}
	}
	sym.Depth = 0
	sym.Flags |= SymbolFlagGlobal
	g.syms = append(g.syms, sym)
	g.index[sym.Name] = sym
	return nil
}

// Lookup searches frames from the innermost outwards.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if sym, ok := t.frames[i].index[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrent searches the innermost frame only.
func (t *Table) LookupCurrent(name string) (*Symbol, bool) {
	sym, ok := t.frames[len(t.frames)-1].index[name]
	return sym, ok
}

// Scope returns the symbols of the current frame in declaration order.
func (t *Table) Scope() []*Symbol {
	return t.frames[len(t.frames)-1].syms
}

// Globals returns the symbols of the global frame in declaration order.
func (t *Table) Globals() []*Symbol {
	return t.frames[0].syms
}
