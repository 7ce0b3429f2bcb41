package ir

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"ophelia/internal/types"
)

// ErrNoFunction is returned by cursor operations outside BeginFunc/EndFunc.
var ErrNoFunction = errors.New("ir: no function under construction")

// Cursor is the insertion point: a function index plus a block of it.
type Cursor struct {
	Func  int
	Block BlockID
}

// Builder emits instructions at an explicit cursor. One Builder serves one
// Program; it is not safe for concurrent use.
type Builder struct {
	prog  *Program
	types *types.Interner
	cur   Cursor
	open  bool
}

func NewBuilder(prog *Program) *Builder {
	return &Builder{prog: prog, types: prog.Types}
}

func (b *Builder) Program() *Program { return b.prog }

// Cursor returns the current insertion point.
func (b *Builder) Cursor() (Cursor, bool) { return b.cur, b.open }

// AddGlobal appends a global object and returns its address.
func (b *Builder) AddGlobal(g *Global) Value {
	id := index32(len(b.prog.Globals))
	b.prog.Globals = append(b.prog.Globals, g)
	return Value{Kind: ValueGlobal, ID: id, Type: b.types.Pointer(g.Type)}
}

// DeclareFunc registers a body-less (runtime library) function.
func (b *Builder) DeclareFunc(name string, params []Param, result types.TypeID) Value {
	f := &Func{Name: name, Result: result, Params: params, External: true}
	f.Type = b.fnType(params, result)
	return b.addFunc(f)
}

// BeginFunc starts a function with an attached entry block and moves the cursor there.
func (b *Builder) BeginFunc(name string, params []Param, result types.TypeID) Value {
	f := &Func{Name: name, Result: result, Params: params}
	f.Type = b.fnType(params, result)
	v := b.addFunc(f)
	b.cur = Cursor{Func: int(v.ID)}
	b.open = true
	entry := b.NewBlock("entry")
	f.Entry = entry
	b.AttachBlock(entry)
	b.cur.Block = entry
	return v
}

// EndFunc closes the current function. Every attached block must be sealed.
func (b *Builder) EndFunc() error {
	f := b.Func()
	if f == nil {
		return ErrNoFunction
	}
	b.open = false
	for _, id := range f.Order {
		if blk := f.Blocks[id]; blk.State != BlockSealed {
			return fmt.Errorf("ir: %s: block %%%s left %s", f.Name, blk.Label, blk.State)
		}
	}
	return nil
}

// Func returns the function under construction.
func (b *Builder) Func() *Func {
	if !b.open {
		return nil
	}
	return b.prog.Funcs[b.cur.Func]
}

// Param returns the incoming value of parameter i of the current function.
func (b *Builder) Param(i int) Value {
	f := b.Func()
	return Value{Kind: ValueParam, ID: index32(i), Type: f.Params[i].Type}
}

// NewBlock creates an unlinked block; it is laid out by AttachBlock or SetInsert.
func (b *Builder) NewBlock(label string) BlockID {
	f := b.Func()
	id := BlockID(index32(len(f.Blocks)))
	if id != 0 {
		label = fmt.Sprintf("%s_%d", label, id)
	}
	f.Blocks = append(f.Blocks, &Block{ID: id, Label: label})
	return id
}

// AttachBlock appends the block to the function layout once.
func (b *Builder) AttachBlock(id BlockID) {
	f := b.Func()
	blk := f.Blocks[id]
	if blk.Attached {
		return
	}
	blk.Attached = true
	f.Order = append(f.Order, id)
}

// SetInsert moves the cursor to id. A non-entry block that nobody jumps to
// is tagged dead and stays out of the layout; the cursor still moves there so
// that subsequent appends are dropped. Reports whether the block is live.
func (b *Builder) SetInsert(id BlockID) bool {
	f := b.Func()
	blk := f.Blocks[id]
	b.cur.Block = id
	if blk.State == BlockDead {
		return false
	}
	if id != f.Entry && len(blk.Preds) == 0 {
		blk.State = BlockDead
		return false
	}
	b.AttachBlock(id)
	return blk.State == BlockBuilding
}

// Reachable reports whether the cursor points at a block that accepts instructions.
func (b *Builder) Reachable() bool {
	blk := b.current()
	return blk != nil && blk.State == BlockBuilding
}

// Current returns the block under the cursor.
func (b *Builder) Current() BlockID { return b.cur.Block }

func (b *Builder) current() *Block {
	f := b.Func()
	if f == nil {
		return nil
	}
	return f.Block(b.cur.Block)
}

// NewTemp allocates the next temp id of the current function.
func (b *Builder) NewTemp(ty types.TypeID) Value {
	f := b.Func()
	v := Value{Kind: ValueTemp, ID: f.NumTemps, Type: ty}
	f.NumTemps++
	return v
}

// Append inserts in at the end of the current block. When in.Type is set a
// fresh temp becomes its result. Appending into a terminated or dead block is
// a no-op that yields an undef of the requested type.
func (b *Builder) Append(in Instr) Value {
	blk := b.current()
	if blk == nil || blk.State != BlockBuilding {
		if in.Type == types.NoTypeID {
			return Value{}
		}
		return Undef(in.Type)
	}
	if in.Type != types.NoTypeID {
		in.Result = b.NewTemp(in.Type)
	}
	blk.Instrs = append(blk.Instrs, in)
	return in.Result
}

// Alloc reserves a local slot of type ty and returns its address.
func (b *Builder) Alloc(name string, ty types.TypeID) Value {
	return b.Append(Instr{Op: OpAlloc, Type: b.types.Pointer(ty), Name: name})
}

func (b *Builder) Load(ptr Value) Value {
	return b.Append(Instr{Op: OpLoad, Args: []Value{ptr}, Type: b.types.Elem(ptr.Type)})
}

func (b *Builder) Store(val, ptr Value) {
	b.Append(Instr{Op: OpStore, Args: []Value{val, ptr}})
}

// GetElemPtr indexes the array ptr points to: *[T, n] → *T.
func (b *Builder) GetElemPtr(ptr, idx Value) Value {
	elem := b.types.Elem(b.types.Elem(ptr.Type))
	return b.Append(Instr{Op: OpGetElemPtr, Args: []Value{ptr, idx}, Type: b.types.Pointer(elem)})
}

// GetPtr offsets a pointer by whole elements: *T → *T.
func (b *Builder) GetPtr(ptr, idx Value) Value {
	return b.Append(Instr{Op: OpGetPtr, Args: []Value{ptr, idx}, Type: ptr.Type})
}

func (b *Builder) Binary(op BinOp, lhs, rhs Value) Value {
	return b.Append(Instr{Op: OpBinary, Bin: op, Args: []Value{lhs, rhs}, Type: b.types.Builtins().Int})
}

// Call emits a call; the result is none for void callees.
func (b *Builder) Call(fn Value, args []Value) Value {
	callee := b.prog.Funcs[fn.ID]
	var ty types.TypeID
	if b.types.Kind(callee.Result) != types.KindVoid {
		ty = callee.Result
	}
	return b.Append(Instr{Op: OpCall, Callee: fn, Args: args, Type: ty})
}

// EmitBranch seals the current block with a conditional jump.
func (b *Builder) EmitBranch(cond Value, then, els BlockID) {
	b.seal(Terminator{Kind: TermBranch, Branch: BranchTerm{Cond: cond, Then: then, Else: els}})
}

// EmitJump seals the current block with an unconditional jump.
func (b *Builder) EmitJump(target BlockID) {
	b.seal(Terminator{Kind: TermJump, Jump: JumpTerm{Target: target}})
}

// EmitReturn seals the current block; pass the zero Value for a void return.
func (b *Builder) EmitReturn(v Value) {
	b.seal(Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: !v.IsNone(), Value: v}})
}

func (b *Builder) seal(t Terminator) {
	blk := b.current()
	if blk == nil || blk.State != BlockBuilding {
		return
	}
	f := b.Func()
	for _, s := range t.Successors() {
		f.Blocks[s].addPred(blk.ID)
	}
	blk.Term = t
	blk.State = BlockSealed
}

func (b *Builder) addFunc(f *Func) Value {
	id := index32(len(b.prog.Funcs))
	b.prog.Funcs = append(b.prog.Funcs, f)
	return Value{Kind: ValueFunc, ID: id, Type: f.Type}
}

func (b *Builder) fnType(params []Param, result types.TypeID) types.TypeID {
	ids := make([]types.TypeID, len(params))
	for i, p := range params {
		ids[i] = p.Type
	}
	return b.types.RegisterFn(ids, result)
}

func index32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ir: index overflow: %w", err))
	}
	return v
}
