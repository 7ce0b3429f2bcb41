package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ophelia/internal/types"
)

// Print writes the program in Koopa-style text form:
//
//	decl @getint(): i32
//	global @n = alloc i32, 3
//	fun @main(): i32 {
//	%entry:
//	  ret 7
//	}
func Print(w io.Writer, p *Program) error {
	if w == nil || p == nil {
		return nil
	}
	pr := &printer{p: p, types: p.Types}
	pr.program()
	_, err := io.WriteString(w, pr.sb.String())
	return err
}

// String renders the program; convenience for tests and debugging.
func (p *Program) String() string {
	var sb strings.Builder
	_ = Print(&sb, p)
	return sb.String()
}

type printer struct {
	sb    strings.Builder
	p     *Program
	types *types.Interner

	// per function
	used   map[string]bool
	params []string
	named  map[uint32]string
}

func (pr *printer) program() {
	decls := 0
	for _, f := range pr.p.Funcs {
		if f.External {
			pr.decl(f)
			decls++
		}
	}
	if decls > 0 {
		pr.sb.WriteByte('\n')
	}
	for _, g := range pr.p.Globals {
		pr.global(g)
	}
	if len(pr.p.Globals) > 0 {
		pr.sb.WriteByte('\n')
	}
	first := true
	for _, f := range pr.p.Funcs {
		if f.External {
			continue
		}
		if !first {
			pr.sb.WriteByte('\n')
		}
		first = false
		pr.fun(f)
	}
}

func (pr *printer) decl(f *Func) {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = pr.types.String(p.Type)
	}
	fmt.Fprintf(&pr.sb, "decl @%s(%s)%s\n", f.Name, strings.Join(parts, ", "), pr.result(f))
}

func (pr *printer) global(g *Global) {
	fmt.Fprintf(&pr.sb, "global @%s = alloc %s, ", g.Name, pr.types.String(g.Type))
	if g.Init == nil {
		pr.sb.WriteString("zeroinit")
	} else {
		pr.aggregate(g.Init, pr.types.Dims(g.Type))
	}
	pr.sb.WriteByte('\n')
}

// aggregate prints init shaped by dims and returns the unconsumed tail.
func (pr *printer) aggregate(init []int32, dims []uint32) []int32 {
	if len(dims) == 0 {
		v := int32(0)
		if len(init) > 0 {
			v, init = init[0], init[1:]
		}
		pr.sb.WriteString(strconv.FormatInt(int64(v), 10))
		return init
	}
	pr.sb.WriteByte('{')
	for i := uint32(0); i < dims[0]; i++ {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		init = pr.aggregate(init, dims[1:])
	}
	pr.sb.WriteByte('}')
	return init
}

func (pr *printer) result(f *Func) string {
	if pr.types.Kind(f.Result) == types.KindVoid {
		return ""
	}
	return ": " + pr.types.String(f.Result)
}

func (pr *printer) fun(f *Func) {
	pr.used = make(map[string]bool, len(pr.p.Globals)+len(pr.p.Funcs))
	for _, g := range pr.p.Globals {
		pr.used[g.Name] = true
	}
	for _, fn := range pr.p.Funcs {
		pr.used[fn.Name] = true
	}
	pr.params = make([]string, len(f.Params))
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		pr.params[i] = pr.fresh(p.Name)
		parts[i] = fmt.Sprintf("@%s: %s", pr.params[i], pr.types.String(p.Type))
	}
	pr.named = make(map[uint32]string)
	for _, blk := range f.Layout() {
		for i := range blk.Instrs {
			in := &blk.Instrs[i]
			if in.Op == OpAlloc && in.Name != "" {
				pr.named[in.Result.ID] = pr.fresh(in.Name)
			}
		}
	}

	fmt.Fprintf(&pr.sb, "fun @%s(%s)%s {\n", f.Name, strings.Join(parts, ", "), pr.result(f))
	for _, blk := range f.Layout() {
		fmt.Fprintf(&pr.sb, "%%%s:\n", blk.Label)
		for i := range blk.Instrs {
			pr.sb.WriteString("  ")
			pr.instr(&blk.Instrs[i])
			pr.sb.WriteByte('\n')
		}
		pr.sb.WriteString("  ")
		pr.term(f, &blk.Term)
		pr.sb.WriteByte('\n')
	}
	pr.sb.WriteString("}\n")
}

// fresh picks a name not used yet in the current function.
func (pr *printer) fresh(base string) string {
	name := base
	for n := 1; pr.used[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	pr.used[name] = true
	return name
}

func (pr *printer) instr(in *Instr) {
	if in.HasResult() {
		fmt.Fprintf(&pr.sb, "%s = ", pr.value(in.Result))
	}
	switch in.Op {
	case OpAlloc:
		fmt.Fprintf(&pr.sb, "alloc %s", pr.types.String(pr.types.Elem(in.Type)))
	case OpBinary:
		fmt.Fprintf(&pr.sb, "%s %s", in.Bin, pr.values(in.Args))
	case OpCall:
		fmt.Fprintf(&pr.sb, "call %s(%s)", pr.value(in.Callee), pr.values(in.Args))
	default:
		fmt.Fprintf(&pr.sb, "%s %s", in.Op, pr.values(in.Args))
	}
}

func (pr *printer) term(f *Func, t *Terminator) {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			fmt.Fprintf(&pr.sb, "ret %s", pr.value(t.Return.Value))
		} else {
			pr.sb.WriteString("ret")
		}
	case TermJump:
		fmt.Fprintf(&pr.sb, "jump %%%s", f.Blocks[t.Jump.Target].Label)
	case TermBranch:
		fmt.Fprintf(&pr.sb, "br %s, %%%s, %%%s", pr.value(t.Branch.Cond),
			f.Blocks[t.Branch.Then].Label, f.Blocks[t.Branch.Else].Label)
	default:
		pr.sb.WriteString("<no terminator>")
	}
}

func (pr *printer) values(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = pr.value(v)
	}
	return strings.Join(parts, ", ")
}

func (pr *printer) value(v Value) string {
	switch v.Kind {
	case ValueConst:
		return strconv.FormatInt(int64(v.Imm), 10)
	case ValueTemp:
		if name, ok := pr.named[v.ID]; ok {
			return "@" + name
		}
		return "%" + strconv.FormatUint(uint64(v.ID), 10)
	case ValueGlobal:
		return "@" + pr.p.Globals[v.ID].Name
	case ValueParam:
		if int(v.ID) < len(pr.params) {
			return "@" + pr.params[v.ID]
		}
		return fmt.Sprintf("@arg%d", v.ID)
	case ValueFunc:
		return "@" + pr.p.Funcs[v.ID].Name
	case ValueUndef:
		return "undef"
	default:
		return "<none>"
	}
}
