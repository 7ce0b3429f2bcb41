package ir

import (
	"errors"
	"fmt"
	"slices"

	"ophelia/internal/types"
)

// Validate checks the structural invariants of a program and joins every
// violation it finds.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, f := range p.Funcs {
		if f == nil || f.External {
			continue
		}
		if err := validateFunc(p, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(p *Program, f *Func) error {
	var errs []error

	// 1. Entry block is first and unique
	if err := validateEntry(f); err != nil {
		errs = append(errs, err)
	}

	// 2. Every laid-out block is sealed with one terminator
	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}

	// 3. Targets are laid out, predecessor sets match edges
	if err := validateEdges(f); err != nil {
		errs = append(errs, err)
	}

	// 4. Temps are defined once and before use in layout order
	if err := validateTemps(p, f); err != nil {
		errs = append(errs, err)
	}

	// 5. Returns match the declared result
	if err := validateReturn(p.Types, f); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateEntry(f *Func) error {
	if len(f.Order) == 0 {
		return errors.New("no blocks")
	}
	if f.Order[0] != f.Entry {
		return fmt.Errorf("entry block %%%s is not first", f.Blocks[f.Entry].Label)
	}
	return nil
}

func validateBlocksTerminated(f *Func) error {
	var errs []error
	for _, blk := range f.Layout() {
		switch {
		case blk.State == BlockDead:
			errs = append(errs, fmt.Errorf("%%%s: dead block laid out", blk.Label))
		case !blk.Terminated():
			errs = append(errs, fmt.Errorf("%%%s: unterminated block", blk.Label))
		}
	}
	return errors.Join(errs...)
}

func validateEdges(f *Func) error {
	var errs []error
	attached := func(id BlockID) bool {
		blk := f.Block(id)
		return blk != nil && blk.Attached
	}
	for _, blk := range f.Layout() {
		for _, s := range blk.Term.Successors() {
			if !attached(s) {
				errs = append(errs, fmt.Errorf("%%%s: jump to block %d which is not laid out", blk.Label, s))
				continue
			}
			if !slices.Contains(f.Blocks[s].Preds, blk.ID) {
				errs = append(errs, fmt.Errorf("%%%s: missing predecessor %%%s", f.Blocks[s].Label, blk.Label))
			}
		}
		for _, pred := range blk.Preds {
			pb := f.Block(pred)
			if pb == nil || !slices.Contains(pb.Term.Successors(), blk.ID) {
				errs = append(errs, fmt.Errorf("%%%s: stale predecessor %d", blk.Label, pred))
			}
		}
	}
	return errors.Join(errs...)
}

func validateTemps(p *Program, f *Func) error {
	var errs []error
	defined := make(map[uint32]bool, f.NumTemps)
	use := func(blk *Block, v Value) {
		switch v.Kind {
		case ValueTemp:
			if !defined[v.ID] {
				errs = append(errs, fmt.Errorf("%%%s: %%%d used before definition", blk.Label, v.ID))
			}
		case ValueParam:
			if int(v.ID) >= len(f.Params) {
				errs = append(errs, fmt.Errorf("%%%s: param %d out of range", blk.Label, v.ID))
			}
		case ValueGlobal:
			if int(v.ID) >= len(p.Globals) {
				errs = append(errs, fmt.Errorf("%%%s: global %d out of range", blk.Label, v.ID))
			}
		case ValueUndef:
			errs = append(errs, fmt.Errorf("%%%s: undef operand", blk.Label))
		}
	}
	for _, blk := range f.Layout() {
		for i := range blk.Instrs {
			in := &blk.Instrs[i]
			for _, a := range in.Operands() {
				use(blk, a)
			}
			if in.Op == OpCall && (in.Callee.Kind != ValueFunc || int(in.Callee.ID) >= len(p.Funcs)) {
				errs = append(errs, fmt.Errorf("%%%s: bad callee", blk.Label))
			}
			if in.HasResult() {
				if defined[in.Result.ID] {
					errs = append(errs, fmt.Errorf("%%%s: %%%d defined twice", blk.Label, in.Result.ID))
				}
				defined[in.Result.ID] = true
			}
		}
		switch blk.Term.Kind {
		case TermReturn:
			if blk.Term.Return.HasValue {
				use(blk, blk.Term.Return.Value)
			}
		case TermBranch:
			use(blk, blk.Term.Branch.Cond)
		}
	}
	return errors.Join(errs...)
}

func validateReturn(typesIn *types.Interner, f *Func) error {
	var errs []error
	void := typesIn.Kind(f.Result) == types.KindVoid
	for _, blk := range f.Layout() {
		if blk.Term.Kind != TermReturn {
			continue
		}
		ret := blk.Term.Return
		switch {
		case void && ret.HasValue:
			errs = append(errs, fmt.Errorf("%%%s: void function returns a value", blk.Label))
		case !void && !ret.HasValue:
			errs = append(errs, fmt.Errorf("%%%s: missing return value", blk.Label))
		case !void && ret.Value.Type != f.Result:
			errs = append(errs, fmt.Errorf("%%%s: return type %s, expected %s", blk.Label,
				typesIn.String(ret.Value.Type), typesIn.String(f.Result)))
		}
	}
	return errors.Join(errs...)
}
