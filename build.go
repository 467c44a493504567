package llpath

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	log "github.com/sirupsen/logrus"

	"github.com/BarrensZeppelin/llpath/slices"
)

// FromInstruction builds the concrete access path of a memory instruction: a
// load, store, atomic compare-exchange, atomic read-modify-write, or an
// address computation (whose result is the address itself). The address
// operand's definition chain is walked backwards through address computations
// and loads; the first value produced by neither becomes the path's base.
// Any other instruction kind fails with [ErrNotMemOp].
//
// f must be the function containing inst; instructions carry no link to it.
func FromInstruction(f *ir.Func, inst ir.Instruction) (Path, error) {
	var addr value.Value
	switch inst := inst.(type) {
	case *ir.InstLoad:
		addr = inst.Src
	case *ir.InstStore:
		addr = inst.Dst
	case *ir.InstCmpXchg:
		addr = inst.Ptr
	case *ir.InstAtomicRMW:
		addr = inst.Dst
	case *ir.InstGetElementPtr:
		addr = inst
	default:
		return Path{}, &PathError{Op: "build", Inst: inst, Err: ErrNotMemOp}
	}

	// Definition chains in well-formed IR are acyclic, so the walk
	// terminates.
	base, comps := addr, []Access(nil)
	for {
		switch step := base.(type) {
		case *ir.InstGetElementPtr:
			comps = append(foldIndices(step, step.ElemType, step.Indices), comps...)
			base = step.Src
		case *constant.ExprGetElementPtr:
			comps = append(foldIndices(step, step.ElemType, constantIndices(step.Indices)), comps...)
			base = step.Src
		case *ir.InstLoad:
			// The address was itself read from memory.
			comps = append([]Access{Deref{}}, comps...)
			base = step.Src
		default:
			log.Debugf("Rooted path for %v at %v", addr.Ident(), base.Ident())
			return Path{fn: f, base: base, end: addr, comps: comps}, nil
		}
	}
}

// foldIndices translates an address computation's index list into structural
// components by stepping through the computed element type. The first index
// offsets the base pointer itself: a constant zero contributes nothing,
// anything else starts the fold with an [Array] step. Struct field selection
// demands constant indices in range of the layout; both are guaranteed by
// well-formed IR, so violations panic.
func foldIndices(step value.Value, elem types.Type, indices []value.Value) []Access {
	if len(indices) == 0 {
		log.Panicf("Address computation without indices: %v", step)
	}

	var comps []Access
	if !isConstZero(indices[0]) {
		comps = append(comps, Array{})
	}

	cur := elem
	for _, index := range indices[1:] {
		switch t := cur.(type) {
		case *types.PointerType:
			comps = append(comps, Array{})
			cur = t.ElemType
		case *types.ArrayType:
			comps = append(comps, Array{})
			cur = t.ElemType
		case *types.StructType:
			c, ok := index.(*constant.Int)
			if !ok {
				// Struct field selection is never data-dependent.
				log.Panicf("Non-constant struct index %v in %v", index, step)
			}
			i := int(c.X.Int64())
			if i < 0 || i >= len(t.Fields) {
				log.Panicf("Struct index %d out of range in %v", i, step)
			}
			comps = append(comps, Field{Index: i})
			cur = t.Fields[i]
		default:
			log.Panicf("Cannot index type %v in %v", cur, step)
		}
	}

	return comps
}

func constantIndices(indices []constant.Constant) []value.Value {
	return slices.Map(indices, func(c constant.Constant) value.Value {
		if index, ok := c.(*constant.Index); ok {
			// Indices of expressions carry an inrange marker.
			return index.Constant
		}
		return c
	})
}

func isConstZero(v value.Value) bool {
	c, ok := v.(*constant.Int)
	return ok && c.X.Sign() == 0
}
