package llpath

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
	log "github.com/sirupsen/logrus"
)

// Replay walks the path's components through a literal aggregate and returns
// the value the path reaches. v must inhabit the path's base type with one
// layer of pointer indirection removed: the path is rooted at an address and
// v is the data behind it, typically a global initializer.
//
// Only [Field] components replay. An [Array] or [Deref] step fails with
// [ErrCannotFollow], and a pending [Field] over anything but a struct literal
// fails with [ErrNonConstant]. A pending index outside the literal's members
// contradicts the type the path was built from and panics.
func (p AbstractPath) Replay(v value.Value) (value.Value, error) {
	want := Pointee(p.base)
	if want == nil || !want.Equal(v.Type()) {
		return nil, &PathError{
			Op: "replay", Path: &p, Value: v, Want: want, Got: v.Type(),
			Err: ErrBaseTypeMismatch,
		}
	}

	for _, comp := range p.comps {
		field, ok := comp.(Field)
		if !ok {
			return nil, &PathError{Op: "replay", Path: &p, Value: v, Err: ErrCannotFollow}
		}

		s, ok := v.(*constant.Struct)
		if !ok {
			return nil, &PathError{Op: "replay", Path: &p, Value: v, Err: ErrNonConstant}
		}
		if field.Index < 0 || field.Index >= len(s.Fields) {
			log.Panicf("Aggregate %v has %d members but %v selects member %d",
				v.Ident(), len(s.Fields), p, field.Index)
		}

		v = s.Fields[field.Index]
	}

	return v, nil
}
