package llpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	log "github.com/sirupsen/logrus"
	xslices "golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/llpath/slices"
)

// This file defines access paths and the algebra over them. An access path
// records how a memory instruction's address is built up from a root value
// through struct fields, array steps and loads of pointers.

// An Access is a single structural step of an access path: a [Field]
// selection of a struct member, an [Array] step to an element at a statically
// unknown offset, or a [Deref] marking that the address itself was loaded
// from memory.
type Access interface {
	fmt.Stringer
	// method used to tag access constructors
	access()
}

type acc struct{}

func (acc) access() {}

type Field struct {
	acc
	Index int
}

func (f Field) String() string { return fmt.Sprintf(".<%d>", f.Index) }

type Array struct{ acc }

func (Array) String() string { return "[*]" }

type Deref struct{ acc }

func (Deref) String() string { return "^" }

// accessOrd ranks access constructors for the total order on paths.
func accessOrd(a Access) int {
	switch a.(type) {
	case Field:
		return 0
	case Array:
		return 1
	case Deref:
		return 2
	default:
		log.Panicf("Unhandled access: %T", a)
		return -1
	}
}

func compareAccess(a, b Access) int {
	if r := accessOrd(a) - accessOrd(b); r != 0 {
		return r
	}
	if a, ok := a.(Field); ok {
		return a.Index - b.(Field).Index
	}
	return 0
}

func formatAccesses(comps []Access) string {
	return strings.Join(slices.Map(comps, Access.String), "")
}

// parseAccesses is the inverse of formatAccesses.
func parseAccesses(s string) ([]Access, error) {
	var comps []Access
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, ".<"):
			end := strings.IndexByte(s, '>')
			if end < 0 {
				return nil, fmt.Errorf("llpath: unterminated field access in %q", s)
			}
			index, err := strconv.Atoi(s[2:end])
			if err != nil {
				return nil, fmt.Errorf("llpath: bad field index in %q: %w", s, err)
			}
			comps = append(comps, Field{Index: index})
			s = s[end+1:]
		case strings.HasPrefix(s, "[*]"):
			comps = append(comps, Array{})
			s = s[3:]
		case strings.HasPrefix(s, "^"):
			comps = append(comps, Deref{})
			s = s[1:]
		default:
			return nil, fmt.Errorf("llpath: unrecognized access in %q", s)
		}
	}
	return comps, nil
}

// A Path is a concrete access path between two value occurrences: End is the
// address operand of the instruction the path was built from, Base is the
// root the backward walk of [FromInstruction] stopped at, and the components
// describe the structural steps from Base to End. Local value names recur
// across functions, so the enclosing function takes part in ordering and
// keys. Paths are immutable.
type Path struct {
	fn        *ir.Func
	base, end value.Value
	comps     []Access
}

// Func returns the function enclosing the instruction the path was built
// from.
func (p Path) Func() *ir.Func { return p.fn }

func (p Path) Base() value.Value { return p.base }
func (p Path) End() value.Value  { return p.end }

// Components returns the structural steps from Base to End.
// The returned slice is shared; callers must not modify it.
func (p Path) Components() []Access { return p.comps }

func (p Path) String() string {
	return p.base.Ident() + formatAccesses(p.comps)
}

// Equal reports whether two paths connect the same value occurrences through
// the same components.
func (p Path) Equal(o Path) bool {
	return p.base == o.base && p.end == o.end && xslices.Equal(p.comps, o.comps)
}

// Compare totally orders paths by enclosing function, then by base and end
// identifier, then by components.
func (p Path) Compare(o Path) int {
	if r := strings.Compare(p.fn.Ident(), o.fn.Ident()); r != 0 {
		return r
	}
	if r := strings.Compare(p.base.Ident(), o.base.Ident()); r != 0 {
		return r
	}
	if r := strings.Compare(p.end.Ident(), o.end.Ident()); r != 0 {
		return r
	}
	return xslices.CompareFunc(p.comps, o.comps, compareAccess)
}

// Key returns a canonical encoding of the path for use as a map key. The
// enclosing function qualifies the encoding; local identifiers are unique
// only within their function.
func (p Path) Key() string {
	return p.fn.Ident() + "|" + p.base.Ident() + "|" +
		p.end.Ident() + "|" + formatAccesses(p.comps)
}

// Abstract projects the path's endpoints to their static types, detaching it
// from the concrete value occurrences: the base becomes the type of the root
// value and the end becomes the type of the storage the final address
// locates. Unrelated paths with the same structural shape abstract to equal
// abstract paths.
func (p Path) Abstract() AbstractPath {
	return AbstractPath{
		base:  p.base.Type(),
		end:   located(p.end),
		comps: p.comps,
	}
}

// located returns the type of the storage an address value locates.
func located(v value.Value) types.Type {
	t := Pointee(v.Type())
	if t == nil {
		log.Panicf("Address %v has non-pointer type %v", v.Ident(), v.Type())
	}
	return t
}

// An AbstractPath is the structural projection of a [Path]: the same
// component sequence between static types instead of value occurrences.
// Abstract paths with equal endpoints compose with [AbstractPath.Append] and
// rebase with [AbstractPath.Reduce]; both leave their operands untouched.
type AbstractPath struct {
	base, end types.Type
	comps     []Access
}

func (p AbstractPath) Base() types.Type { return p.base }
func (p AbstractPath) End() types.Type  { return p.end }

// Components returns the structural steps from Base to End.
// The returned slice is shared; callers must not modify it.
func (p AbstractPath) Components() []Access { return p.comps }

func (p AbstractPath) String() string {
	return fmt.Sprintf("%v%s : %v", p.base, formatAccesses(p.comps), p.end)
}

// Equal reports whether two abstract paths have equal endpoint types and the
// same components. Named struct types are compared by name.
func (p AbstractPath) Equal(o AbstractPath) bool {
	return p.base.Equal(o.base) && p.end.Equal(o.end) &&
		xslices.Equal(p.comps, o.comps)
}

// Compare totally orders abstract paths by the textual form of their
// endpoint types, then by components.
func (p AbstractPath) Compare(o AbstractPath) int {
	if r := strings.Compare(p.base.String(), o.base.String()); r != 0 {
		return r
	}
	if r := strings.Compare(p.end.String(), o.end.String()); r != 0 {
		return r
	}
	return xslices.CompareFunc(p.comps, o.comps, compareAccess)
}

// Key returns a canonical encoding of the abstract path for use as a map
// key. Paths that are [AbstractPath.Equal] produce identical keys.
func (p AbstractPath) Key() string {
	return p.base.String() + "|" + p.end.String() + "|" + formatAccesses(p.comps)
}

// Append composes two abstract paths. It is defined only when p ends at the
// type o is rooted at; the result runs from p.Base() to o.End() through the
// concatenated components.
func (p AbstractPath) Append(o AbstractPath) (AbstractPath, error) {
	if !p.end.Equal(o.base) {
		return AbstractPath{}, &PathError{
			Op: "append", Path: &p, Want: o.base, Got: p.end, Err: ErrNotComposable,
		}
	}

	comps := make([]Access, 0, len(p.comps)+len(o.comps))
	comps = append(append(comps, p.comps...), o.comps...)
	return AbstractPath{base: p.base, end: o.end, comps: comps}, nil
}

// Reduce peels a leading [Field] selection followed by the [Deref] of the
// pointer read from it: the path is re-rooted at the declared type of that
// field and the matched prefix is dropped. Paths that start any other way, or
// whose base type is not a struct or pointer to struct, admit no reduction.
func (p AbstractPath) Reduce() (AbstractPath, error) {
	irred := func() (AbstractPath, error) {
		return AbstractPath{}, &PathError{Op: "reduce", Path: &p, Err: ErrNoReduction}
	}

	if len(p.comps) < 2 {
		return irred()
	}
	field, ok := p.comps[0].(Field)
	if !ok {
		return irred()
	}
	if _, ok := p.comps[1].(Deref); !ok {
		return irred()
	}

	st := structOf(p.base)
	if st == nil {
		return irred()
	}
	if field.Index < 0 || field.Index >= len(st.Fields) {
		// The leading index was folded against this very struct, so an
		// out-of-range index means the path or the type is corrupted.
		log.Panicf("Field index %d out of range in reduction of %v", field.Index, p)
	}

	return AbstractPath{base: st.Fields[field.Index], end: p.end, comps: p.comps[2:]}, nil
}
