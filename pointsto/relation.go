package pointsto

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	log "github.com/sirupsen/logrus"

	"github.com/BarrensZeppelin/llpath"
)

// This file contains the descriptors for the abstract storage locations that
// pointers in an analysed module may refer to.

// A Relation describes a storage location with structural precision: the
// storage of a value itself ([Direct]), or a subobject of another location
// (an array element at an unknown or known index, or a struct field).
// Relations are plain comparable values; two relations describe the same
// location exactly when they are ==.
type Relation interface {
	// Root returns the value whose storage the location lives in.
	Root() value.Value
	// Type returns the type of a pointer to the located storage.
	Type() types.Type
	fmt.Stringer
	// method used to tag relation constructors
	relation()
}

type rtag struct{}

func (rtag) relation() {}

// Direct denotes the storage of Value itself.
type Direct struct {
	rtag
	Value value.Value
}

func (d Direct) Root() value.Value { return d.Value }
func (d Direct) Type() types.Type  { return d.Value.Type() }

func (d Direct) String() string {
	named, ok := d.Value.(value.Named)
	if !ok || named.Name() == "" {
		log.Panicf("Rendering location of unnamed value %v", d.Value)
	}
	return named.Name()
}

// ArrayElt denotes an element at a statically unknown index one level inside
// the location Of.
type ArrayElt struct {
	rtag
	Of Relation
}

func (a ArrayElt) Root() value.Value { return a.Of.Root() }
func (a ArrayElt) Type() types.Type  { return types.NewPointer(eltType(a.Of)) }
func (a ArrayElt) String() string    { return a.Of.String() + "[*]" }

// KnownArrayElt denotes the element at a statically known index one level
// inside the location Of.
type KnownArrayElt struct {
	rtag
	Index int64
	Of    Relation
}

func (k KnownArrayElt) Root() value.Value { return k.Of.Root() }
func (k KnownArrayElt) Type() types.Type  { return types.NewPointer(eltType(k.Of)) }

func (k KnownArrayElt) String() string {
	return fmt.Sprintf("%s[%d]", k.Of, k.Index)
}

// FieldAccess denotes the struct field at the given index inside the
// location Of.
type FieldAccess struct {
	rtag
	Index int
	Of    Relation
}

func (f FieldAccess) Root() value.Value { return f.Of.Root() }

func (f FieldAccess) Type() types.Type {
	st, _ := llpath.Pointee(f.Of.Type()).(*types.StructType)
	if st == nil || f.Index < 0 || f.Index >= len(st.Fields) {
		log.Panicf("Field %d does not match the layout of %v", f.Index, f.Of.Type())
	}
	return types.NewPointer(st.Fields[f.Index])
}

func (f FieldAccess) String() string {
	return fmt.Sprintf("%s.<%d>", f.Of, f.Index)
}

// eltType returns the element type of the array or vector storage located by
// a relation.
func eltType(of Relation) types.Type {
	switch t := llpath.Pointee(of.Type()).(type) {
	case *types.ArrayType:
		return t.ElemType
	case *types.VectorType:
		return t.ElemType
	default:
		log.Panicf("Element inside non-array location of type %v", of.Type())
		return nil
	}
}
