package llpath

import (
	"strings"

	"github.com/llir/llvm/ir/types"
)

// Pointee returns the element type of a pointer type, or nil if t is not a
// pointer.
func Pointee(t types.Type) types.Type {
	if t, ok := t.(*types.PointerType); ok {
		return t.ElemType
	}
	return nil
}

// structOf resolves a struct or pointer-to-struct type to its struct layout.
func structOf(t types.Type) *types.StructType {
	if e := Pointee(t); e != nil {
		t = e
	}
	st, _ := t.(*types.StructType)
	return st
}

// trimVersionSuffix strips the numeric suffixes a compiler appends to
// disambiguate identically named type definitions, so that struct.S, struct.S.2
// and struct.S.2.11 all map to struct.S.
func trimVersionSuffix(name string) string {
	for {
		i := strings.LastIndexByte(name, '.')
		if i < 0 || i == len(name)-1 {
			return name
		}
		if strings.IndexFunc(name[i+1:], func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return name
		}
		name = name[:i]
	}
}
