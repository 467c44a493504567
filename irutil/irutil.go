package irutil

import (
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

// ParseModuleString parses a textual LLVM IR module. The module is
// attributed to a synthetic file name so that sources which exist only in
// memory, such as test fixtures, can be parsed.
func ParseModuleString(source string) (*ir.Module, error) {
	return asm.ParseString("module.ll", source)
}

// ParseModuleFile parses the LLVM IR module at the given path.
func ParseModuleFile(path string) (*ir.Module, error) {
	return asm.ParseFile(path)
}

// Func returns the function of m with the given global name, or nil.
func Func(m *ir.Module, name string) *ir.Func {
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Global returns the global variable of m with the given name, or nil.
func Global(m *ir.Module, name string) *ir.Global {
	for _, g := range m.Globals {
		if g.Name() == name {
			return g
		}
	}
	return nil
}
