package llpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// The closed catalog of recoverable failures. Every fallible operation in
// this package reports one of these sentinels wrapped in a [PathError], so
// callers can match on the failure kind with [errors.Is] instead of strings.
// Inconsistencies in the IR itself (malformed address computations, indices
// out of range of the very type they were folded against) are not part of the
// catalog; those panic with the offending path or value attached.
var (
	// ErrNotMemOp reports that an instruction neither accesses memory nor
	// computes an address.
	ErrNotMemOp = errors.New("instruction does not access memory")
	// ErrNotComposable reports an append of paths whose types do not meet.
	ErrNotComposable = errors.New("paths do not compose")
	// ErrNoReduction reports that a path does not start with a reducible
	// field selection.
	ErrNoReduction = errors.New("path admits no reduction")
	// ErrBaseTypeMismatch reports a replay over a value that does not inhabit
	// the path's base type.
	ErrBaseTypeMismatch = errors.New("value does not inhabit path base type")
	// ErrNonConstant reports a replay that reached a value that is not a
	// literal aggregate while a field selection was pending.
	ErrNonConstant = errors.New("non-constant value along path")
	// ErrCannotFollow reports a replay over a component that cannot be
	// replayed against literal data.
	ErrCannotFollow = errors.New("cannot follow path component")
	// ErrNotExternalizable reports a path whose base type names no structure.
	ErrNotExternalizable = errors.New("path base is not a named struct")
)

// A PathError carries the context of a failed path operation: which operation
// failed, the path and value it was applied to, and for type mismatches the
// expected and actual types. The wrapped sentinel is accessible through
// [errors.Is]/[errors.As].
type PathError struct {
	// Op is one of "build", "append", "reduce", "replay" or "externalize".
	Op string
	// Inst is the offending instruction, for build failures.
	Inst ir.Instruction
	// Path is the path the operation was applied to, when one exists.
	Path *AbstractPath
	// Value is the offending value, when one exists.
	Value value.Value
	// Want and Got describe a type mismatch.
	Want, Got types.Type
	Err       error
}

func (e *PathError) Error() string {
	var sb strings.Builder
	sb.WriteString("llpath: ")
	sb.WriteString(e.Op)
	if e.Inst != nil {
		fmt.Fprintf(&sb, " %v", e.Inst.LLString())
	}
	if e.Path != nil {
		fmt.Fprintf(&sb, " %v", e.Path)
	}
	if e.Value != nil {
		fmt.Fprintf(&sb, " at %v", e.Value.Ident())
	}
	if e.Want != nil || e.Got != nil {
		fmt.Fprintf(&sb, " (want %v, got %v)", e.Want, e.Got)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *PathError) Unwrap() error { return e.Err }
