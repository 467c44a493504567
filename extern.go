package llpath

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir/types"
)

// An Extern is the externalizable form of an abstract path: a stable
// structure name paired with the unchanged component sequence. Externs are
// the only values of this package meant to cross module or process
// boundaries.
//
// The name is the declared struct name with disambiguating numeric suffixes
// stripped, so the same declaration externalizes identically across separate
// compilations of the same code. This assumes that a declared name denotes
// one layout across the compared modules; that is a convention of the
// producing compiler, not something this package can check.
type Extern struct {
	Struct string
	Path   []Access
}

// Externalize resolves the path's base type, unwrapping any pointers, to a
// named structure and pairs its stable name with the path's components.
// Paths not rooted at a named struct fail with [ErrNotExternalizable].
func (p AbstractPath) Externalize() (Extern, error) {
	t := p.base
	for {
		e := Pointee(t)
		if e == nil {
			break
		}
		t = e
	}

	st, ok := t.(*types.StructType)
	if !ok || st.TypeName == "" {
		return Extern{}, &PathError{
			Op: "externalize", Path: &p, Got: p.base, Err: ErrNotExternalizable,
		}
	}

	return Extern{Struct: trimVersionSuffix(st.TypeName), Path: p.comps}, nil
}

func (e Extern) String() string {
	return e.Struct + formatAccesses(e.Path)
}

// MarshalText encodes the extern losslessly as "name:components".
func (e Extern) MarshalText() ([]byte, error) {
	return []byte(e.Struct + ":" + formatAccesses(e.Path)), nil
}

// UnmarshalText decodes an extern produced by [Extern.MarshalText].
func (e *Extern) UnmarshalText(text []byte) error {
	name, rest, ok := strings.Cut(string(text), ":")
	if !ok {
		return fmt.Errorf("llpath: extern %q lacks a name separator", text)
	}

	comps, err := parseAccesses(rest)
	if err != nil {
		return err
	}

	*e = Extern{Struct: name, Path: comps}
	return nil
}
