package pointsto_test

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarrensZeppelin/llpath/irutil"
	"github.com/BarrensZeppelin/llpath/pointsto"
)

// fixture is a module with globals covering the storage shapes relations
// describe.
const fixture = `
	%struct.S = type { i64, [4 x i64] }

	@g = global %struct.S zeroinitializer
	@arr = global [8 x i32] zeroinitializer
	@x = global i64 0
`

func parseFixture(t testing.TB) *ir.Module {
	t.Helper()
	m, err := irutil.ParseModuleString(fixture)
	require.NoError(t, err)
	return m
}

func TestRelationEquality(t *testing.T) {
	m := parseFixture(t)
	g := irutil.Global(m, "g")

	direct := pointsto.Direct{Value: g}
	field := pointsto.FieldAccess{Index: 0, Of: direct}

	assert.True(t, direct == pointsto.Direct{Value: g},
		"relations over the same value are interchangeable")
	assert.NotEqual(t, pointsto.Relation(direct), pointsto.Relation(field),
		"a field of g is not g itself")
	assert.NotEqual(t,
		pointsto.KnownArrayElt{Index: 1, Of: direct},
		pointsto.KnownArrayElt{Index: 2, Of: direct})
	assert.NotEqual(t,
		pointsto.Relation(pointsto.ArrayElt{Of: direct}),
		pointsto.Relation(pointsto.KnownArrayElt{Index: 1, Of: direct}))

	// Structural equality makes relations usable as map keys.
	seen := map[pointsto.Relation]string{field: "field"}
	assert.Equal(t, "field", seen[pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: g}}])
}

func TestRelationString(t *testing.T) {
	m := parseFixture(t)
	g := irutil.Global(m, "g")
	arr := irutil.Global(m, "arr")

	assert.Equal(t, "g", pointsto.Direct{Value: g}.String())
	assert.Equal(t, "arr[*]",
		pointsto.ArrayElt{Of: pointsto.Direct{Value: arr}}.String())
	assert.Equal(t, "arr[3]",
		pointsto.KnownArrayElt{Index: 3, Of: pointsto.Direct{Value: arr}}.String())
	assert.Equal(t, "g[*].<2>",
		pointsto.FieldAccess{
			Index: 2,
			Of:    pointsto.ArrayElt{Of: pointsto.Direct{Value: g}},
		}.String())

	t.Run("Unnamed", func(t *testing.T) {
		anon := ir.NewParam("", types.NewPointer(types.I64))
		assert.Panics(t, func() {
			_ = pointsto.Direct{Value: anon}.String()
		})
	})
}

func TestRelationType(t *testing.T) {
	m := parseFixture(t)
	g := irutil.Global(m, "g")
	arr := irutil.Global(m, "arr")
	x := irutil.Global(m, "x")

	assert.Equal(t, "[8 x i32]*", pointsto.Direct{Value: arr}.Type().String())
	assert.Equal(t, "i32*",
		pointsto.ArrayElt{Of: pointsto.Direct{Value: arr}}.Type().String())
	assert.Equal(t, "i32*",
		pointsto.KnownArrayElt{Index: 3, Of: pointsto.Direct{Value: arr}}.Type().String())
	assert.Equal(t, "[4 x i64]*",
		pointsto.FieldAccess{Index: 1, Of: pointsto.Direct{Value: g}}.Type().String())
	assert.Equal(t, "i64*",
		pointsto.ArrayElt{
			Of: pointsto.FieldAccess{Index: 1, Of: pointsto.Direct{Value: g}},
		}.Type().String(),
		"element type of an array stored in a struct field")

	t.Run("Root", func(t *testing.T) {
		nested := pointsto.ArrayElt{
			Of: pointsto.FieldAccess{Index: 1, Of: pointsto.Direct{Value: g}},
		}
		assert.Same(t, g, nested.Root())
	})

	t.Run("Mismatched", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = pointsto.ArrayElt{Of: pointsto.Direct{Value: x}}.Type()
		}, "element inside scalar storage")
		assert.Panics(t, func() {
			_ = pointsto.FieldAccess{Index: 9, Of: pointsto.Direct{Value: g}}.Type()
		}, "field index beyond the layout")
		assert.Panics(t, func() {
			_ = pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: arr}}.Type()
		}, "field inside array storage")
	})
}
