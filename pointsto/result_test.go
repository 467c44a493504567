package pointsto_test

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarrensZeppelin/llpath/irutil"
	"github.com/BarrensZeppelin/llpath/pointsto"
	"github.com/BarrensZeppelin/llpath/slices"
)

func TestResult(t *testing.T) {
	m := parseFixture(t)
	g := irutil.Global(m, "g")
	x := irutil.Global(m, "x")

	p := ir.NewParam("p", types.NewPointer(types.I64))
	q := ir.NewParam("q", types.NewPointer(types.I64))

	t.Run("FieldSensitivity", func(t *testing.T) {
		r := pointsto.NewResult()
		r.AddLocation(p, pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: g}})
		r.AddLocation(q, pointsto.FieldAccess{Index: 1, Of: pointsto.Direct{Value: g}})

		assert.False(t, r.MayAlias(p, q),
			"distinct fields of the same root do not alias")

		r.AddLocation(q, pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: g}})
		assert.True(t, r.MayAlias(p, q), "now both may refer to field 0 of g")
		assert.True(t, r.MayAlias(q, p))
	})

	t.Run("WholeVsField", func(t *testing.T) {
		r := pointsto.NewResult()
		r.AddLocation(p, pointsto.Direct{Value: g})
		r.AddLocation(q, pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: g}})

		assert.False(t, r.MayAlias(p, q),
			"whole-object and field locations are distinct")
	})

	t.Run("Dedup", func(t *testing.T) {
		r := pointsto.NewResult()
		r.AddLocation(p, pointsto.Direct{Value: x})
		r.AddLocation(p, pointsto.Direct{Value: x})

		assert.Len(t, r.Locations(p), 1)
	})

	t.Run("Unknown", func(t *testing.T) {
		r := pointsto.NewResult()
		r.AddLocation(p, pointsto.Direct{Value: x})

		assert.False(t, r.MayAlias(p, q), "values without recorded locations alias nothing")
		assert.False(t, r.MayAlias(q, q))
		assert.Empty(t, r.Locations(q))
	})

	t.Run("Locations", func(t *testing.T) {
		r := pointsto.NewResult()
		added := []pointsto.Relation{
			pointsto.Direct{Value: x},
			pointsto.ArrayElt{Of: pointsto.Direct{Value: g}},
			pointsto.Direct{Value: g},
		}
		for _, rel := range added {
			r.AddLocation(p, rel)
		}

		require.Equal(t, added, r.Locations(p), "locations keep insertion order")
		assert.True(t, slices.Subset(r.Locations(p), added))
	})

	t.Run("Values", func(t *testing.T) {
		r := pointsto.NewResult()
		r.AddLocation(p, pointsto.Direct{Value: x})
		r.AddLocation(p, pointsto.FieldAccess{Index: 0, Of: pointsto.Direct{Value: g}})
		r.AddLocation(p, pointsto.Direct{Value: g})

		assert.Equal(t, []value.Value{x, g}, pointsto.Values(r, p),
			"only direct locations survive the flat projection")
		assert.Empty(t, pointsto.Values(r, q))
	})
}
