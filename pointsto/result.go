package pointsto

import (
	"github.com/llir/llvm/ir/value"
	"golang.org/x/tools/container/intsets"

	"github.com/BarrensZeppelin/llpath/slices"
)

// A Result is a points-to assignment in the shape concrete analyses report
// it: for each pointer the set of structured locations it may refer to. A
// Result performs no analysis itself; a solver populates it through
// [Result.AddLocation] and clients query it through the [Resolver] contract.
//
// Distinct relations are numbered densely and each pointer's locations are
// mirrored in a sparse set of those numbers, so aliasing queries reduce to a
// set intersection.
type Result struct {
	ids  map[Relation]int
	locs map[value.Value][]Relation
	sets map[value.Value]*intsets.Sparse
}

func NewResult() *Result {
	return &Result{
		ids:  make(map[Relation]int),
		locs: make(map[value.Value][]Relation),
		sets: make(map[value.Value]*intsets.Sparse),
	}
}

// AddLocation records that p may refer to the location rel. Duplicates are
// ignored.
func (r *Result) AddLocation(p value.Value, rel Relation) {
	if slices.Contains(r.locs[p], rel) {
		return
	}

	id, ok := r.ids[rel]
	if !ok {
		id = len(r.ids)
		r.ids[rel] = id
	}

	r.locs[p] = append(r.locs[p], rel)

	set := r.sets[p]
	if set == nil {
		set = new(intsets.Sparse)
		r.sets[p] = set
	}
	set.Insert(id)
}

// Locations returns the recorded locations of v in insertion order.
// The returned slice is shared; callers must not modify it.
func (r *Result) Locations(v value.Value) []Relation { return r.locs[v] }

// MayAlias reports whether p and q share a recorded location.
func (r *Result) MayAlias(p, q value.Value) bool {
	sp, sq := r.sets[p], r.sets[q]
	if sp == nil || sq == nil {
		return false
	}

	var shared intsets.Sparse
	shared.Intersection(sp, sq)
	return !shared.IsEmpty()
}

var _ Resolver = (*Result)(nil)
