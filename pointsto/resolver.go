// Package pointsto defines the relation model shared by points-to analyses
// over llir modules: structured descriptors for may-point-to targets and the
// query contract an analysis result exposes to its clients.
package pointsto

import "github.com/llir/llvm/ir/value"

// Resolver is the read-only query surface of a points-to analysis result.
// Implementations are produced by concrete analyses; clients must treat them
// as immutable.
type Resolver interface {
	// MayAlias reports whether two references may denote overlapping storage.
	MayAlias(p, q value.Value) bool
	// Locations returns every structured location v may point to.
	Locations(v value.Value) []Relation
}

// Values projects the locations of v down to the values of [Direct] entries,
// discarding structured locations. It is the flat view of a result that
// clients without field or element sensitivity consume.
func Values(r Resolver, v value.Value) []value.Value {
	var vals []value.Value
	for _, rel := range r.Locations(v) {
		if d, ok := rel.(Direct); ok {
			vals = append(vals, d.Value)
		}
	}
	return vals
}
