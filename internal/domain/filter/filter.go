// Package filter composes facet selections into id sets.
//
// All functions are pure: they read the immutable facet indices and return
// fresh Sets, so results never depend on the order or history of toggles.
package filter

import (
	"strconv"

	"github.com/okian/concal/internal/domain/facet"
)

// Include returns the union of the ids under every selected label, across
// all facets. Labels missing from an index contribute nothing. An empty
// selection yields the empty set; Apply treats that case as "no restriction".
func Include(ix *facet.Indices, sel Selection) Set {
	lists := make([][]int, 0, len(sel))
	for n, labels := range sel {
		for _, l := range labels {
			lists = append(lists, ix.Lookup(n, l))
		}
	}
	return union(lists...)
}

// Exclude returns all minus the union of the ids under every hidden label.
// It is recomputed from the full hidden set, so un-hiding a label restores
// exactly the ids that label removed.
func Exclude(ix *facet.Indices, hidden Selection, all Set) Set {
	return all.Difference(Include(ix, hidden))
}

// Range decides whether a bucket label lies inside a bound pair.
type Range interface {
	Contains(label string) bool
}

// NumericRange is an inclusive [Min, Max] bound on numeric labels.
type NumericRange struct {
	Min, Max float64
}

// Contains reports whether the numeric label is within the bounds.
// Labels that do not parse are outside.
func (r NumericRange) Contains(label string) bool {
	v, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// ClockRange is an inclusive [From, To] bound on HH:MM labels. An empty
// bound is open on that side.
type ClockRange struct {
	From, To string
}

// Contains compares zero-padded HH:MM strings lexicographically.
func (r ClockRange) Contains(label string) bool {
	if r.From != "" && label < r.From {
		return false
	}
	if r.To != "" && label > r.To {
		return false
	}
	return true
}

// ApplyRange removes from candidates every id filed under a bucket of facet
// n whose label falls outside r. Ids not indexed in n are kept.
func ApplyRange(ix *facet.Indices, n facet.Name, r Range, candidates Set) Set {
	var out [][]int
	ix.Each(n, func(label string, ids []int) {
		if !r.Contains(label) {
			out = append(out, ids)
		}
	})
	return candidates.Difference(union(out...))
}

// Query is the full set of active restrictions.
type Query struct {
	Include Selection
	Exclude Selection
	Ranges  map[facet.Name]Range
}

// Apply returns the ids of a catalog of size n that survive q: not excluded,
// inside every range, and, when any inclusion label is active, in the
// inclusion union. The steps commute.
func Apply(ix *facet.Indices, n int, q Query) Set {
	out := Exclude(ix, q.Exclude, All(n))
	for name, r := range q.Ranges {
		if r == nil {
			continue
		}
		out = ApplyRange(ix, name, r, out)
	}
	if !q.Include.Empty() {
		out = out.Intersect(Include(ix, q.Include))
	}
	return out
}
