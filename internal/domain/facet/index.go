package facet

import (
	"encoding/json"
	"slices"
	"sort"
	"strconv"

	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/types"
)

// Index maps a facet label to the ascending ids carrying it.
type Index map[string][]int

// Indices bundles one index per facet. It is built once and never mutated;
// accessors hand out copies.
type Indices struct {
	labeled map[Name]Index
	flags   map[Name][]int
}

// Build indexes records in a single pass. records[i].ID must equal i.
func Build(records []model.Event) *Indices {
	ix := &Indices{
		labeled: make(map[Name]Index, len(Labeled)),
		flags:   make(map[Name][]int, len(Flags)),
	}
	for _, n := range Labeled {
		ix.labeled[n] = Index{}
	}
	for i := range records {
		e := &records[i]
		for _, n := range Labeled {
			if label, ok := LabelOf(n, e); ok {
				ix.labeled[n][label] = append(ix.labeled[n][label], e.ID)
			}
		}
		for _, n := range Flags {
			if _, ok := LabelOf(n, e); ok {
				ix.flags[n] = append(ix.flags[n], e.ID)
			}
		}
	}
	return ix
}

// Lookup returns the ids filed under label in facet n. Unknown facets and
// labels yield nil. Binary facets only answer to FlagLabel.
func (ix *Indices) Lookup(n Name, label string) []int {
	if n.IsFlag() {
		if label != FlagLabel {
			return nil
		}
		return slices.Clone(ix.flags[n])
	}
	return slices.Clone(ix.labeled[n][label])
}

// Flag returns the id list of a binary facet.
func (ix *Indices) Flag(n Name) []int {
	return ix.Lookup(n, FlagLabel)
}

// Count returns how many ids are filed under label.
func (ix *Indices) Count(n Name, label string) int {
	if n.IsFlag() {
		if label != FlagLabel {
			return 0
		}
		return len(ix.flags[n])
	}
	return len(ix.labeled[n][label])
}

// Labels returns the labels of facet n in display order: numeric facets by
// value, everything else lexicographically. Binary facets have at most FlagLabel.
func (ix *Indices) Labels(n Name) []string {
	if n.IsFlag() {
		if len(ix.flags[n]) == 0 {
			return nil
		}
		return []string{FlagLabel}
	}
	idx := ix.labeled[n]
	out := make([]string, 0, len(idx))
	for l := range idx {
		out = append(out, l)
	}
	if n.Numeric() {
		sort.Slice(out, func(i, j int) bool {
			a, _ := strconv.ParseFloat(out[i], 64)
			b, _ := strconv.ParseFloat(out[j], 64)
			return a < b
		})
	} else {
		sort.Strings(out)
	}
	return out
}

// Each calls fn for every label of a labeled facet, in unspecified order.
// fn must not retain or modify ids.
func (ix *Indices) Each(n Name, fn func(label string, ids []int)) {
	for l, ids := range ix.labeled[n] {
		fn(l, ids)
	}
}

// MarshalJSON renders {facet: {label: ids}} and {flag: ids}; map keys are
// sorted by encoding/json, so equal indices encode to equal bytes.
func (ix *Indices) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(Labeled)+len(Flags))
	for _, n := range Labeled {
		out[string(n)] = ix.labeled[n]
	}
	for _, n := range Flags {
		ids := ix.flags[n]
		if ids == nil {
			ids = []int{}
		}
		out[string(n)] = ids
	}
	return json.Marshal(out)
}

// Summarize lists the labels and counts of the named facets; no names means
// every facet.
func Summarize(ix *Indices, names ...Name) []types.FacetSummary {
	if len(names) == 0 {
		names = All()
	}
	out := make([]types.FacetSummary, 0, len(names))
	for _, n := range names {
		s := types.FacetSummary{Name: string(n), Flag: n.IsFlag()}
		for _, l := range ix.Labels(n) {
			s.Labels = append(s.Labels, types.LabelCount{Label: l, Count: ix.Count(n, l)})
		}
		if s.Flag {
			s.Count = ix.Count(n, FlagLabel)
		}
		out = append(out, s)
	}
	return out
}
