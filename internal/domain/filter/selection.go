package filter

import (
	"slices"

	"github.com/okian/concal/internal/domain/facet"
)

// Selection is the set of labels toggled per facet. It is owned by the
// caller and treated as a value: Toggle returns a new Selection.
type Selection map[facet.Name][]string

// Empty reports whether no label is selected in any facet.
func (s Selection) Empty() bool {
	for _, labels := range s {
		if len(labels) > 0 {
			return false
		}
	}
	return true
}

// Has reports whether label is selected in facet n.
func (s Selection) Has(n facet.Name, label string) bool {
	return slices.Contains(s[n], label)
}

// Toggle returns a copy of s with label added to facet n, or removed if it
// was already selected. s itself is left untouched.
func (s Selection) Toggle(n facet.Name, label string) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = slices.Clone(v)
	}
	if i := slices.Index(out[n], label); i >= 0 {
		out[n] = slices.Delete(out[n], i, i+1)
		if len(out[n]) == 0 {
			delete(out, n)
		}
		return out
	}
	out[n] = append(out[n], label)
	return out
}
