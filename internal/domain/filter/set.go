package filter

import (
	"encoding/json"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is an immutable set of event ids backed by a roaring bitmap.
// Every operation returns a new Set; the zero value is the empty set.
type Set struct {
	rb *roaring.Bitmap
}

// NewSet returns the set of ids. Negative ids are ignored.
func NewSet(ids ...int) Set {
	rb := roaring.New()
	for _, id := range ids {
		if id >= 0 {
			rb.Add(uint32(id))
		}
	}
	return Set{rb: rb}
}

// All returns {0, 1, ..., n-1}.
func All(n int) Set {
	rb := roaring.New()
	if n > 0 {
		rb.AddRange(0, uint64(n))
	}
	return Set{rb: rb}
}

func (s Set) bitmap() *roaring.Bitmap {
	if s.rb == nil {
		return roaring.New()
	}
	return s.rb
}

// Contains reports whether id is in s.
func (s Set) Contains(id int) bool {
	return id >= 0 && s.rb != nil && s.rb.Contains(uint32(id))
}

// Len returns the number of ids in s.
func (s Set) Len() int {
	if s.rb == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []int {
	if s.rb == nil {
		return []int{}
	}
	out := make([]int, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set {
	return Set{rb: roaring.Or(s.bitmap(), o.bitmap())}
}

// Intersect returns s ∩ o.
func (s Set) Intersect(o Set) Set {
	return Set{rb: roaring.And(s.bitmap(), o.bitmap())}
}

// Difference returns s \ o.
func (s Set) Difference(o Set) Set {
	return Set{rb: roaring.AndNot(s.bitmap(), o.bitmap())}
}

// Equal reports whether s and o hold the same ids.
func (s Set) Equal(o Set) bool {
	return s.bitmap().Equals(o.bitmap())
}

// MarshalJSON renders the ids as an ascending array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// union folds id lists into one Set.
func union(lists ...[]int) Set {
	rb := roaring.New()
	for _, ids := range lists {
		for _, id := range ids {
			rb.Add(uint32(id))
		}
	}
	return Set{rb: rb}
}
