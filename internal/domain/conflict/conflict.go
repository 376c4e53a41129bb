// Package conflict finds time overlaps between catalog events.
//
// Events carry separate date and HH:MM clock strings in one timezone, so
// every comparison here is a string comparison on those fields.
package conflict

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/okian/concal/internal/domain/model"
)

// Detect maps every candidate id to the reference ids overlapping it,
// ascending and without duplicates. A candidate never conflicts with itself.
// Both id lists must index into records; the first unknown id fails the
// whole call.
func Detect(records []model.Event, candidates, references []int) (map[int][]int, error) {
	refs := roaring.New()
	for _, id := range references {
		if !valid(records, id) {
			return nil, fmt.Errorf("reference %d: %w", id, ErrUnknownID)
		}
		refs.Add(uint32(id))
	}

	out := make(map[int][]int, len(candidates))
	for _, c := range candidates {
		if !valid(records, c) {
			return nil, fmt.Errorf("candidate %d: %w", c, ErrUnknownID)
		}
		if _, done := out[c]; done {
			continue
		}
		hits := []int{}
		it := refs.Iterator()
		for it.HasNext() {
			r := int(it.Next())
			if r != c && Overlaps(&records[c], &records[r]) {
				hits = append(hits, r)
			}
		}
		out[c] = hits
	}
	return out, nil
}

// Annotate returns copies of the candidate records with Conflicts filled in
// from a Detect result. records is not modified.
func Annotate(records []model.Event, conflicts map[int][]int, candidates []int) []model.Event {
	out := make([]model.Event, 0, len(candidates))
	for _, c := range candidates {
		if !valid(records, c) {
			continue
		}
		ev := records[c]
		ev.Conflicts = append([]int(nil), conflicts[c]...)
		out = append(out, ev)
	}
	return out
}

// Overlaps reports whether a and b conflict. The rule set is checked with
// each event in the candidate position, which makes the relation symmetric.
func Overlaps(a, b *model.Event) bool {
	return conflicts(a, b) || conflicts(b, a)
}

// conflicts applies the rules with c as the candidate and r as the reference.
func conflicts(c, r *model.Event) bool {
	switch {
	// identical span
	case r.StartDate == c.StartDate && r.StartTime == c.StartTime &&
		r.EndDate == c.EndDate && r.EndTime == c.EndTime:
		return true
	// r starts inside c
	case r.StartDate == c.StartDate && c.StartTime <= r.StartTime && r.StartTime < c.EndTime:
		return true
	// r ends inside c
	case r.EndDate == c.EndDate && c.StartTime < r.EndTime && r.EndTime <= c.EndTime:
		return true
	// r wraps c across dates
	case r.StartTime < c.StartTime && r.EndTime > c.EndTime &&
		r.StartDate < c.StartDate && r.EndDate >= c.EndDate:
		return true
	}
	if c.MultiDay() {
		// r begins in c's late-night part on the first date, or in its
		// early-morning part on the last date.
		if r.StartDate == c.StartDate && r.StartTime >= c.StartTime {
			return true
		}
		if r.StartDate == c.EndDate && r.StartTime < c.EndTime {
			return true
		}
	}
	return false
}

func valid(records []model.Event, id int) bool {
	return id >= 0 && id < len(records)
}
