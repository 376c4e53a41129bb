package conflict_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/okian/concal/internal/domain/catalog"
	"github.com/okian/concal/internal/domain/conflict"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func span(id int, startDate, startTime, endDate, endTime string) model.Event {
	return model.Event{ID: id, StartDate: startDate, StartTime: startTime, EndDate: endDate, EndTime: endTime}
}

// A..F
func scenario() []model.Event {
	return []model.Event{
		span(0, "2024-08-01", "10:00", "2024-08-01", "12:00"),
		span(1, "2024-08-01", "11:00", "2024-08-01", "13:00"),
		span(2, "2024-08-01", "09:00", "2024-08-01", "10:00"),
		span(3, "2024-08-01", "10:00", "2024-08-01", "12:00"),
		span(4, "2024-08-01", "22:00", "2024-08-02", "01:00"),
		span(5, "2024-08-01", "23:00", "2024-08-01", "23:30"),
	}
}

const (
	a = iota
	b
	c
	d
	e
	f
)

func TestDetect(t *testing.T) {
	Convey("Given six events", t, func() {
		recs := scenario()
		all := []int{a, b, c, d, e, f}

		Convey("When every event is checked against every other", func() {
			got, err := conflict.Detect(recs, all, all)
			So(err, ShouldBeNil)

			Convey("Then partially overlapping events conflict both ways", func() {
				So(got[a], ShouldContain, b)
				So(got[b], ShouldContain, a)
			})

			Convey("Then back to back events do not conflict", func() {
				So(got[a], ShouldNotContain, c)
				So(got[c], ShouldNotContain, a)
			})

			Convey("Then identical spans conflict", func() {
				So(got[a], ShouldContain, d)
				So(got[d], ShouldContain, a)
			})

			Convey("Then an event inside the overnight part of another conflicts", func() {
				So(got[e], ShouldContain, f)
				So(got[f], ShouldContain, e)
			})

			Convey("Then lists are ascending and never contain the candidate", func() {
				So(got[a], ShouldResemble, []int{b, d})
				for id, hits := range got {
					So(slices.IsSorted(hits), ShouldBeTrue)
					So(hits, ShouldNotContain, id)
				}
			})

			Convey("Then candidates without conflicts map to an empty list", func() {
				So(got[c], ShouldNotBeNil)
				So(got[c], ShouldBeEmpty)
			})
		})

		Convey("When ids repeat", func() {
			got, err := conflict.Detect(recs, []int{a, a}, []int{d, b, d})
			So(err, ShouldBeNil)

			Convey("Then each hit is reported once", func() {
				So(got, ShouldHaveLength, 1)
				So(got[a], ShouldResemble, []int{b, d})
			})
		})

		Convey("When an id is outside the catalog", func() {
			_, err := conflict.Detect(recs, []int{a}, []int{42})
			So(errors.Is(err, conflict.ErrUnknownID), ShouldBeTrue)

			_, err = conflict.Detect(recs, []int{-1}, all)
			So(errors.Is(err, conflict.ErrUnknownID), ShouldBeTrue)
		})

		Convey("When there are no candidates", func() {
			got, err := conflict.Detect(recs, nil, all)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestOverlaps(t *testing.T) {
	Convey("Given an overnight event", t, func() {
		night := span(0, "2024-08-01", "22:00", "2024-08-02", "02:00")

		Convey("Then an event early next morning conflicts", func() {
			early := span(1, "2024-08-02", "01:00", "2024-08-02", "03:00")
			So(conflict.Overlaps(&night, &early), ShouldBeTrue)
			So(conflict.Overlaps(&early, &night), ShouldBeTrue)
		})

		Convey("Then an event after it ends does not", func() {
			later := span(1, "2024-08-02", "02:00", "2024-08-02", "04:00")
			So(conflict.Overlaps(&night, &later), ShouldBeFalse)
		})

		Convey("Then an event earlier the same evening does not", func() {
			evening := span(1, "2024-08-01", "19:00", "2024-08-01", "21:00")
			So(conflict.Overlaps(&night, &evening), ShouldBeFalse)
		})

		Convey("Then a multi-day event wrapping it conflicts", func() {
			wrap := span(1, "2024-07-31", "20:00", "2024-08-02", "04:00")
			So(conflict.Overlaps(&night, &wrap), ShouldBeTrue)
			So(conflict.Overlaps(&wrap, &night), ShouldBeTrue)
		})
	})
}

func TestSymmetry(t *testing.T) {
	Convey("Given a generated catalog", t, func() {
		cfg := sampledata.DefaultConfig()
		cfg.Events = 150
		cfg.Seed = 7
		cat, err := catalog.Build(sampledata.Generate(cfg))
		So(err, ShouldBeNil)
		recs := cat.Records()

		Convey("Then every pair conflicts the same way in both directions", func() {
			asymmetric := 0
			for x := range recs {
				for y := range recs {
					if x == y {
						continue
					}
					xy, err := conflict.Detect(recs, []int{x}, []int{y})
					So(err, ShouldBeNil)
					yx, err := conflict.Detect(recs, []int{y}, []int{x})
					So(err, ShouldBeNil)
					if slices.Contains(xy[x], y) != slices.Contains(yx[y], x) {
						asymmetric++
					}
				}
			}
			So(asymmetric, ShouldEqual, 0)
		})

		Convey("Then swapping candidates and references mirrors the relation", func() {
			left := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
			right := []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
			lr, err := conflict.Detect(recs, left, right)
			So(err, ShouldBeNil)
			rl, err := conflict.Detect(recs, right, left)
			So(err, ShouldBeNil)
			for x, hits := range lr {
				for _, y := range hits {
					So(rl[y], ShouldContain, x)
				}
			}
			for y, hits := range rl {
				for _, x := range hits {
					So(lr[x], ShouldContain, y)
				}
			}
		})
	})
}

func TestAnnotate(t *testing.T) {
	Convey("Given detected conflicts", t, func() {
		recs := scenario()
		got, err := conflict.Detect(recs, []int{a, c}, []int{a, b, c, d})
		So(err, ShouldBeNil)

		Convey("When candidates are annotated", func() {
			out := conflict.Annotate(recs, got, []int{a, c, 99})

			Convey("Then copies carry their conflict ids", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Conflicts, ShouldResemble, []int{b, d})
				So(out[1].Conflicts, ShouldBeEmpty)
			})

			Convey("Then the records are untouched", func() {
				So(recs[a].Conflicts, ShouldBeNil)
			})
		})
	})
}
