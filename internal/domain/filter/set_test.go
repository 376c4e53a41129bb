package filter_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/concal/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given two sets", t, func() {
		a := filter.NewSet(5, 1, 3, 1, -2)
		b := filter.NewSet(3, 4, 5)

		Convey("Then ids come out ascending without duplicates", func() {
			So(a.IDs(), ShouldResemble, []int{1, 3, 5})
			So(a.Len(), ShouldEqual, 3)
			So(a.Contains(3), ShouldBeTrue)
			So(a.Contains(-2), ShouldBeFalse)
		})

		Convey("Then set algebra returns new sets", func() {
			So(a.Union(b).IDs(), ShouldResemble, []int{1, 3, 4, 5})
			So(a.Intersect(b).IDs(), ShouldResemble, []int{3, 5})
			So(a.Difference(b).IDs(), ShouldResemble, []int{1})
			So(a.IDs(), ShouldResemble, []int{1, 3, 5})
		})

		Convey("Then equality ignores construction order", func() {
			So(a.Equal(filter.NewSet(3, 5, 1)), ShouldBeTrue)
			So(a.Equal(b), ShouldBeFalse)
		})

		Convey("Then All covers 0..n-1", func() {
			So(filter.All(4).IDs(), ShouldResemble, []int{0, 1, 2, 3})
			So(filter.All(0).Len(), ShouldEqual, 0)
		})

		Convey("Then the zero value is the empty set", func() {
			var z filter.Set
			So(z.Len(), ShouldEqual, 0)
			So(z.IDs(), ShouldResemble, []int{})
			So(z.Union(a).Equal(a), ShouldBeTrue)
			So(z.Equal(filter.NewSet()), ShouldBeTrue)
		})

		Convey("Then sets encode as id arrays", func() {
			data, err := json.Marshal(a)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "[1,3,5]")
		})
	})
}
