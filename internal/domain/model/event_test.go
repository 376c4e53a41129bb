package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/concal/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		ev := model.Event{
			ID:        4,
			Title:     "Midnight Madness",
			GameID:    "ENT24ND00004",
			StartDate: "2024-08-01",
			StartTime: "23:00",
			EndDate:   "2024-08-02",
			EndTime:   "01:00",
			GMNames:   "Ann Smith, Bob Jones, ",
		}

		convey.Convey("When it crosses midnight", func() {
			convey.Convey("Then it is multi-day", func() {
				convey.So(ev.MultiDay(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When it starts and ends on one date", func() {
			ev.EndDate = ev.StartDate
			convey.So(ev.MultiDay(), convey.ShouldBeFalse)
		})

		convey.Convey("When GM names are listed", func() {
			convey.So(ev.GMList(), convey.ShouldResemble, []string{"Ann Smith", "Bob Jones"})
		})

		convey.Convey("When no GM is named", func() {
			ev.GMNames = ""
			convey.So(ev.GMList(), convey.ShouldBeNil)
		})

		convey.Convey("When it is encoded without conflicts", func() {
			data, err := json.Marshal(ev)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the conflicts key is absent", func() {
				convey.So(string(data), convey.ShouldNotContainSubstring, "conflicts")
				convey.So(string(data), convey.ShouldContainSubstring, `"tournament":false`)
			})
		})
	})
}
