package facet_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/concal/internal/domain/facet"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func records() []model.Event {
	return []model.Event{
		{ID: 0, EventType: "RPG", GameSystem: "Pathfinder: Second Edition", Location: "icc",
			StartDate: "2024-08-01", StartTime: "10:00", EndDate: "2024-08-01", EndTime: "12:00",
			Duration: 2, Cost: 4, TicketsAvailable: 0, Materials: "Dice", Tournament: true},
		{ID: 1, EventType: "BGM", GameSystem: "  Catan ", Location: "ICC",
			StartDate: "2024-08-01", StartTime: "09:00", EndDate: "2024-08-01", EndTime: "10:00",
			Duration: 1, Cost: 0, TicketsAvailable: 5},
		{ID: 2, EventType: "RPG", Location: "",
			StartDate: "2024-08-02", StartTime: "22:00", EndDate: "2024-08-03", EndTime: "02:00",
			Duration: 0, Cost: 12, TicketsAvailable: 2, Group: "Paizo"},
	}
}

func TestLabelOf(t *testing.T) {
	Convey("Given an event", t, func() {
		ev := records()[0]

		Convey("Then the game system drops colons", func() {
			l, ok := facet.LabelOf(facet.GameSystems, &ev)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, "Pathfinder Second Edition")
		})

		Convey("Then the location is uppercased", func() {
			l, _ := facet.LabelOf(facet.Locations, &ev)
			So(l, ShouldEqual, "ICC")
		})

		Convey("Then numeric labels use the shortest rendering", func() {
			ev.Duration = 1.5
			l, _ := facet.LabelOf(facet.Duration, &ev)
			So(l, ShouldEqual, "1.5")
		})

		Convey("Then zero duration is not indexed but zero cost is", func() {
			ev.Duration, ev.Cost = 0, 0
			_, ok := facet.LabelOf(facet.Duration, &ev)
			So(ok, ShouldBeFalse)
			l, ok := facet.LabelOf(facet.Cost, &ev)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, "0")
		})

		Convey("Then empty text values are not indexed", func() {
			_, ok := facet.LabelOf(facet.Groups, &ev)
			So(ok, ShouldBeFalse)
		})

		Convey("Then binary facets answer with the flag label", func() {
			l, ok := facet.LabelOf(facet.NoTickets, &ev)
			So(ok, ShouldBeTrue)
			So(l, ShouldEqual, facet.FlagLabel)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given facet names", t, func() {
		n, ok := facet.Parse("eventTypes")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, facet.EventTypes)

		_, ok = facet.Parse("EventTypes")
		So(ok, ShouldBeFalse)

		So(facet.Tournaments.IsFlag(), ShouldBeTrue)
		So(facet.Cost.Numeric(), ShouldBeTrue)
		So(len(facet.All()), ShouldEqual, len(facet.Labeled)+len(facet.Flags))
	})
}

func TestBuild(t *testing.T) {
	Convey("Given indices built over three events", t, func() {
		recs := records()
		ix := facet.Build(recs)

		Convey("Then ids under a label are ascending", func() {
			So(ix.Lookup(facet.EventTypes, "RPG"), ShouldResemble, []int{0, 2})
			So(ix.Lookup(facet.Locations, "ICC"), ShouldResemble, []int{0, 1})
		})

		Convey("Then unknown labels and facets yield nothing", func() {
			So(ix.Lookup(facet.EventTypes, "LRP"), ShouldBeEmpty)
			So(ix.Lookup(facet.Name("nope"), "x"), ShouldBeEmpty)
			So(ix.Count(facet.EventTypes, "LRP"), ShouldEqual, 0)
		})

		Convey("Then binary facets are flat lists", func() {
			So(ix.Flag(facet.NoTickets), ShouldResemble, []int{0})
			So(ix.Flag(facet.MaterialsRequired), ShouldResemble, []int{0})
			So(ix.Flag(facet.Tournaments), ShouldResemble, []int{0})
			So(ix.Lookup(facet.Tournaments, "no"), ShouldBeEmpty)
			So(ix.Count(facet.NoTickets, facet.FlagLabel), ShouldEqual, 1)
		})

		Convey("Then each event sits under at most one label per facet", func() {
			for _, n := range facet.Labeled {
				seen := map[int]int{}
				for _, l := range ix.Labels(n) {
					for _, id := range ix.Lookup(n, l) {
						seen[id]++
					}
				}
				for id, times := range seen {
					So(times, ShouldEqual, 1)
					label, ok := facet.LabelOf(n, &recs[id])
					So(ok, ShouldBeTrue)
					So(ix.Lookup(n, label), ShouldContain, id)
				}
			}
		})

		Convey("Then numeric labels sort by value", func() {
			So(ix.Labels(facet.Cost), ShouldResemble, []string{"0", "4", "12"})
			So(ix.Labels(facet.Duration), ShouldResemble, []string{"1", "2"})
		})

		Convey("Then text labels sort lexicographically", func() {
			So(ix.Labels(facet.StartDates), ShouldResemble, []string{"2024-08-01", "2024-08-02"})
			So(ix.Labels(facet.GameSystems), ShouldResemble, []string{"Catan", "Pathfinder Second Edition"})
		})

		Convey("Then summaries carry label counts", func() {
			sums := facet.Summarize(ix, facet.EventTypes, facet.NoTickets)
			So(sums, ShouldResemble, []types.FacetSummary{
				{Name: "eventTypes", Labels: []types.LabelCount{{Label: "BGM", Count: 1}, {Label: "RPG", Count: 2}}},
				{Name: "noTickets", Flag: true, Labels: []types.LabelCount{{Label: "yes", Count: 1}}, Count: 1},
			})
			So(facet.Summarize(ix), ShouldHaveLength, len(facet.All()))
		})

		Convey("Then returned lists are copies", func() {
			ids := ix.Lookup(facet.EventTypes, "RPG")
			ids[0] = 99
			So(ix.Lookup(facet.EventTypes, "RPG"), ShouldResemble, []int{0, 2})
		})

		Convey("Then encoding is deterministic", func() {
			a, err := json.Marshal(ix)
			So(err, ShouldBeNil)
			b, err := json.Marshal(facet.Build(records()))
			So(err, ShouldBeNil)
			So(string(a), ShouldEqual, string(b))
			So(string(a), ShouldContainSubstring, `"noTickets":[0]`)
		})
	})

	Convey("Given no events", t, func() {
		ix := facet.Build(nil)

		Convey("Then every facet is empty", func() {
			for _, n := range facet.All() {
				So(ix.Labels(n), ShouldBeEmpty)
			}
		})
	})
}
