package sampledata_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/okian/concal/internal/domain/normalize"
	"github.com/okian/concal/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator config", t, func() {
		cfg := sampledata.DefaultConfig()
		cfg.Events = 50

		Convey("When rows are generated twice with the same seed", func() {
			a := sampledata.Generate(cfg)
			b := sampledata.Generate(cfg)

			Convey("Then the rows are identical", func() {
				So(a, ShouldHaveLength, 50)
				So(a, ShouldResemble, b)
			})

			Convey("Then every row carries the required labels", func() {
				for _, r := range a {
					for _, l := range []string{normalize.LabelGameID, normalize.LabelTitle,
						normalize.LabelEventType, normalize.LabelStart, normalize.LabelEnd} {
						So(r[l], ShouldNotBeBlank)
					}
				}
			})
		})

		Convey("When a different seed is used", func() {
			other := cfg
			other.Seed = 99
			So(sampledata.Generate(other), ShouldNotResemble, sampledata.Generate(cfg))
		})

		Convey("When malformed rows are requested", func() {
			cfg.MalformedEvery = 5
			rows := sampledata.Generate(cfg)
			So(rows[4][normalize.LabelStart], ShouldEqual, "not a date")
			So(rows[3][normalize.LabelStart], ShouldNotEqual, "not a date")
		})

		Convey("When no events are requested", func() {
			cfg.Events = 0
			So(sampledata.Generate(cfg), ShouldBeEmpty)
		})
	})
}

func TestSheet(t *testing.T) {
	Convey("Given generated rows in sheet layout", t, func() {
		cfg := sampledata.DefaultConfig()
		cfg.Events = 3
		rows := sampledata.Generate(cfg)
		sheet := sampledata.Sheet(rows)

		Convey("Then the header maps A..AF to the labels", func() {
			So(sheet, ShouldHaveLength, 4)
			So(sheet[0]["A"], ShouldEqual, normalize.LabelGameID)
			So(sheet[0]["Z"], ShouldEqual, normalize.LabelCost)
			So(sheet[0]["AA"], ShouldEqual, normalize.LabelLocation)
			So(sheet[0]["AF"], ShouldEqual, normalize.LabelLastModified)
		})

		Convey("Then data rows are keyed by column", func() {
			So(sheet[1]["A"], ShouldEqual, rows[0][normalize.LabelGameID])
			So(sheet[3]["C"], ShouldEqual, rows[2][normalize.LabelTitle])
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given generated rows", t, func() {
		cfg := sampledata.DefaultConfig()
		cfg.Events = 10
		rows := sampledata.Generate(cfg)

		Convey("When written as CSV", func() {
			var buf bytes.Buffer
			So(sampledata.WriteCSV(&buf, rows), ShouldBeNil)

			Convey("Then a header line precedes one line per row", func() {
				records, err := csv.NewReader(&buf).ReadAll()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 11)
				So(records[0], ShouldResemble, normalize.KnownLabels)
				So(records[1][2], ShouldEqual, rows[0][normalize.LabelTitle])
			})
		})
	})
}
