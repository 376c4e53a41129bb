package ingest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/okian/concal/internal/adapters/ingest"
	"github.com/okian/concal/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func csvBytes(t *testing.T, n int) []byte {
	cfg := sampledata.DefaultConfig()
	cfg.Events = n
	var buf bytes.Buffer
	if err := sampledata.WriteCSV(&buf, sampledata.Generate(cfg)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func write(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVParser(t *testing.T) {
	Convey("Given a CSV export", t, func() {
		data := csvBytes(t, 25)

		Convey("When it is parsed", func() {
			ds, err := (&ingest.CSVParser{}).Parse(bytes.NewReader(data))
			So(err, ShouldBeNil)

			Convey("Then it comes out in sheet layout", func() {
				So(ds.Layout, ShouldEqual, ingest.LayoutSheet)
				So(ds.Len(), ShouldEqual, 25)
				So(ds.Rows[0]["A"], ShouldEqual, "Game ID")
			})

			Convey("Then it builds a catalog", func() {
				c, err := ds.Build()
				So(err, ShouldBeNil)
				So(c.Len(), ShouldEqual, 25)
			})
		})

		Convey("When the file is empty", func() {
			_, err := (&ingest.CSVParser{}).Parse(strings.NewReader(""))
			So(errors.Is(err, ingest.ErrNoHeader), ShouldBeTrue)
		})

		Convey("When the header carries a byte order mark and rows are blank", func() {
			in := "\ufeffGame ID,Title\nX1,One\n,\n"
			ds, err := (&ingest.CSVParser{}).Parse(strings.NewReader(in))
			So(err, ShouldBeNil)
			So(ds.Rows[0]["A"], ShouldEqual, "Game ID")
			So(ds.Len(), ShouldEqual, 1)
		})
	})
}

func TestJSONParsers(t *testing.T) {
	Convey("Given a JSON array of label-keyed objects", t, func() {
		in := `[{"Game ID":"RPG1","Title":"One","Event Type":"RPG","Start Date & Time":"08/01/2024 10:00 AM",
			"End Date & Time":"08/01/2024 11:00 AM","Cost $":4,"Tournament?":true,"Group":null}]`

		Convey("When it is parsed", func() {
			ds, err := (&ingest.JSONParser{}).Parse(strings.NewReader(in))
			So(err, ShouldBeNil)

			Convey("Then scalars are rendered to strings and nulls dropped", func() {
				So(ds.Layout, ShouldEqual, ingest.LayoutLabels)
				So(ds.Rows[0]["Cost $"], ShouldEqual, "4")
				So(ds.Rows[0]["Tournament?"], ShouldEqual, "Yes")
				So(ds.Rows[0], ShouldNotContainKey, "Group")
			})

			Convey("Then it builds a catalog", func() {
				c, err := ds.Build()
				So(err, ShouldBeNil)
				ev, _ := c.Event(0)
				So(ev.Tournament, ShouldBeTrue)
				So(ev.Cost, ShouldEqual, 4)
			})
		})

		Convey("When a value is nested", func() {
			_, err := (&ingest.JSONParser{}).Parse(strings.NewReader(`[{"Title":{"x":1}}]`))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a sheet dump", t, func() {
		cfg := sampledata.DefaultConfig()
		cfg.Events = 5
		data, err := json.Marshal(sampledata.Sheet(sampledata.Generate(cfg)))
		So(err, ShouldBeNil)

		ds, err := (&ingest.SheetParser{}).Parse(bytes.NewReader(data))
		So(err, ShouldBeNil)
		So(ds.Layout, ShouldEqual, ingest.LayoutSheet)
		So(ds.Len(), ShouldEqual, 5)

		_, err = (&ingest.SheetParser{}).Parse(strings.NewReader("[]"))
		So(errors.Is(err, ingest.ErrNoHeader), ShouldBeTrue)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given exports on disk", t, func() {
		data := csvBytes(t, 12)

		Convey("When a plain CSV is loaded by extension", func() {
			ds, err := ingest.Load(write(t, "events.csv", data), ingest.FormatAuto)
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 12)
			So(ds.Source, ShouldEndWith, "events.csv")
		})

		Convey("When a gzip CSV is loaded", func() {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write(data)
			So(zw.Close(), ShouldBeNil)

			ds, err := ingest.Load(write(t, "events.csv.gz", buf.Bytes()), "")
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 12)
		})

		Convey("When a zstd stream hides behind an explicit format", func() {
			var buf bytes.Buffer
			zw, err := zstd.NewWriter(&buf)
			So(err, ShouldBeNil)
			_, _ = zw.Write(data)
			So(zw.Close(), ShouldBeNil)

			ds, err := ingest.Load(write(t, "export.dat", buf.Bytes()), ingest.FormatCSV)
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 12)
		})

		Convey("When a stream is written through Compress", func() {
			for _, name := range []string{"events.csv.zst", "events.csv.gz", "events.csv"} {
				var buf bytes.Buffer
				zw, err := ingest.Compress(&buf, name)
				So(err, ShouldBeNil)
				_, err = zw.Write(data)
				So(err, ShouldBeNil)
				So(zw.Close(), ShouldBeNil)

				ds, err := ingest.Load(write(t, name, buf.Bytes()), ingest.FormatAuto)
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 12)
			}
		})

		Convey("When the format cannot be determined", func() {
			_, err := ingest.Load(write(t, "events.txt", data), ingest.FormatAuto)
			So(errors.Is(err, ingest.ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := ingest.Load(filepath.Join(t.TempDir(), "missing.csv"), ingest.FormatAuto)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestForFile(t *testing.T) {
	Convey("Given file names", t, func() {
		So(ingest.ForFile("a.CSV"), ShouldHaveSameTypeAs, &ingest.CSVParser{})
		So(ingest.ForFile("a.json.zst"), ShouldHaveSameTypeAs, &ingest.JSONParser{})
		So(ingest.ForFile("a.sheet.json.gz"), ShouldHaveSameTypeAs, &ingest.SheetParser{})
		So(ingest.ForFile("a.xlsx"), ShouldBeNil)
		So(ingest.ForFormat("SHEET"), ShouldHaveSameTypeAs, &ingest.SheetParser{})
	})
}
