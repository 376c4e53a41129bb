// Package catalog builds the immutable event catalog: normalized records
// addressed by dense ids plus their facet indices.
//
// A Catalog is built once per dataset and is read-only afterwards, so it can
// be shared between goroutines without locking. A new dataset means a new
// Catalog.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/concal/internal/domain/dedupe"
	"github.com/okian/concal/internal/domain/facet"
	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/normalize"
)

// Catalog is the normalized record list and its facet indices.
type Catalog struct {
	records    []model.Event
	indices    *facet.Indices
	rejected   []*normalize.RowError
	duplicates []string
}

// Day summarizes the events starting on one calendar date.
type Day struct {
	Date         string
	Events       int
	EarliestTime string
	LatestTime   string
}

type builder struct {
	cols          normalize.Columns
	loc           *time.Location
	skipMalformed bool
}

func newBuilder(opts []Option) *builder {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build normalizes rows in order and indexes the result. Ids follow row
// order among accepted rows. Unless WithSkipMalformed is set, the first
// malformed row aborts the build with an error matching
// normalize.ErrMalformedRow. An empty input yields an empty catalog.
func Build(rows []model.RawRow, opts ...Option) (*Catalog, error) {
	b := newBuilder(opts)
	if b.cols == nil {
		b.cols = normalize.LabelColumns()
	}
	return b.build(rows, 0)
}

// BuildSheet builds from a spreadsheet-style dataset whose first row maps
// column keys to header labels. The header is resolved once and every later
// row is read through it. An empty dataset yields an empty catalog.
func BuildSheet(rows []model.RawRow, opts ...Option) (*Catalog, error) {
	if len(rows) == 0 {
		return Build(nil, opts...)
	}
	b := newBuilder(opts)
	if len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrBuild, ErrEmptyHeader)
	}
	cols, err := normalize.ResolveHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	b.cols = cols
	return b.build(rows[1:], 1)
}

func (b *builder) build(rows []model.RawRow, offset int) (*Catalog, error) {
	var nopts []normalize.Option
	if b.loc != nil {
		nopts = append(nopts, normalize.WithLocation(b.loc))
	}
	n := normalize.New(b.cols, nopts...)
	seen := dedupe.NewInMemoryDeduper(len(rows))

	c := &Catalog{records: make([]model.Event, 0, len(rows))}
	for i, row := range rows {
		ev, err := n.Normalize(i+offset, row)
		if err != nil {
			var rowErr *normalize.RowError
			if b.skipMalformed && errors.As(err, &rowErr) {
				c.rejected = append(c.rejected, rowErr)
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrBuild, err)
		}
		ev.ID = len(c.records)
		seen.SeenAndRecord(ev.GameID)
		c.records = append(c.records, ev)
	}
	c.duplicates = seen.Duplicates()
	c.indices = facet.Build(c.records)
	return c, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a copy of the record list; Records()[i].ID == i.
func (c *Catalog) Records() []model.Event {
	out := make([]model.Event, len(c.records))
	copy(out, c.records)
	return out
}

// Event returns the record with the given id.
func (c *Catalog) Event(id int) (model.Event, bool) {
	if id < 0 || id >= len(c.records) {
		return model.Event{}, false
	}
	return c.records[id], true
}

// Events returns the records for ids, in the order given. Unknown ids are skipped.
func (c *Catalog) Events(ids []int) []model.Event {
	out := make([]model.Event, 0, len(ids))
	for _, id := range ids {
		if ev, ok := c.Event(id); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Indices returns the facet indices.
func (c *Catalog) Indices() *facet.Indices { return c.indices }

// Rejected returns the rows dropped by a WithSkipMalformed build.
func (c *Catalog) Rejected() []*normalize.RowError {
	out := make([]*normalize.RowError, len(c.rejected))
	copy(out, c.rejected)
	return out
}

// Duplicates returns game ids carried by more than one record.
func (c *Catalog) Duplicates() []string {
	out := make([]string, len(c.duplicates))
	copy(out, c.duplicates)
	return out
}

// Days lists start dates ascending with their earliest and latest start times.
func (c *Catalog) Days() []Day {
	var days []Day
	c.indices.Each(facet.StartDates, func(date string, ids []int) {
		d := Day{Date: date, Events: len(ids)}
		for _, id := range ids {
			t := c.records[id].StartTime
			if d.EarliestTime == "" || t < d.EarliestTime {
				d.EarliestTime = t
			}
			if t > d.LatestTime {
				d.LatestTime = t
			}
		}
		days = append(days, d)
	})
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// MarshalJSON renders {"records": [...], "indices": {...}}. Building twice
// from the same rows encodes to identical bytes.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Records []model.Event  `json:"records"`
		Indices *facet.Indices `json:"indices"`
	}{Records: c.records, Indices: c.indices})
}
