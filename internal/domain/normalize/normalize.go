// Package normalize converts raw export rows into typed events.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/concal/internal/domain/model"
)

// Output layouts. Dates and clock times are compared as strings downstream,
// so both must be zero-padded.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// DefaultTimezone is where every event of the convention takes place.
const DefaultTimezone = "America/Indiana/Indianapolis"

// timestampLayouts are tried in order against the start/end columns.
var timestampLayouts = []string{
	"01/02/2006 03:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 03:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"20060102150405",
}

// Normalizer turns RawRows into model.Events using a resolved column map.
type Normalizer struct {
	cols Columns
	loc  *time.Location
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLocation sets the timezone timestamps without an offset are read in.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// New creates a Normalizer for rows laid out according to cols.
func New(cols Columns, opts ...Option) *Normalizer {
	n := &Normalizer{cols: cols, loc: time.UTC}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		n.loc = loc
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Location returns the timezone events are interpreted in.
func (n *Normalizer) Location() *time.Location { return n.loc }

// Normalize converts a single row. rowNum is only used for error reporting.
// The returned event has no ID; the catalog assigns it.
func (n *Normalizer) Normalize(rowNum int, row model.RawRow) (model.Event, error) {
	get := func(label string) string { return n.cols.value(row, label) }

	var ev model.Event
	for _, req := range []struct {
		label string
		dst   *string
	}{
		{LabelTitle, &ev.Title},
		{LabelGameID, &ev.GameID},
		{LabelEventType, &ev.EventType},
	} {
		v := get(req.label)
		if v == "" {
			return model.Event{}, &RowError{Row: rowNum, Field: req.label, Err: ErrMissingField}
		}
		*req.dst = v
	}

	start, err := n.timestamp(rowNum, LabelStart, get(LabelStart))
	if err != nil {
		return model.Event{}, err
	}
	end, err := n.timestamp(rowNum, LabelEnd, get(LabelEnd))
	if err != nil {
		return model.Event{}, err
	}
	ev.StartDate, ev.StartTime = start.Format(DateLayout), start.Format(ClockLayout)
	ev.EndDate, ev.EndTime = end.Format(DateLayout), end.Format(ClockLayout)

	ev.AgeRequirement = get(LabelAgeRequired)
	ev.ExperienceType = get(LabelExperience)
	ev.Duration = number(get(LabelDuration))
	ev.Cost = number(get(LabelCost))
	ev.TicketsAvailable = max(integer(get(LabelTickets)), 0)

	ev.GameSystem = get(LabelGameSystem)
	ev.Group = get(LabelGroup)
	ev.Location = get(LabelLocation)
	ev.Materials = get(LabelMaterialsDetails)
	ev.MaterialsRequired = yes(get(LabelMaterialsRequired))
	ev.DescriptionShort = get(LabelShortDescription)
	ev.DescriptionLong = get(LabelLongDescription)
	ev.GMNames = get(LabelGMNames)
	ev.Website = get(LabelWebsite)
	ev.Contact = get(LabelEmail)
	ev.Room = get(LabelRoom)

	ev.TableNum = integer(get(LabelTable))
	ev.PlayersMin = integer(get(LabelMinPlayers))
	ev.PlayersMax = integer(get(LabelMaxPlayers))
	ev.Round = integer(get(LabelRound))
	ev.RoundTotal = integer(get(LabelTotalRounds))
	ev.Tournament = yes(get(LabelTournament))

	return ev, nil
}

func (n *Normalizer) timestamp(rowNum int, label, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &RowError{Row: rowNum, Field: label, Err: ErrMissingField}
	}
	t, err := ParseTimestamp(raw, n.loc)
	if err != nil {
		return time.Time{}, &RowError{Row: rowNum, Field: label, Err: err}
	}
	return t, nil
}

// ParseTimestamp reads one of the export's timestamp layouts in loc.
// Values carrying an explicit offset are converted into loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &timestampError{raw: raw}
}

type timestampError struct{ raw string }

func (e *timestampError) Error() string { return ErrBadTimestamp.Error() + ": " + strconv.Quote(e.raw) }

func (e *timestampError) Unwrap() error { return ErrBadTimestamp }

// number parses a numeric cell; absent or non-numeric cells read as 0.
func number(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func integer(s string) int {
	return int(number(s))
}

// yes is true only for the literal "Yes".
func yes(s string) bool {
	return s == "Yes"
}
