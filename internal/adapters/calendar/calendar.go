// Package calendar exports catalog events as an iCalendar feed.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/normalize"
)

const (
	defaultProductID = "-//concal//Convention Catalog//EN"
	defaultName      = "Convention Events"
	defaultUIDDomain = "concal.local"

	eventLayout = normalize.DateLayout + " " + normalize.ClockLayout
)

// ErrBadEventTime is returned when an event's date or clock cannot be read back.
var ErrBadEventTime = errors.New("invalid event time")

// Exporter renders events into VEVENTs.
type Exporter struct {
	loc       *time.Location
	productID string
	name      string
	uidDomain string
	now       func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLocation sets the timezone event dates and clocks are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(x *Exporter) {
		if loc != nil {
			x.loc = loc
		}
	}
}

// WithName sets the X-WR-CALNAME of the feed.
func WithName(name string) Option {
	return func(x *Exporter) {
		if name != "" {
			x.name = name
		}
	}
}

// WithProductID overrides the PRODID of the feed.
func WithProductID(id string) Option {
	return func(x *Exporter) {
		if id != "" {
			x.productID = id
		}
	}
}

// WithUIDDomain sets the right-hand side of generated UIDs.
func WithUIDDomain(domain string) Option {
	return func(x *Exporter) {
		if domain != "" {
			x.uidDomain = domain
		}
	}
}

// WithClock sets the time source used for DTSTAMP.
func WithClock(now func() time.Time) Option {
	return func(x *Exporter) {
		if now != nil {
			x.now = now
		}
	}
}

// New creates an Exporter reading event times in the convention timezone.
func New(opts ...Option) *Exporter {
	x := &Exporter{
		loc:       time.UTC,
		productID: defaultProductID,
		name:      defaultName,
		uidDomain: defaultUIDDomain,
		now:       time.Now,
	}
	if loc, err := time.LoadLocation(normalize.DefaultTimezone); err == nil {
		x.loc = loc
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Calendar builds a calendar holding one VEVENT per event, in input order.
func (x *Exporter) Calendar(events []model.Event) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(x.productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(x.name)
	cal.SetXWRTimezone(x.loc.String())

	stamp := x.now()
	seen := make(map[string]int, len(events))
	for i := range events {
		ev := &events[i]
		start, err := x.parse(ev.StartDate, ev.StartTime)
		if err != nil {
			return nil, fmt.Errorf("event %d start: %w", ev.ID, err)
		}
		end, err := x.parse(ev.EndDate, ev.EndTime)
		if err != nil {
			return nil, fmt.Errorf("event %d end: %w", ev.ID, err)
		}

		uid := ev.GameID
		if seen[uid]++; seen[uid] > 1 {
			uid += "-" + strconv.Itoa(ev.ID)
		}
		vev := cal.AddEvent(uid + "@" + x.uidDomain)
		vev.SetDtStampTime(stamp)
		vev.SetStartAt(start)
		vev.SetEndAt(end)
		vev.SetSummary(ev.GameID + ": " + ev.Title)
		if d := description(ev); d != "" {
			vev.SetDescription(d)
		}
		if l := location(ev); l != "" {
			vev.SetLocation(l)
		}
		if ev.Website != "" {
			vev.SetURL(ev.Website)
		}
		if ev.EventType != "" {
			vev.AddCategory(ev.EventType)
		}
	}
	return cal, nil
}

// Write serializes the calendar for events to w.
func (x *Exporter) Write(w io.Writer, events []model.Event) error {
	cal, err := x.Calendar(events)
	if err != nil {
		return err
	}
	return cal.SerializeTo(w)
}

func (x *Exporter) parse(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(eventLayout, date+" "+clock, x.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadEventTime, date+" "+clock)
	}
	return t, nil
}

func description(ev *model.Event) string {
	var parts []string
	if ev.DescriptionShort != "" {
		parts = append(parts, ev.DescriptionShort)
	}
	if gms := ev.GMList(); len(gms) > 0 {
		parts = append(parts, "GM: "+strings.Join(gms, ", "))
	}
	if ev.Cost > 0 {
		parts = append(parts, "Cost: $"+strconv.FormatFloat(ev.Cost, 'f', -1, 64))
	}
	return strings.Join(parts, "\n")
}

func location(ev *model.Event) string {
	var parts []string
	for _, p := range []string{ev.Location, ev.Room} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if ev.TableNum > 0 {
		parts = append(parts, "Table "+strconv.Itoa(ev.TableNum))
	}
	return strings.Join(parts, ", ")
}
