// Package facet builds the per-dimension inverted indices over a catalog.
//
// Every labeled facet maps a label to the ascending list of event ids that
// carry it. Binary facets (materials, sold out, tournaments) are flat id
// lists. Events without a value for a facet are left out of that facet.
package facet

import (
	"strconv"
	"strings"

	"github.com/okian/concal/internal/domain/model"
)

// Name identifies a facet dimension.
type Name string

// Facet dimensions.
const (
	AgeRequirement    Name = "ageRequirement"
	Cost              Name = "cost"
	Duration          Name = "duration"
	EndDates          Name = "endDates"
	EndTimes          Name = "endTimes"
	EventTypes        Name = "eventTypes"
	ExperienceType    Name = "experienceType"
	GameSystems       Name = "gameSystems"
	Groups            Name = "groups"
	Locations         Name = "locations"
	MaterialsRequired Name = "materialsRequired"
	NoTickets         Name = "noTickets"
	StartDates        Name = "startDates"
	StartTimes        Name = "startTimes"
	Tournaments       Name = "tournaments"
)

// FlagLabel is the only label a binary facet answers to.
const FlagLabel = "yes"

// Labeled lists the label->ids facets.
var Labeled = []Name{
	AgeRequirement, Cost, Duration, EndDates, EndTimes, EventTypes, ExperienceType,
	GameSystems, Groups, Locations, StartDates, StartTimes,
}

// Flags lists the binary facets.
var Flags = []Name{MaterialsRequired, NoTickets, Tournaments}

// All lists every facet, labeled first.
func All() []Name {
	out := make([]Name, 0, len(Labeled)+len(Flags))
	out = append(out, Labeled...)
	return append(out, Flags...)
}

// IsFlag reports whether n is a binary facet.
func (n Name) IsFlag() bool {
	return n == MaterialsRequired || n == NoTickets || n == Tournaments
}

// Numeric reports whether labels of n render numbers.
func (n Name) Numeric() bool {
	return n == Cost || n == Duration
}

// Parse resolves a facet name, case-sensitively.
func Parse(s string) (Name, bool) {
	for _, n := range All() {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// LabelOf returns the label e is indexed under for facet n. ok is false when
// e carries no value for n (or, for a binary facet, the predicate is false).
func LabelOf(n Name, e *model.Event) (label string, ok bool) {
	switch n {
	case AgeRequirement:
		label = e.AgeRequirement
	case Cost:
		return formatNumber(e.Cost), true
	case Duration:
		if e.Duration == 0 {
			return "", false
		}
		return formatNumber(e.Duration), true
	case EndDates:
		label = e.EndDate
	case EndTimes:
		label = e.EndTime
	case EventTypes:
		label = e.EventType
	case ExperienceType:
		label = e.ExperienceType
	case GameSystems:
		label = strings.TrimSpace(strings.ReplaceAll(e.GameSystem, ":", ""))
	case Groups:
		label = e.Group
	case Locations:
		label = strings.ToUpper(e.Location)
	case StartDates:
		label = e.StartDate
	case StartTimes:
		label = e.StartTime
	case MaterialsRequired:
		return flag(e.Materials != "")
	case NoTickets:
		return flag(e.TicketsAvailable == 0)
	case Tournaments:
		return flag(e.Tournament)
	}
	return label, label != ""
}

func flag(set bool) (string, bool) {
	if set {
		return FlagLabel, true
	}
	return "", false
}

// formatNumber renders numbers the shortest way: 0, 4, 1.5.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
