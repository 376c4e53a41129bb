// Package model contains domain models passed between layers.
package model

import "strings"

// RawRow is one exported spreadsheet row: column key (or header label) to value.
// A missing key and an empty value are treated the same way.
type RawRow map[string]string

// Event is a normalized convention event. ID is the record's position in the
// catalog that produced it and never changes for that catalog.
type Event struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	GameID         string `json:"gameId"`
	EventType      string `json:"eventType"`
	AgeRequirement string `json:"ageRequirement,omitempty"`
	ExperienceType string `json:"experienceType,omitempty"`

	StartDate string `json:"startDate"` // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM, 24h
	EndDate   string `json:"endDate"`
	EndTime   string `json:"endTime"`

	Duration         float64 `json:"duration"` // hours
	Cost             float64 `json:"cost"`
	TicketsAvailable int     `json:"ticketsAvailable"`

	GameSystem        string `json:"gameSystem,omitempty"`
	Group             string `json:"group,omitempty"`
	Location          string `json:"location,omitempty"`
	Materials         string `json:"materials,omitempty"`
	MaterialsRequired bool   `json:"materialsRequired,omitempty"`
	DescriptionShort  string `json:"descriptionShort,omitempty"`
	DescriptionLong   string `json:"descriptionLong,omitempty"`
	GMNames           string `json:"gmNames,omitempty"`
	Website           string `json:"website,omitempty"`
	Contact           string `json:"contact,omitempty"`
	Room              string `json:"room,omitempty"`
	TableNum          int    `json:"tableNum,omitempty"`
	PlayersMin        int    `json:"playersMin,omitempty"`
	PlayersMax        int    `json:"playersMax,omitempty"`
	Round             int    `json:"round,omitempty"`
	RoundTotal        int    `json:"roundTotal,omitempty"`
	Tournament        bool   `json:"tournament"`

	// Conflicts is only set on copies returned by the conflict detector.
	Conflicts []int `json:"conflicts,omitempty"`
}

// MultiDay reports whether the event ends on a later calendar date than it starts.
func (e *Event) MultiDay() bool {
	return e.StartDate != e.EndDate
}

// GMList splits the GM names column into individual names.
func (e *Event) GMList() []string {
	if e.GMNames == "" {
		return nil
	}
	parts := strings.Split(e.GMNames, ", ")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
